package widgets

import (
	"github.com/taminomara/yuio-sub000/pkg/ui/compositor"
	"github.com/taminomara/yuio-sub000/pkg/ui/runtime"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
)

// Choice lets the user pick one option.
type Choice[T any] struct {
	grid   *Grid[T]
	keymap *runtime.Keymap[T]

	def        T
	hasDefault bool
}

// NewChoice creates a choice over options with the first one current.
func NewChoice[T any](options []Option[T]) *Choice[T] {
	c := &Choice[T]{grid: NewGrid(options)}

	c.keymap = runtime.NewKeymap[T]()
	bindGrid(c.keymap, c.grid)
	c.keymap.Bind("accept", func() runtime.Outcome[T] {
		if o, ok := c.grid.Current(); ok {
			return runtime.Stop(o.Value)
		}
		return runtime.Continue[T]()
	}, runtime.Key(terminal.KeyEnter))
	c.keymap.Bind("", func() runtime.Outcome[T] { return runtime.Cancel[T]() }, runtime.Key(terminal.KeyEscape))
	return c
}

// Grid gives access to the options and the current index.
func (c *Choice[T]) Grid() *Grid[T] {
	return c.grid
}

// WithDefault sets the value returned when the choice is cancelled.
func (c *Choice[T]) WithDefault(v T) *Choice[T] {
	c.def = v
	c.hasDefault = true
	return c
}

func (c *Choice[T]) Layout(rc *compositor.RenderContext) (int, int) {
	return c.grid.Layout(rc)
}

func (c *Choice[T]) Draw(rc *compositor.RenderContext) {
	c.grid.Draw(rc)
}

func (c *Choice[T]) Event(ev terminal.KeyboardEvent) runtime.Outcome[T] {
	return c.keymap.Dispatch(ev)
}

func (c *Choice[T]) Default() (T, bool) {
	return c.def, c.hasDefault
}

func (c *Choice[T]) Help() []runtime.HelpEntry {
	return c.keymap.Help()
}

// Multiselect lets the user pick any number of options.
type Multiselect[T any] struct {
	grid     *Grid[T]
	keymap   *runtime.Keymap[[]T]
	selected []bool
}

// NewMultiselect creates a multiselect over options with nothing selected.
func NewMultiselect[T any](options []Option[T]) *Multiselect[T] {
	m := &Multiselect[T]{
		grid:     NewGrid(options),
		selected: make([]bool, len(options)),
	}
	m.grid.selected = func(i int) bool {
		return i < len(m.selected) && m.selected[i]
	}

	m.keymap = runtime.NewKeymap[[]T]()
	bindGrid(m.keymap, m.grid)
	m.keymap.Bind("select", func() runtime.Outcome[[]T] {
		if i, ok := m.grid.Index(); ok {
			m.Toggle(i)
		}
		return runtime.Continue[[]T]()
	}, runtime.Rune(' '))
	m.keymap.Bind("accept", func() runtime.Outcome[[]T] {
		return runtime.Stop(m.Selected())
	}, runtime.Key(terminal.KeyEnter))
	m.keymap.Bind("", func() runtime.Outcome[[]T] { return runtime.Cancel[[]T]() }, runtime.Key(terminal.KeyEscape))
	return m
}

// Grid gives access to the options and the current index.
func (m *Multiselect[T]) Grid() *Grid[T] {
	return m.grid
}

// Toggle flips the selection of the i-th option.
func (m *Multiselect[T]) Toggle(i int) {
	if i >= 0 && i < len(m.selected) {
		m.selected[i] = !m.selected[i]
	}
}

// Selected returns the values of the selected options in option order.
func (m *Multiselect[T]) Selected() []T {
	values := []T{}
	for i, o := range m.grid.Options() {
		if i < len(m.selected) && m.selected[i] {
			values = append(values, o.Value)
		}
	}
	return values
}

// SelectedIndexes returns the indexes of the selected options in order.
func (m *Multiselect[T]) SelectedIndexes() []int {
	var idx []int
	for i, sel := range m.selected {
		if sel {
			idx = append(idx, i)
		}
	}
	return idx
}

func (m *Multiselect[T]) Layout(rc *compositor.RenderContext) (int, int) {
	return m.grid.Layout(rc)
}

func (m *Multiselect[T]) Draw(rc *compositor.RenderContext) {
	m.grid.Draw(rc)
}

func (m *Multiselect[T]) Event(ev terminal.KeyboardEvent) runtime.Outcome[[]T] {
	return m.keymap.Dispatch(ev)
}

func (m *Multiselect[T]) Help() []runtime.HelpEntry {
	return m.keymap.Help()
}
