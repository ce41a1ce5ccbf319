package theme

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/taminomara/yuio-sub000/pkg/errors"
	"github.com/taminomara/yuio-sub000/pkg/ui/color"
	"github.com/taminomara/yuio-sub000/pkg/ui/text"
)

// File is the on-disk theme format. Unset fields keep the theme's values.
//
// Colors map a path to a space-separated list of paths and "#rrggbb"
// foreground colors, combined left to right:
//
//	colors:
//	  accent_color: "#a01e9c"
//	  task/heading: bold accent_color
type File struct {
	ProgressBarWidth          *int              `yaml:"progress_bar_width"`
	ProgressBarStartSymbol    *string           `yaml:"progress_bar_start_symbol"`
	ProgressBarEndSymbol      *string           `yaml:"progress_bar_end_symbol"`
	ProgressBarDoneSymbol     *string           `yaml:"progress_bar_done_symbol"`
	ProgressBarInflightSymbol *string           `yaml:"progress_bar_inflight_symbol"`
	ProgressBarPendingSymbol  *string           `yaml:"progress_bar_pending_symbol"`
	SpinnerPattern            *string           `yaml:"spinner_pattern"`
	SpinnerUpdateRateMs       *int              `yaml:"spinner_update_rate_ms"`
	SpinnerStaticSymbol       *string           `yaml:"spinner_static_symbol"`
	MsgDecorations            map[string]string `yaml:"msg_decorations"`
	Colors                    map[string]string `yaml:"colors"`
}

// LoadFile reads a theme file and applies it on top of t.
func (t *Theme) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeThemeInvalid, "failed to open theme").
			WithContext("path", path)
	}
	defer f.Close()

	if err := t.Load(f); err != nil {
		return fmt.Errorf("theme %s: %w", path, err)
	}
	return nil
}

// Load reads a theme in YAML form and applies it on top of t. Colors go
// into the user layer.
func (t *Theme) Load(r io.Reader) error {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return apperrors.Wrap(err, apperrors.ErrCodeThemeInvalid, "failed to parse theme")
	}
	return t.Apply(file)
}

// Apply validates a theme file and applies it. Nothing is applied when
// validation fails.
func (t *Theme) Apply(file File) error {
	colors := make(map[string]Spec, len(file.Colors))
	for path, value := range file.Colors {
		spec, err := ParseSpec(value)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeThemeInvalid, "invalid color").
				WithContext("path", path)
		}
		colors[path] = spec
	}

	if file.ProgressBarWidth != nil && *file.ProgressBarWidth < 1 {
		return apperrors.New(apperrors.ErrCodeThemeInvalid, "progress_bar_width must be positive")
	}
	if file.SpinnerUpdateRateMs != nil && *file.SpinnerUpdateRateMs < 1 {
		return apperrors.New(apperrors.ErrCodeThemeInvalid, "spinner_update_rate_ms must be positive")
	}
	if file.SpinnerPattern != nil && *file.SpinnerPattern == "" {
		return apperrors.New(apperrors.ErrCodeThemeInvalid, "spinner_pattern must not be empty")
	}

	s := t.Symbols(true)
	if file.ProgressBarWidth != nil {
		s.ProgressBarWidth = *file.ProgressBarWidth
	}
	if file.ProgressBarStartSymbol != nil {
		s.ProgressBarStart = *file.ProgressBarStartSymbol
	}
	if file.ProgressBarEndSymbol != nil {
		s.ProgressBarEnd = *file.ProgressBarEndSymbol
	}
	if file.ProgressBarDoneSymbol != nil {
		s.ProgressBarDone = *file.ProgressBarDoneSymbol
	}
	if file.ProgressBarInflightSymbol != nil {
		s.ProgressBarInflight = *file.ProgressBarInflightSymbol
	}
	if file.ProgressBarPendingSymbol != nil {
		s.ProgressBarPending = *file.ProgressBarPendingSymbol
	}
	if file.SpinnerPattern != nil {
		s.SpinnerPattern = text.Graphemes(*file.SpinnerPattern)
	}
	if file.SpinnerUpdateRateMs != nil {
		s.SpinnerUpdateRate = time.Duration(*file.SpinnerUpdateRateMs) * time.Millisecond
	}
	if file.SpinnerStaticSymbol != nil {
		s.SpinnerStatic = *file.SpinnerStaticSymbol
	}
	t.SetSymbols(s)

	for name, d := range file.MsgDecorations {
		t.SetMsgDecoration(name, d, "")
	}
	for path, spec := range colors {
		t.SetColor(path, spec)
	}
	return nil
}

// ParseSpec parses a space-separated list of paths and "#rrggbb" colors.
func ParseSpec(value string) (Spec, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty color %q", value)
	}
	spec := make(Spec, 0, len(fields))
	for _, f := range fields {
		if strings.HasPrefix(f, "#") {
			v, err := color.ParseHex(f)
			if err != nil {
				return nil, err
			}
			spec = append(spec, Item{Color: color.Fore(v)})
			continue
		}
		spec = append(spec, Item{Ref: f})
	}
	return spec, nil
}
