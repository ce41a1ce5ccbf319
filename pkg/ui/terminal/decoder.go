package terminal

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	pasteStart = "\x1b[200~"
	pasteEnd   = "\x1b[201~"
)

// Decoder turns raw terminal input into keyboard events.
//
// Input is consumed in chunks, one per Read. An escape byte that ends a
// chunk is reported as the Escape key, since a terminal sends an escape
// sequence in a single write. Incomplete CSI parameters, UTF-8 sequences
// and bracketed pastes carry over to the next chunk.
type Decoder struct {
	r       io.Reader
	chunk   []byte
	buf     []byte
	pending []KeyboardEvent
	inPaste bool
	err     error
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:     r,
		chunk: make([]byte, 1024),
		buf:   make([]byte, 0, 256),
	}
}

// Next blocks until the next event is decoded. It returns io.EOF when the
// stream ends, including when it ends in the middle of a sequence.
func (d *Decoder) Next() (KeyboardEvent, error) {
	for len(d.pending) == 0 {
		if d.err != nil {
			return KeyboardEvent{}, d.err
		}
		n, err := d.r.Read(d.chunk)
		if n > 0 {
			d.pending = append(d.pending, d.Feed(d.chunk[:n])...)
		}
		if err != nil {
			d.err = err
		}
	}
	ev := d.pending[0]
	d.pending = d.pending[1:]
	return ev, nil
}

// Feed decodes one chunk of input and returns the events it completes.
func (d *Decoder) Feed(chunk []byte) []KeyboardEvent {
	d.buf = append(d.buf, chunk...)

	var events []KeyboardEvent
	consumed := d.parse(d.buf, func(ev KeyboardEvent) {
		events = append(events, ev)
	})

	if consumed >= len(d.buf) {
		d.buf = d.buf[:0]
	} else {
		n := copy(d.buf, d.buf[consumed:])
		d.buf = d.buf[:n]
	}
	return events
}

// parse decodes as much of data as possible and returns the number of
// bytes consumed. It stops before an incomplete sequence.
func (d *Decoder) parse(data []byte, emit func(KeyboardEvent)) int {
	i := 0
	n := len(data)

	for i < n {
		if d.inPaste {
			end := bytes.Index(data[i:], []byte(pasteEnd))
			if end < 0 {
				return i
			}
			emit(KeyboardEvent{Key: KeyPaste, PasteStr: string(data[i : i+end])})
			d.inPaste = false
			i += end + len(pasteEnd)
			continue
		}

		b := data[i]

		// Fast path: printable ASCII
		if b >= 0x20 && b < 0x7f {
			emit(Char(rune(b)))
			i++
			continue
		}

		if b == 0x1b {
			consumed := d.parseEscape(data[i:], emit)
			if consumed == 0 {
				return i
			}
			i += consumed
			continue
		}

		if b < 0x20 || b == 0x7f {
			emit(controlEvent(b))
			i++
			continue
		}

		consumed, ev, ok := decodeRune(data[i:])
		if consumed == 0 {
			return i
		}
		if ok {
			emit(ev)
		}
		i += consumed
	}
	return i
}

// parseEscape decodes a sequence starting with ESC. It returns 0 when
// more input is needed.
func (d *Decoder) parseEscape(data []byte, emit func(KeyboardEvent)) int {
	if len(data) == 1 {
		emit(Named(KeyEscape))
		return 1
	}

	switch data[1] {
	case 0x1b:
		// ESC ESC [ and ESC ESC O are sequences with an Alt prefix.
		if len(data) >= 3 && (data[2] == '[' || data[2] == 'O') {
			if len(data) == 3 {
				return 0
			}
			consumed := d.parseEscape(data[1:], func(ev KeyboardEvent) {
				ev.Alt = true
				emit(ev)
			})
			if consumed == 0 {
				return 0
			}
			return consumed + 1
		}
		emit(KeyboardEvent{Key: KeyEscape, Alt: true})
		return 2

	case '[':
		if len(data) == 2 {
			emit(Alt('['))
			return 2
		}
		return d.parseCSI(data, emit)

	case 'O':
		if len(data) == 2 {
			emit(Alt('O'))
			return 2
		}
		if key, ok := ss3Keys[data[2]]; ok {
			emit(Named(key))
		}
		return 3
	}

	if data[1] < 0x20 || data[1] == 0x7f {
		ev := controlEvent(data[1])
		ev.Alt = true
		emit(ev)
		return 2
	}

	consumed, ev, ok := decodeRune(data[1:])
	if consumed == 0 {
		return 0
	}
	if ok {
		ev.Alt = true
		emit(ev)
	}
	return consumed + 1
}

// parseCSI decodes ESC [ params final.
func (d *Decoder) parseCSI(data []byte, emit func(KeyboardEvent)) int {
	end := 2
	for end < len(data) {
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if b < 0x20 || b > 0x3f {
			// Not a valid CSI byte: drop what we have so far.
			return end
		}
		end++
	}
	if end >= len(data) {
		return 0
	}

	params := string(data[2:end])
	final := data[end]
	consumed := end + 1

	if final == '~' && params == "200" {
		d.inPaste = true
		return consumed
	}

	if ev, ok := decodeCSI(params, final); ok {
		emit(ev)
	}
	return consumed
}

var csiTildeKeys = map[string]Key{
	"1":  KeyHome,
	"2":  KeyInsert,
	"3":  KeyDelete,
	"4":  KeyEnd,
	"5":  KeyPageUp,
	"6":  KeyPageDown,
	"7":  KeyHome,
	"8":  KeyEnd,
	"11": KeyF1,
	"12": KeyF2,
	"13": KeyF3,
	"14": KeyF4,
	"15": KeyF5,
	"17": KeyF6,
	"18": KeyF7,
	"19": KeyF8,
	"20": KeyF9,
	"21": KeyF10,
	"23": KeyF11,
	"24": KeyF12,
}

var csiLetterKeys = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'F': KeyEnd,
	'H': KeyHome,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
	'Z': KeyTab,
}

var ss3Keys = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'F': KeyEnd,
	'H': KeyHome,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
}

// decodeCSI maps "code;modifier~" and "1;modifier<letter>" sequences.
func decodeCSI(params string, final byte) (KeyboardEvent, bool) {
	code, mod := params, ""
	if i := strings.IndexByte(params, ';'); i >= 0 {
		code, mod = params[:i], params[i+1:]
	}

	var key Key
	var ok bool
	if final == '~' {
		if code == "" {
			code = "1"
		}
		key, ok = csiTildeKeys[code]
	} else {
		key, ok = csiLetterKeys[final]
		if mod == "" && code != "" && code != "1" {
			// Some terminals send the modifier without the leading "1;".
			mod = code
		}
	}
	if !ok {
		return KeyboardEvent{}, false
	}

	ev := Named(key)
	if final == 'Z' {
		ev.Shift = true
	}
	if mod != "" {
		m, err := strconv.Atoi(mod)
		if err != nil || m < 1 {
			return KeyboardEvent{}, false
		}
		m--
		ev.Shift = ev.Shift || m&1 != 0
		ev.Alt = ev.Alt || m&2 != 0
		ev.Ctrl = ev.Ctrl || m&4 != 0
	}
	return ev, true
}

// controlEvent maps C0 control bytes and DEL.
func controlEvent(b byte) KeyboardEvent {
	switch {
	case b == 0x09:
		return Named(KeyTab)
	case b == 0x0a || b == 0x0d:
		return Named(KeyEnter)
	case b == 0x7f:
		return Named(KeyBackspace)
	case b == 0x00:
		return Ctrl(' ')
	case b == 0x1b:
		return Named(KeyEscape)
	case b >= 0x01 && b <= 0x1a:
		return Ctrl(rune('a' + b - 1))
	default: // 0x1c..0x1f
		return Ctrl(rune('4' + b - 0x1c))
	}
}

// decodeRune decodes one UTF-8 character. It returns 0 bytes consumed when
// the sequence is incomplete, and ok=false for characters that should not
// produce an event.
func decodeRune(data []byte) (int, KeyboardEvent, bool) {
	if !utf8.FullRune(data) {
		return 0, KeyboardEvent{}, false
	}
	r, size := utf8.DecodeRune(data)
	if r == utf8.RuneError && size <= 1 {
		return 1, Char(utf8.RuneError), true
	}
	if unicode.IsControl(r) {
		return size, KeyboardEvent{}, false
	}
	return size, Char(r), true
}
