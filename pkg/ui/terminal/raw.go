package terminal

import (
	"io"
	"sync"

	"golang.org/x/term"

	apperrors "github.com/taminomara/yuio-sub000/pkg/errors"
)

const (
	enableBracketedPaste  = "\x1b[?2004h"
	disableBracketedPaste = "\x1b[?2004l"
)

// rawMu is held for as long as a Session is open.
var rawMu sync.Mutex

// Session is an exclusive raw-mode session on a terminal. Only one session
// may be open at a time; Open blocks until the previous one is closed.
type Session struct {
	out     io.Writer
	fd      int
	state   *term.State
	decoder *Decoder
	once    sync.Once
}

// Open puts the terminal's input into raw mode and enables bracketed
// paste. The caller must Close the session on every exit path.
func Open(t Term) (*Session, error) {
	f, ok := t.In.(fdFile)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil, apperrors.New(apperrors.ErrCodeRawModeUnavailable, "input is not a terminal")
	}
	fd := int(f.Fd())

	rawMu.Lock()
	state, err := term.MakeRaw(fd)
	if err != nil {
		rawMu.Unlock()
		return nil, apperrors.Wrap(err, apperrors.ErrCodeRawModeUnavailable, "failed to enter raw mode")
	}
	if err := keepOutputProcessing(fd); err != nil {
		_ = term.Restore(fd, state)
		rawMu.Unlock()
		return nil, apperrors.Wrap(err, apperrors.ErrCodeRawModeUnavailable, "failed to configure output mode")
	}
	if _, err := io.WriteString(t.Out, enableBracketedPaste); err != nil {
		_ = term.Restore(fd, state)
		rawMu.Unlock()
		return nil, apperrors.Wrap(err, apperrors.ErrCodeRawModeUnavailable, "failed to enable bracketed paste")
	}

	return &Session{
		out:     t.Out,
		fd:      fd,
		state:   state,
		decoder: NewDecoder(t.In),
	}, nil
}

// ReadEvent blocks until the next keyboard event.
func (s *Session) ReadEvent() (KeyboardEvent, error) {
	return s.decoder.Next()
}

// Close disables bracketed paste and restores the terminal mode.
// It is safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		defer rawMu.Unlock()
		_, _ = io.WriteString(s.out, disableBracketedPaste)
		err = term.Restore(s.fd, s.state)
	})
	return err
}
