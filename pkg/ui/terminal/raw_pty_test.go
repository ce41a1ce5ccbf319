//go:build linux || darwin

package terminal

import (
	"io"
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

func TestSessionOnPty(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	before, err := term.GetState(int(tty.Fd()))
	require.NoError(t, err)

	tm := Term{In: tty, Out: tty}
	s, err := Open(tm)
	require.NoError(t, err)

	_, err = ptmx.Write([]byte("\x1b[1;5C"))
	require.NoError(t, err)

	ev, err := s.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, KeyboardEvent{Key: KeyRight, Ctrl: true}, ev)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "close is idempotent")

	after, err := term.GetState(int(tty.Fd()))
	require.NoError(t, err)
	assert.Equal(t, before, after, "terminal mode restored")

	// The session lock was released, so a second session can open.
	s2, err := Open(tm)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestOpenRejectsNonTerminal(t *testing.T) {
	r, w := io.Pipe()
	defer r.Close()
	defer w.Close()

	_, err := Open(Term{In: r, Out: w})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RAW_MODE_UNAVAILABLE")
}
