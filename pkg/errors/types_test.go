package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeValueRequired, "no value given")

	require.NotNil(t, err)
	assert.Equal(t, ErrCodeValueRequired, err.Code)
	assert.Equal(t, "no value given", err.Message)
	assert.Nil(t, err.Underlying)
	assert.NotEmpty(t, err.Stack, "stack should be captured")
	assert.Equal(t, "[VALUE_REQUIRED] no value given", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCodeThemeInvalid, "unknown color %q", "pink")
	assert.Equal(t, `unknown color "pink"`, err.Message)
	assert.NotEmpty(t, err.Stack)
}

func TestWrap(t *testing.T) {
	underlying := errors.New("inappropriate ioctl for device")
	err := Wrap(underlying, ErrCodeRawModeUnavailable, "failed to enter raw mode")

	require.NotNil(t, err)
	assert.Same(t, underlying, err.Underlying)
	assert.True(t, errors.Is(err, underlying))
	assert.Contains(t, err.Error(), "inappropriate ioctl")
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "test"))
}

func TestWithContext(t *testing.T) {
	err := New(ErrCodeConfigInvalid, "bad config").
		WithContext("path", "yuio.yaml").
		WithContext("field", "terminal.color")

	assert.Equal(t, "yuio.yaml", err.Context["path"])
	// Keys are sorted so the message is stable.
	assert.Equal(t, "[CONFIG_INVALID] bad config {field: terminal.color, path: yuio.yaml}", err.Error())
}

func TestWithRemediation(t *testing.T) {
	err := New(ErrCodeNotInteractive, "stdin is not a terminal").
		WithRemediation("run the command in a terminal")
	assert.Equal(t, []string{"run the command in a terminal"}, err.Remediation)

	err.WithRemediation()
	assert.Len(t, err.Remediation, 1)
}

func TestCodeHelpers(t *testing.T) {
	base := New(ErrCodeInterrupted, "interrupted")
	wrapped := fmt.Errorf("ask: %w", base)

	t.Run("is code through wrapping", func(t *testing.T) {
		assert.True(t, IsCode(wrapped, ErrCodeInterrupted))
		assert.False(t, IsCode(wrapped, ErrCodeValueRequired))
		assert.False(t, IsCode(nil, ErrCodeInterrupted))
	})

	t.Run("get code", func(t *testing.T) {
		assert.Equal(t, ErrCodeInterrupted, GetCode(wrapped))
		assert.Equal(t, ErrCodeInternal, GetCode(errors.New("plain")))
		assert.Equal(t, ErrorCode(""), GetCode(nil))
	})

	t.Run("errors.Is matches by code", func(t *testing.T) {
		sentinel := New(ErrCodeInterrupted, "")
		assert.True(t, errors.Is(wrapped, sentinel))
		assert.False(t, errors.Is(wrapped, New(ErrCodeCommandFailed, "")))
	})

	t.Run("errors.As", func(t *testing.T) {
		var e *Error
		require.True(t, errors.As(wrapped, &e))
		assert.Equal(t, "interrupted", e.Message)
	})
}

func TestStackTrace(t *testing.T) {
	err := New(ErrCodeInternal, "boom")
	trace := err.StackTrace()
	assert.True(t, strings.HasPrefix(trace, "Stack trace:\n"))
	assert.Contains(t, trace, "TestStackTrace")

	tests := []struct {
		name string
		err  *Error
	}{
		{"new", New(ErrCodeInternal, "boom")},
		{"newf", Newf(ErrCodeInternal, "boom %d", 1)},
		{"wrap", Wrap(errors.New("cause"), ErrCodeInternal, "boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotEmpty(t, tt.err.Stack)
			top := tt.err.Stack[0]
			assert.True(t, strings.HasSuffix(top.Function, ".TestStackTrace"), top.Function)
			assert.True(t, strings.HasSuffix(top.File, "types_test.go"), top.File)
			assert.Positive(t, top.Line)
		})
	}
}
