package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(InvalidInput, "bad value")

	require.Error(t, err)
	assert.Equal(t, "[InvalidInput] bad value", err.Error())

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, InvalidInput, appErr.Type())
	assert.Equal(t, "bad value", appErr.Message())
	assert.NotEmpty(t, appErr.Stack())
}

func TestWrap(t *testing.T) {
	t.Run("preserves the cause chain", func(t *testing.T) {
		cause := stderrors.New("disk full")
		err := Wrap(cause, System, "write failed")

		assert.Equal(t, "[System] write failed: disk full", err.Error())
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, cause, RootCause(err))
	})

	t.Run("nil cause returns nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, System, "ignored"))
		assert.NoError(t, Wrapf(nil, System, "ignored %d", 1))
	})
}

func TestIs(t *testing.T) {
	inner := New(InvalidInput, "inner")
	outer := Wrap(inner, ExecutionFailed, "outer")

	assert.True(t, Is(outer, ExecutionFailed))
	assert.True(t, Is(outer, InvalidInput))
	assert.False(t, Is(outer, System))
	assert.False(t, Is(nil, System))
}

func TestUnderlyingType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, Unknown},
		{"plain error", stderrors.New("x"), Unknown},
		{"single app error", New(Timeout, "t"), Timeout},
		{"wrapped app error", Wrap(New(NotFound, "n"), Internal, "i"), NotFound},
		{"wrapped external error", Wrap(stderrors.New("x"), ParsingFailed, "p"), ParsingFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnderlyingType(tt.err))
		})
	}
}

func TestFormat(t *testing.T) {
	err := Wrap(New(InvalidInput, "inner"), System, "outer")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "[System] outer")
	assert.Contains(t, detailed, "Caused by:")
	assert.Contains(t, detailed, "[InvalidInput] inner")
	assert.Contains(t, detailed, "Stack trace:")

	assert.Equal(t, err.Error(), fmt.Sprintf("%v", err))
	assert.Equal(t, fmt.Sprintf("%q", err.Error()), fmt.Sprintf("%q", err))
}
