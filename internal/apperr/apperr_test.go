package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindNotFound, KindOf(New(KindNotFound, "gone")))
	require.Equal(t, KindStorage, KindOf(errors.New("plain")), "untyped errors default to storage")
}

func TestKindOfWrapped(t *testing.T) {
	inner := New(KindConflict, "duplicate")
	outer := fmt.Errorf("adding participant: %w", inner)
	require.Equal(t, KindConflict, KindOf(outer))
	require.True(t, Is(outer, KindConflict))
}

func TestMessageOf(t *testing.T) {
	require.Equal(t, "gone", MessageOf(New(KindNotFound, "gone")))
	require.Equal(t, "internal error", MessageOf(errors.New("sql: connection refused")),
		"untyped errors must not leak their text")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(KindUpstream, "Transcription failed", cause)

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "upstream")
	require.Contains(t, err.Error(), "Transcription failed")
	require.Equal(t, "Transcription failed", MessageOf(err))
}
