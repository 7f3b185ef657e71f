package indexerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUnsupportedLanguage(t *testing.T) {
	cause := errors.New("boom")
	err := NewUnsupportedLanguage("main.rs", cause)

	require.Equal(t, KindUnsupportedLanguage, err.Kind)
	require.Equal(t, "main.rs", err.FilePath)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "unsupported_language")
	require.Contains(t, err.Error(), "main.rs")
}

func TestNewIOError(t *testing.T) {
	err := NewIOError("main.go", errors.New("permission denied"))
	require.Equal(t, KindIOError, err.Kind)
	require.Contains(t, err.Error(), "io_error")
}

func TestNewParseError(t *testing.T) {
	err := NewParseError("main.go", errors.New("unexpected token"))
	require.Equal(t, KindParseError, err.Kind)
	require.Contains(t, err.Error(), "parse_error")
}

func TestUpdateErrorWithoutUnderlying(t *testing.T) {
	err := &UpdateError{Kind: KindAdapterInternal, FilePath: "x.go"}
	require.Equal(t, "adapter_internal: x.go", err.Error())
	require.NoError(t, err.Unwrap())
}

func TestNotIndexedError(t *testing.T) {
	err := NewNotIndexed("main.go")
	require.Equal(t, "main.go", err.FilePath)
	require.Contains(t, err.Error(), "not_indexed")
}
