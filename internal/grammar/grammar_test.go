package grammar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRangeEncloses(t *testing.T) {
	outer := Range{Start: Position{Row: 0}, End: Position{Row: 10}}
	inner := Range{Start: Position{Row: 2}, End: Position{Row: 4}}
	sibling := Range{Start: Position{Row: 11}, End: Position{Row: 12}}

	require.True(t, outer.Encloses(inner))
	require.False(t, inner.Encloses(outer))
	require.False(t, outer.Encloses(sibling))
}

func TestRangeRowSpan(t *testing.T) {
	require.Equal(t, 5, Range{Start: Position{Row: 3}, End: Position{Row: 8}}.RowSpan())
	require.Equal(t, 0, Range{Start: Position{Row: 8}, End: Position{Row: 3}}.RowSpan())
}

func TestDefinitionInfoContent(t *testing.T) {
	read := func() (string, error) { return "hello", nil }
	di := NewDefinitionInfo("a.go", Range{}, read)
	content, err := di.Content()
	require.NoError(t, err)
	require.Equal(t, "hello", content)
}

func TestDefinitionInfoContentNoReader(t *testing.T) {
	di := DefinitionInfo{FilePath: "a.go"}
	_, err := di.Content()
	require.Error(t, err)
}

func TestUsageHasDeclaration(t *testing.T) {
	u := Usage{SymbolPath: "usage@1:1#foo"}
	require.False(t, u.HasDeclaration())
	u.DeclarationSymbolPath = "foo"
	require.True(t, u.HasDeclaration())
}

type stubAdapter struct{ lang string }

func (s stubAdapter) Language() string { return s.lang }
func (s stubAdapter) ParseDeclarations(text []byte, filePath string, read ContentReader) (map[string]Declaration, error) {
	return nil, nil
}
func (s stubAdapter) ParseUsages(text []byte) ([]Usage, error) { return nil, nil }

func TestRegistryByFilename(t *testing.T) {
	r := NewRegistry()
	r.Register(".go", func() (Adapter, error) { return stubAdapter{lang: "go"}, nil })

	adapter, err := r.ByFilename("/tmp/main.go")
	require.NoError(t, err)
	require.Equal(t, "go", adapter.Language())
}

func TestRegistryByFilenameUnsupported(t *testing.T) {
	r := NewRegistry()
	_, err := r.ByFilename("/tmp/main.rs")
	require.Error(t, err)

	var unsupported *ErrUnsupportedLanguage
	require.True(t, errors.As(err, &unsupported))
	require.Equal(t, ".rs", unsupported.Extension)
}

func TestRegistryByFilenameNoExtension(t *testing.T) {
	r := NewRegistry()
	_, err := r.ByFilename("/tmp/Makefile")
	require.Error(t, err)
}

func TestRegistryByFilenameConstructionFailure(t *testing.T) {
	r := NewRegistry()
	constructErr := errors.New("grammar library failed to load")
	r.Register(".go", func() (Adapter, error) { return nil, constructErr })

	_, err := r.ByFilename("/tmp/main.go")
	require.Error(t, err)

	var unsupported *ErrUnsupportedLanguage
	require.True(t, errors.As(err, &unsupported))
	require.Equal(t, ".go", unsupported.Extension)
	require.ErrorIs(t, err, constructErr)
}

func TestRegistryReturnsFreshInstance(t *testing.T) {
	calls := 0
	r := NewRegistry()
	r.Register(".go", func() (Adapter, error) {
		calls++
		return stubAdapter{lang: "go"}, nil
	})

	_, err := r.ByFilename("a.go")
	require.NoError(t, err)
	_, err = r.ByFilename("b.go")
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
