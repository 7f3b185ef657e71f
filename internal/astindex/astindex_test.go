package astindex

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/lci/internal/docsource"
	"github.com/standardbeagle/lci/internal/grammar"
	"github.com/standardbeagle/lci/internal/indexerrors"
)

// TestMain guards against goroutine leaks from candidateKeys' errgroup
// fan-out, matching the teacher's own per-package goleak setup.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeAdapter is a minimal grammar.Adapter: it treats each non-empty line
// of text as the name of a function declared on just that line,
// and a single usage at line 0 referencing the first declared name. This
// is enough to exercise AddOrUpdate, Remove, and the query pipeline
// without depending on a real tree-sitter grammar in tests.
type fakeAdapter struct{}

func (fakeAdapter) Language() string { return "fake" }

func (fakeAdapter) ParseDeclarations(text []byte, filePath string, read grammar.ContentReader) (map[string]grammar.Declaration, error) {
	out := make(map[string]grammar.Declaration)
	row := 0
	for _, name := range splitNonEmptyLines(string(text)) {
		r := grammar.Range{
			Start: grammar.Position{Row: row},
			End:   grammar.Position{Row: row},
		}
		out[name] = grammar.Declaration{
			SymbolPath:     name,
			Name:           name,
			Kind:           grammar.KindFunction,
			DefinitionInfo: grammar.NewDefinitionInfo(filePath, r, read),
		}
		row++
	}
	return out, nil
}

func (fakeAdapter) ParseUsages(text []byte) ([]grammar.Usage, error) {
	names := splitNonEmptyLines(string(text))
	if len(names) == 0 {
		return nil, nil
	}
	return []grammar.Usage{
		{
			SymbolPath:      fmt.Sprintf("usage@0:0#%s", names[0]),
			OccurrenceRange: grammar.Range{Start: grammar.Position{Row: 0}, End: grammar.Position{Row: 0}},
			ReferencedName:  names[0],
		},
	}, nil
}

func splitNonEmptyLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '\n' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

type failingAdapter struct{}

func (failingAdapter) Language() string { return "failing" }
func (failingAdapter) ParseDeclarations(text []byte, filePath string, read grammar.ContentReader) (map[string]grammar.Declaration, error) {
	return nil, fmt.Errorf("parse exploded")
}
func (failingAdapter) ParseUsages(text []byte) ([]grammar.Usage, error) { return nil, nil }

func newTestRegistry() *grammar.Registry {
	r := grammar.NewRegistry()
	r.Register(".fake", func() (grammar.Adapter, error) { return fakeAdapter{}, nil })
	r.Register(".fail", func() (grammar.Adapter, error) { return failingAdapter{}, nil })
	return r
}

func TestAddOrUpdateIndexesDeclarationsAndUsages(t *testing.T) {
	idx := New(newTestRegistry())
	doc := docsource.NewInMemoryDocument("a.fake", "alpha\nbeta\n")

	require.NoError(t, idx.AddOrUpdate(context.Background(), doc))
	require.Equal(t, StateIndexed, idx.State("a.fake"))

	decls, err := idx.SymbolsByFile(doc)
	require.NoError(t, err)
	require.Len(t, decls, 2)

	paths := idx.IndexedSymbolPaths()
	require.Contains(t, paths, "alpha")
	require.Contains(t, paths, "beta")
}

func TestAddOrUpdateUnsupportedExtension(t *testing.T) {
	idx := New(newTestRegistry())
	doc := docsource.NewInMemoryDocument("a.rs", "fn main() {}\n")

	err := idx.AddOrUpdate(context.Background(), doc)
	require.Error(t, err)

	var updateErr *indexerrors.UpdateError
	require.ErrorAs(t, err, &updateErr)
	require.Equal(t, indexerrors.KindUnsupportedLanguage, updateErr.Kind)
}

func TestAddOrUpdateParseErrorLeavesIndexUnchanged(t *testing.T) {
	idx := New(newTestRegistry())
	good := docsource.NewInMemoryDocument("a.fake", "alpha\n")
	require.NoError(t, idx.AddOrUpdate(context.Background(), good))

	bad := docsource.NewInMemoryDocument("b.fail", "anything\n")
	err := idx.AddOrUpdate(context.Background(), bad)
	require.Error(t, err)
	require.Equal(t, StateAbsent, idx.State("b.fail"))

	// the previously indexed file is untouched
	require.Equal(t, StateIndexed, idx.State("a.fake"))
}

func TestAddOrUpdateReplacementIsAtomic(t *testing.T) {
	idx := New(newTestRegistry())
	doc := docsource.NewInMemoryDocument("a.fake", "alpha\nbeta\n")
	require.NoError(t, idx.AddOrUpdate(context.Background(), doc))

	doc2 := docsource.NewInMemoryDocument("a.fake", "gamma\n")
	require.NoError(t, idx.AddOrUpdate(context.Background(), doc2))

	paths := idx.IndexedSymbolPaths()
	require.NotContains(t, paths, "alpha")
	require.NotContains(t, paths, "beta")
	require.Contains(t, paths, "gamma")
}

func TestRemoveDropsFileFromGlobalMaps(t *testing.T) {
	idx := New(newTestRegistry())
	doc := docsource.NewInMemoryDocument("a.fake", "alpha\n")
	require.NoError(t, idx.AddOrUpdate(context.Background(), doc))

	idx.Remove(doc)

	require.Equal(t, StateAbsent, idx.State("a.fake"))
	require.NotContains(t, idx.IndexedSymbolPaths(), "alpha")

	_, err := idx.SymbolsByFile(doc)
	require.Error(t, err)
}

func TestSymbolsByFileNotIndexed(t *testing.T) {
	idx := New(newTestRegistry())
	_, err := idx.SymbolsByFile(docsource.NewInMemoryDocument("never.fake", ""))
	require.Error(t, err)

	var notIndexed *indexerrors.NotIndexedError
	require.ErrorAs(t, err, &notIndexed)
}

func TestSearchDeclarationsRanksExactMatchFirst(t *testing.T) {
	idx := New(newTestRegistry())
	require.NoError(t, idx.AddOrUpdate(context.Background(), docsource.NewInMemoryDocument("a.fake", "parseRequest\nparseResponse\nunrelatedThing\n")))

	results, err := idx.SearchDeclarations(context.Background(), "parseRequest", 10, nil)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Equal(t, "parseRequest", results[0].Declaration.SymbolPath)
}

func TestSearchDeclarationsExceptsCallingFile(t *testing.T) {
	idx := New(newTestRegistry())
	docA := docsource.NewInMemoryDocument("a.fake", "sharedName\n")
	docB := docsource.NewInMemoryDocument("b.fake", "sharedName\n")
	require.NoError(t, idx.AddOrUpdate(context.Background(), docA))
	require.NoError(t, idx.AddOrUpdate(context.Background(), docB))

	results, err := idx.SearchDeclarations(context.Background(), "sharedName", 10, docA)
	require.NoError(t, err)
	for _, r := range results {
		require.NotEqual(t, "a.fake", r.Declaration.DefinitionInfo.FilePath)
	}
}

func TestSearchUsagesResolvesToDeclaration(t *testing.T) {
	idx := New(newTestRegistry())
	require.NoError(t, idx.AddOrUpdate(context.Background(), docsource.NewInMemoryDocument("a.fake", "target\n")))

	results, err := idx.SearchUsages(context.Background(), "target", 10, nil)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Equal(t, "target", results[0].Declaration.SymbolPath)
}
