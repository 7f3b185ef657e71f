// Package astindex implements the AST Index: an in-memory, incrementally
// maintained, dual-layer searchable structure mapping symbol paths to
// declaration and usage records, per spec.md §3-4.3.
package astindex

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/lci/internal/debug"
	"github.com/standardbeagle/lci/internal/docsource"
	"github.com/standardbeagle/lci/internal/grammar"
	"github.com/standardbeagle/lci/internal/indexerrors"
	"github.com/standardbeagle/lci/internal/linker"
)

// State is the state a file's index entry is in: absent or indexed. An
// AddOrUpdate in progress is not a separate state; until its swap completes,
// State keeps reporting the file's prior state.
type State int

const (
	StateAbsent State = iota
	StateIndexed
)

// Index is the AST Index. The zero value is not usable; construct with New.
//
// Concurrency policy (spec.md §5): single writer or many readers. mu guards
// every field below. AddOrUpdate and Remove hold mu.Lock() across their
// mutation of declarationsIndex/usagesIndex/declarations/usages so that
// deletion of the old entry and insertion of the new one appear atomic to
// any reader. Search/SymbolsByFile/IndexedSymbolPaths/IndexedReferencePaths
// hold mu.RLock() only long enough to copy out what they need, so slow I/O
// during content hydration never blocks a writer.
type Index struct {
	mu sync.RWMutex

	registry *grammar.Registry

	declarations map[string]grammar.Declaration
	usages       map[string][]grammar.Usage

	declarationsIndex map[string]*keyset
	usagesIndex       map[string]*keyset

	// contentHash lets AddOrUpdate short-circuit when a file's content is
	// byte-identical to what is already indexed (replacement idempotence,
	// spec.md §8).
	contentHash map[string]uint64
}

// New constructs an empty Index that selects adapters through registry.
func New(registry *grammar.Registry) *Index {
	return &Index{
		registry:          registry,
		declarations:      make(map[string]grammar.Declaration),
		usages:            make(map[string][]grammar.Usage),
		declarationsIndex: make(map[string]*keyset),
		usagesIndex:       make(map[string]*keyset),
		contentHash:       make(map[string]uint64),
	}
}

// State reports whether path currently has an index entry.
func (idx *Index) State(path string) State {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if _, ok := idx.declarationsIndex[path]; ok {
		return StateIndexed
	}
	if _, ok := idx.usagesIndex[path]; ok {
		return StateIndexed
	}
	return StateAbsent
}

// AddOrUpdate parses doc with the adapter selected for its extension, links
// usages to their innermost enclosing declaration, and atomically replaces
// the file's prior entry. Steps 1-3 (adapter selection, read, parse) never
// touch the existing index; only a successful parse reaches the mutation
// phase, per spec.md §4.3.
func (idx *Index) AddOrUpdate(ctx context.Context, doc docsource.DocumentInfo) error {
	path := doc.Path()

	adapter, err := idx.registry.ByFilename(path)
	if err != nil {
		return indexerrors.NewUnsupportedLanguage(path, err)
	}

	content, err := doc.ReadFile(ctx)
	if err != nil {
		return indexerrors.NewIOError(path, err)
	}

	hash := xxhash.Sum64String(content)
	idx.mu.RLock()
	unchanged := idx.contentHash[path] == hash
	_, alreadyIndexed := idx.declarationsIndex[path]
	idx.mu.RUnlock()
	if unchanged && alreadyIndexed {
		return nil
	}

	read := func() (string, error) { return doc.ReadFile(ctx) }

	declarations, err := adapter.ParseDeclarations([]byte(content), path, read)
	if err != nil {
		return indexerrors.NewParseError(path, err)
	}
	usages, err := adapter.ParseUsages([]byte(content))
	if err != nil {
		return indexerrors.NewParseError(path, err)
	}
	usages = linker.Link(declarations, usages)

	declKeys := make([]string, 0, len(declarations))
	for k := range declarations {
		declKeys = append(declKeys, k)
	}
	declSet, err := buildKeyset(declKeys)
	if err != nil {
		return indexerrors.NewParseError(path, err)
	}

	usageKeys := make([]string, 0, len(usages))
	for _, u := range usages {
		usageKeys = append(usageKeys, u.SymbolPath)
	}
	usageSet, err := buildKeyset(usageKeys)
	if err != nil {
		return indexerrors.NewParseError(path, err)
	}

	idx.mu.Lock()
	idx.removeLocked(path)
	for k, d := range declarations {
		idx.declarations[k] = d
	}
	idx.declarationsIndex[path] = declSet
	for _, u := range usages {
		idx.usages[u.SymbolPath] = append(idx.usages[u.SymbolPath], u)
	}
	idx.usagesIndex[path] = usageSet
	idx.contentHash[path] = hash
	idx.mu.Unlock()

	debug.Printf("parsed %s, added %d definitions, %d usages\n", truncateTail(path, 30), len(declKeys), len(usageKeys))
	return nil
}

// Remove drops path's keysets and deletes from the global maps every key
// that appeared in them. Keys not present are ignored; Remove never fails.
func (idx *Index) Remove(doc docsource.DocumentInfo) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(doc.Path())
}

// removeLocked assumes mu is already held for writing.
func (idx *Index) removeLocked(path string) {
	if declSet, ok := idx.declarationsIndex[path]; ok {
		for _, k := range declSet.paths() {
			delete(idx.declarations, k)
		}
		delete(idx.declarationsIndex, path)
	}
	if usageSet, ok := idx.usagesIndex[path]; ok {
		for _, k := range usageSet.paths() {
			delete(idx.usages, k)
		}
		delete(idx.usagesIndex, path)
	}
	delete(idx.contentHash, path)
}

// SymbolsByFile returns every declaration whose symbol path lives in the
// file's declaration keyset, or a *indexerrors.NotIndexedError if the file
// has no keyset.
func (idx *Index) SymbolsByFile(doc docsource.DocumentInfo) ([]grammar.Declaration, error) {
	path := doc.Path()
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	set, ok := idx.declarationsIndex[path]
	if !ok {
		return nil, indexerrors.NewNotIndexed(path)
	}
	var out []grammar.Declaration
	for _, k := range set.paths() {
		if d, ok := idx.declarations[k]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// IndexedSymbolPaths returns the key set of the global declaration map as a
// flat sequence, for completers rather than search.
func (idx *Index) IndexedSymbolPaths() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]string, 0, len(idx.declarations))
	for k := range idx.declarations {
		out = append(out, k)
	}
	return out
}

// IndexedReferencePaths returns the key set of the global usage map as a
// flat sequence.
func (idx *Index) IndexedReferencePaths() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]string, 0, len(idx.usages))
	for k := range idx.usages {
		out = append(out, k)
	}
	return out
}

// truncateTail keeps only the last n characters of s, matching the
// reference implementation's nicer_logs::last_n_chars used in the
// add_or_update summary trace (spec.md §4.3 step 8).
func truncateTail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
