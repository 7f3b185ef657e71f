package astindex

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/lci/internal/debug"
	"github.com/standardbeagle/lci/internal/docsource"
	"github.com/standardbeagle/lci/internal/grammar"
)

// SearchResult is one ranked hit: the declaration, its hydrated content,
// and the similarity score that placed it, per spec.md §4.4.
type SearchResult struct {
	Declaration     grammar.Declaration
	Content         string
	SimilarityScore float64
}

// SearchDeclarations runs the three-phase query pipeline (spec.md §4.4)
// against the global declaration map: candidate generation over every
// per-file declaration keyset except exceptionFile's, Jaro-Winkler rerank,
// then content hydration of the top topN survivors.
func (idx *Index) SearchDeclarations(ctx context.Context, query string, topN int, exceptionFile docsource.DocumentInfo) ([]SearchResult, error) {
	keys, err := idx.candidateKeys(ctx, idx.declarationsKeysets(exceptionFile), query)
	if err != nil {
		return nil, err
	}

	idx.mu.RLock()
	candidates := make([]grammar.Declaration, 0, len(keys))
	for _, k := range keys {
		if d, ok := idx.declarations[k]; ok && d.SymbolPath != "" {
			candidates = append(candidates, d)
		}
	}
	idx.mu.RUnlock()

	scored := scoreDeclarations(query, candidates)
	return hydrateDeclarations(scored, topN)
}

// SearchUsages mirrors SearchDeclarations but walks the usage keysets and
// resolves each surviving usage to the declaration it points at.
func (idx *Index) SearchUsages(ctx context.Context, query string, topN int, exceptionFile docsource.DocumentInfo) ([]SearchResult, error) {
	keys, err := idx.candidateKeys(ctx, idx.usagesKeysets(exceptionFile), query)
	if err != nil {
		return nil, err
	}

	idx.mu.RLock()
	var candidates []scored
	for _, k := range keys {
		for _, u := range idx.usages[k] {
			if !u.HasDeclaration() {
				continue
			}
			decl, ok := idx.declarations[u.DeclarationSymbolPath]
			if !ok {
				continue
			}
			candidates = append(candidates, scored{decl: decl, score: jaroWinkler(query, u.SymbolPath)})
		}
	}
	idx.mu.RUnlock()

	sortScoredDescending(candidates)
	return hydrateDeclarations(candidates, topN)
}

func (idx *Index) declarationsKeysets(exceptionFile docsource.DocumentInfo) map[string]*keyset {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return snapshotKeysets(idx.declarationsIndex, exceptionFile)
}

func (idx *Index) usagesKeysets(exceptionFile docsource.DocumentInfo) map[string]*keyset {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return snapshotKeysets(idx.usagesIndex, exceptionFile)
}

func snapshotKeysets(all map[string]*keyset, exceptionFile docsource.DocumentInfo) map[string]*keyset {
	var exceptPath string
	if exceptionFile != nil {
		exceptPath = exceptionFile.Path()
	}
	out := make(map[string]*keyset, len(all))
	for path, ks := range all {
		if exceptPath != "" && path == exceptPath {
			continue
		}
		out[path] = ks
	}
	return out
}

// candidateKeys is Phase A: it fans the automaton scan out across every
// per-file keyset concurrently (at most GOMAXPROCS at a time) and unions the
// resulting key streams. Ordering of the union is not significant, per
// spec.md §4.4.
func (idx *Index) candidateKeys(ctx context.Context, keysets map[string]*keyset, query string) ([]string, error) {
	var mu sync.Mutex
	seen := make(map[string]struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, ks := range keysets {
		ks := ks
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			matches, err := ks.search(query)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, m := range matches {
				seen[m] = struct{}{}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	return out, nil
}

// hydrateDeclarations is Phase C: it reads the content slice for each
// surviving scored declaration in rank order, dropping (and tracing) any
// whose file cannot be read, and stops once topN results have been
// produced.
func hydrateDeclarations(results []scored, topN int) ([]SearchResult, error) {
	out := make([]SearchResult, 0, topN)
	for _, r := range results {
		if len(out) >= topN {
			break
		}
		content, err := r.decl.Content()
		if err != nil {
			debug.Printf("could not read content for %s: %v\n", r.decl.DefinitionInfo.FilePath, err)
			continue
		}
		out = append(out, SearchResult{Declaration: r.decl, Content: content, SimilarityScore: r.score})
	}
	return out, nil
}
