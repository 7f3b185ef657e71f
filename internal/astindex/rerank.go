package astindex

import (
	"math"
	"sort"

	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/lci/internal/grammar"
)

// scored pairs a declaration with the score that will order it in the
// final result list (Phase B, spec.md §4.4).
type scored struct {
	decl  grammar.Declaration
	score float64
}

// scoreDeclarations is Phase B for declaration search:
//
//	score = max(jw(query, symbol_path), ε) * max(jw(query, leaf_name), ε)
//
// ε is the smallest positive float64, so a single weak component cannot
// zero out the whole product when the other is strong.
func scoreDeclarations(query string, candidates []grammar.Declaration) []scored {
	out := make([]scored, 0, len(candidates))
	for _, d := range candidates {
		pathScore := math.Max(jaroWinkler(query, d.SymbolPath), math.SmallestNonzeroFloat64)
		nameScore := math.Max(jaroWinkler(query, d.Name), math.SmallestNonzeroFloat64)
		out = append(out, scored{decl: d, score: pathScore * nameScore})
	}
	sortScoredDescending(out)
	return out
}

func sortScoredDescending(results []scored) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
}

// jaroWinkler returns the Jaro-Winkler similarity of a and b in [0,1].
// Identical strings and empty-string inputs are handled explicitly because
// go-edlib's distance algorithms are undefined on empty input.
func jaroWinkler(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0.0
	}
	return float64(score)
}
