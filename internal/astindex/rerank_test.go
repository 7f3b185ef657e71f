package astindex

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/lci/internal/grammar"
)

func TestJaroWinklerIdentical(t *testing.T) {
	require.Equal(t, 1.0, jaroWinkler("parseRequest", "parseRequest"))
}

func TestJaroWinklerEmptyInputs(t *testing.T) {
	require.Equal(t, 0.0, jaroWinkler("", "anything"))
	require.Equal(t, 0.0, jaroWinkler("anything", ""))
}

func TestJaroWinklerCloserStringsScoreHigher(t *testing.T) {
	closeScore := jaroWinkler("parseRequest", "parseRequst")
	farScore := jaroWinkler("parseRequest", "somethingElseEntirely")
	require.Greater(t, closeScore, farScore)
}

func TestScoreDeclarationsOrdersByCombinedScore(t *testing.T) {
	candidates := []grammar.Declaration{
		{SymbolPath: "pkg::parseRequest", Name: "parseRequest"},
		{SymbolPath: "pkg::unrelatedThing", Name: "unrelatedThing"},
	}

	scored := scoreDeclarations("parseRequest", candidates)

	require.Len(t, scored, 2)
	require.Equal(t, "pkg::parseRequest", scored[0].decl.SymbolPath)
	require.GreaterOrEqual(t, scored[0].score, scored[1].score)
}

func TestSortScoredDescending(t *testing.T) {
	results := []scored{
		{decl: grammar.Declaration{Name: "low"}, score: 0.1},
		{decl: grammar.Declaration{Name: "high"}, score: 0.9},
		{decl: grammar.Declaration{Name: "mid"}, score: 0.5},
	}

	sortScoredDescending(results)

	require.Equal(t, "high", results[0].decl.Name)
	require.Equal(t, "mid", results[1].decl.Name)
	require.Equal(t, "low", results[2].decl.Name)
}
