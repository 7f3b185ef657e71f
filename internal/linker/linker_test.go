package linker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/lci/internal/grammar"
)

func rangeAt(startRow, endRow int) grammar.Range {
	return grammar.Range{Start: grammar.Position{Row: startRow}, End: grammar.Position{Row: endRow}}
}

func declAt(startRow, endRow int) grammar.Declaration {
	return grammar.Declaration{
		DefinitionInfo: grammar.DefinitionInfo{Range: rangeAt(startRow, endRow)},
	}
}

func TestLinkBindsInnermostEnclosingDeclaration(t *testing.T) {
	declarations := map[string]grammar.Declaration{
		"outer":        declAt(0, 20),
		"outer::inner": declAt(5, 10),
	}
	usages := []grammar.Usage{
		{SymbolPath: "usage@7:0#foo", OccurrenceRange: rangeAt(7, 7)},
	}

	linked := Link(declarations, usages)

	require.Len(t, linked, 1)
	require.Equal(t, "outer::inner", linked[0].DeclarationSymbolPath)
}

func TestLinkLeavesUsageUnboundWhenNoDeclarationEncloses(t *testing.T) {
	declarations := map[string]grammar.Declaration{
		"elsewhere": declAt(100, 110),
	}
	usages := []grammar.Usage{
		{SymbolPath: "usage@1:0#foo", OccurrenceRange: rangeAt(1, 1)},
	}

	linked := Link(declarations, usages)

	require.Len(t, linked, 1)
	require.False(t, linked[0].HasDeclaration())
}

func TestLinkMutatesInPlace(t *testing.T) {
	declarations := map[string]grammar.Declaration{
		"fn": declAt(0, 5),
	}
	usages := []grammar.Usage{
		{SymbolPath: "usage@2:0#fn", OccurrenceRange: rangeAt(2, 2)},
	}

	Link(declarations, usages)

	require.Equal(t, "fn", usages[0].DeclarationSymbolPath)
}

func TestInnermostEnclosingPrefersSmallestSpan(t *testing.T) {
	declarations := map[string]grammar.Declaration{
		"a": declAt(0, 100),
		"b": declAt(40, 60),
		"c": declAt(45, 50),
	}

	path, found := innermostEnclosing(declarations, rangeAt(47, 47))

	require.True(t, found)
	require.Equal(t, "c", path)
}
