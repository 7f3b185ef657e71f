// Package linker implements the Declaration↔Usage Linker: for every usage in
// a file, it binds DeclarationSymbolPath to the innermost declaration whose
// range lexically encloses the usage's occurrence range.
//
// Ported from link_declarations_to_usages in
// original_source/src/ast/ast_index.rs. That reference implementation's
// distance comparison
//
//	closest_declaration_rows_count.unwrap_or(distance + 1) < distance
//
// in fact keeps replacing the running choice with the *larger* row-span,
// i.e. it picks the outermost enclosing declaration rather than the
// innermost one its variable names suggest. This port implements the
// documented intent — innermost enclosure — deliberately, per spec.md §9.
package linker

import (
	"github.com/standardbeagle/lci/internal/debug"
	"github.com/standardbeagle/lci/internal/grammar"
)

// Link binds each usage's DeclarationSymbolPath in place. declarations is
// the full per-file declaration map; usages is mutated in place and also
// returned for convenience.
func Link(declarations map[string]grammar.Declaration, usages []grammar.Usage) []grammar.Usage {
	for i := range usages {
		usage := &usages[i]
		bestPath, found := innermostEnclosing(declarations, usage.OccurrenceRange)
		if !found {
			debug.Printf("usage %s not found in the AST\n", usage.SymbolPath)
			continue
		}
		usage.DeclarationSymbolPath = bestPath
	}
	return usages
}

// innermostEnclosing returns the declaration with the smallest row-span
// among every declaration whose range encloses usageRange. Ties are broken
// by map iteration order, as spec.md §4.2 allows; valid parse trees should
// not produce ties in practice.
func innermostEnclosing(declarations map[string]grammar.Declaration, usageRange grammar.Range) (string, bool) {
	var bestPath string
	var bestSpan int
	found := false

	for path, decl := range declarations {
		if !decl.DefinitionInfo.Range.Encloses(usageRange) {
			continue
		}
		span := decl.DefinitionInfo.Range.RowSpan()
		if !found || span < bestSpan {
			bestPath = path
			bestSpan = span
			found = true
		}
	}
	return bestPath, found
}
