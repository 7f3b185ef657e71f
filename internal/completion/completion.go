// Package completion exposes the JSON-schema contract that @-command
// parameter completers consume, per spec.md §7. It publishes the shape of
// astindex.SearchResult as a jsonschema.Schema so a completer front end can
// validate and introspect what a completion candidate looks like without
// this module depending on any particular front end (MCP, LSP, or
// otherwise) — wiring such a front end is explicitly out of scope here.
package completion

import "github.com/google/jsonschema-go/jsonschema"

// SearchResultSchema describes astindex.SearchResult: a ranked declaration
// with hydrated content and a similarity score. A completer uses this to
// know which fields it can offer as completion candidates and how to
// interpret SimilarityScore for ranking its own suggestion list.
var SearchResultSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"symbol_path": {
			Type:        "string",
			Description: "Fully qualified declaration path, segments joined by '::'",
		},
		"name": {
			Type:        "string",
			Description: "Leaf name of the declaration",
		},
		"kind": {
			Type:        "string",
			Description: "Declaration kind",
			Enum: []any{
				"function", "method", "class", "struct", "enum",
				"field", "global_variable", "namespace",
			},
		},
		"file_path": {
			Type:        "string",
			Description: "Path of the file the declaration lives in",
		},
		"content": {
			Type:        "string",
			Description: "Hydrated source text for the declaration's range",
		},
		"similarity_score": {
			Type:        "number",
			Description: "Jaro-Winkler based rank score in [0,1]; higher is a better match",
		},
	},
	Required: []string{"symbol_path", "name", "kind", "file_path", "content", "similarity_score"},
}

// ParamCompletionRequestSchema describes the @-command completion request
// itself: a partial query string plus how many candidates the caller wants
// back. Completers build this, run it through astindex.SearchDeclarations,
// and render SearchResultSchema-shaped candidates.
var ParamCompletionRequestSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"query": {
			Type:        "string",
			Description: "Partial symbol path or name typed so far",
		},
		"max_candidates": {
			Type:        "integer",
			Description: "Maximum number of candidates to return",
		},
	},
	Required: []string{"query"},
}
