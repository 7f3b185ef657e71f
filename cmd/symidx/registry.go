package main

import (
	"github.com/standardbeagle/lci/internal/grammar"
	"github.com/standardbeagle/lci/internal/langs/cpp"
	"github.com/standardbeagle/lci/internal/langs/golang"
	"github.com/standardbeagle/lci/internal/langs/javascript"
)

// buildRegistry wires every grammar adapter this binary ships with to the
// file extensions it handles. Each adapter's New constructs a fresh,
// goroutine-private parser, matching the Registry contract that one
// instance is never shared across calls. Construction failures are not
// treated specially here: Registry.ByFilename reports them as
// ErrUnsupportedLanguage, so a broken grammar surfaces the same way an
// unregistered extension does, per spec §4.1 -- the file is skipped and the
// index is left consistent.
func buildRegistry() *grammar.Registry {
	registry := grammar.NewRegistry()

	registry.Register(".go", golang.New)
	registry.Register(".cpp", cpp.New)
	registry.Register(".cc", cpp.New)
	registry.Register(".hpp", cpp.New)
	registry.Register(".h", cpp.New)
	registry.Register(".js", javascript.New)
	registry.Register(".jsx", javascript.New)
	registry.Register(".mjs", javascript.New)

	return registry
}
