// Package grammar defines the contract every language-specific parser must
// satisfy so the AST Index stays language-agnostic. A concrete adapter is
// selected by file extension through a Registry.
package grammar

import (
	"fmt"
)

// Kind is the declaration's tag. The tag set is open: adapters are free to
// report kinds not listed here, callers should treat unknown kinds opaquely.
type Kind string

const (
	KindFunction       Kind = "function"
	KindMethod         Kind = "method"
	KindClass          Kind = "class"
	KindStruct         Kind = "struct"
	KindEnum           Kind = "enum"
	KindField          Kind = "field"
	KindGlobalVariable Kind = "global_variable"
	KindNamespace      Kind = "namespace"
)

// Position is a row/column pair, both zero-based to match tree-sitter's own
// convention; adapters that use a different parsing library normalize to
// this before returning records.
type Position struct {
	Row    int
	Column int
}

// Range is a byte-range plus its row/column start and end.
type Range struct {
	StartByte uint
	EndByte   uint
	Start     Position
	End       Position
}

// Encloses reports whether r lexically encloses other: r's start row is at
// or before other's start row, and r's end row is at or after other's end
// row. This is the enclosure relation the Linker uses; it is row-based, not
// byte-based, per spec.
func (r Range) Encloses(other Range) bool {
	return r.Start.Row <= other.Start.Row && r.End.Row >= other.End.Row
}

// RowSpan is the number of rows the range covers, used to rank enclosing
// declarations from innermost (smallest span) to outermost.
func (r Range) RowSpan() int {
	span := r.End.Row - r.Start.Row
	if span < 0 {
		return 0
	}
	return span
}

// ContentReader lazily fetches the text slice a DefinitionInfo covers. It is
// supplied by the caller constructing a DefinitionInfo (usually backed by a
// docsource.DocumentInfo) so adapters never need their own file I/O.
type ContentReader func() (string, error)

// DefinitionInfo locates a declaration within a file.
type DefinitionInfo struct {
	FilePath string
	Range    Range
	read     ContentReader
}

// NewDefinitionInfo builds a DefinitionInfo with its lazy content reader.
func NewDefinitionInfo(filePath string, r Range, read ContentReader) DefinitionInfo {
	return DefinitionInfo{FilePath: filePath, Range: r, read: read}
}

// Content returns the text slice this definition covers. It fails if the
// backing file cannot be read; it never caches the result, matching the
// spec's "fails if the file is unreadable" guarantee.
func (d DefinitionInfo) Content() (string, error) {
	if d.read == nil {
		return "", fmt.Errorf("definition info for %s has no content reader", d.FilePath)
	}
	return d.read()
}

// Declaration is a single declaration record.
type Declaration struct {
	SymbolPath     string
	Name           string
	Kind           Kind
	DefinitionInfo DefinitionInfo
	// EnumValues is populated only for Kind == KindEnum.
	EnumValues []string
}

// Content is a convenience forward to DefinitionInfo.Content.
func (d Declaration) Content() (string, error) {
	return d.DefinitionInfo.Content()
}

// Usage is a single usage (call-site) occurrence. DeclarationSymbolPath is
// set by the Linker; it is empty until then.
type Usage struct {
	// SymbolPath is keyed by call-site location, not by target symbol, and
	// must be unique per occurrence within a file.
	SymbolPath            string
	OccurrenceRange       Range
	ReferencedName        string
	DeclarationSymbolPath string
}

// HasDeclaration reports whether the Linker bound this usage to an
// enclosing declaration.
func (u Usage) HasDeclaration() bool {
	return u.DeclarationSymbolPath != ""
}

// Adapter is the capability set a language-specific parser exposes.
// ParseDeclarations and ParseUsages are the two entry points the AST Index
// calls. The interface carries no scope-walking methods (namespace chain,
// function name and scope, enum values, variable name); where an adapter
// has such helpers they are unexported functions of its own package.
type Adapter interface {
	// Language is the adapter's own name, for diagnostics.
	Language() string

	// ParseDeclarations walks text and returns every declaration found,
	// keyed by its fully composed symbol path. filePath is used only to
	// stamp DefinitionInfo.FilePath and to build a ContentReader.
	ParseDeclarations(text []byte, filePath string, read ContentReader) (map[string]Declaration, error)

	// ParseUsages returns every usage occurrence in text, in the order
	// encountered. DeclarationSymbolPath is unset on every returned Usage.
	ParseUsages(text []byte) ([]Usage, error)
}

// Registry maps file extensions (including the leading dot) to adapter
// constructors. One adapter instance is created per parse call; adapter
// state is never shared across goroutines.
type Registry struct {
	constructors map[string]func() (Adapter, error)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]func() (Adapter, error))}
}

// Register associates a file extension with a constructor. Re-registering
// an extension overwrites the previous constructor.
func (r *Registry) Register(extension string, construct func() (Adapter, error)) {
	r.constructors[extension] = construct
}

// ErrUnsupportedLanguage is returned by ByFilename when no adapter is
// registered for the file's extension, or when the registered adapter could
// not be constructed. Either way the caller's contract is the same: skip the
// file, leave the index unchanged, per spec §4.1.
type ErrUnsupportedLanguage struct {
	FilePath  string
	Extension string
	// Underlying is set when construction failed for a registered extension;
	// nil when no adapter was registered for the extension at all.
	Underlying error
}

func (e *ErrUnsupportedLanguage) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("grammar adapter for extension %q (file %s) failed to construct: %v", e.Extension, e.FilePath, e.Underlying)
	}
	return fmt.Sprintf("no grammar adapter registered for extension %q (file %s)", e.Extension, e.FilePath)
}

func (e *ErrUnsupportedLanguage) Unwrap() error {
	return e.Underlying
}

// ByFilename selects and constructs an adapter for path based on its
// extension. A fresh adapter is returned on every call. Both "no adapter
// registered" and "adapter failed to construct" surface as
// *ErrUnsupportedLanguage so callers can treat them identically: skip the
// file, leave the index unchanged.
func (r *Registry) ByFilename(path string) (Adapter, error) {
	ext := extensionOf(path)
	construct, ok := r.constructors[ext]
	if !ok {
		return nil, &ErrUnsupportedLanguage{FilePath: path, Extension: ext}
	}
	adapter, err := construct()
	if err != nil {
		return nil, &ErrUnsupportedLanguage{FilePath: path, Extension: ext, Underlying: err}
	}
	return adapter, nil
}

func extensionOf(path string) string {
	dot := -1
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			break
		}
		if path[i] == '.' {
			dot = i
			break
		}
	}
	if dot < 0 {
		return ""
	}
	return path[dot:]
}
