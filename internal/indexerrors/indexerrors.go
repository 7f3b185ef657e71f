// Package indexerrors defines the typed error kinds the AST Index returns,
// in the shape of the teacher's internal/errors package. UpdateError carries
// the update-time kinds (tagged by Kind) and implements error and Unwrap;
// NotIndexedError is the not_indexed kind and implements error only.
package indexerrors

import "fmt"

// Kind tags which of the five error kinds spec.md §7 names an error is.
type Kind string

const (
	KindUnsupportedLanguage Kind = "unsupported_language"
	KindIOError             Kind = "io_error"
	KindParseError          Kind = "parse_error"
	KindNotIndexed          Kind = "not_indexed"
	KindAdapterInternal     Kind = "adapter_internal"
)

// UpdateError is returned by add_or_update. It always carries the file
// path so callers can build a human-readable diagnostic without formatting
// it themselves.
type UpdateError struct {
	Kind       Kind
	FilePath   string
	Underlying error
}

func (e *UpdateError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.FilePath, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.FilePath)
}

func (e *UpdateError) Unwrap() error {
	return e.Underlying
}

// NewUnsupportedLanguage wraps a failed adapter lookup: no adapter is
// registered for the extension, or the registered one failed to construct.
// Per spec §4.1, adapter_internal surfaces to callers as unsupported_language.
func NewUnsupportedLanguage(filePath string, cause error) *UpdateError {
	return &UpdateError{Kind: KindUnsupportedLanguage, FilePath: filePath, Underlying: cause}
}

// NewIOError wraps a file-read failure during add_or_update.
func NewIOError(filePath string, cause error) *UpdateError {
	return &UpdateError{Kind: KindIOError, FilePath: filePath, Underlying: cause}
}

// NewParseError wraps a grammar rejection during add_or_update.
func NewParseError(filePath string, cause error) *UpdateError {
	return &UpdateError{Kind: KindParseError, FilePath: filePath, Underlying: cause}
}

// NotIndexedError is returned by symbols_by_file for a file that was never
// added, or has since been removed.
type NotIndexedError struct {
	FilePath string
}

func (e *NotIndexedError) Error() string {
	return fmt.Sprintf("%s: %s", KindNotIndexed, e.FilePath)
}

// NewNotIndexed builds a NotIndexedError for filePath.
func NewNotIndexed(filePath string) *NotIndexedError {
	return &NotIndexedError{FilePath: filePath}
}
