// Package docsource provides the DocumentInfo contract the AST Index
// consumes, plus a filesystem-backed implementation. The index itself never
// opens a file directly outside of this contract.
package docsource

import (
	"context"
	"os"
)

// DocumentInfo is an opaque handle to a source file. It is the consumed
// interface the AST Index is written against; any caller (ingest CLI, test
// harness) can supply its own implementation.
type DocumentInfo interface {
	Path() string
	ReadFile(ctx context.Context) (string, error)
}

// fileDocument is a DocumentInfo backed by a real path on disk.
type fileDocument struct {
	path string
}

// NewFileDocument wraps path as a DocumentInfo.
func NewFileDocument(path string) DocumentInfo {
	return &fileDocument{path: path}
}

func (d *fileDocument) Path() string {
	return d.path
}

func (d *fileDocument) ReadFile(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	content, err := os.ReadFile(d.path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// InMemoryDocument is a DocumentInfo backed by an in-process string, used by
// tests and by callers that already have file contents in hand.
type InMemoryDocument struct {
	path    string
	Content string
}

// NewInMemoryDocument builds an InMemoryDocument.
func NewInMemoryDocument(path, content string) *InMemoryDocument {
	return &InMemoryDocument{path: path, Content: content}
}

func (d *InMemoryDocument) Path() string {
	return d.path
}

func (d *InMemoryDocument) ReadFile(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return d.Content, nil
}
