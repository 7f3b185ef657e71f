package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/lci/internal/astindex"
	"github.com/standardbeagle/lci/internal/docsource"
	"github.com/standardbeagle/lci/internal/indexerrors"
)

// ingestWorkspace walks root, skipping any path matching an ignore
// pattern, and calls idx.AddOrUpdate for every file the registry can
// parse. Unsupported-extension errors are expected for most of a
// workspace's files and are swallowed; every other error is reported but
// does not stop the walk, matching the ingest CLI's "best-effort, report
// and continue" stance.
func ingestWorkspace(ctx context.Context, idx *astindex.Index, root string, ignore []string) (int, error) {
	indexed := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("warning: %v", err)
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if shouldIgnore(rel, ignore) {
				return filepath.SkipDir
			}
			return nil
		}
		if shouldIgnore(rel, ignore) {
			return nil
		}

		doc := docsource.NewFileDocument(path)
		if err := idx.AddOrUpdate(ctx, doc); err != nil {
			if isUnsupportedLanguage(err) {
				return nil
			}
			log.Printf("warning: failed to index %s: %v", path, err)
			return nil
		}
		indexed++
		return nil
	})

	return indexed, err
}

func shouldIgnore(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

func isUnsupportedLanguage(err error) bool {
	var updateErr *indexerrors.UpdateError
	return errors.As(err, &updateErr) && updateErr.Kind == indexerrors.KindUnsupportedLanguage
}
