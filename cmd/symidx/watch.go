package main

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/lci/internal/astindex"
	"github.com/standardbeagle/lci/internal/docsource"
)

// watchWorkspace stands in for the "external source of add/update/remove
// events" spec.md §1 assumes but explicitly leaves outside the core's
// scope: it watches root with fsnotify and turns filesystem events into
// AddOrUpdate/Remove calls against idx. It runs until ctx is cancelled.
func watchWorkspace(ctx context.Context, idx *astindex.Index, root string, ignore []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root, ignore); err != nil {
		return err
	}

	log.Printf("watching %s for changes", root)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleWatchEvent(ctx, idx, watcher, root, ignore, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

func addWatchDirs(watcher *fsnotify.Watcher, root string, ignore []string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if shouldIgnore(filepath.ToSlash(rel), ignore) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			log.Printf("warning: failed to watch %s: %v", path, err)
		}
		return nil
	})
}

func handleWatchEvent(ctx context.Context, idx *astindex.Index, watcher *fsnotify.Watcher, root string, ignore []string, event fsnotify.Event) {
	rel, relErr := filepath.Rel(root, event.Name)
	if relErr != nil {
		rel = event.Name
	}
	if shouldIgnore(filepath.ToSlash(rel), ignore) {
		return
	}

	switch {
	case event.Op&fsnotify.Remove != 0 || event.Op&fsnotify.Rename != 0:
		idx.Remove(docsource.NewFileDocument(event.Name))

	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := watcher.Add(event.Name); err != nil {
				log.Printf("warning: failed to watch %s: %v", event.Name, err)
			}
			return
		}
		doc := docsource.NewFileDocument(event.Name)
		if err := idx.AddOrUpdate(ctx, doc); err != nil && !isUnsupportedLanguage(err) {
			log.Printf("warning: failed to index %s: %v", event.Name, err)
		}
	}
}
