package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	kdl "github.com/sblinch/kdl-go"
)

// cliConfig is symidx's own configuration file, .symidx.kdl, read with
// kdl-go. It covers concerns this tool's CLI flags can override: which
// root to index and whether to run in watch mode. Loading configuration
// is explicitly out of scope for internal/astindex itself (spec.md §1),
// so it lives only here in the CLI.
type cliConfig struct {
	Root      string
	WatchMode bool
}

func defaultCLIConfig() cliConfig {
	return cliConfig{Root: ".", WatchMode: false}
}

// loadCLIConfig reads path if it exists and overlays its settings onto the
// defaults. A missing file is not an error: symidx runs fine with defaults
// plus CLI flags alone.
func loadCLIConfig(path string) (cliConfig, error) {
	cfg := defaultCLIConfig()

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for _, n := range doc.Nodes {
		if n.Name == nil {
			continue
		}
		switch n.Name.NodeNameString() {
		case "root":
			if len(n.Arguments) > 0 {
				if s, ok := n.Arguments[0].Value.(string); ok {
					cfg.Root = s
				}
			}
		case "watch":
			if len(n.Arguments) > 0 {
				if b, ok := n.Arguments[0].Value.(bool); ok {
					cfg.WatchMode = b
				}
			}
		}
	}

	return cfg, nil
}

// ignoreManifest is .symidx-ignore.toml: a list of doublestar glob
// patterns matched against workspace-relative paths during the ingest
// walk. TOML is used here, rather than symidx's own KDL config file,
// because ignore manifests are meant to be hand-edited and shared across
// tools (many already carry a similar *.toml sitting next to Cargo.toml,
// pyproject.toml, etc.) where KDL would be a less familiar fit.
type ignoreManifest struct {
	Patterns []string `toml:"patterns"`
}

func loadIgnoreManifest(path string) (ignoreManifest, error) {
	var manifest ignoreManifest

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return manifest, nil
	}
	if err != nil {
		return manifest, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := toml.Unmarshal(content, &manifest); err != nil {
		return manifest, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return manifest, nil
}

// resolveRoot turns a possibly-relative root into a clean absolute path.
func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root path %q: %w", root, err)
	}
	return filepath.Clean(abs), nil
}
