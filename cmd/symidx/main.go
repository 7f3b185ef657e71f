// Command symidx is a demo ingest CLI over internal/astindex: it walks a
// workspace, builds the AST Index, and exposes search/symbols/usages as
// one-shot subcommands, optionally staying resident in --watch mode.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lci/internal/astindex"
	"github.com/standardbeagle/lci/internal/docsource"
	"github.com/standardbeagle/lci/internal/version"
)

func main() {
	app := &cli.App{
		Name:    "symidx",
		Usage:   "code-aware symbol index over a workspace",
		Version: version.FullInfo(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "symidx config file path",
				Value:   ".symidx.kdl",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "workspace root to index (overrides config)",
			},
			&cli.StringFlag{
				Name:  "ignore-file",
				Usage: "ignore manifest path",
				Value: ".symidx-ignore.toml",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "stay resident, re-indexing on filesystem changes",
			},
		},
		Commands: []*cli.Command{
			indexCommand,
			searchCommand,
			usagesCommand,
			symbolsCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "symidx:", err)
		os.Exit(1)
	}
}

// buildIndex loads config, walks the workspace, and returns a populated
// Index plus the resolved root (so watch mode can reuse both).
func buildIndex(c *cli.Context) (*astindex.Index, string, error) {
	cfg, err := loadCLIConfig(c.String("config"))
	if err != nil {
		return nil, "", err
	}
	if root := c.String("root"); root != "" {
		cfg.Root = root
	}

	root, err := resolveRoot(cfg.Root)
	if err != nil {
		return nil, "", err
	}

	manifest, err := loadIgnoreManifest(c.String("ignore-file"))
	if err != nil {
		return nil, "", err
	}

	idx := astindex.New(buildRegistry())

	ctx := context.Background()
	n, err := ingestWorkspace(ctx, idx, root, manifest.Patterns)
	if err != nil {
		return nil, "", fmt.Errorf("failed to walk %s: %w", root, err)
	}
	fmt.Fprintf(os.Stderr, "indexed %d files from %s\n", n, root)

	if c.Bool("watch") || cfg.WatchMode {
		watchCtx, cancel := context.WithCancel(context.Background())
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			cancel()
		}()
		go func() {
			if err := watchWorkspace(watchCtx, idx, root, manifest.Patterns); err != nil {
				fmt.Fprintln(os.Stderr, "symidx: watch stopped:", err)
			}
		}()
	}

	return idx, root, nil
}

var indexCommand = &cli.Command{
	Name:  "index",
	Usage: "walk the workspace and report how many files were indexed",
	Action: func(c *cli.Context) error {
		_, root, err := buildIndex(c)
		if err != nil {
			return err
		}
		fmt.Println("indexed workspace at", root)
		return nil
	},
}

var searchCommand = &cli.Command{
	Name:      "search",
	Usage:     "search indexed declarations by regex",
	ArgsUsage: "<pattern>",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "max", Aliases: []string{"n"}, Value: 20, Usage: "maximum results"},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 {
			return errors.New("usage: symidx search <pattern>")
		}
		idx, _, err := buildIndex(c)
		if err != nil {
			return err
		}
		results, err := idx.SearchDeclarations(context.Background(), c.Args().First(), c.Int("max"), nil)
		if err != nil {
			return err
		}
		return printResults(results)
	},
}

var usagesCommand = &cli.Command{
	Name:      "usages",
	Usage:     "search indexed usages by regex, resolved to their declaration",
	ArgsUsage: "<pattern>",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "max", Aliases: []string{"n"}, Value: 20, Usage: "maximum results"},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 {
			return errors.New("usage: symidx usages <pattern>")
		}
		idx, _, err := buildIndex(c)
		if err != nil {
			return err
		}
		results, err := idx.SearchUsages(context.Background(), c.Args().First(), c.Int("max"), nil)
		if err != nil {
			return err
		}
		return printResults(results)
	},
}

var symbolsCommand = &cli.Command{
	Name:      "symbols",
	Usage:     "list every declaration indexed for a single file",
	ArgsUsage: "<file>",
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 {
			return errors.New("usage: symidx symbols <file>")
		}
		idx, _, err := buildIndex(c)
		if err != nil {
			return err
		}
		decls, err := idx.SymbolsByFile(docsource.NewFileDocument(c.Args().First()))
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		for _, d := range decls {
			if err := enc.Encode(map[string]any{
				"symbol_path": d.SymbolPath,
				"name":        d.Name,
				"kind":        d.Kind,
			}); err != nil {
				return err
			}
		}
		return nil
	},
}

func printResults(results []astindex.SearchResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, r := range results {
		if err := enc.Encode(map[string]any{
			"symbol_path": r.Declaration.SymbolPath,
			"name":        r.Declaration.Name,
			"kind":        r.Declaration.Kind,
			"file_path":   r.Declaration.DefinitionInfo.FilePath,
			"score":       r.SimilarityScore,
		}); err != nil {
			return err
		}
	}
	return nil
}
