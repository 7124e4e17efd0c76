package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/adivina/internal/decision"
	"github.com/ShayCichocki/adivina/internal/learning"
	"github.com/ShayCichocki/adivina/internal/logging"
	"github.com/ShayCichocki/adivina/internal/watch"
)

var (
	treeFormat string
	treePaths  bool
	treeWatch  bool
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the question tree built from the knowledge base",
	Long: `Show the question tree the next round would use.

Formats:
  text  Indented tree, yes branch first (default)
  yaml  Nested mappings

With --paths, every answer sequence that reaches a guess is listed instead.
With --watch, the tree is redrawn whenever a json or yaml knowledge base file
changes on disk.`,
	Args: cobra.NoArgs,
	RunE: runTree,
}

func init() {
	treeCmd.Flags().StringVarP(&treeFormat, "format", "f", "text", "Output format: text or yaml")
	treeCmd.Flags().BoolVar(&treePaths, "paths", false, "List every root-to-leaf path")
	treeCmd.Flags().BoolVarP(&treeWatch, "watch", "w", false, "Redraw when the knowledge base file changes")
}

func runTree(cmd *cobra.Command, args []string) error {
	if treeFormat != "text" && treeFormat != "yaml" {
		return fmt.Errorf("invalid format %q: want text or yaml", treeFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := printTree(store); err != nil {
		return err
	}
	if !treeWatch {
		return nil
	}

	fileStore, ok := store.(*learning.FileStore)
	if !ok {
		return errors.New("--watch needs a json or yaml store (store.driver)")
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	w, err := watch.New(fileStore.Path(), 0, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Printf("\nWatching %s (Ctrl+C to stop)\n", w.Path())
	err = w.Run(ctx, func() error {
		fmt.Println()
		if err := printTree(store); err != nil {
			// A half-written file is retried on the next change.
			printStatus("!", err.Error(), color.FgYellow)
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// printTree loads the knowledge base from store and prints its tree.
func printTree(store learning.Store) error {
	kb, err := loadKnowledgeBase(store)
	if err != nil {
		return err
	}
	root := decision.Build(kb.Entities())

	if treePaths {
		printPaths(root)
		return nil
	}

	switch treeFormat {
	case "yaml":
		out, err := decision.MarshalYAML(root)
		if err != nil {
			return err
		}
		os.Stdout.Write(out)
	default:
		stats := decision.Stats(root)
		fmt.Printf("Tree (%d animals, %d questions, depth %d):\n\n", kb.Len(), stats.Splits, stats.Depth)
		fmt.Print(decision.Render(root))
	}
	return nil
}

// printPaths prints one line per path: the answers given, then the guess.
func printPaths(root decision.Node) {
	for _, p := range decision.Paths(root) {
		parts := make([]string, len(p.Steps))
		for i, s := range p.Steps {
			answer := "no"
			if s.Answer {
				answer = "sí"
			}
			parts[i] = fmt.Sprintf("%s: %s", s.Characteristic, answer)
		}
		guess := p.Leaf.Answer
		if !p.Leaf.Known {
			guess = "(desconocido)"
		}
		if len(parts) == 0 {
			fmt.Printf("→ %s\n", guess)
			continue
		}
		fmt.Printf("%s → %s\n", strings.Join(parts, ", "), guess)
	}
}
