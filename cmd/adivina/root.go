package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/adivina/internal/config"
	"github.com/ShayCichocki/adivina/internal/learning"
	"github.com/ShayCichocki/adivina/internal/tui"
	"github.com/ShayCichocki/adivina/pkg/models"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "adivina",
	Short: "A guessing game that learns new animals",
	Long: `Adivina asks yes/no questions until it can guess the animal you are
thinking of. When it fails, it asks you what the animal was and remembers it
for the next round.

The questions are chosen from the knowledge base every round: the
characteristic that splits the remaining animals most evenly is asked first.

With no arguments, starts a game (same as 'adivina play').`,
	SilenceUsage: true,
	RunE:         runPlay,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.config/adivina/config.yaml)")
	addPlayFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(kbCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads the --config file when given, the layered config otherwise.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}

// openStore opens the configured knowledge base store.
func openStore(cfg *config.Config) (learning.Store, error) {
	return learning.OpenStore(cfg.Store.Driver, cfg.Store.Path, cfg.Store.DSN)
}

// loadKnowledgeBase loads the stored knowledge base.
func loadKnowledgeBase(store learning.Store) (*models.KnowledgeBase, error) {
	entities, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}
	kb, err := models.NewKnowledgeBase(entities)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}
	return kb, nil
}

// seedKnowledgeBase appends the default animals missing from kb.
// It returns the number added.
func seedKnowledgeBase(kb *models.KnowledgeBase) (int, error) {
	added := 0
	for _, e := range models.DefaultEntities() {
		if _, ok := kb.Find(e.Name); ok {
			continue
		}
		if err := kb.Append(e); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// isQuit reports whether err means the user ended input rather than a failure.
func isQuit(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, tui.ErrCanceled)
}
