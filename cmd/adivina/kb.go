package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/adivina/internal/learning"
	"github.com/ShayCichocki/adivina/internal/prompt"
	"github.com/ShayCichocki/adivina/pkg/models"
)

var (
	kbExportFormat  string
	kbImportReplace bool
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Inspect and edit the knowledge base",
	Long: `Inspect and edit the knowledge base of animals.

Usage:
  adivina kb list                          # List all animals
  adivina kb add Ballena "Vive en el mar"  # Add an animal with characteristics
  adivina kb search ruge                   # Search names and characteristics
  adivina kb seed                          # Add the default animals
  adivina kb export --format yaml kb.yaml  # Export to a file (or stdout)
  adivina kb import kb.json                # Append animals from a file`,
}

var kbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all animals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withKnowledgeBase(func(store learning.Store, kb *models.KnowledgeBase) error {
			entities := kb.Entities()
			if len(entities) == 0 {
				fmt.Println("The knowledge base is empty.")
				fmt.Println("\nAdd the default animals with:")
				fmt.Println("  adivina kb seed")
				return nil
			}
			fmt.Printf("Animals (%d):\n\n", len(entities))
			for i, e := range entities {
				printEntity(i+1, e)
			}
			return nil
		})
	},
}

var kbAddCmd = &cobra.Command{
	Use:   "add <name> [characteristic...]",
	Short: "Add an animal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withKnowledgeBase(func(store learning.Store, kb *models.KnowledgeBase) error {
			e := models.NewEntity(args[0], args[1:]...)
			if _, ok := kb.Find(e.Name); ok {
				return fmt.Errorf("animal already exists: %s", e.Name)
			}
			if err := kb.Append(e); err != nil {
				return err
			}
			if err := store.Save(kb.Entities()); err != nil {
				return fmt.Errorf("save knowledge base: %w", err)
			}
			fmt.Printf("Animal added: %s\n", e.Name)
			return nil
		})
	},
}

var kbSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search names and characteristics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withKnowledgeBase(func(store learning.Store, kb *models.KnowledgeBase) error {
			results, err := searchKnowledgeBase(store, kb, args[0])
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			if len(results) == 0 {
				fmt.Println("No animals found matching query.")
				return nil
			}
			fmt.Printf("Found %d animal(s):\n\n", len(results))
			for i, e := range results {
				printEntity(i+1, e)
			}
			return nil
		})
	},
}

var kbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the default animals that are missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withKnowledgeBase(func(store learning.Store, kb *models.KnowledgeBase) error {
			added, err := seedKnowledgeBase(kb)
			if err != nil {
				return err
			}
			if added > 0 {
				if err := store.Save(kb.Entities()); err != nil {
					return fmt.Errorf("save knowledge base: %w", err)
				}
			}
			fmt.Printf("Seeded %d animal(s).\n", added)
			return nil
		})
	},
}

var kbExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the knowledge base as JSON or YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withKnowledgeBase(func(store learning.Store, kb *models.KnowledgeBase) error {
			format := learning.Format(kbExportFormat)
			if format == "" {
				format = learning.FormatJSON
				if len(args) == 1 {
					format = learning.FormatFromPath(args[0])
				}
			}
			data, err := learning.Encode(kb.Entities(), format)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(args[0], data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", args[0], err)
			}
			fmt.Printf("Exported %d animal(s) to %s\n", kb.Len(), args[0])
			return nil
		})
	},
}

var kbImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import animals from a JSON or YAML file",
	Long: `Import animals from a JSON or YAML file.

Animals whose name is already known are skipped. With --replace the
knowledge base is replaced by the file contents.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		imported, err := learning.Decode(data, learning.FormatFromPath(args[0]))
		if err != nil {
			return fmt.Errorf("decode %s: %w", args[0], err)
		}

		return withKnowledgeBase(func(store learning.Store, kb *models.KnowledgeBase) error {
			if kbImportReplace {
				next, err := models.NewKnowledgeBase(imported)
				if err != nil {
					return err
				}
				kb = next
			}
			added, err := appendMissing(kb, imported)
			if err != nil {
				return err
			}
			if err := store.Save(kb.Entities()); err != nil {
				return fmt.Errorf("save knowledge base: %w", err)
			}
			if kbImportReplace {
				fmt.Printf("Replaced knowledge base with %d animal(s).\n", kb.Len())
			} else {
				fmt.Printf("Imported %d animal(s).\n", added)
			}
			return nil
		})
	},
}

func init() {
	kbExportCmd.Flags().StringVarP(&kbExportFormat, "format", "f", "", "Output format: json or yaml (default from file extension)")
	kbImportCmd.Flags().BoolVar(&kbImportReplace, "replace", false, "Replace the knowledge base instead of appending")

	kbCmd.AddCommand(kbListCmd)
	kbCmd.AddCommand(kbAddCmd)
	kbCmd.AddCommand(kbSearchCmd)
	kbCmd.AddCommand(kbSeedCmd)
	kbCmd.AddCommand(kbExportCmd)
	kbCmd.AddCommand(kbImportCmd)
}

// withKnowledgeBase opens the configured store, loads it and calls fn.
func withKnowledgeBase(fn func(store learning.Store, kb *models.KnowledgeBase) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	kb, err := loadKnowledgeBase(store)
	if err != nil {
		return err
	}
	return fn(store, kb)
}

// appendMissing appends entities whose name is not yet in kb.
func appendMissing(kb *models.KnowledgeBase, entities []models.Entity) (int, error) {
	added := 0
	for _, e := range entities {
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

// searchKnowledgeBase uses the store's full-text index when there is one and
// an accent-insensitive substring match otherwise.
func searchKnowledgeBase(store learning.Store, kb *models.KnowledgeBase, query string) ([]models.Entity, error) {
	if sql, ok := store.(*learning.SQLStore); ok {
		records, err := sql.Search(query)
		if err != nil {
			return nil, err
		}
		out := make([]models.Entity, len(records))
		for i, r := range records {
			out[i] = r.Entity
		}
		return out, nil
	}
	return matchEntities(kb.Entities(), query), nil
}

// matchEntities returns entities whose name or a characteristic contains
// query, ignoring case and accents.
func matchEntities(entities []models.Entity, query string) []models.Entity {
	q := prompt.Fold(query)
	if q == "" {
		return nil
	}
	var out []models.Entity
	for _, e := range entities {
		if strings.Contains(prompt.Fold(e.Name), q) {
			out = append(out, e)
			continue
		}
		for _, c := range e.Characteristics {
			if strings.Contains(prompt.Fold(c), q) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// printEntity prints a numbered animal and its characteristics.
func printEntity(n int, e models.Entity) {
	fmt.Printf("  %2d. %s\n", n, e.Name)
	if len(e.Characteristics) == 0 {
		fmt.Println("      (sin características)")
		return
	}
	for _, c := range e.Characteristics {
		fmt.Printf("      - %s\n", c)
	}
}
