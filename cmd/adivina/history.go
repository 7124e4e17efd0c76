package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/adivina/internal/state"
	"github.com/ShayCichocki/adivina/pkg/models"
)

var (
	historyLimit int
	historyPurge time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past rounds",
	Long: `Show a summary of past rounds and the most recent ones.

Usage:
  adivina history              # Summary and the last 10 rounds
  adivina history --limit 0    # Every round
  adivina history --purge 720h # Delete rounds older than 30 days`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of rounds to show (0 for all)")
	historyCmd.Flags().DurationVar(&historyPurge, "purge", 0, "Delete rounds older than this duration")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	db, err := openHistory(cfg)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer db.Close()

	if historyPurge > 0 {
		n, err := db.PurgeOlderThan(historyPurge)
		if err != nil {
			return err
		}
		printStatus("✓", fmt.Sprintf("Deleted %d round(s)", n), color.FgGreen)
		return nil
	}

	summary, err := db.Summary()
	if err != nil {
		return err
	}
	if summary.Total == 0 {
		fmt.Println("No rounds played yet.")
		return nil
	}
	printSummary(summary)

	rounds, err := db.Recent(historyLimit)
	if err != nil {
		return err
	}
	fmt.Printf("\nRecent rounds (%d):\n\n", len(rounds))
	for _, r := range rounds {
		printRound(r)
	}
	return nil
}

func printSummary(s *state.Summary) {
	fmt.Printf("Rounds played:  %d\n", s.Total)
	fmt.Printf("Guessed right:  %d (%.0f%%)\n", s.ByOutcome[models.OutcomeGuessedRight], s.HitRate()*100)
	fmt.Printf("Guessed wrong:  %d\n", s.ByOutcome[models.OutcomeGuessedWrong])
	fmt.Printf("Unknown:        %d\n", s.ByOutcome[models.OutcomeUnknown])
	fmt.Printf("Animals learned: %d\n", s.Learned)
}

func printRound(r state.Round) {
	when := r.PlayedAt.Local().Format("2006-01-02 15:04")
	switch r.Outcome {
	case models.OutcomeGuessedRight:
		printStatus("✓", fmt.Sprintf("%s  %s (%d questions)", when, r.Answer, r.Questions), color.FgGreen)
	case models.OutcomeGuessedWrong:
		printStatus("✗", fmt.Sprintf("%s  guessed %s, was %s (%d questions)", when, r.Guess, r.Answer, r.Questions), color.FgRed)
	default:
		printStatus("?", fmt.Sprintf("%s  learned %s (%d questions)", when, r.Answer, r.Questions), color.FgYellow)
	}
	if len(r.Confirmed) > 0 {
		fmt.Printf("    %s\n", strings.Join(r.Confirmed, ", "))
	}
}
