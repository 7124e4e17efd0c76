package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ShayCichocki/adivina/internal/config"
	"github.com/ShayCichocki/adivina/internal/game"
	"github.com/ShayCichocki/adivina/internal/logging"
	"github.com/ShayCichocki/adivina/internal/prompt"
	"github.com/ShayCichocki/adivina/internal/state"
	"github.com/ShayCichocki/adivina/internal/tui"
	"github.com/ShayCichocki/adivina/pkg/models"
)

var (
	playUIMode string
	playSeed   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play rounds until you choose to stop",
	Long: `Play the guessing game.

Each round rebuilds the question tree from the knowledge base, asks yes/no
questions and makes a guess. A wrong guess or an unknown animal teaches the
game something new, which is saved immediately.

Answers accepted as yes and no are configured with answers.yes and answers.no.

Examples:
  adivina play
  adivina play --ui tui
  adivina play --seed=false   # start from an empty knowledge base`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&playUIMode, "ui", "", "Interface: console or tui (default from ui.mode)")
	cmd.Flags().BoolVar(&playSeed, "seed", true, "Load the default animals when the knowledge base is empty")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if playUIMode != "" {
		if err := config.Set(cfg, "ui.mode", playUIMode); err != nil {
			return err
		}
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	kb, err := loadKnowledgeBase(store)
	if err != nil {
		return err
	}
	if kb.Len() == 0 && playSeed {
		if _, err := seedKnowledgeBase(kb); err != nil {
			return err
		}
		if err := store.Save(kb.Entities()); err != nil {
			return fmt.Errorf("save knowledge base: %w", err)
		}
	}

	opts := []game.Option{
		game.WithLogger(logger),
		game.WithTexts(textsFromConfig(cfg)),
	}
	if cfg.History.Enabled {
		history, err := openHistory(cfg)
		if err != nil {
			// History is optional; the game still works without it.
			logger.Warn("history disabled", zap.Error(err))
		} else {
			defer history.Close()
			opts = append(opts, game.WithHistory(history))
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	session := game.NewSession(kb, store, newPrompter(cfg), opts...)
	rounds, err := session.Play(ctx)
	if err != nil && !isQuit(err) && ctx.Err() == nil {
		return err
	}

	printPlaySummary(rounds)
	return nil
}

// newPrompter builds the console or TUI prompter from config.
func newPrompter(cfg *config.Config) game.Prompter {
	classifier := prompt.NewClassifier(cfg.Answers.Yes, cfg.Answers.No)
	if cfg.UI.Mode == "tui" {
		return tui.NewPrompter(os.Stdin, os.Stdout, classifier, cfg.Game.RepromptMessage)
	}
	return prompt.NewConsole(os.Stdin, os.Stdout,
		prompt.WithClassifier(classifier),
		prompt.WithReprompt(cfg.Game.RepromptMessage),
		prompt.WithColor(cfg.UI.Color))
}

func textsFromConfig(cfg *config.Config) game.Texts {
	return game.Texts{
		QuestionFormat:    cfg.Game.QuestionFormat,
		GuessFormat:       cfg.Game.GuessFormat,
		UnknownMessage:    cfg.Game.UnknownMessage,
		NamePrompt:        cfg.Game.NamePrompt,
		DistinguishFormat: cfg.Game.DistinguishFormat,
		ContinuePrompt:    cfg.Game.ContinuePrompt,
	}
}

// openHistory opens and migrates the round history database.
func openHistory(cfg *config.Config) (*state.DB, error) {
	if cfg.History.Path == "" {
		return state.OpenGlobal()
	}
	db, err := state.Open(cfg.History.Path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func printPlaySummary(rounds []*game.RoundResult) {
	if len(rounds) == 0 {
		return
	}
	right, learned := 0, 0
	for _, r := range rounds {
		if r.Outcome == models.OutcomeGuessedRight {
			right++
		}
		if r.Learned != nil {
			learned++
		}
	}
	fmt.Println()
	printStatus("✓", fmt.Sprintf("%d/%d acertados, %d animales nuevos", right, len(rounds), learned), color.FgGreen)
}

// printStatus prints a status line with a colored symbol.
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
