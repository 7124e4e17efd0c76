// Package config handles configuration loading and management for adivina.
// It supports XDG config paths, project-level overrides, a .env file and
// ADIVINA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load.
// ADIVINA_STORE_DRIVER overrides store.driver, and so on.
const EnvPrefix = "ADIVINA"

// ProjectConfigName is the project-level override file searched upward from
// the working directory.
const ProjectConfigName = ".adivina.yaml"

// Config holds all configuration for adivina.
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Answers AnswersConfig `mapstructure:"answers"`
	Store   StoreConfig   `mapstructure:"store"`
	History HistoryConfig `mapstructure:"history"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GameConfig holds the text shown during a round.
type GameConfig struct {
	// QuestionFormat phrases a characteristic as a question; one %s verb.
	QuestionFormat string `mapstructure:"question_format"`
	// GuessFormat asks the user to confirm a guess; one %s verb.
	GuessFormat string `mapstructure:"guess_format"`
	// UnknownMessage is shown when the walk ends on an unknown leaf.
	UnknownMessage string `mapstructure:"unknown_message"`
	// NamePrompt asks for the entity the user had in mind.
	NamePrompt string `mapstructure:"name_prompt"`
	// DistinguishFormat asks what sets the user's entity apart from the
	// wrong guess; two %s verbs (entity, guess).
	DistinguishFormat string `mapstructure:"distinguish_format"`
	// ContinuePrompt asks whether to play another round.
	ContinuePrompt string `mapstructure:"continue_prompt"`
	// RepromptMessage is shown after an unrecognized yes/no answer.
	RepromptMessage string `mapstructure:"reprompt_message"`
}

// AnswersConfig holds the tokens accepted as yes and no.
type AnswersConfig struct {
	Yes []string `mapstructure:"yes"`
	No  []string `mapstructure:"no"`
}

// StoreConfig selects the knowledge base backend.
type StoreConfig struct {
	// Driver is one of sqlite, postgres, json, yaml.
	Driver string `mapstructure:"driver"`
	// Path is the database or file path; empty uses the XDG data dir.
	Path string `mapstructure:"path"`
	// DSN is the PostgreSQL connection string.
	DSN string `mapstructure:"dsn"`
}

// HistoryConfig controls round history recording.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// UIConfig holds terminal settings.
type UIConfig struct {
	// Mode is console or tui.
	Mode  string `mapstructure:"mode"`
	Color bool   `mapstructure:"color"`
}

// LoggingConfig holds diagnostic logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	// File receives JSON logs; empty disables logging.
	File string `mapstructure:"file"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ADIVINA_*, including those set by .env)
// 2. Project config (.adivina.yaml in current directory or parent)
// 3. User config (~/.config/adivina/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading project config: %w", err)
		}
		if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	bindEnv(v)
	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific path (for testing).
// Environment variables still apply.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	bindEnv(v)
	return unmarshal(v)
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return SaveToPath(cfg, filepath.Join(userConfigDir, "config.yaml"))
}

// SaveToPath writes the configuration to path.
func SaveToPath(cfg *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)

	for _, key := range Keys() {
		value, _ := Get(cfg, key)
		v.Set(key, value)
	}
	// Keep native YAML types rather than their string forms.
	v.Set("answers.yes", cfg.Answers.Yes)
	v.Set("answers.no", cfg.Answers.No)
	v.Set("history.enabled", cfg.History.Enabled)
	v.Set("ui.color", cfg.UI.Color)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("game.question_format", d.Game.QuestionFormat)
	v.SetDefault("game.guess_format", d.Game.GuessFormat)
	v.SetDefault("game.unknown_message", d.Game.UnknownMessage)
	v.SetDefault("game.name_prompt", d.Game.NamePrompt)
	v.SetDefault("game.distinguish_format", d.Game.DistinguishFormat)
	v.SetDefault("game.continue_prompt", d.Game.ContinuePrompt)
	v.SetDefault("game.reprompt_message", d.Game.RepromptMessage)

	v.SetDefault("answers.yes", d.Answers.Yes)
	v.SetDefault("answers.no", d.Answers.No)

	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.dsn", d.Store.DSN)

	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)

	v.SetDefault("ui.mode", d.UI.Mode)
	v.SetDefault("ui.color", d.UI.Color)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
}

// bindEnv maps ADIVINA_SECTION_KEY variables onto section.key.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Store.DSN = os.ExpandEnv(cfg.Store.DSN)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv loads variables from path without overriding ones already set.
// A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres", "json", "yaml":
	default:
		return fmt.Errorf("invalid store.driver %q: want sqlite, postgres, json or yaml", c.Store.Driver)
	}
	switch c.UI.Mode {
	case "console", "tui":
	default:
		return fmt.Errorf("invalid ui.mode %q: want console or tui", c.UI.Mode)
	}
	if len(c.Answers.Yes) == 0 || len(c.Answers.No) == 0 {
		return errors.New("answers.yes and answers.no must not be empty")
	}
	return nil
}

// getUserConfigDir returns the XDG config directory for adivina.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "adivina")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "adivina")
	}
	return filepath.Join(home, ".config", "adivina")
}

// findProjectConfig searches for .adivina.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ProjectConfigName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			QuestionFormat:    "¿El animal... %s?",
			GuessFormat:       "¿Tu animal es... %s?",
			UnknownMessage:    "No conozco ese animal...",
			NamePrompt:        "¿Qué animal era?",
			DistinguishFormat: "¿Qué tiene %s que no tenga %s?",
			ContinuePrompt:    "¿Quieres seguir jugando?",
			RepromptMessage:   "No entendí correctamente. Intenta escribiendo si o no.",
		},
		Answers: AnswersConfig{
			Yes: []string{"si", "sí", "s", "y", "yes"},
			No:  []string{"no", "n"},
		},
		Store: StoreConfig{
			Driver: "sqlite",
		},
		History: HistoryConfig{
			Enabled: true,
		},
		UI: UIConfig{
			Mode:  "console",
			Color: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
