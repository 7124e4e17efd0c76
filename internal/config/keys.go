package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownKey is returned when a dotted key does not name a setting.
var ErrUnknownKey = errors.New("unknown config key")

// field binds a dotted key to a string view of one Config field.
type field struct {
	get func(c *Config) string
	set func(c *Config, value string) error
}

func stringField(p func(c *Config) *string) field {
	return field{
		get: func(c *Config) string { return *p(c) },
		set: func(c *Config, value string) error {
			*p(c) = value
			return nil
		},
	}
}

func boolField(p func(c *Config) *bool) field {
	return field{
		get: func(c *Config) string { return strconv.FormatBool(*p(c)) },
		set: func(c *Config, value string) error {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("parse bool %q: %w", value, err)
			}
			*p(c) = b
			return nil
		},
	}
}

// listField reads and writes a comma-separated list.
func listField(p func(c *Config) *[]string) field {
	return field{
		get: func(c *Config) string { return strings.Join(*p(c), ",") },
		set: func(c *Config, value string) error {
			var out []string
			for _, s := range strings.Split(value, ",") {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
			if len(out) == 0 {
				return errors.New("list must not be empty")
			}
			*p(c) = out
			return nil
		},
	}
}

var keyOrder = []string{
	"game.question_format",
	"game.guess_format",
	"game.unknown_message",
	"game.name_prompt",
	"game.distinguish_format",
	"game.continue_prompt",
	"game.reprompt_message",
	"answers.yes",
	"answers.no",
	"store.driver",
	"store.path",
	"store.dsn",
	"history.enabled",
	"history.path",
	"ui.mode",
	"ui.color",
	"logging.level",
	"logging.file",
}

var fields = map[string]field{
	"game.question_format":    stringField(func(c *Config) *string { return &c.Game.QuestionFormat }),
	"game.guess_format":       stringField(func(c *Config) *string { return &c.Game.GuessFormat }),
	"game.unknown_message":    stringField(func(c *Config) *string { return &c.Game.UnknownMessage }),
	"game.name_prompt":        stringField(func(c *Config) *string { return &c.Game.NamePrompt }),
	"game.distinguish_format": stringField(func(c *Config) *string { return &c.Game.DistinguishFormat }),
	"game.continue_prompt":    stringField(func(c *Config) *string { return &c.Game.ContinuePrompt }),
	"game.reprompt_message":   stringField(func(c *Config) *string { return &c.Game.RepromptMessage }),
	"answers.yes":             listField(func(c *Config) *[]string { return &c.Answers.Yes }),
	"answers.no":              listField(func(c *Config) *[]string { return &c.Answers.No }),
	"store.driver":            stringField(func(c *Config) *string { return &c.Store.Driver }),
	"store.path":              stringField(func(c *Config) *string { return &c.Store.Path }),
	"store.dsn":               stringField(func(c *Config) *string { return &c.Store.DSN }),
	"history.enabled":         boolField(func(c *Config) *bool { return &c.History.Enabled }),
	"history.path":            stringField(func(c *Config) *string { return &c.History.Path }),
	"ui.mode":                 stringField(func(c *Config) *string { return &c.UI.Mode }),
	"ui.color":                boolField(func(c *Config) *bool { return &c.UI.Color }),
	"logging.level":           stringField(func(c *Config) *string { return &c.Logging.Level }),
	"logging.file":            stringField(func(c *Config) *string { return &c.Logging.File }),
}

// Keys returns every settable dotted key in display order.
func Keys() []string {
	return append([]string(nil), keyOrder...)
}

// Get returns the string form of a setting. Lists are comma-separated.
func Get(cfg *Config, key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.get(cfg), nil
}

// Set parses value into the setting named by key and validates the result.
// On error cfg is left unchanged.
func Set(cfg *Config, key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	next := *cfg
	next.Answers.Yes = append([]string(nil), cfg.Answers.Yes...)
	next.Answers.No = append([]string(nil), cfg.Answers.No...)
	if err := f.set(&next, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	*cfg = next
	return nil
}
