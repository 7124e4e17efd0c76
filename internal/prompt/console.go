package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// YesNoHint is appended to yes/no questions.
const YesNoHint = " [Sí/No]"

// DefaultReprompt is shown after an unrecognized yes/no reply.
const DefaultReprompt = "No entendí correctamente. Intenta escribiendo si o no."

// Console asks questions on a line-oriented terminal. It answers both yes/no
// and free-text prompts, re-asking until a yes/no reply is recognized.
type Console struct {
	in         *bufio.Reader
	out        io.Writer
	classifier *Classifier
	reprompt   string
	colored    bool

	question *color.Color
	warn     *color.Color
}

// Option configures a Console.
type Option func(*Console)

// WithClassifier sets the yes/no classifier.
func WithClassifier(c *Classifier) Option {
	return func(con *Console) { con.classifier = c }
}

// WithReprompt sets the message shown after an unrecognized reply.
func WithReprompt(msg string) Option {
	return func(con *Console) { con.reprompt = msg }
}

// WithColor enables or disables colored output. Color is also disabled
// automatically when stdout is not a terminal.
func WithColor(enabled bool) Option {
	return func(con *Console) { con.colored = enabled }
}

// NewConsole creates a console reading replies from in and writing prompts to out.
func NewConsole(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		in:         bufio.NewReader(in),
		out:        out,
		classifier: NewClassifier(nil, nil),
		reprompt:   DefaultReprompt,
		colored:    true,
		question:   color.New(color.FgCyan, color.Bold),
		warn:       color.New(color.FgYellow),
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.colored {
		c.question.DisableColor()
		c.warn.DisableColor()
	}
	return c
}

// AskYesNo prints prompt and reads replies until one is recognized.
// It returns io.EOF when input ends first.
func (c *Console) AskYesNo(prompt string) (bool, error) {
	c.question.Fprintln(c.out, prompt+YesNoHint)
	for {
		line, err := c.readLine()
		if err != nil {
			return false, err
		}
		switch c.classifier.Classify(line) {
		case Yes:
			return true, nil
		case No:
			return false, nil
		}
		c.warn.Fprintln(c.out, c.reprompt)
	}
}

// AskText prints prompt and returns the next line, trimmed.
func (c *Console) AskText(prompt string) (string, error) {
	c.question.Fprintln(c.out, prompt)
	line, err := c.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Say prints a line.
func (c *Console) Say(msg string) {
	fmt.Fprintln(c.out, msg)
}

// Status prints a line prefixed with a colored symbol.
func (c *Console) Status(symbol, msg string, attr color.Attribute) {
	s := color.New(attr)
	if !c.colored {
		s.DisableColor()
	}
	fmt.Fprintf(c.out, "%s %s\n", s.Sprint(symbol), msg)
}

// readLine returns the next line without its terminator. A final line
// without a newline is returned before io.EOF.
func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		return strings.TrimRight(line, "\r\n"), nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
