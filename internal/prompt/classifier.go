// Package prompt reads answers from a line-oriented terminal.
package prompt

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Answer is the classification of a yes/no reply.
type Answer int

const (
	// Unrecognized means the reply matched neither token list.
	Unrecognized Answer = iota
	Yes
	No
)

// String returns the answer name.
func (a Answer) String() string {
	switch a {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "unrecognized"
	}
}

// DefaultYes and DefaultNo are the accepted reply tokens.
var (
	DefaultYes = []string{"si", "sí", "s", "y", "yes"}
	DefaultNo  = []string{"no", "n"}
)

// Classifier maps free-form replies to Yes or No. Matching is on the whole
// reply, ignoring case, accents, surrounding space and surrounding punctuation,
// so "Sí", "SI" and "si." all match "si".
type Classifier struct {
	yes map[string]struct{}
	no  map[string]struct{}
}

// NewClassifier builds a classifier from token lists. Empty lists fall back
// to the defaults. A token in both lists counts as yes.
func NewClassifier(yes, no []string) *Classifier {
	if len(yes) == 0 {
		yes = DefaultYes
	}
	if len(no) == 0 {
		no = DefaultNo
	}
	c := &Classifier{
		yes: make(map[string]struct{}, len(yes)),
		no:  make(map[string]struct{}, len(no)),
	}
	for _, t := range yes {
		if f := Fold(t); f != "" {
			c.yes[f] = struct{}{}
		}
	}
	for _, t := range no {
		if f := Fold(t); f != "" {
			c.no[f] = struct{}{}
		}
	}
	return c
}

// Classify returns Yes, No or Unrecognized for a reply.
func (c *Classifier) Classify(reply string) Answer {
	f := Fold(reply)
	if _, ok := c.yes[f]; ok {
		return Yes
	}
	if _, ok := c.no[f]; ok {
		return No
	}
	return Unrecognized
}

// Fold normalizes s for comparison: trimmed, surrounding punctuation removed,
// case-folded and stripped of combining marks.
func Fold(s string) string {
	s = strings.TrimFunc(strings.TrimSpace(s), unicode.IsPunct)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(strings.TrimSpace(stripped))
}
