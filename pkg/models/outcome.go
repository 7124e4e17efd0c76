package models

// Outcome is how a round ended.
type Outcome string

const (
	// OutcomeGuessedRight indicates the tree named the user's entity and the user confirmed it.
	OutcomeGuessedRight Outcome = "guessed_right"
	// OutcomeGuessedWrong indicates the tree named an entity and the user disputed it.
	OutcomeGuessedWrong Outcome = "guessed_wrong"
	// OutcomeUnknown indicates the walk ended on a leaf with no known entity.
	OutcomeUnknown Outcome = "unknown"
)

// Valid returns true if the outcome is a known value.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeGuessedRight, OutcomeGuessedWrong, OutcomeUnknown:
		return true
	default:
		return false
	}
}

// IsMiss returns true if the round should trigger learning.
func (o Outcome) IsMiss() bool {
	return o == OutcomeGuessedWrong || o == OutcomeUnknown
}
