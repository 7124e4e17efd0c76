package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ShayCichocki/adivina/pkg/models"
)

// Round is one played game round.
type Round struct {
	ID      string         `json:"id"`
	Outcome models.Outcome `json:"outcome"`
	// Guess is the entity the tree named, empty for an unknown leaf.
	Guess string `json:"guess"`
	// Answer is the entity the user had in mind, when it is known.
	Answer    string    `json:"answer"`
	Confirmed []string  `json:"confirmed"`
	Questions int       `json:"questions"`
	Learned   bool      `json:"learned"`
	PlayedAt  time.Time `json:"played_at"`
}

// Summary aggregates the round history.
type Summary struct {
	Total     int
	Learned   int
	ByOutcome map[models.Outcome]int
}

// HitRate returns the fraction of rounds guessed right, or 0 with no rounds.
func (s *Summary) HitRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.ByOutcome[models.OutcomeGuessedRight]) / float64(s.Total)
}

// Record inserts a round. Missing ID and PlayedAt are filled in.
func (db *DB) Record(r *Round) error {
	if !r.Outcome.Valid() {
		return fmt.Errorf("invalid outcome: %q", r.Outcome)
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.PlayedAt.IsZero() {
		r.PlayedAt = time.Now()
	}

	confirmed := r.Confirmed
	if confirmed == nil {
		confirmed = []string{}
	}
	confirmedJSON, err := json.Marshal(confirmed)
	if err != nil {
		return fmt.Errorf("marshal confirmed: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	_, err = db.conn.Exec(`
		INSERT INTO rounds (id, outcome, guess, answer, confirmed, questions, learned, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, string(r.Outcome), r.Guess, r.Answer, string(confirmedJSON), r.Questions, r.Learned, formatTime(r.PlayedAt))
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}
	return nil
}

// Recent returns up to limit rounds, newest first. A limit <= 0 returns all.
func (db *DB) Recent(limit int) ([]Round, error) {
	if limit <= 0 {
		limit = -1
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query(`
		SELECT id, outcome, guess, answer, confirmed, questions, learned, played_at
		FROM rounds
		ORDER BY julianday(played_at) DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer rows.Close()

	var rounds []Round
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rounds: %w", err)
	}
	return rounds, nil
}

// Summary counts rounds per outcome.
func (db *DB) Summary() (*Summary, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	s := &Summary{ByOutcome: make(map[models.Outcome]int)}

	rows, err := db.conn.Query(`SELECT outcome, COUNT(*) FROM rounds GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			outcome string
			count   int
		)
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		s.ByOutcome[models.Outcome(outcome)] = count
		s.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary: %w", err)
	}

	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM rounds WHERE learned = 1`).Scan(&s.Learned); err != nil {
		return nil, fmt.Errorf("count learned: %w", err)
	}
	return s, nil
}

// scanRound scans a rounds row.
func scanRound(rows *sql.Rows) (*Round, error) {
	var (
		r             Round
		outcome       string
		guess, answer sql.NullString
		confirmedJSON string
		playedAt      string
	)
	if err := rows.Scan(&r.ID, &outcome, &guess, &answer, &confirmedJSON, &r.Questions, &r.Learned, &playedAt); err != nil {
		return nil, fmt.Errorf("scan round: %w", err)
	}

	r.Outcome = models.Outcome(outcome)
	r.Guess = guess.String
	r.Answer = answer.String

	if err := json.Unmarshal([]byte(confirmedJSON), &r.Confirmed); err != nil {
		return nil, fmt.Errorf("unmarshal confirmed: %w", err)
	}

	t, err := parseTime(playedAt)
	if err != nil {
		return nil, fmt.Errorf("parse played_at: %w", err)
	}
	r.PlayedAt = t
	return &r, nil
}
