// Package learning persists the knowledge base and grows it after missed guesses.
//
// # Learner
//
// When a round ends without the right answer, the Learner asks the user for
// the entity they had in mind and appends it to the knowledge base. The new
// entity carries exactly the characteristics the user confirmed during the
// walk:
//
//   - Unknown leaf: the entity is {name, confirmed}.
//   - Wrong guess: the user also names one characteristic that tells their
//     entity apart from the guess, which is appended to confirmed.
//
// Characteristics answered "no" are never stored. Absence in the knowledge
// base means "unknown", not "false".
//
// # Stores
//
// Store implementations:
//
//   - SQLStore on SQLite (default, with full-text search) or PostgreSQL.
//   - FileStore on a JSON or YAML file.
//
// Both encode the knowledge base as an ordered list of
// {name, characteristics} records.
package learning
