// internal/game/types.go
//
// Core type definitions for the play mode.
// Defines:
//   - Game:  state for a single in-progress or finished game.
//   - State: JSON snapshot returned to the client.

package game

import "github.com/robalobadob/wordle/apps/go-solver/internal/feedback"

// Game holds the state of a single play-mode session.
type Game struct {
	ID          string              // Unique game identifier (random hex string).
	Answer      string              // The solution word (always lowercase).
	Language    string              // Dictionary language the answer came from.
	Length      int                 // Number of letters per word.
	MaxAttempts int                 // Maximum number of guesses allowed.
	Guesses     []string            // Guesses made so far (lowercased).
	Attempts    []feedback.Feedback // Feedback for each guess, same order.
	Hints       []int               // Revealed positions, first-reveal order.
	Finished    bool                // True once the game is over (won or lost).
	Won         bool                // True if the game was finished with a win.
	Daily       string              // Date key of the puzzle of the day; empty for random games.
}

// Tile is one graded letter as the client renders it.
type Tile struct {
	Letter   string          `json:"letter"`
	Status   feedback.Status `json:"status"`
	Position int             `json:"position"`
}

// State is a read-only snapshot of a game.
type State struct {
	WordLength   int                        `json:"word_length"`
	MaxAttempts  int                        `json:"max_attempts"`
	AttemptsMade int                        `json:"attempts_made"`
	AttemptsLeft int                        `json:"attempts_left"`
	Attempts     [][]Tile                   `json:"attempts"`
	GameOver     bool                       `json:"game_over"`
	Won          bool                       `json:"won"`
	Answer       *string                    `json:"answer"`
	Keyboard     map[string]feedback.Status `json:"keyboard"`
	Hints        []int                      `json:"hints"`
	Daily        string                     `json:"daily,omitempty"`
	Status       string                     `json:"status"` // playing | won | lost
}
