// internal/game/engine.go
//
// Game engine for a single play-mode session.
// Responsibilities:
//   - Create new games for a chosen answer and word length.
//   - Validate and apply guesses (length, alphabetic, allowed list).
//   - Grade guesses with the shared feedback oracle.
//   - Reveal single-letter hints.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Answers/allowed lists come from the words package via the caller.
//   - randomID() is a compact hex identifier for correlating server state.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// DefaultMaxAttempts is the classic six rows.
const DefaultMaxAttempts = 6

var (
	ErrFinished      = errors.New("game finished")
	ErrInvalidGuess  = errors.New("invalid guess")
	ErrNotInWordList = errors.New("not in word list")
	ErrInvalidHint   = errors.New("invalid hint index")
)

// New constructs a new game for answer.
func New(answer, language string, maxAttempts int) *Game {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return &Game{
		ID:          randomID(),
		Answer:      answer,
		Language:    language,
		Length:      len(answer),
		MaxAttempts: maxAttempts,
		Guesses:     []string{},
	}
}

// ApplyGuess validates and grades a guess, mutating the game state.
// allowed reports whether a word is in the dictionary; nil accepts any word.
//
// State transitions:
//   - If all tiles are Correct → Finished = true, Won = true.
//   - Else if the number of guesses reaches MaxAttempts → Finished = true.
func (g *Game) ApplyGuess(guess string, allowed func(string) bool) (feedback.Feedback, error) {
	if g.Finished {
		return nil, ErrFinished
	}
	guess = strings.ToLower(strings.TrimSpace(guess))
	if len(guess) != g.Length || !isAlpha(guess) {
		return nil, fmt.Errorf("%w: word must be %d letters long", ErrInvalidGuess, g.Length)
	}
	if allowed != nil && !allowed(guess) {
		return nil, ErrNotInWordList
	}

	fb := feedback.Evaluate(guess, g.Answer)
	g.Guesses = append(g.Guesses, guess)
	g.Attempts = append(g.Attempts, fb)

	if fb.Solved() {
		g.Finished, g.Won = true, true
	} else if len(g.Guesses) >= g.MaxAttempts {
		g.Finished = true
	}
	return fb, nil
}

// Hint reveals the answer letter at index. Each index is recorded once.
func (g *Game) Hint(index int) (byte, error) {
	if index < 0 || index >= len(g.Answer) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidHint, index)
	}
	for _, i := range g.Hints {
		if i == index {
			return g.Answer[index], nil
		}
	}
	g.Hints = append(g.Hints, index)
	return g.Answer[index], nil
}

// Status reports a coarse string representation of the game state.
func (g *Game) Status() string {
	if g.Finished {
		if g.Won {
			return "won"
		}
		return "lost"
	}
	return "playing"
}

// State builds the client snapshot. The answer is only included once the
// game is over.
func (g *Game) State() State {
	st := State{
		WordLength:   g.Length,
		MaxAttempts:  g.MaxAttempts,
		AttemptsMade: len(g.Attempts),
		AttemptsLeft: g.MaxAttempts - len(g.Attempts),
		Attempts:     make([][]Tile, 0, len(g.Attempts)),
		GameOver:     g.Finished,
		Won:          g.Won,
		Keyboard:     map[string]feedback.Status{},
		Hints:        append([]int{}, g.Hints...),
		Daily:        g.Daily,
		Status:       g.Status(),
	}
	for _, fb := range g.Attempts {
		st.Attempts = append(st.Attempts, Tiles(fb))
	}
	for letter, s := range feedback.Keyboard(g.Attempts) {
		st.Keyboard[strings.ToUpper(string(letter))] = s
	}
	if g.Finished {
		ans := g.Answer
		st.Answer = &ans
	}
	return st
}

// Clone returns a deep copy that shares no slices with g.
func (g *Game) Clone() *Game {
	c := *g
	c.Guesses = slices.Clone(g.Guesses)
	c.Hints = slices.Clone(g.Hints)
	if g.Attempts != nil {
		c.Attempts = make([]feedback.Feedback, len(g.Attempts))
		for i, fb := range g.Attempts {
			c.Attempts[i] = slices.Clone(fb)
		}
	}
	return &c
}

// Tiles converts feedback to client tiles with upper-case letters.
func Tiles(fb feedback.Feedback) []Tile {
	out := make([]Tile, len(fb))
	for i, c := range fb {
		out[i] = Tile{Letter: strings.ToUpper(string(c.Letter)), Status: c.Status, Position: c.Position}
	}
	return out
}

// isAlpha checks that a string consists only of lowercase a–z.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
