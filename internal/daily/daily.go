// Package daily picks the shared puzzle of the day.
//
// Every player asking on the same UTC date gets the same answer for a given
// answer list and salt. Changing the salt reshuffles the sequence.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"time"
)

// ErrNoAnswers is returned when the answer list is empty.
var ErrNoAnswers = errors.New("daily: no answers")

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Index maps a date onto [0, n) via HMAC-SHA256(salt, DateKey).
func Index(t time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(n))
}

// Pick returns the answer for the date of t and its date key.
func Pick(answers []string, t time.Time, salt string) (word, date string, err error) {
	if len(answers) == 0 {
		return "", "", ErrNoAnswers
	}
	return answers[Index(t, salt, len(answers))], DateKey(t), nil
}
