// internal/session/session.go
//
// Signed play-session cookies.
// Responsibilities:
//   - Issue an HS256 JWT naming the caller's current game (id, length, lang).
//   - Verify it on later requests (cookie or Authorization: Bearer).
//   - Clear it.
//
// Notes:
//   - The signing key is derived from APP_SECRET with HKDF-SHA256, so the
//     raw secret is never used directly as a MAC key.
//   - Secure + SameSite=None in production; Lax otherwise.

package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

// ErrNoSession is returned when the request carries no (valid) session.
var ErrNoSession = errors.New("no session")

const keyInfo = "wordle-session"

// Claims is the session payload.
type Claims struct {
	GameID   string `json:"gid"`
	Length   int    `json:"len"`
	Language string `json:"lang"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session cookies.
type Manager struct {
	key    []byte
	name   string
	ttl    time.Duration
	secure bool
}

// NewManager derives the signing key from secret.
func NewManager(secret, cookieName string, ttl time.Duration, secure bool) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("session: empty secret")
	}
	key, err := DeriveKey(secret, keyInfo, 32)
	if err != nil {
		return nil, err
	}
	return &Manager{key: key, name: cookieName, ttl: ttl, secure: secure}, nil
}

// DeriveKey expands secret into n bytes of key material bound to info.
func DeriveKey(secret, info string, n int) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	key := make([]byte, n)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// Sign returns the signed token for c, stamping issue and expiry times.
func (m *Manager) Sign(c Claims) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.ttl)
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(exp)
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.key)
	return ss, exp, err
}

// Verify parses and validates a token.
func (m *Manager) Verify(token string) (*Claims, error) {
	var c Claims
	t, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return m.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if !t.Valid || c.GameID == "" {
		return nil, ErrNoSession
	}
	return &c, nil
}

// Issue signs c and writes it as the session cookie.
func (m *Manager) Issue(w http.ResponseWriter, c Claims) error {
	tok, exp, err := m.Sign(c)
	if err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(tok, exp, 0))
	return nil
}

// Read extracts and verifies the session from a bearer header or cookie.
func (m *Manager) Read(r *http.Request) (*Claims, error) {
	tok := m.bearerOrCookie(r)
	if tok == "" {
		return nil, ErrNoSession
	}
	return m.Verify(tok)
}

// Clear deletes the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", time.Time{}, -1))
}

func (m *Manager) cookie(value string, exp time.Time, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if m.secure {
		sameSite = http.SameSiteNoneMode // required for third‑party contexts when Secure
	}
	return &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: sameSite,
		Expires:  exp,
		MaxAge:   maxAge,
	}
}

// bearerOrCookie extracts a bearer token from Authorization header or the session cookie.
func (m *Manager) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(m.name); err == nil {
		return c.Value
	}
	return ""
}
