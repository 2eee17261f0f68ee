// Package auth implements the shared-passphrase gate in front of the
// practice UI.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"sync"
)

// CookieName is the browser cookie carrying the session token.
const CookieName = "theni_session"

var (
	// ErrEmptyPassphrase is returned by New when no passphrase is configured.
	ErrEmptyPassphrase = errors.New("access passphrase must not be empty")
	// ErrWrongPassphrase is returned by Login on a mismatch.
	ErrWrongPassphrase = errors.New("wrong passphrase")
)

// Gate checks the passphrase and remembers the tokens it issued. Tokens stay
// valid until the process exits.
type Gate struct {
	passphrase []byte

	mu     sync.RWMutex
	tokens map[string]struct{}
}

// New creates a gate for passphrase.
func New(passphrase string) (*Gate, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	return &Gate{
		passphrase: []byte(passphrase),
		tokens:     make(map[string]struct{}),
	}, nil
}

// Login returns a fresh token when given matches the passphrase.
func (g *Gate) Login(given string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(given), g.passphrase) != 1 {
		return "", ErrWrongPassphrase
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	g.mu.Lock()
	g.tokens[token] = struct{}{}
	g.mu.Unlock()

	return token, nil
}

// Valid reports whether token was issued by this gate.
func (g *Gate) Valid(token string) bool {
	if token == "" {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.tokens[token]
	return ok
}

// Authenticated reports whether the request carries a valid session cookie.
func (g *Gate) Authenticated(r *http.Request) bool {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	return g.Valid(c.Value)
}

// SetCookie stores token in the response.
func SetCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

// Require rejects requests without a valid session with 401.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Authenticated(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
