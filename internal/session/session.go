// Package session persists the auth token between runs.
// The token is stored in ~/.config/pillbox/token.json.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession is returned when no usable token is stored.
var ErrNoSession = errors.New("no valid session (login required)")

type tokenFile struct {
	Token   string    `json:"token"`
	Email   string    `json:"email"`
	SavedAt time.Time `json:"saved_at"`
}

// Session is a stored login.
type Session struct {
	Token string
	Email string
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "pillbox")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pillbox")
}

// DefaultPath returns the default token file location.
func DefaultPath() string { return filepath.Join(cfgDir(), "token.json") }

func resolve(path string) string {
	if path == "" {
		return DefaultPath()
	}
	return path
}

// Save persists a session token. The directory is created as needed and the
// file kept private.
func Save(path, token, email string) error {
	resolved := resolve(path)
	if err := os.MkdirAll(filepath.Dir(resolved), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(tokenFile{Token: token, Email: email, SavedAt: time.Now()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load reads the stored session, rejecting missing or expired tokens.
func Load(path string) (Session, error) {
	data, err := os.ReadFile(resolve(path))
	if err != nil {
		return Session{}, ErrNoSession
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return Session{}, ErrNoSession
	}
	if tf.Token == "" || Expired(tf.Token, time.Now()) {
		return Session{}, ErrNoSession
	}
	return Session{Token: tf.Token, Email: tf.Email}, nil
}

// Clear removes the stored session. A missing file is not an error.
func Clear(path string) error {
	err := os.Remove(resolve(path))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Expired inspects the token's exp claim without verifying the signature;
// verification is the server's job, the client only avoids presenting a
// token it knows is dead. Tokens that do not parse as JWTs, or carry no exp
// claim, are kept and left for the server to judge.
func Expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.After(exp.Time)
}
