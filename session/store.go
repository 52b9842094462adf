// Package session holds the client-side session state: the issued token and
// the cached user profile, spread across a persistent and an ephemeral
// storage scope. Exactly one scope holds the session at any time; every
// write clears the other scope.
//
// The store is an explicit object with a hydrate/clear lifecycle — it is
// owned by the composition root and handed to the guard and UI layers, never
// a package-level singleton.
package session

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/4clab/labauth"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// Store is the client session state. Safe for concurrent use.
type Store struct {
	persistent Scope
	ephemeral  Scope

	mu      sync.Mutex
	current *labauth.User
}

// New creates a store over the two scopes and hydrates the in-memory cache
// from whatever scope already holds a session.
func New(persistent, ephemeral Scope) *Store {
	s := &Store{
		persistent: persistent,
		ephemeral:  ephemeral,
	}
	s.Hydrate()
	return s
}

// Hydrate reloads the in-memory user cache from storage. Persistent scope
// wins, matching token lookup order.
func (s *Store) Hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	for _, scope := range []Scope{s.persistent, s.ephemeral} {
		raw, ok := scope.Get(keyUser)
		if !ok {
			continue
		}
		var u labauth.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			continue
		}
		s.current = &u
		return
	}
}

// SaveToken stores the token in the persistent scope when remember is true,
// otherwise in the ephemeral scope. The other scope is cleared so the two
// can never both hold a session.
func (s *Store) SaveToken(token string, remember bool) error {
	target, other := s.pick(remember)
	_ = other.Delete(keyToken)
	_ = other.Delete(keyUser)
	return target.Set(keyToken, token)
}

// SaveUser caches the user profile in memory and in the same scope the token
// went to.
func (s *Store) SaveUser(u labauth.User, remember bool) error {
	s.mu.Lock()
	s.current = &u
	s.mu.Unlock()

	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	target, other := s.pick(remember)
	_ = other.Delete(keyUser)
	return target.Set(keyUser, string(data))
}

// Token returns the stored token, preferring the persistent scope. Empty
// when logged out.
func (s *Store) Token() string {
	if t, ok := s.persistent.Get(keyToken); ok {
		return t
	}
	if t, ok := s.ephemeral.Get(keyToken); ok {
		return t
	}
	return ""
}

// Authenticated reports whether a usable token is present. A token whose
// decoded expiry is in the past counts as absent; a token that does not
// decode as a JWT degrades to a pure presence check. No signature check
// happens here — the client holds no key.
func (s *Store) Authenticated() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	return !tokenExpired(token, time.Now())
}

// CurrentUser returns the cached user profile, falling back to a one-time
// deserialization from storage.
func (s *Store) CurrentUser() (labauth.User, bool) {
	s.mu.Lock()
	if s.current != nil {
		u := *s.current
		s.mu.Unlock()
		return u, true
	}
	s.mu.Unlock()

	s.Hydrate()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return labauth.User{}, false
	}
	return *s.current, true
}

// Role returns the cached user's role, or "" when no user is cached.
func (s *Store) Role() string {
	u, ok := s.CurrentUser()
	if !ok {
		return ""
	}
	return u.Role
}

// Logout clears both scopes and the in-memory cache unconditionally.
func (s *Store) Logout() {
	for _, scope := range []Scope{s.persistent, s.ephemeral} {
		_ = scope.Delete(keyToken)
		_ = scope.Delete(keyUser)
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

func (s *Store) pick(remember bool) (target, other Scope) {
	if remember {
		return s.persistent, s.ephemeral
	}
	return s.ephemeral, s.persistent
}

// tokenExpired decodes the exp claim without verifying the signature.
func tokenExpired(token string, now time.Time) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}
	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Exp == 0 {
		return false
	}
	return now.Unix() >= claims.Exp
}
