package session

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/4clab/labauth"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(NewMemScope(), NewMemScope())
}

// fakeToken builds an unsigned JWT-shaped string carrying the given claims.
func fakeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	body := base64.RawURLEncoding.EncodeToString(payload)
	return header + "." + body + ".sig"
}

func TestSaveTokenAuthenticatedLogout(t *testing.T) {
	s := newTestStore(t)

	if s.Authenticated() {
		t.Fatal("fresh store must not be authenticated")
	}

	token := fakeToken(t, map[string]any{"id": "u1", "exp": time.Now().Add(time.Hour).Unix()})
	if err := s.SaveToken(token, true); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	if !s.Authenticated() {
		t.Fatal("expected authenticated after SaveToken")
	}
	if got := s.Token(); got != token {
		t.Fatalf("Token() = %q, want stored token", got)
	}

	s.Logout()
	if s.Authenticated() {
		t.Fatal("expected unauthenticated after Logout")
	}
	if s.Token() != "" {
		t.Fatal("expected empty token after Logout")
	}
}

func TestScopeMutualExclusion(t *testing.T) {
	persistent := NewMemScope()
	ephemeral := NewMemScope()
	s := New(persistent, ephemeral)

	u := labauth.User{ID: "u1", Email: "a@b.com", Role: "formateur"}

	// Remembered session lands in the persistent scope only.
	if err := s.SaveToken("tok-1", true); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	if err := s.SaveUser(u, true); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	if _, ok := persistent.Get(keyToken); !ok {
		t.Fatal("expected token in persistent scope")
	}
	if _, ok := ephemeral.Get(keyToken); ok {
		t.Fatal("ephemeral scope must be empty after remembered save")
	}

	// Flipping remember moves the session and clears the old scope.
	if err := s.SaveToken("tok-2", false); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	if err := s.SaveUser(u, false); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	if _, ok := persistent.Get(keyToken); ok {
		t.Fatal("persistent scope must be cleared after ephemeral save")
	}
	if _, ok := persistent.Get(keyUser); ok {
		t.Fatal("persistent user must be cleared after ephemeral save")
	}
	if got, _ := ephemeral.Get(keyToken); got != "tok-2" {
		t.Fatalf("ephemeral token = %q, want tok-2", got)
	}
}

func TestAuthenticatedExpiredToken(t *testing.T) {
	s := newTestStore(t)

	expired := fakeToken(t, map[string]any{"id": "u1", "exp": time.Now().Add(-time.Hour).Unix()})
	if err := s.SaveToken(expired, false); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	if s.Authenticated() {
		t.Fatal("expired token must not count as authenticated")
	}
	// The token itself stays in storage; only the liveness check fails.
	if s.Token() == "" {
		t.Fatal("expired token should still be stored")
	}
}

func TestAuthenticatedOpaqueToken(t *testing.T) {
	s := newTestStore(t)

	// Undecodable tokens degrade to a presence check.
	if err := s.SaveToken("not-a-jwt", false); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	if !s.Authenticated() {
		t.Fatal("opaque token should pass the presence check")
	}

	// Missing exp is treated as non-expiring.
	noExp := fakeToken(t, map[string]any{"id": "u1"})
	if err := s.SaveToken(noExp, false); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	if !s.Authenticated() {
		t.Fatal("token without exp should pass")
	}
}

func TestCurrentUserAndRole(t *testing.T) {
	s := newTestStore(t)

	if _, ok := s.CurrentUser(); ok {
		t.Fatal("fresh store must have no user")
	}
	if s.Role() != "" {
		t.Fatal("fresh store must have empty role")
	}

	u := labauth.User{ID: "u1", Email: "a@b.com", Role: "admin"}
	if err := s.SaveUser(u, true); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}

	got, ok := s.CurrentUser()
	if !ok || got != u {
		t.Fatalf("CurrentUser() = (%+v, %v), want (%+v, true)", got, ok, u)
	}
	if s.Role() != "admin" {
		t.Fatalf("Role() = %q, want admin", s.Role())
	}

	s.Logout()
	if _, ok := s.CurrentUser(); ok {
		t.Fatal("user must be gone after Logout")
	}
}

func TestCurrentUserHydratesFromStorage(t *testing.T) {
	persistent := NewMemScope()
	data, _ := json.Marshal(labauth.User{ID: "u1", Email: "a@b.com", Role: "formateur"})
	if err := persistent.Set(keyUser, string(data)); err != nil {
		t.Fatalf("seed scope: %v", err)
	}

	s := New(persistent, NewMemScope())
	u, ok := s.CurrentUser()
	if !ok || u.Role != "formateur" {
		t.Fatalf("expected hydrated user, got (%+v, %v)", u, ok)
	}
}

func TestFileScopePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	first, err := NewFileScope(path)
	if err != nil {
		t.Fatalf("NewFileScope: %v", err)
	}
	s := New(first, NewMemScope())

	token := fakeToken(t, map[string]any{"id": "u1", "exp": time.Now().Add(time.Hour).Unix()})
	if err := s.SaveToken(token, true); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	if err := s.SaveUser(labauth.User{ID: "u1", Email: "a@b.com", Role: "apprenant"}, true); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}

	// A second store over the same file sees the remembered session.
	second, err := NewFileScope(path)
	if err != nil {
		t.Fatalf("NewFileScope: %v", err)
	}
	reopened := New(second, NewMemScope())
	if !reopened.Authenticated() {
		t.Fatal("expected remembered session to survive reopen")
	}
	u, ok := reopened.CurrentUser()
	if !ok || u.ID != "u1" {
		t.Fatalf("expected hydrated user, got (%+v, %v)", u, ok)
	}

	reopened.Logout()
	third, err := NewFileScope(path)
	if err != nil {
		t.Fatalf("NewFileScope: %v", err)
	}
	if New(third, NewMemScope()).Authenticated() {
		t.Fatal("logout must clear the persistent file")
	}
}

func TestFileScopeUnreadableStateIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	scope, err := NewFileScope(path)
	if err != nil {
		t.Fatalf("NewFileScope: %v", err)
	}
	if _, ok := scope.Get(keyToken); ok {
		t.Fatal("corrupt state must read as empty")
	}
	// Writes still succeed and replace the corrupt state.
	if err := scope.Set(keyToken, "tok"); err != nil {
		t.Fatalf("Set after corrupt state: %v", err)
	}
	if got, _ := scope.Get(keyToken); got != "tok" {
		t.Fatalf("Get = %q, want tok", got)
	}
}
