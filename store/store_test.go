package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/4clab/labauth"
)

// runStoreConformance exercises the CredentialStore contract against any
// implementation.
func runStoreConformance(t *testing.T, s labauth.CredentialStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		record, err := s.CreateUser(ctx, labauth.CreateUserInput{
			Email:        "a@b.com",
			PasswordHash: "$argon2id$fake",
			Role:         "formateur",
		})
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if record.UserID == "" {
			t.Fatal("expected a generated user ID")
		}
		if record.CreatedAt.IsZero() {
			t.Fatal("expected a creation timestamp")
		}

		byEmail, err := s.GetUserByEmail(ctx, "a@b.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail.UserID != record.UserID || byEmail.Role != "formateur" {
			t.Fatalf("unexpected record: %+v", byEmail)
		}

		byID, err := s.GetUserByID(ctx, record.UserID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.Email != "a@b.com" {
			t.Fatalf("unexpected record: %+v", byID)
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := s.CreateUser(ctx, labauth.CreateUserInput{
			Email:        "a@b.com",
			PasswordHash: "$argon2id$other",
			Role:         "apprenant",
		})
		if !errors.Is(err, labauth.ErrStoreDuplicateEmail) {
			t.Fatalf("expected ErrStoreDuplicateEmail, got %v", err)
		}
		// The original record is untouched.
		record, err := s.GetUserByEmail(ctx, "a@b.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if record.Role != "formateur" {
			t.Fatalf("original record was replaced: %+v", record)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		if _, err := s.GetUserByEmail(ctx, "missing@b.com"); !errors.Is(err, labauth.ErrStoreUserNotFound) {
			t.Fatalf("expected ErrStoreUserNotFound, got %v", err)
		}
		if _, err := s.GetUserByID(ctx, "no-such-id"); !errors.Is(err, labauth.ErrStoreUserNotFound) {
			t.Fatalf("expected ErrStoreUserNotFound, got %v", err)
		}
	})

	t.Run("UpdatePasswordHash", func(t *testing.T) {
		record, err := s.GetUserByEmail(ctx, "a@b.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}

		if err := s.UpdatePasswordHash(ctx, record.UserID, "$argon2id$upgraded"); err != nil {
			t.Fatalf("UpdatePasswordHash failed: %v", err)
		}
		updated, err := s.GetUserByID(ctx, record.UserID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if updated.PasswordHash != "$argon2id$upgraded" {
			t.Fatalf("hash not updated: %q", updated.PasswordHash)
		}

		if err := s.UpdatePasswordHash(ctx, "no-such-id", "x"); !errors.Is(err, labauth.ErrStoreUserNotFound) {
			t.Fatalf("expected ErrStoreUserNotFound, got %v", err)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		if err := s.Ping(ctx); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreConformance(t, NewMemory())
}

func TestSQLiteStore(t *testing.T) {
	// A file-backed database: ":memory:" gives every pooled connection its
	// own empty schema.
	s, err := NewSQLite(filepath.Join(t.TempDir(), "labauth.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	// Migrate is idempotent.
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	runStoreConformance(t, s)
}
