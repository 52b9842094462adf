package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/4clab/labauth"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	password   TEXT NOT NULL,
	role       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
)`

// SQLite is a [labauth.CredentialStore] backed by a SQLite file (or
// ":memory:" for throwaway instances). Suited to single-node deployments.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens the database at path and verifies it with a ping.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Migrate creates the users table when absent.
func (s *SQLite) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteSchema)
	return err
}

// Close closes the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateUser implements [labauth.CredentialStore].
func (s *SQLite) CreateUser(ctx context.Context, input labauth.CreateUserInput) (labauth.UserRecord, error) {
	record := labauth.UserRecord{
		UserID:       uuid.NewString(),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		CreatedAt:    time.Now().UTC(),
	}

	query := `INSERT INTO users (id, email, password, role, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		record.UserID,
		record.Email,
		record.PasswordHash,
		record.Role,
		record.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return labauth.UserRecord{}, labauth.ErrStoreDuplicateEmail
		}
		return labauth.UserRecord{}, fmt.Errorf("insert user: %w", err)
	}
	return record, nil
}

// GetUserByEmail implements [labauth.CredentialStore].
func (s *SQLite) GetUserByEmail(ctx context.Context, email string) (labauth.UserRecord, error) {
	query := `SELECT id, email, password, role, created_at FROM users WHERE email = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

// GetUserByID implements [labauth.CredentialStore].
func (s *SQLite) GetUserByID(ctx context.Context, userID string) (labauth.UserRecord, error) {
	query := `SELECT id, email, password, role, created_at FROM users WHERE id = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, userID))
}

// UpdatePasswordHash implements [labauth.CredentialStore].
func (s *SQLite) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password = ? WHERE id = ?`, newHash, userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return labauth.ErrStoreUserNotFound
	}
	return nil
}

// Ping implements [labauth.CredentialStore].
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) scanUser(row *sql.Row) (labauth.UserRecord, error) {
	var record labauth.UserRecord
	err := row.Scan(
		&record.UserID,
		&record.Email,
		&record.PasswordHash,
		&record.Role,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return labauth.UserRecord{}, labauth.ErrStoreUserNotFound
		}
		return labauth.UserRecord{}, fmt.Errorf("scan user: %w", err)
	}
	return record, nil
}
