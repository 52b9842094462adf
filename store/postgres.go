package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/4clab/labauth"
)

const pgSchema = `CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	password   TEXT NOT NULL,
	role       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres is a [labauth.CredentialStore] backed by PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection to dsn and verifies it with a ping.
// Connection-level timeouts belong in the DSN (connect_timeout).
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{db: db}, nil
}

// Migrate creates the users table when absent.
func (s *Postgres) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, pgSchema)
	return err
}

// Close closes the underlying connection pool.
func (s *Postgres) Close() error {
	return s.db.Close()
}

// CreateUser implements [labauth.CredentialStore]. The UNIQUE constraint on
// email is the uniqueness guarantee; a violation maps to
// [labauth.ErrStoreDuplicateEmail].
func (s *Postgres) CreateUser(ctx context.Context, input labauth.CreateUserInput) (labauth.UserRecord, error) {
	record := labauth.UserRecord{
		UserID:       uuid.NewString(),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
	}

	query := `INSERT INTO users (id, email, password, role) VALUES ($1, $2, $3, $4) RETURNING created_at`
	err := s.db.QueryRowContext(ctx, query,
		record.UserID,
		record.Email,
		record.PasswordHash,
		record.Role,
	).Scan(&record.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return labauth.UserRecord{}, labauth.ErrStoreDuplicateEmail
		}
		return labauth.UserRecord{}, fmt.Errorf("insert user: %w", err)
	}
	return record, nil
}

// GetUserByEmail implements [labauth.CredentialStore].
func (s *Postgres) GetUserByEmail(ctx context.Context, email string) (labauth.UserRecord, error) {
	query := `SELECT id, email, password, role, created_at FROM users WHERE email = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

// GetUserByID implements [labauth.CredentialStore].
func (s *Postgres) GetUserByID(ctx context.Context, userID string) (labauth.UserRecord, error) {
	query := `SELECT id, email, password, role, created_at FROM users WHERE id = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, userID))
}

// UpdatePasswordHash implements [labauth.CredentialStore].
func (s *Postgres) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password = $1 WHERE id = $2`, newHash, userID)
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
func (s *Postgres) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Postgres) scanUser(row *sql.Row) (labauth.UserRecord, error) {
	var record labauth.UserRecord
	var createdAt time.Time
	err := row.Scan(
		&record.UserID,
		&record.Email,
		&record.PasswordHash,
		&record.Role,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return labauth.UserRecord{}, labauth.ErrStoreUserNotFound
		}
		return labauth.UserRecord{}, fmt.Errorf("scan user: %w", err)
	}
	record.CreatedAt = createdAt
	return record, nil
}
