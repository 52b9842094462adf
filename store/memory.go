package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/4clab/labauth"
)

// Memory is an in-process [labauth.CredentialStore]. Uniqueness is enforced
// under its mutex, which is the atomic-constraint equivalent here.
type Memory struct {
	mu      sync.RWMutex
	byID    map[string]labauth.UserRecord
	byEmail map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[string]labauth.UserRecord),
		byEmail: make(map[string]string),
	}
}

// CreateUser implements [labauth.CredentialStore].
func (m *Memory) CreateUser(_ context.Context, input labauth.CreateUserInput) (labauth.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[input.Email]; exists {
		return labauth.UserRecord{}, labauth.ErrStoreDuplicateEmail
	}

	record := labauth.UserRecord{
		UserID:       uuid.NewString(),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		CreatedAt:    time.Now().UTC(),
	}
	m.byID[record.UserID] = record
	m.byEmail[record.Email] = record.UserID
	return record, nil
}

// GetUserByEmail implements [labauth.CredentialStore].
func (m *Memory) GetUserByEmail(_ context.Context, email string) (labauth.UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return labauth.UserRecord{}, labauth.ErrStoreUserNotFound
	}
	return m.byID[id], nil
}

// GetUserByID implements [labauth.CredentialStore].
func (m *Memory) GetUserByID(_ context.Context, userID string) (labauth.UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[userID]
	if !ok {
		return labauth.UserRecord{}, labauth.ErrStoreUserNotFound
	}
	return record, nil
}

// UpdatePasswordHash implements [labauth.CredentialStore].
func (m *Memory) UpdatePasswordHash(_ context.Context, userID, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[userID]
	if !ok {
		return labauth.ErrStoreUserNotFound
	}
	record.PasswordHash = newHash
	m.byID[userID] = record
	return nil
}

// Ping implements [labauth.CredentialStore].
func (m *Memory) Ping(context.Context) error {
	return nil
}
