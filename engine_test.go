package labauth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// mockStore is an in-memory CredentialStore for engine tests.
type mockStore struct {
	mu      sync.Mutex
	seq     int
	byID    map[string]UserRecord
	byEmail map[string]string

	pingErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		byID:    map[string]UserRecord{},
		byEmail: map[string]string{},
	}
}

func (m *mockStore) put(record UserRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[record.UserID] = record
	m.byEmail[record.Email] = record.UserID
}

func (m *mockStore) CreateUser(_ context.Context, input CreateUserInput) (UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[input.Email]; exists {
		return UserRecord{}, ErrStoreDuplicateEmail
	}
	m.seq++
	record := UserRecord{
		UserID:       fmt.Sprintf("user-%d", m.seq),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		CreatedAt:    time.Now(),
	}
	m.byID[record.UserID] = record
	m.byEmail[record.Email] = record.UserID
	return record, nil
}

func (m *mockStore) GetUserByEmail(_ context.Context, email string) (UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byEmail[email]
	if !ok {
		return UserRecord{}, ErrStoreUserNotFound
	}
	return m.byID[id], nil
}

func (m *mockStore) GetUserByID(_ context.Context, userID string) (UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[userID]
	if !ok {
		return UserRecord{}, ErrStoreUserNotFound
	}
	return record, nil
}

func (m *mockStore) UpdatePasswordHash(_ context.Context, userID, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[userID]
	if !ok {
		return ErrStoreUserNotFound
	}
	record.PasswordHash = newHash
	m.byID[userID] = record
	return nil
}

func (m *mockStore) Ping(context.Context) error {
	return m.pingErr
}

func testConfig() Config {
	cfg := defaultConfig()
	cfg.JWT.PrivateKey = []byte("test-secret")
	// keep argon2 at the floor so tests stay fast
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Password.KeyLength = 16
	return cfg
}

func newTestEngine(t *testing.T, cfg Config, ms *mockStore) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(cfg).
		WithStore(ms).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}
