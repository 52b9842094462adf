package labauth

import (
	"context"
	"io"
	"time"

	"github.com/4clab/labauth/notify"
)

// User is the public identity shape returned by login and embedded in the
// client session cache.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserRecord is the full credential record held by a [CredentialStore].
// PasswordHash never leaves the engine.
type UserRecord struct {
	UserID       string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// CreateUserInput is the input for [CredentialStore.CreateUser]. Email is
// already normalized (trimmed, lowercased) by the engine.
type CreateUserInput struct {
	Email        string
	PasswordHash string
	Role         string
}

// CredentialStore is the contract callers implement to back the engine with
// their user database. Implementations must enforce email uniqueness
// atomically and report a violation as [ErrStoreDuplicateEmail]; missing
// records are reported as [ErrStoreUserNotFound].
type CredentialStore interface {
	CreateUser(ctx context.Context, input CreateUserInput) (UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (UserRecord, error)
	GetUserByID(ctx context.Context, userID string) (UserRecord, error)
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error
	Ping(ctx context.Context) error
}

// RegisterRequest is the input for [Engine.Register]. Role defaults to
// [Config.Account.DefaultRole] when empty.
type RegisterRequest struct {
	Email    string
	Password string
	Role     string
}

// RegisterResult is returned by [Engine.Register].
type RegisterResult struct {
	UserID string
	Role   string
}

// LoginResult is returned by [Engine.Login]. Token carries the signed claims;
// User is the profile the client is expected to cache alongside it.
type LoginResult struct {
	Token string
	User  User
}

// Event is a structured notification emitted by the engine.
type Event = notify.Event

// Sink receives [Event] values from the engine's notification dispatcher.
type Sink = notify.Sink

// NoOpSink is a [Sink] that silently discards all events.
type NoOpSink = notify.NoOpSink

// ChannelSink is a buffered channel-based [Sink].
type ChannelSink = notify.ChannelSink

// JSONWriterSink is a [Sink] that writes JSON-encoded events to an [io.Writer].
type JSONWriterSink = notify.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return notify.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return notify.NewJSONWriterSink(w)
}
