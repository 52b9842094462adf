package labauth

import (
	"errors"
	"time"

	"github.com/4clab/labauth/permission"
)

// Config defines the engine configuration. Instances are set up during
// initialization and treated as immutable afterwards.
type Config struct {
	JWT      JWTConfig
	Password PasswordConfig
	Account  AccountConfig
	Notify   NotifyConfig
	Metrics  MetricsConfig
}

// JWTConfig configures token issuance and verification.
type JWTConfig struct {
	// TTL is the fixed token lifetime. Tokens are not refreshable; an
	// expired token requires a new login.
	TTL           time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

// PasswordConfig holds the argon2id parameters.
type PasswordConfig struct {
	Memory         uint32 // in KB
	Time           uint32
	Parallelism    uint8
	SaltLength     uint32
	KeyLength      uint32
	UpgradeOnLogin bool
}

// AccountConfig configures registration behavior.
type AccountConfig struct {
	DefaultRole       string
	MinPasswordLength int
}

// NotifyConfig configures the notification dispatcher.
type NotifyConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the baseline configuration: 24h HS256 tokens,
// moderate argon2id cost, role "apprenant" for new accounts, and
// notifications buffered with drop-if-full semantics.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			TTL:           24 * time.Hour,
			SigningMethod: "hs256",
			Issuer:        "labauth",
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Account: AccountConfig{
			DefaultRole:       permission.RoleApprenant,
			MinPasswordLength: 6,
		},
		Notify: NotifyConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.JWT.PrivateKey != nil {
		out.JWT.PrivateKey = append([]byte(nil), cfg.JWT.PrivateKey...)
	}
	if cfg.JWT.PublicKey != nil {
		out.JWT.PublicKey = append([]byte(nil), cfg.JWT.PublicKey...)
	}
	return out
}

func validateConfig(cfg Config) error {
	if cfg.JWT.TTL <= 0 {
		return errors.New("jwt ttl must be positive")
	}
	if cfg.Account.MinPasswordLength < 6 {
		return errors.New("minimum password length below platform floor")
	}
	if cfg.Account.DefaultRole != "" && !permission.KnownRole(cfg.Account.DefaultRole) {
		return errors.New("default role is not a known role")
	}
	return nil
}
