package labauth

import (
	"errors"

	"github.com/4clab/labauth/jwt"
	"github.com/4clab/labauth/notify"
	"github.com/4clab/labauth/password"
)

// Builder assembles an [Engine]. Zero I/O happens until [Builder.Build].
type Builder struct {
	config Config
	store  CredentialStore
	sink   Sink
	built  bool
}

// New returns a [Builder] pre-loaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStore sets the credential store backing the engine.
func (b *Builder) WithStore(store CredentialStore) *Builder {
	b.store = store
	return b
}

// WithNotifySink sets the sink receiving engine notification events.
func (b *Builder) WithNotifySink(sink Sink) *Builder {
	b.sink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and constructs the engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.store == nil {
		return nil, errors.New("credential store is required")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	hasher, err := password.NewArgon2(password.Config{
		Memory:      b.config.Password.Memory,
		Time:        b.config.Password.Time,
		Parallelism: b.config.Password.Parallelism,
		SaltLength:  b.config.Password.SaltLength,
		KeyLength:   b.config.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	tokens, err := jwt.NewManager(jwt.Config{
		TTL:           b.config.JWT.TTL,
		SigningMethod: jwt.SigningMethod(b.config.JWT.SigningMethod),
		PrivateKey:    b.config.JWT.PrivateKey,
		PublicKey:     b.config.JWT.PublicKey,
		Issuer:        b.config.JWT.Issuer,
		Leeway:        b.config.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	dispatcher := notify.NewDispatcher(notify.Config{
		Enabled:    b.config.Notify.Enabled,
		BufferSize: b.config.Notify.BufferSize,
		DropIfFull: b.config.Notify.DropIfFull,
	}, b.sink)

	b.built = true

	return &Engine{
		config:   b.config,
		store:    b.store,
		hasher:   hasher,
		tokens:   tokens,
		notifier: dispatcher,
		metrics:  NewMetrics(b.config.Metrics),
	}, nil
}
