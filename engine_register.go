package labauth

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/4clab/labauth/notify"
	"github.com/4clab/labauth/permission"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Register validates the request, hashes the password, and creates the
// credential record. Email uniqueness is enforced by the store's unique
// constraint; a violation surfaces as [ErrAccountExists]. Role defaults to
// [AccountConfig.DefaultRole] when empty and must be a known role.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if e == nil || e.store == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(req.Password) < e.config.Account.MinPasswordLength {
		return nil, ErrPasswordPolicy
	}

	role := req.Role
	if role == "" {
		role = e.config.Account.DefaultRole
	}
	if !permission.KnownRole(role) {
		return nil, ErrRoleInvalid
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return nil, ErrPasswordPolicy
	}

	created, err := e.store.CreateUser(ctx, CreateUserInput{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, ErrStoreDuplicateEmail) {
			e.metricInc(MetricRegisterDuplicate)
			e.emit(ctx, "register_duplicate", notify.LevelWarning, "", "registration rejected: email already in use")
			return nil, ErrAccountExists
		}
		e.emit(ctx, "register_failure", notify.LevelError, "", "registration failed: store error")
		return nil, ErrStoreUnavailable
	}

	e.metricInc(MetricRegisterSuccess)
	e.emit(ctx, "register_success", notify.LevelSuccess, created.UserID, "account created")

	return &RegisterResult{
		UserID: created.UserID,
		Role:   created.Role,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
