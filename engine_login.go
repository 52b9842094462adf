package labauth

import (
	"context"
	"errors"

	"github.com/4clab/labauth/notify"
)

// Login verifies the credentials and mints a signed token embedding
// {id, email, role}. An optional expectedRole filter rejects accounts of a
// different role with [ErrRoleMismatch]; every other credential failure is
// the unified [ErrInvalidCredentials].
//
// The role filter is checked after the existence lookup and before password
// verification. The ordering is not security-relevant; only the unified
// error message is.
func (e *Engine) Login(ctx context.Context, email, pass, expectedRole string) (*LoginResult, error) {
	if e == nil || e.store == nil || e.hasher == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	email = normalizeEmail(email)
	if email == "" || pass == "" {
		return nil, ErrMissingFields
	}

	record, err := e.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrStoreUserNotFound) {
			e.metricInc(MetricLoginFailure)
			e.emit(ctx, "login_failure", notify.LevelError, "", "login rejected: bad credentials")
			return nil, ErrInvalidCredentials
		}
		return nil, ErrStoreUnavailable
	}

	if expectedRole != "" && record.Role != expectedRole {
		e.metricInc(MetricLoginRoleMismatch)
		e.emit(ctx, "login_role_mismatch", notify.LevelWarning, record.UserID, "login rejected: account is not a "+expectedRole+" account")
		return nil, ErrRoleMismatch
	}

	ok, err := e.hasher.Verify(pass, record.PasswordHash)
	if err != nil || !ok {
		e.metricInc(MetricLoginFailure)
		e.emit(ctx, "login_failure", notify.LevelError, record.UserID, "login rejected: bad credentials")
		return nil, ErrInvalidCredentials
	}

	if e.config.Password.UpgradeOnLogin {
		e.maybeUpgradeHash(ctx, record.UserID, pass, record.PasswordHash)
	}

	token, err := e.tokens.Issue(record.UserID, record.Email, record.Role)
	if err != nil {
		return nil, ErrStoreUnavailable
	}

	e.metricInc(MetricLoginSuccess)
	e.emit(ctx, "login_success", notify.LevelSuccess, record.UserID, "login succeeded")

	return &LoginResult{
		Token: token,
		User: User{
			ID:    record.UserID,
			Email: record.Email,
			Role:  record.Role,
		},
	}, nil
}

// maybeUpgradeHash re-hashes the password with the current parameters when
// the stored hash is weaker. Failures are ignored; the stored hash stays
// valid either way.
func (e *Engine) maybeUpgradeHash(ctx context.Context, userID, pass, storedHash string) {
	needs, err := e.hasher.NeedsUpgrade(storedHash)
	if err != nil || !needs {
		return
	}
	newHash, err := e.hasher.Hash(pass)
	if err != nil {
		return
	}
	_ = e.store.UpdatePasswordHash(ctx, userID, newHash)
}
