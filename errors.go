package labauth

import "errors"

var (
	// ErrMissingFields is returned when a request omits a required field.
	ErrMissingFields = errors.New("email and password are required")
	// ErrInvalidEmail is returned when the email does not look like an address.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrPasswordPolicy is returned when the password is shorter than the minimum.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrRoleInvalid is returned when a registration names an unknown role.
	ErrRoleInvalid = errors.New("invalid account role")
	// ErrAccountExists is returned when the email is already registered.
	ErrAccountExists = errors.New("account already exists")
	// ErrInvalidCredentials unifies "email not found" and "wrong password".
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrRoleMismatch is returned when a login role filter does not match the
	// stored role. This is the one credential failure reported distinctly.
	ErrRoleMismatch = errors.New("account role mismatch")
	// ErrTokenInvalid covers malformed, mis-signed, and expired tokens alike.
	ErrTokenInvalid = errors.New("invalid or expired token")
	// ErrStoreUnavailable is returned when the credential store fails.
	ErrStoreUnavailable = errors.New("credential store unavailable")
	// ErrEngineNotReady is returned when the engine is used before Build.
	ErrEngineNotReady = errors.New("engine not initialized")

	// ErrStoreDuplicateEmail is returned by CredentialStore implementations
	// when the unique email constraint is violated.
	ErrStoreDuplicateEmail = errors.New("store: duplicate email")
	// ErrStoreUserNotFound is returned by CredentialStore implementations
	// when no record matches the lookup.
	ErrStoreUserNotFound = errors.New("store: user not found")
)
