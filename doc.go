// Package labauth provides the authentication and role-authorization core of
// the lab-manager platform: credential registration and verification against a
// pluggable credential store, signed 24-hour identity tokens, and a fixed
// role-to-capability model consumed by the navigation guard.
//
// The package is the public surface. It exposes [Engine], [Builder], [Config],
// the [CredentialStore] contract, and the error taxonomy. Token mechanics live
// in the jwt sub-package, hashing in password, capability resolution in
// permission, client session state in session, and navigation decisions in
// guard.
//
// # Architecture boundaries
//
//   - Engine methods perform all I/O; construction via [Builder.Build] is
//     allocation-only.
//   - The engine never exposes password hashes, signing keys, or store
//     internals through its results.
//   - Credential lookups go through [CredentialStore]; the engine contains no
//     SQL and no driver imports.
//
// # Error discipline
//
// Failures are reported through sentinel errors (ErrInvalidCredentials,
// ErrAccountExists, ...) matched with errors.Is. Login failures caused by a
// missing account and by a wrong password are deliberately indistinguishable;
// only a role-filter mismatch is reported separately.
package labauth
