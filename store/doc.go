// Package store provides CredentialStore implementations: an in-memory store
// for tests and demos, and SQL-backed stores for Postgres and SQLite.
//
// The SQL stores enforce email uniqueness with a UNIQUE column and map the
// driver's constraint-violation error to [labauth.ErrStoreDuplicateEmail];
// there is no check-then-insert race. Emails arrive already normalized from
// the engine.
package store
