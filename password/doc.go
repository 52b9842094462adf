// Package password provides one-way argon2id hashing in standard PHC string
// format with constant-time verification. Stored hashes never equal the
// plaintext and are never compared as strings.
package password
