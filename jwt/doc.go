// Package jwt manages identity-token issuance and verification with a fixed
// lifetime and strict, fail-closed validation semantics. Tokens embed the
// subject id, email, and role; there is no refresh mechanism — an expired
// token requires a new login.
package jwt
