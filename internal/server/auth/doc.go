// Package auth issues and verifies bearer tokens, hashes passwords and
// provides the authentication and authorization steps run in front of
// protected operations.
//
// BcryptHasher hashes passwords at DefaultCost. Inputs longer than bcrypt's
// 72 byte limit are digested with SHA-256 first so no byte is ignored.
//
// TokenService signs HS256 tokens carrying the user id and reports
// verification failures as ErrTokenMalformed, ErrTokenInvalidSignature or
// ErrTokenExpired. The signature is checked before expiry.
//
// Requests pass through a chain of Step functions (see Chain). Gate.Authenticate
// extracts the bearer token, verifies it, loads the user and binds an
// Identity to the context (see WithIdentity and IdentityFromContext).
// RequireAdmin and RequireRole then read that identity.
package auth
