// Package common contains shared constants and the error taxonomy used across
// authgate components.
package common

// AuthorizationHeaderName is the HTTP header and gRPC metadata key used to
// carry the bearer credential.
const AuthorizationHeaderName = "authorization"

// BearerPrefix precedes the token inside the authorization value.
const BearerPrefix = "Bearer "
