package common

import "time"

// AuthorizationHeaderName is the HTTP header (and lower-cased gRPC metadata
// key) that carries the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the authorization header.
const BearerPrefix = "Bearer "

// DefaultTokenTTL is how long an issued credential stays valid.
const DefaultTokenTTL = 24 * time.Hour

// MinSecretLength is the shortest signing secret accepted for HMAC-SHA-512.
const MinSecretLength = 64
