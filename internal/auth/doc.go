// Package auth implements the credential lifecycle shared by the issuer and
// the guardian: the signing secret, token issuance and token verification.
//
// Tokens are JWS compact strings signed with HMAC-SHA-512:
//
//	base64url(header) "." base64url(payload) "." base64url(signature)
//
// The header names the algorithm (HS512) and the payload carries the
// subject id ("sub"), the subject name ("name"), issued-at ("iat") and
// expiry ("exp"). Nothing is stored server side; a token stays valid until
// its expiry no matter what the issuer does afterwards.
//
// Both services construct a SigningSecret once at startup and pass it
// explicitly:
//
//	secret, err := auth.NewSigningSecret(raw)
//	issuer, err := auth.NewTokenIssuer(secret)
//	verifier, err := auth.NewTokenVerifier(secret)
package auth
