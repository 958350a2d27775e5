// Package gate is the guardian's authorization gate. Every protected call
// goes through it: no bearer token or any verification failure rejects the
// call with the same generic answer, success puts the verified claims on
// the context.
package gate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tokenbridge/internal/auth"
	"github.com/dmitrijs2005/tokenbridge/internal/common"
)

// Verifier checks a compact token. *auth.TokenVerifier satisfies it.
type Verifier interface {
	Verify(token string) (auth.ClaimSet, error)
}

// bearerToken extracts the token from an Authorization value.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("%w: missing authorization", common.ErrUnauthenticated)
	}
	token, ok := strings.CutPrefix(header, common.BearerPrefix)
	if !ok {
		return "", fmt.Errorf("%w: not a bearer authorization", common.ErrUnauthenticated)
	}
	if token == "" {
		return "", fmt.Errorf("%w: empty token", common.ErrUnauthenticated)
	}
	return token, nil
}

// reason classifies a verification error for logs. The token itself is
// never logged.
func reason(err error) string {
	switch {
	case errors.Is(err, common.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, common.ErrTokenSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, common.ErrTokenExpired):
		return "expired"
	default:
		return err.Error()
	}
}
