package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/tokenbridge/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

var signingMethod = jwt.SigningMethodHS512

// Subject is the identity a token is issued for.
type Subject struct {
	ID   string
	Name string
}

// ClaimSet is what a verified token says about its subject.
type ClaimSet struct {
	SubjectID   string
	SubjectName string
	IssuedAt    time.Time
}

// Claims is the payload layout: the registered claims plus the subject name.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
}

// TokenIssuer mints signed tokens. It holds only immutable state and is
// safe for concurrent use.
type TokenIssuer struct {
	secret SigningSecret
	ttl    time.Duration
	now    func() time.Time
}

type IssuerOption func(*TokenIssuer)

// WithTTL overrides common.DefaultTokenTTL.
func WithTTL(ttl time.Duration) IssuerOption {
	return func(i *TokenIssuer) { i.ttl = ttl }
}

// WithIssuerClock replaces time.Now.
func WithIssuerClock(now func() time.Time) IssuerOption {
	return func(i *TokenIssuer) { i.now = now }
}

func NewTokenIssuer(secret SigningSecret, opts ...IssuerOption) (*TokenIssuer, error) {
	if secret.IsZero() {
		return nil, errZeroSecret()
	}
	i := &TokenIssuer{secret: secret, ttl: common.DefaultTokenTTL, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	if i.ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", i.ttl)
	}
	return i, nil
}

// TTL returns the lifetime given to every issued token.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for sub. Issued-at is the current time truncated to
// the second, expiry is issued-at plus the TTL.
func (i *TokenIssuer) Issue(sub Subject) (string, error) {
	iat := i.now().UTC().Truncate(time.Second)

	token := jwt.NewWithClaims(signingMethod, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.ID,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(iat.Add(i.ttl)),
		},
		Name: sub.Name,
	})

	tokenString, err := token.SignedString(i.secret.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// TokenVerifier checks integrity and freshness of tokens. Like TokenIssuer
// it never mutates state and needs no locking.
type TokenVerifier struct {
	secret SigningSecret
	now    func() time.Time
	parser *jwt.Parser
}

type VerifierOption func(*TokenVerifier)

// WithVerifierClock replaces time.Now.
func WithVerifierClock(now func() time.Time) VerifierOption {
	return func(v *TokenVerifier) { v.now = now }
}

func NewTokenVerifier(secret SigningSecret, opts ...VerifierOption) (*TokenVerifier, error) {
	if secret.IsZero() {
		return nil, errZeroSecret()
	}
	v := &TokenVerifier{
		secret: secret,
		now:    time.Now,
		// Expiry is checked below with our own clock and a strict boundary.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{signingMethod.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify returns the token's claims or one of common.ErrTokenMalformed,
// common.ErrTokenSignatureInvalid, common.ErrTokenExpired.
//
// The signature is checked before the payload is parsed.
func (v *TokenVerifier) Verify(tokenString string) (ClaimSet, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return ClaimSet{}, fmt.Errorf("%w: expected 3 segments, got %d", common.ErrTokenMalformed, len(parts))
	}

	for _, seg := range parts[:2] {
		if _, err := v.parser.DecodeSegment(seg); err != nil {
			return ClaimSet{}, fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
		}
	}
	sig, err := v.parser.DecodeSegment(parts[2])
	if err != nil {
		return ClaimSet{}, fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
	}

	// hmac.Equal under the hood.
	if err := signingMethod.Verify(parts[0]+"."+parts[1], sig, v.secret.key); err != nil {
		return ClaimSet{}, common.ErrTokenSignatureInvalid
	}

	claims := &Claims{}
	_, err = v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return ClaimSet{}, common.ErrTokenSignatureInvalid
		}
		return ClaimSet{}, fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
	}

	if claims.Subject == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return ClaimSet{}, fmt.Errorf("%w: missing required claim", common.ErrTokenMalformed)
	}

	if !v.now().Before(claims.ExpiresAt.Time) {
		return ClaimSet{}, common.ErrTokenExpired
	}

	return ClaimSet{
		SubjectID:   claims.Subject,
		SubjectName: claims.Name,
		IssuedAt:    claims.IssuedAt.Time.UTC(),
	}, nil
}
