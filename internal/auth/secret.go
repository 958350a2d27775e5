package auth

import (
	"fmt"
	"log/slog"

	"github.com/dmitrijs2005/tokenbridge/internal/common"
)

const redacted = "[REDACTED]"

// SigningSecret is the symmetric key shared out-of-band by the issuer and
// the guardian. The zero value is unusable; build one with NewSigningSecret.
type SigningSecret struct {
	key []byte
}

// NewSigningSecret copies raw and rejects it when it is shorter than
// common.MinSecretLength bytes.
func NewSigningSecret(raw []byte) (SigningSecret, error) {
	if len(raw) < common.MinSecretLength {
		return SigningSecret{}, fmt.Errorf("%w: got %d bytes, need at least %d",
			common.ErrSecretTooShort, len(raw), common.MinSecretLength)
	}
	key := make([]byte, len(raw))
	copy(key, raw)
	return SigningSecret{key: key}, nil
}

// IsZero reports whether s was not built by NewSigningSecret.
func (s SigningSecret) IsZero() bool {
	return len(s.key) == 0
}

// Len returns the key length in bytes.
func (s SigningSecret) Len() int {
	return len(s.key)
}

// The secret must never reach logs or responses, whatever verb formats it.

func (s SigningSecret) String() string {
	return redacted
}

func (s SigningSecret) GoString() string {
	return "auth.SigningSecret{" + redacted + "}"
}

func (s SigningSecret) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

func (s SigningSecret) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

func errZeroSecret() error {
	return fmt.Errorf("%w: secret not initialised", common.ErrSecretTooShort)
}
