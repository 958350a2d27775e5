// Package secretsource resolves the signing secret at startup. Exactly one
// source must be configured: a literal value, a local file, or an object in
// an S3-compatible bucket. Any problem is fatal to startup.
package secretsource

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/tokenbridge/internal/auth"
	"github.com/dmitrijs2005/tokenbridge/internal/common"
)

// maxSecretSize bounds how much is read from a file or object.
const maxSecretSize = 64 << 10

// S3Settings addresses the object store, MinIO style: static credentials
// and an explicit endpoint.
type S3Settings struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// Spec names where the secret lives.
type Spec struct {
	Literal string
	File    string
	S3Key   string
	S3      S3Settings
}

// Describe names the configured source without revealing the secret.
func (s Spec) Describe() string {
	switch {
	case s.Literal != "":
		return "literal"
	case s.File != "":
		return "file:" + s.File
	case s.S3Key != "":
		return "s3://" + s.S3.Bucket + "/" + s.S3Key
	default:
		return "none"
	}
}

// Load reads the secret from the configured source and validates its length.
func Load(ctx context.Context, spec Spec) (auth.SigningSecret, error) {
	configured := 0
	for _, v := range []string{spec.Literal, spec.File, spec.S3Key} {
		if v != "" {
			configured++
		}
	}
	switch configured {
	case 0:
		return auth.SigningSecret{}, fmt.Errorf("%w: no secret configured", common.ErrSecretSource)
	case 1:
	default:
		return auth.SigningSecret{}, fmt.Errorf("%w: configure exactly one of secret key, secret file, secret s3 key", common.ErrSecretSource)
	}

	var (
		raw []byte
		err error
	)
	switch {
	case spec.Literal != "":
		raw = []byte(spec.Literal)
	case spec.File != "":
		raw, err = readFile(spec.File)
	default:
		raw, err = fetchS3Object(ctx, spec.S3, spec.S3Key)
	}
	if err != nil {
		return auth.SigningSecret{}, fmt.Errorf("%w: %s: %v", common.ErrSecretSource, spec.Describe(), err)
	}

	secret, err := auth.NewSigningSecret(trimNewline(raw))
	common.WipeByteArray(raw)
	if err != nil {
		return auth.SigningSecret{}, err
	}
	return secret, nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxSecretSize {
		return nil, fmt.Errorf("file larger than %d bytes", maxSecretSize)
	}
	return os.ReadFile(path)
}

// trimNewline drops the line ending editors and `echo` leave behind.
func trimNewline(b []byte) []byte {
	s := strings.TrimRight(string(b), "\r\n")
	return []byte(s)
}
