package auth

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/tokenbridge/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func testSecret(t *testing.T, fill byte) SigningSecret {
	t.Helper()
	s, err := NewSigningSecret(bytes.Repeat([]byte{fill}, common.MinSecretLength))
	require.NoError(t, err)
	return s
}

func clock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func newPair(t *testing.T, issuedAt, verifiedAt time.Time) (*TokenIssuer, *TokenVerifier) {
	t.Helper()
	secret := testSecret(t, 'a')
	iss, err := NewTokenIssuer(secret, WithIssuerClock(clock(issuedAt)))
	require.NoError(t, err)
	ver, err := NewTokenVerifier(secret, WithVerifierClock(clock(verifiedAt)))
	require.NoError(t, err)
	return iss, ver
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	iss, ver := newPair(t, fixedNow, fixedNow.Add(time.Minute))

	subjects := []Subject{
		{ID: "3f9c1d2e-0000-4000-8000-000000000001", Name: "alice"},
		{ID: "u-2", Name: "bob.smith"},
		{ID: "u-3", Name: "ünïcødé"},
		{ID: "u-4", Name: ""},
	}
	for _, sub := range subjects {
		tok, err := iss.Issue(sub)
		require.NoError(t, err)

		got, err := ver.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.SubjectID)
		assert.Equal(t, sub.Name, got.SubjectName)
		assert.True(t, fixedNow.Equal(got.IssuedAt), "issued at %s", got.IssuedAt)
	}
}

func TestIssue_WireFormat(t *testing.T) {
	iss, _ := newPair(t, fixedNow, fixedNow)

	tok, err := iss.Issue(Subject{ID: "u-1", Name: "alice"})
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(tok, "."))
	assert.NotContains(t, tok, "=")

	parts := strings.Split(tok, ".")

	var header map[string]any
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &header))
	assert.Equal(t, "HS512", header["alg"])

	var payload map[string]any
	raw, err = base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "u-1", payload["sub"])
	assert.Equal(t, "alice", payload["name"])
	assert.EqualValues(t, fixedNow.Unix(), payload["iat"])
	assert.EqualValues(t, fixedNow.Add(24*time.Hour).Unix(), payload["exp"])

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)
	assert.Len(t, sig, 64)
}

func TestIssue_CustomTTL(t *testing.T) {
	secret := testSecret(t, 'a')
	iss, err := NewTokenIssuer(secret, WithIssuerClock(clock(fixedNow)), WithTTL(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, iss.TTL())

	tok, err := iss.Issue(Subject{ID: "u-1", Name: "alice"})
	require.NoError(t, err)

	ver, err := NewTokenVerifier(secret, WithVerifierClock(clock(fixedNow.Add(time.Hour))))
	require.NoError(t, err)
	_, err = ver.Verify(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestConstructors_RejectZeroSecretAndBadTTL(t *testing.T) {
	_, err := NewTokenIssuer(SigningSecret{})
	assert.ErrorIs(t, err, common.ErrSecretTooShort)

	_, err = NewTokenVerifier(SigningSecret{})
	assert.ErrorIs(t, err, common.ErrSecretTooShort)

	_, err = NewTokenIssuer(testSecret(t, 'a'), WithTTL(0))
	assert.Error(t, err)
}

// b64Alphabet is used to substitute characters while keeping segments decodable.
const b64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

func TestVerify_TamperedHeaderOrPayload(t *testing.T) {
	iss, ver := newPair(t, fixedNow, fixedNow.Add(time.Minute))

	tok, err := iss.Issue(Subject{ID: "u-1", Name: "alice"})
	require.NoError(t, err)

	signed := strings.LastIndex(tok, ".")
	for pos := 0; pos < signed; pos++ {
		if tok[pos] == '.' {
			continue
		}
		replacement := b64Alphabet[(strings.IndexByte(b64Alphabet, tok[pos])+1)%len(b64Alphabet)]
		tampered := tok[:pos] + string(replacement) + tok[pos+1:]

		_, err := ver.Verify(tampered)
		if !errors.Is(err, common.ErrTokenSignatureInvalid) {
			t.Fatalf("position %d: want ErrTokenSignatureInvalid, got %v", pos, err)
		}
	}
}

func TestVerify_ForgedPayloadNeverTrusted(t *testing.T) {
	iss, ver := newPair(t, fixedNow, fixedNow.Add(time.Minute))

	tok, err := iss.Issue(Subject{ID: "u-1", Name: "alice"})
	require.NoError(t, err)
	parts := strings.Split(tok, ".")

	forged, err := json.Marshal(map[string]any{
		"sub":  "u-admin",
		"name": "root",
		"iat":  fixedNow.Unix(),
		"exp":  fixedNow.Add(1000 * time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, err = ver.Verify(parts[0] + "." + base64.RawURLEncoding.EncodeToString(forged) + "." + parts[2])
	assert.ErrorIs(t, err, common.ErrTokenSignatureInvalid)

	// Garbage payload with a stale signature is still a signature failure:
	// the payload is not parsed before the HMAC check.
	_, err = ver.Verify(parts[0] + "." + base64.RawURLEncoding.EncodeToString([]byte("{not json")) + "." + parts[2])
	assert.ErrorIs(t, err, common.ErrTokenSignatureInvalid)
}

func TestVerify_Expired(t *testing.T) {
	cases := map[string]time.Time{
		"exactly at expiry": fixedNow.Add(24 * time.Hour),
		"after expiry":      fixedNow.Add(24*time.Hour + time.Second),
		"long after":        fixedNow.Add(30 * 24 * time.Hour),
	}
	for name, at := range cases {
		t.Run(name, func(t *testing.T) {
			iss, ver := newPair(t, fixedNow, at)
			tok, err := iss.Issue(Subject{ID: "u-1", Name: "alice"})
			require.NoError(t, err)

			_, err = ver.Verify(tok)
			assert.ErrorIs(t, err, common.ErrTokenExpired)
		})
	}

	iss, ver := newPair(t, fixedNow, fixedNow.Add(24*time.Hour-time.Second))
	tok, err := iss.Issue(Subject{ID: "u-1", Name: "alice"})
	require.NoError(t, err)
	_, err = ver.Verify(tok)
	assert.NoError(t, err, "one second before expiry is still valid")
}

func TestVerify_WrongSecret(t *testing.T) {
	iss, err := NewTokenIssuer(testSecret(t, 'a'), WithIssuerClock(clock(fixedNow)))
	require.NoError(t, err)

	for _, fill := range []byte{'b', 'c', 0x00, 0xff} {
		ver, err := NewTokenVerifier(testSecret(t, fill), WithVerifierClock(clock(fixedNow)))
		require.NoError(t, err)

		for _, sub := range []Subject{{ID: "u-1", Name: "alice"}, {ID: "u-2", Name: "bob"}} {
			tok, err := iss.Issue(sub)
			require.NoError(t, err)

			_, err = ver.Verify(tok)
			assert.ErrorIs(t, err, common.ErrTokenSignatureInvalid)
		}
	}
}

func TestVerify_Malformed(t *testing.T) {
	iss, ver := newPair(t, fixedNow, fixedNow)
	tok, err := iss.Issue(Subject{ID: "u-1", Name: "alice"})
	require.NoError(t, err)
	parts := strings.Split(tok, ".")

	cases := map[string]string{
		"empty":                "",
		"one segment":          "abc",
		"two segments":         parts[0] + "." + parts[1],
		"four segments":        tok + ".extra",
		"bad base64 header":    "!!!." + parts[1] + "." + parts[2],
		"bad base64 payload":   parts[0] + ".***." + parts[2],
		"bad base64 signature": parts[0] + "." + parts[1] + ".%%%",
		"truncated signature":  tok[:len(tok)-1],
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ver.Verify(in)
			assert.ErrorIs(t, err, common.ErrTokenMalformed)
		})
	}
}

func TestVerify_ValidSignatureButBadClaims(t *testing.T) {
	secret := testSecret(t, 'a')
	ver, err := NewTokenVerifier(secret, WithVerifierClock(clock(fixedNow)))
	require.NoError(t, err)

	sign := func(t *testing.T, method jwt.SigningMethod, claims jwt.Claims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(secret.key)
		require.NoError(t, err)
		return s
	}

	t.Run("missing exp", func(t *testing.T) {
		tok := sign(t, jwt.SigningMethodHS512, jwt.MapClaims{"sub": "u-1", "iat": fixedNow.Unix()})
		_, err := ver.Verify(tok)
		assert.ErrorIs(t, err, common.ErrTokenMalformed)
	})

	t.Run("missing sub", func(t *testing.T) {
		tok := sign(t, jwt.SigningMethodHS512, jwt.MapClaims{"iat": fixedNow.Unix(), "exp": fixedNow.Add(time.Hour).Unix()})
		_, err := ver.Verify(tok)
		assert.ErrorIs(t, err, common.ErrTokenMalformed)
	})

	t.Run("payload is not json", func(t *testing.T) {
		h := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS512","typ":"JWT"}`))
		p := base64.RawURLEncoding.EncodeToString([]byte(`not json`))
		sig, err := jwt.SigningMethodHS512.Sign(h+"."+p, secret.key)
		require.NoError(t, err)

		_, err = ver.Verify(h + "." + p + "." + base64.RawURLEncoding.EncodeToString(sig))
		assert.ErrorIs(t, err, common.ErrTokenMalformed)
	})

	t.Run("header names another algorithm", func(t *testing.T) {
		h := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
		p := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u-1","iat":1,"exp":9999999999}`))
		sig, err := jwt.SigningMethodHS512.Sign(h+"."+p, secret.key)
		require.NoError(t, err)

		_, err = ver.Verify(h + "." + p + "." + base64.RawURLEncoding.EncodeToString(sig))
		assert.Error(t, err)
	})
}

func TestVerify_ConcurrentUse(t *testing.T) {
	iss, ver := newPair(t, fixedNow, fixedNow.Add(time.Minute))

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := iss.Issue(Subject{ID: "u-1", Name: "alice"})
			if err != nil {
				errs <- err
				return
			}
			if _, err := ver.Verify(tok); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent issue/verify: %v", err)
	}
}
