package google

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
)

const testClientID = "client-123.apps.googleusercontent.com"

type signer struct {
	key  jwk.Key
	keys jwk.Set
}

func newSigner(t *testing.T) *signer {
	t.Helper()
	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	key, err := jwk.Import(raw)
	require.NoError(t, err)
	require.NoError(t, key.Set(jwk.KeyIDKey, "google-test"))
	require.NoError(t, key.Set(jwk.AlgorithmKey, jwa.RS256()))

	pub, err := jwk.PublicKeyOf(key)
	require.NoError(t, err)
	require.NoError(t, pub.Set(jwk.KeyIDKey, "google-test"))
	require.NoError(t, pub.Set(jwk.AlgorithmKey, jwa.RS256()))

	set := jwk.NewSet()
	require.NoError(t, set.AddKey(pub))
	return &signer{key: key, keys: set}
}

func (s *signer) sign(t *testing.T, mutate func(b *jwt.Builder) *jwt.Builder) string {
	t.Helper()
	now := time.Now()
	b := jwt.NewBuilder().
		Issuer("https://accounts.google.com").
		Audience([]string{testClientID}).
		Subject("10769150350006150715113082367").
		IssuedAt(now).
		Expiration(now.Add(time.Hour)).
		Claim("email", "operator@example.com").
		Claim("email_verified", true).
		Claim("given_name", "Ada").
		Claim("family_name", "Lovelace")
	if mutate != nil {
		b = mutate(b)
	}
	token, err := b.Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.RS256(), s.key))
	require.NoError(t, err)
	return string(signed)
}

func (s *signer) source(calls *int) KeySource {
	return func(context.Context) (jwk.Set, error) {
		*calls++
		return s.keys, nil
	}
}

func TestVerifier_ValidToken(t *testing.T) {
	s := newSigner(t)
	calls := 0
	v := NewVerifierWithSource(testClientID, s.source(&calls))

	identity, err := v.Verify(context.Background(), s.sign(t, nil))
	require.NoError(t, err)

	assert.Equal(t, "operator@example.com", identity.Email)
	assert.True(t, identity.EmailVerified)
	assert.Equal(t, "Ada", identity.GivenName)
	assert.Equal(t, "Lovelace", identity.FamilyName)
	assert.Equal(t, "10769150350006150715113082367", identity.Subject)

	_, err = v.Verify(context.Background(), s.sign(t, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "keys are cached")
}

func TestVerifier_ShortIssuerAndStringVerified(t *testing.T) {
	s := newSigner(t)
	calls := 0
	v := NewVerifierWithSource(testClientID, s.source(&calls))

	identity, err := v.Verify(context.Background(), s.sign(t, func(b *jwt.Builder) *jwt.Builder {
		return b.Issuer("accounts.google.com").Claim("email_verified", "true")
	}))
	require.NoError(t, err)
	assert.True(t, identity.EmailVerified)
}

func TestVerifier_Rejects(t *testing.T) {
	s := newSigner(t)
	other := newSigner(t)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong audience", s.sign(t, func(b *jwt.Builder) *jwt.Builder {
			return b.Audience([]string{"someone-else"})
		})},
		{"wrong issuer", s.sign(t, func(b *jwt.Builder) *jwt.Builder {
			return b.Issuer("https://evil.example.com")
		})},
		{"expired", s.sign(t, func(b *jwt.Builder) *jwt.Builder {
			return b.IssuedAt(time.Now().Add(-3 * time.Hour)).Expiration(time.Now().Add(-2 * time.Hour))
		})},
		{"unknown signing key", other.sign(t, nil)},
		{"missing email", s.sign(t, func(b *jwt.Builder) *jwt.Builder {
			return b.Claim("email", "")
		})},
		{"garbage", "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			v := NewVerifierWithSource(testClientID, s.source(&calls))

			_, err := v.Verify(context.Background(), tt.token)
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
		})
	}
}

func TestVerifier_UnverifiedEmail(t *testing.T) {
	s := newSigner(t)
	calls := 0
	v := NewVerifierWithSource(testClientID, s.source(&calls))

	identity, err := v.Verify(context.Background(), s.sign(t, func(b *jwt.Builder) *jwt.Builder {
		return b.Claim("email_verified", false)
	}))
	require.NoError(t, err)
	assert.False(t, identity.EmailVerified)
}

func TestVerifier_KeySourceFailure(t *testing.T) {
	s := newSigner(t)
	v := NewVerifierWithSource(testClientID, func(context.Context) (jwk.Set, error) {
		return nil, errors.New("dial tcp: i/o timeout")
	})

	_, err := v.Verify(context.Background(), s.sign(t, nil))
	assert.True(t, apperror.HasCode(err, apperror.CodeServiceUnavailable))
}

func TestVerifier_StaleKeysServedOnRefreshFailure(t *testing.T) {
	s := newSigner(t)
	fail := false
	v := NewVerifierWithSource(testClientID, func(context.Context) (jwk.Set, error) {
		if fail {
			return nil, errors.New("unreachable")
		}
		return s.keys, nil
	})
	_, err := v.Verify(context.Background(), s.sign(t, nil))
	require.NoError(t, err)

	fail = true
	v.fetchedAt = time.Now().Add(-2 * keySetTTL)

	_, err = v.Verify(context.Background(), s.sign(t, nil))
	assert.NoError(t, err)
}
