// Package google verifies Google ID tokens for social sign-in.
// Пакет google проверяет Google ID токены для входа через соцсеть.
package google

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// keySetTTL bounds how long fetched signing keys are reused.
const keySetTTL = time.Hour

var validIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// KeySource returns the current signing keys.
type KeySource func(ctx context.Context) (jwk.Set, error)

// Verifier validates ID tokens against Google's published keys.
// Verifier проверяет ID токены по опубликованным ключам Google.
type Verifier struct {
	clientID string
	source   KeySource
	now      func() time.Time

	mu        sync.Mutex
	keys      jwk.Set
	fetchedAt time.Time
}

// NewVerifier creates a verifier that fetches keys from jwksURL.
// NewVerifier создаёт верификатор, загружающий ключи с jwksURL.
func NewVerifier(clientID, jwksURL string) *Verifier {
	return NewVerifierWithSource(clientID, func(ctx context.Context) (jwk.Set, error) {
		return jwk.Fetch(ctx, jwksURL)
	})
}

// NewVerifierWithSource creates a verifier with a custom key source.
func NewVerifierWithSource(clientID string, source KeySource) *Verifier {
	return &Verifier{clientID: clientID, source: source, now: time.Now}
}

func (v *Verifier) keySet(ctx context.Context) (jwk.Set, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.keys != nil && v.now().Sub(v.fetchedAt) < keySetTTL {
		return v.keys, nil
	}
	keys, err := v.source(ctx)
	if err != nil {
		if v.keys != nil {
			// keep serving the previous keys while Google is unreachable
			return v.keys, nil
		}
		return nil, err
	}
	v.keys = keys
	v.fetchedAt = v.now()
	return keys, nil
}

// Verify checks the signature, expiry, audience and issuer of idToken and
// returns its identity claims.
// Verify проверяет подпись, срок, аудиторию и издателя idToken и
// возвращает утверждения об identity.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*port.GoogleIdentity, error) {
	keys, err := v.keySet(ctx)
	if err != nil {
		return nil, apperror.ServiceUnavailable("google signing keys are unavailable").WithError(err)
	}

	token, err := jwt.Parse([]byte(idToken),
		jwt.WithKeySet(keys),
		jwt.WithValidate(true),
		jwt.WithAudience(v.clientID),
		jwt.WithClock(jwt.ClockFunc(v.now)),
	)
	if err != nil {
		return nil, apperror.Unauthorized("invalid google id token").WithError(err)
	}

	issuer, _ := token.Issuer()
	if !validIssuers[issuer] {
		return nil, apperror.Unauthorized("invalid google id token").
			WithError(fmt.Errorf("unexpected issuer %q", issuer))
	}

	identity := &port.GoogleIdentity{}
	identity.Subject, _ = token.Subject()
	if err := token.Get("email", &identity.Email); err != nil || identity.Email == "" {
		return nil, apperror.Unauthorized("google id token carries no email")
	}
	identity.EmailVerified = boolClaim(token, "email_verified")
	_ = token.Get("given_name", &identity.GivenName)
	_ = token.Get("family_name", &identity.FamilyName)

	return identity, nil
}

// boolClaim accepts both JSON booleans and the "true" strings older tokens carry.
func boolClaim(token jwt.Token, name string) bool {
	var raw interface{}
	if err := token.Get(name, &raw); err != nil {
		return false
	}
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

var _ port.GoogleVerifier = (*Verifier)(nil)
