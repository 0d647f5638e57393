// Package token issues and resolves the signed, stateless identity tokens
// presented on each request in place of resending a password.
package token

import (
	"errors"
	"fmt"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"

	"github.com/quorail/orgauth/internal/domain"
)

// Issuer signs and validates identity tokens with a process-wide secret key.
// The key is loaded once at startup and never mutated; restarting with a
// different key invalidates every previously issued token.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer constructs a token issuer for the given signing secret and expiry
// window.
func NewIssuer(secret []byte, ttl time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("token: signing secret must not be empty")
	}
	return &Issuer{secret: secret, ttl: ttl}, nil
}

// Issue produces a signed token whose claim set is exactly
// {sub: userID, iat, exp}.
func (i *Issuer) Issue(userID string) (string, error) {
	signer, err := gojose.NewSigner(
		gojose.SigningKey{Algorithm: gojose.HS256, Key: i.secret},
		(&gojose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("new signer: %w", err)
	}

	now := time.Now().UTC()
	claims := gojwt.Claims{
		Subject:  userID,
		IssuedAt: gojwt.NewNumericDate(now),
		Expiry:   gojwt.NewNumericDate(now.Add(i.ttl)),
	}

	signed, err := gojwt.Signed(signer).Claims(claims).Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize token: %w", err)
	}
	return signed, nil
}

// Resolve verifies signature and expiry and returns the bound user id.
// Malformed or badly signed tokens yield domain.ErrInvalidToken; tokens past
// their expiry yield domain.ErrExpiredToken.
func (i *Issuer) Resolve(token string) (string, error) {
	if token == "" {
		return "", domain.ErrInvalidToken
	}

	parsed, err := gojwt.ParseSigned(token, []gojose.SignatureAlgorithm{gojose.HS256})
	if err != nil {
		return "", domain.ErrInvalidToken
	}

	var claims gojwt.Claims
	if err := parsed.Claims(i.secret, &claims); err != nil {
		return "", domain.ErrInvalidToken
	}

	if err := claims.ValidateWithLeeway(gojwt.Expected{Time: time.Now().UTC()}, 0); err != nil {
		if errors.Is(err, gojwt.ErrExpired) {
			return "", domain.ErrExpiredToken
		}
		return "", domain.ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
