package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quorail/orgauth/internal/domain"
	"github.com/quorail/orgauth/internal/token"
)

func TestIssueResolveRoundTrip(t *testing.T) {
	issuer, err := token.NewIssuer([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	signed, err := issuer.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	userID, err := issuer.Resolve(signed)
	require.NoError(t, err)
	require.Equal(t, "user-123", userID)
}

func TestResolveExpiredToken(t *testing.T) {
	// A non-positive TTL produces a token that is already past its expiry.
	issuer, err := token.NewIssuer([]byte("test-secret"), -time.Minute)
	require.NoError(t, err)

	signed, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = issuer.Resolve(signed)
	require.ErrorIs(t, err, domain.ErrExpiredToken)
}

func TestResolveInvalidToken(t *testing.T) {
	issuer, err := token.NewIssuer([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Resolve(bad)
		require.ErrorIs(t, err, domain.ErrInvalidToken, "token %q", bad)
	}
}

func TestResolveRejectsForeignSignature(t *testing.T) {
	issuer, err := token.NewIssuer([]byte("test-secret"), time.Hour)
	require.NoError(t, err)
	other, err := token.NewIssuer([]byte("another-secret"), time.Hour)
	require.NoError(t, err)

	signed, err := other.Issue("user-123")
	require.NoError(t, err)

	_, err = issuer.Resolve(signed)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := token.NewIssuer(nil, time.Hour)
	require.Error(t, err)
}
