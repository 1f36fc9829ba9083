package main

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestRunTokenRoundTrip(t *testing.T) {
	rt := NewRunTokens(testSecret, time.Hour)
	tok, err := rt.Issue("sid-1", "ace")
	require.NoError(t, err)

	claims, err := rt.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.Subject)
	assert.Equal(t, "ace", claims.Pilot)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestRunTokenExpired(t *testing.T) {
	rt := NewRunTokens(testSecret, time.Minute)
	tok, err := rt.Issue("sid-1", "ace")
	require.NoError(t, err)

	rt.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = rt.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRunTokenWrongSecret(t *testing.T) {
	tok, err := NewRunTokens(testSecret, time.Hour).Issue("sid-1", "ace")
	require.NoError(t, err)

	_, err = NewRunTokens([]byte("another-secret"), time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewRunTokens(testSecret, time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRunTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := RunClaims{
		Pilot: "ace",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   "sid-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = NewRunTokens(testSecret, time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRunTokenRequiresSession(t *testing.T) {
	rt := NewRunTokens(testSecret, time.Hour)
	tok, err := rt.Issue("", "ace")
	require.NoError(t, err)

	_, err = rt.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLoadOrCreateSecret(t *testing.T) {
	ctx := context.Background()
	log := zerolog.Nop()

	configured := hex.EncodeToString(testSecret)
	got, err := loadOrCreateSecret(ctx, configured, nil, log)
	require.NoError(t, err)
	assert.Equal(t, testSecret, got)

	_, err = loadOrCreateSecret(ctx, "zz", nil, log)
	assert.Error(t, err)

	db := openTestDB(t)
	first, err := loadOrCreateSecret(ctx, "", db, log)
	require.NoError(t, err)
	assert.Len(t, first, secretLen)

	second, err := loadOrCreateSecret(ctx, "", db, log)
	require.NoError(t, err)
	assert.Equal(t, first, second, "secret persists across restarts")

	ephemeral, err := loadOrCreateSecret(ctx, "", nil, log)
	require.NoError(t, err)
	assert.Len(t, ephemeral, secretLen)
}
