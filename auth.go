package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const (
	tokenIssuer     = "starfighter"
	secretSettingID = "token_secret"
	secretLen       = 32
)

// ErrInvalidToken is returned for run tokens that fail validation
var ErrInvalidToken = errors.New("invalid run token")

// RunClaims identify a pilot's session. Subject is the session ID.
type RunClaims struct {
	Pilot string `json:"pilot"`
	jwt.RegisteredClaims
}

// RunTokens issues and validates HS256 run tokens used to re-attach to a
// live session after a reconnect
type RunTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewRunTokens creates a token issuer
func NewRunTokens(secret []byte, ttl time.Duration) *RunTokens {
	return &RunTokens{secret: secret, ttl: ttl, now: time.Now}
}

// Issue returns a signed token for the session
func (rt *RunTokens) Issue(sessionID, pilot string) (string, error) {
	now := rt.now()
	claims := RunClaims{
		Pilot: pilot,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(rt.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(rt.secret)
	if err != nil {
		return "", fmt.Errorf("signing run token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns its claims
func (rt *RunTokens) Parse(tokenStr string) (*RunClaims, error) {
	claims := &RunClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) {
			return rt.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(rt.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing session", ErrInvalidToken)
	}
	return claims, nil
}

// loadOrCreateSecret resolves the signing secret: the configured hex value
// if set, else one persisted in the database, else a fresh random one
// (persisted when a database is available).
func loadOrCreateSecret(ctx context.Context, configured string, db *DB, log zerolog.Logger) ([]byte, error) {
	if configured != "" {
		b, err := hex.DecodeString(configured)
		if err != nil {
			return nil, fmt.Errorf("tokenSecret must be hex: %w", err)
		}
		return b, nil
	}
	if db != nil {
		h, err := db.GetSetting(ctx, secretSettingID)
		if err != nil {
			return nil, err
		}
		if b, err := hex.DecodeString(h); err == nil && len(b) == secretLen {
			return b, nil
		}
	}

	secret := make([]byte, secretLen)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generating token secret: %w", err)
	}
	if db != nil {
		if err := db.SetSetting(ctx, secretSettingID, hex.EncodeToString(secret)); err != nil {
			log.Warn().Err(err).Msg("could not persist token secret")
		}
	}
	return secret, nil
}
