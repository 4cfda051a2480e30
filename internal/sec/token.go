package sec

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the lifetime of an issued session, for both the token expiry
// claim and the cookie max-age. The two must stay in lockstep.
const SessionTTL = 7 * 24 * time.Hour

var (
	// ErrNoSigningSecret is returned when the server has no token secret
	// configured. This is a deployment defect and must surface as an internal
	// server error, never as something the client can fix.
	ErrNoSigningSecret = errors.New("no token signing secret configured")
	// ErrInvalidToken is returned for malformed tokens and bad signatures.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrTokenExpired is returned for well-formed tokens past their expiry.
	ErrTokenExpired = errors.New("session token expired")
)

// IssueSession produces a signed HS256 token whose subject is the user ID,
// valid for [SessionTTL] from now.
func IssueSession(userID uint64, secret []byte) (string, error) {
	return issueSessionAt(userID, secret, time.Now())
}

func issueSessionAt(userID uint64, secret []byte, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", ErrNoSigningSecret
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// VerifySession checks the signature and expiry of a session token and returns
// the user ID it was issued for. It fails with [ErrTokenExpired] for expired
// tokens and [ErrInvalidToken] for everything else; both mean the request is
// unauthenticated, not that the server misbehaved.
func VerifySession(tokenString string, secret []byte) (uint64, error) {
	if len(secret) == 0 {
		return 0, ErrNoSigningSecret
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return 0, ErrTokenExpired
	case err != nil, !token.Valid:
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
