package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errInvalidToken = errors.New("invalid session token")

// sessionClaims names a session (ID) and its user (Subject).
type sessionClaims struct {
	jwt.RegisteredClaims
}

// tokenCodec signs and verifies HS256 session tokens.
type tokenCodec struct {
	secret []byte
	now    func() time.Time
}

func (c tokenCodec) sign(sessionID, userID string, issuedAt, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	return token.SignedString(c.secret)
}

func (c tokenCodec) parse(raw string) (*sessionClaims, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, errInvalidToken
	}
	if !token.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, errInvalidToken
	}

	return claims, nil
}
