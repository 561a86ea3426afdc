package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken indicates the credential is not a parseable JWT.
var ErrMalformedToken = errors.New("session: malformed token")

// Claims is the subset of registered JWT claims the client cares about.
type Claims struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// ParseClaims extracts registered claims from a bearer token without
// verifying its signature. The client is not the token's audience verifier;
// it only reads expiry and identity hints to decide when to re-authenticate.
func ParseClaims(token string) (Claims, error) {
	var registered jwt.RegisteredClaims

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &registered); err != nil {
		return Claims{}, ErrMalformedToken
	}

	claims := Claims{
		Subject: registered.Subject,
		Issuer:  registered.Issuer,
	}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}
	return claims, nil
}
