package socket

import (
	"time"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityFromToken extracts the subject from the bearer JWT and checks
// its expiry claim. The signature is the server's concern; the client
// only needs to fail fast on a credential it knows is dead.
func IdentityFromToken(token string) (string, error) {
	if token == "" {
		return "", &domain.AuthError{Reason: "missing credential"}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", &domain.AuthError{Reason: "malformed credential"}
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		if exp.Before(time.Now()) {
			return "", &domain.AuthError{Reason: "credential expired"}
		}
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", &domain.AuthError{Reason: "credential has no subject"}
	}
	return sub, nil
}
