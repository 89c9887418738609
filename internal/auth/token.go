// Package auth verifies bearer tokens and carries the authenticated caller
// through the request context.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rezkam/cardfile/internal/domain"
)

// Claims are the token claims the service cares about.
type Claims struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Verifier validates HS256-signed bearer tokens.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a Verifier. The issuer check is skipped when issuer
// is empty.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses and validates a raw token and maps it to a caller. The
// caller's role is the highest-privilege role present in the token.
func (v *Verifier) Verify(raw string) (domain.Caller, error) {
	var claims Claims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return domain.Caller{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return domain.Caller{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}

	return domain.Caller{
		UserID:   claims.Subject,
		UserName: claims.Name,
		Role:     highestRole(claims.Roles),
	}, nil
}

// Issue signs a token for the given caller, valid for ttl. Used by the
// development token command and by tests.
func (v *Verifier) Issue(caller domain.Caller, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:  caller.UserName,
		Roles: []string{string(caller.Role)},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.issuer,
			Subject:   caller.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// highestRole resolves multi-role tokens: admin wins over manager, manager
// over plain user. Unknown role names are ignored.
func highestRole(roles []string) domain.Role {
	role := domain.RoleUser
	for _, r := range roles {
		switch domain.Role(r) {
		case domain.RoleAdmin:
			return domain.RoleAdmin
		case domain.RoleManager:
			role = domain.RoleManager
		}
	}
	return role
}
