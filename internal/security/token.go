package security

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

var (
	ErrMissingSubject = errors.New("token has no subject")
	ErrNotAdmin       = errors.New("token role is not an admin role")
)

// Claims are the admin session claims minted by the login service.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Verify checks signature and expiry, then requires an admin role.
func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	claims.Role = strings.ToLower(strings.TrimSpace(claims.Role))
	if !IsAdminRole(claims.Role) {
		return nil, ErrNotAdmin
	}
	return claims, nil
}

func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}
