package auth

import "github.com/golang-jwt/jwt/v5"

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims are the only supported JWT claims shape for this service.
// The operator name travels in the registered subject claim.
type Claims struct {
	jwt.RegisteredClaims

	TokenType TokenType `json:"token_type"`
}

func (c Claims) Operator() string { return c.Subject }
