package auth

import (
	"time"

	"github.com/iohusni/garaadsom-book-shop/internal/domain"
)

// AccessClaims represents the claims stored in a PASETO access token.
// They're encrypted in v4.local tokens, so clients can't read or forge them
// without the server key.
type AccessClaims struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// IsAdmin reports whether the token carries the admin role.
func (c *AccessClaims) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}
