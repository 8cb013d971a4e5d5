package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"

	"auctionmap/internal/models"
)

var ErrNoSession = errors.New("session: not logged in")

// Claims are the token fields the view cares about. The signature is not
// checked here; the backend does that on every call.
type Claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// Expiry returns the expiry, or the zero time when the token has none.
func (c Claims) Expiry() time.Time {
	if c.StandardClaims.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(c.StandardClaims.ExpiresAt, 0)
}

// ParseClaims decodes token without verifying it.
func ParseClaims(token string) (Claims, error) {
	var claims Claims
	if token == "" {
		return claims, ErrNoSession
	}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, &claims); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

// Claims decodes the current token.
func (s *Store) Claims() (Claims, error) {
	return ParseClaims(s.Token())
}

// IsAdmin reports whether the current token carries the ADMIN role. A token
// that cannot be decoded is not admin.
func (s *Store) IsAdmin() bool {
	claims, err := s.Claims()
	if err != nil {
		return false
	}
	return claims.Role == models.RoleAdmin
}
