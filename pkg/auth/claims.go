// Package auth provides JWT bearer authentication for kpi-engine.
// Tokens are validated against the JWKS endpoints of whitelisted issuers.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
)

// Claims is the JWT claims structure accepted by the API. Standard fields
// (sub, iss, exp) come from RegisteredClaims; the custom fields identify the
// user's organizational context.
type Claims struct {
	jwt.RegisteredClaims
	Email    string   `json:"email,omitempty"`
	Division string   `json:"division,omitempty"` // responsible division of the caller
	Roles    []string `json:"roles,omitempty"`
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}
