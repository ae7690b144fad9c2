package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claim names used by the identity provider.
const (
	ClaimGroups   = "cognito:groups"
	ClaimUsername = "cognito:username"
	ClaimEmail    = "email"
)

// Claims is the typed view of an identity token payload.
type Claims struct {
	Subject   string
	Username  string
	Email     string
	Groups    []string
	ExpiresAt time.Time
	IssuedAt  time.Time
	Raw       jwt.MapClaims
}

// Expired reports whether the token is no longer valid at now.
// A token is valid only while exp is strictly after now.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// InGroup reports whether the subject belongs to group.
func (c *Claims) InGroup(group string) bool {
	for _, g := range c.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// DecodeClaims reads the payload segment of a JWT without verifying its
// signature. It is meant for clients that only need the expiry of a token
// they already hold; servers must verify instead.
func DecodeClaims(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformedToken)
	}

	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, mapClaims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	return ClaimsFromMap(mapClaims)
}

// ClaimsFromMap converts parsed JWT claims into Claims. The exp claim is required.
func ClaimsFromMap(mapClaims jwt.MapClaims) (*Claims, error) {
	exp, err := mapClaims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if exp == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrMalformedToken)
	}

	claims := &Claims{
		ExpiresAt: exp.Time,
		Groups:    parseGroups(mapClaims[ClaimGroups]),
		Raw:       mapClaims,
	}
	claims.Subject, _ = mapClaims.GetSubject()
	claims.Username, _ = mapClaims[ClaimUsername].(string)
	claims.Email, _ = mapClaims[ClaimEmail].(string)
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}

	return claims, nil
}

// parseGroups accepts both a JSON array and the comma separated string
// form some gateways flatten the claim into.
func parseGroups(v any) []string {
	var groups []string
	switch g := v.(type) {
	case []any:
		for _, item := range g {
			if s, ok := item.(string); ok && s != "" {
				groups = append(groups, s)
			}
		}
	case []string:
		groups = append(groups, g...)
	case string:
		for _, part := range strings.Split(g, ",") {
			if s := strings.TrimSpace(part); s != "" {
				groups = append(groups, s)
			}
		}
	}
	return groups
}
