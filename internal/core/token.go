package core

import "context"

// TokenSet is the client-held credential triple. Expiry is never stored;
// it is derived from the exp claim of IDToken.
type TokenSet struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
}

// IsZero reports whether no token is held at all.
func (s TokenSet) IsZero() bool {
	return s.AccessToken == "" && s.IDToken == "" && s.RefreshToken == ""
}

// CanRefresh reports whether the set can be renewed without re-authenticating.
func (s TokenSet) CanRefresh() bool {
	return s.RefreshToken != ""
}

// TokenStore persists a TokenSet under well-known keys.
// Load returns a zero TokenSet (not an error) when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (TokenSet, error)
	Save(ctx context.Context, set TokenSet) error
	Clear(ctx context.Context) error
}
