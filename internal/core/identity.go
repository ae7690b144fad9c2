package core

import "context"

// AuthResult is the token set issued by the identity provider on a
// successful password or refresh-token authentication.
type AuthResult struct {
	AccessToken  string
	IDToken      string
	RefreshToken string // empty when the provider does not rotate on refresh
	TokenType    string
	ExpiresIn    int // seconds
}

// SignUpResult is the outcome of a registration request.
type SignUpResult struct {
	UserConfirmed  bool
	UserSub        string
	Destination    string // where the confirmation code was sent, masked
	DeliveryMedium string // EMAIL or SMS
	AttributeName  string
}

// IdentityProvider is the request/response contract of the external
// identity collaborator. Implementations must not retry.
type IdentityProvider interface {
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Register(ctx context.Context, email, password string) (*SignUpResult, error)
	Confirm(ctx context.Context, email, code string) error
	Name() string
}
