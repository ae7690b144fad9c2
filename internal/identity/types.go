package identity

import (
	"strings"

	"github.com/SC0R9I0N/qr-class-manager/internal/core"
)

// Provider actions, sent in the X-Amz-Target header.
const (
	targetPrefix = "AWSCognitoIdentityProviderService."

	ActionInitiateAuth  = "InitiateAuth"
	ActionSignUp        = "SignUp"
	ActionConfirmSignUp = "ConfirmSignUp"

	flowUserPassword = "USER_PASSWORD_AUTH"
	flowRefreshToken = "REFRESH_TOKEN_AUTH"

	contentType = "application/x-amz-json-1.1"
)

type initiateAuthRequest struct {
	AuthFlow       string            `json:"AuthFlow"`
	ClientID       string            `json:"ClientId"`
	AuthParameters map[string]string `json:"AuthParameters"`
}

type authenticationResult struct {
	AccessToken  string `json:"AccessToken"`
	IDToken      string `json:"IdToken"`
	RefreshToken string `json:"RefreshToken,omitempty"`
	TokenType    string `json:"TokenType,omitempty"`
	ExpiresIn    int    `json:"ExpiresIn,omitempty"`
}

type initiateAuthResponse struct {
	AuthenticationResult *authenticationResult `json:"AuthenticationResult,omitempty"`
	ChallengeName        string                `json:"ChallengeName,omitempty"`
	Session              string                `json:"Session,omitempty"`
}

type userAttribute struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

type signUpRequest struct {
	ClientID       string          `json:"ClientId"`
	Username       string          `json:"Username"`
	Password       string          `json:"Password"`
	UserAttributes []userAttribute `json:"UserAttributes"`
}

type codeDeliveryDetails struct {
	Destination    string `json:"Destination"`
	DeliveryMedium string `json:"DeliveryMedium"`
	AttributeName  string `json:"AttributeName"`
}

type signUpResponse struct {
	UserConfirmed       bool                 `json:"UserConfirmed"`
	UserSub             string               `json:"UserSub"`
	CodeDeliveryDetails *codeDeliveryDetails `json:"CodeDeliveryDetails,omitempty"`
}

type confirmSignUpRequest struct {
	ClientID         string `json:"ClientId"`
	Username         string `json:"Username"`
	ConfirmationCode string `json:"ConfirmationCode"`
}

// errorResponse is the body of a failed call. Some gateways send the
// message under a capitalised key.
type errorResponse struct {
	Type         string `json:"__type"`
	Message      string `json:"message"`
	MessageUpper string `json:"Message"`
}

func (e errorResponse) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.MessageUpper
}

// exceptionName strips the optional namespace ("com.amazon...#Name").
func (e errorResponse) exceptionName() string {
	if i := strings.LastIndex(e.Type, "#"); i >= 0 {
		return e.Type[i+1:]
	}
	return e.Type
}

func (r *authenticationResult) toCore() *core.AuthResult {
	return &core.AuthResult{
		AccessToken:  r.AccessToken,
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
		TokenType:    r.TokenType,
		ExpiresIn:    r.ExpiresIn,
	}
}
