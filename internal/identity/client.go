package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SC0R9I0N/qr-class-manager/internal/core"

	"github.com/sirupsen/logrus"
)

var _ core.IdentityProvider = (*Client)(nil)

// Client talks to the identity provider's JSON API. Each method is exactly
// one request; nothing is retried and credentials are not checked locally.
type Client struct {
	endpoint   string
	clientID   string
	httpClient *http.Client
	metrics    core.Recorder
}

// NewClient creates an identity provider client for the app client clientID.
func NewClient(endpoint, clientID string, httpClient *http.Client, m core.Recorder) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   endpoint,
		clientID:   clientID,
		httpClient: httpClient,
		metrics:    m,
	}
}

// Name returns provider name for logging
func (c *Client) Name() string {
	return "cognito"
}

// Login exchanges a username and password for a token set.
func (c *Client) Login(ctx context.Context, username, password string) (*core.AuthResult, error) {
	return c.initiateAuth(ctx, flowUserPassword, map[string]string{
		"USERNAME": username,
		"PASSWORD": password,
	})
}

// Refresh exchanges a refresh token for new identity and access tokens.
// The result carries a refresh token only when the provider rotated it.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*core.AuthResult, error) {
	return c.initiateAuth(ctx, flowRefreshToken, map[string]string{
		"REFRESH_TOKEN": refreshToken,
	})
}

func (c *Client) initiateAuth(
	ctx context.Context,
	flow string,
	params map[string]string,
) (*core.AuthResult, error) {
	var resp initiateAuthResponse
	err := c.call(ctx, ActionInitiateAuth, initiateAuthRequest{
		AuthFlow:       flow,
		ClientID:       c.clientID,
		AuthParameters: params,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.AuthenticationResult == nil {
		if resp.ChallengeName != "" {
			return nil, fmt.Errorf("%w: %s", ErrChallengeRequired, resp.ChallengeName)
		}
		return nil, fmt.Errorf("%w: missing AuthenticationResult", ErrInvalidResponse)
	}
	if resp.AuthenticationResult.IDToken == "" {
		return nil, fmt.Errorf("%w: missing IdToken", ErrInvalidResponse)
	}

	return resp.AuthenticationResult.toCore(), nil
}

// Register creates an account with email as the username.
func (c *Client) Register(ctx context.Context, email, password string) (*core.SignUpResult, error) {
	var resp signUpResponse
	err := c.call(ctx, ActionSignUp, signUpRequest{
		ClientID: c.clientID,
		Username: email,
		Password: password,
		UserAttributes: []userAttribute{
			{Name: "email", Value: email},
		},
	}, &resp)
	if err != nil {
		return nil, err
	}

	result := &core.SignUpResult{
		UserConfirmed: resp.UserConfirmed,
		UserSub:       resp.UserSub,
	}
	if d := resp.CodeDeliveryDetails; d != nil {
		result.Destination = d.Destination
		result.DeliveryMedium = d.DeliveryMedium
		result.AttributeName = d.AttributeName
	}
	return result, nil
}

// Confirm submits the code delivered after Register.
func (c *Client) Confirm(ctx context.Context, email, code string) error {
	return c.call(ctx, ActionConfirmSignUp, confirmSignUpRequest{
		ClientID:         c.clientID,
		Username:         email,
		ConfirmationCode: code,
	}, nil)
}

// call performs one provider action and decodes a successful body into out.
func (c *Client) call(ctx context.Context, action string, in, out any) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.RecordIdentityCall(action, err == nil, time.Since(start))
	}()

	jsonData, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderConnection, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Amz-Target", targetPrefix+action)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).WithField("action", action).Warn("Identity provider unreachable")
		return fmt.Errorf("%w: %v", ErrProviderConnection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response", ErrInvalidResponse)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// decodeError turns a non-2xx response into a sentinel-wrapped APIError.
func decodeError(statusCode int, body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil &&
		(errResp.Type != "" || errResp.message() != "") {
		name := errResp.exceptionName()
		return fmt.Errorf("%w: %w", sentinelFor(name), &APIError{
			StatusCode: statusCode,
			Type:       name,
			Message:    errResp.message(),
		})
	}

	// Limit body preview to 200 characters to avoid overwhelming logs
	bodyPreview := string(body)
	if len(bodyPreview) > 200 {
		bodyPreview = bodyPreview[:200] + "..."
	}
	return fmt.Errorf("%w: HTTP %d - %s", ErrInvalidResponse, statusCode, bodyPreview)
}

// Message extracts the provider's human readable message from err, falling
// back to err.Error() when err did not come from the provider.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
