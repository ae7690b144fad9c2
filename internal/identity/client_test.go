package identity

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/SC0R9I0N/qr-class-manager/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider records the last request and answers with a canned response.
type fakeProvider struct {
	status int
	body   string

	mu   sync.Mutex
	last recordedRequest
}

type recordedRequest struct {
	target string
	ctype  string
	req    map[string]any
}

func (f *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	rec := recordedRequest{
		target: r.Header.Get("X-Amz-Target"),
		ctype:  r.Header.Get("Content-Type"),
		req:    map[string]any{},
	}
	_ = json.Unmarshal(raw, &rec.req)

	f.mu.Lock()
	f.last = rec
	f.mu.Unlock()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(f.status)
	_, _ = io.WriteString(w, f.body)
}

func (f *fakeProvider) recorded() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func newTestClient(t *testing.T, status int, body string) (*Client, *fakeProvider) {
	t.Helper()
	fake := &fakeProvider{status: status, body: body}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "app-client-id", server.Client(), metrics.NewNoopMetrics()), fake
}

func TestLogin_Success(t *testing.T) {
	client, fake := newTestClient(t, http.StatusOK, `{
		"AuthenticationResult": {
			"AccessToken": "access",
			"IdToken": "id",
			"RefreshToken": "refresh",
			"TokenType": "Bearer",
			"ExpiresIn": 3600
		},
		"ChallengeParameters": {}
	}`)

	result, err := client.Login(context.Background(), "student@example.edu", "hunter22")
	require.NoError(t, err)

	assert.Equal(t, "access", result.AccessToken)
	assert.Equal(t, "id", result.IDToken)
	assert.Equal(t, "refresh", result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, 3600, result.ExpiresIn)

	assert.Equal(t, "AWSCognitoIdentityProviderService.InitiateAuth", fake.recorded().target)
	assert.Equal(t, "application/x-amz-json-1.1", fake.recorded().ctype)
	assert.Equal(t, "USER_PASSWORD_AUTH", fake.recorded().req["AuthFlow"])
	assert.Equal(t, "app-client-id", fake.recorded().req["ClientId"])
	assert.Equal(t, map[string]any{
		"USERNAME": "student@example.edu",
		"PASSWORD": "hunter22",
	}, fake.recorded().req["AuthParameters"])
}

func TestRefresh_WithoutRotation(t *testing.T) {
	client, fake := newTestClient(t, http.StatusOK, `{
		"AuthenticationResult": {"AccessToken": "a2", "IdToken": "i2", "ExpiresIn": 3600}
	}`)

	result, err := client.Refresh(context.Background(), "refresh-old")
	require.NoError(t, err)

	assert.Equal(t, "i2", result.IDToken)
	assert.Empty(t, result.RefreshToken)
	assert.Equal(t, "REFRESH_TOKEN_AUTH", fake.recorded().req["AuthFlow"])
	assert.Equal(t, map[string]any{"REFRESH_TOKEN": "refresh-old"}, fake.recorded().req["AuthParameters"])
}

func TestLogin_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{
			name:    "wrong password",
			status:  http.StatusBadRequest,
			body:    `{"__type":"NotAuthorizedException","message":"Incorrect username or password."}`,
			wantErr: ErrNotAuthorized,
			wantMsg: "Incorrect username or password.",
		},
		{
			name:    "namespaced exception",
			status:  http.StatusBadRequest,
			body:    `{"__type":"com.amazonaws.cognito#UserNotConfirmedException","message":"User is not confirmed."}`,
			wantErr: ErrUserNotConfirmed,
			wantMsg: "User is not confirmed.",
		},
		{
			name:    "unknown exception",
			status:  http.StatusBadRequest,
			body:    `{"__type":"TooManyRequestsException","Message":"Rate exceeded"}`,
			wantErr: ErrProviderRejected,
			wantMsg: "Rate exceeded",
		},
		{
			name:    "non json error",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantErr: ErrInvalidResponse,
		},
		{
			name:    "challenge",
			status:  http.StatusOK,
			body:    `{"ChallengeName":"NEW_PASSWORD_REQUIRED","Session":"xyz"}`,
			wantErr: ErrChallengeRequired,
		},
		{
			name:    "missing id token",
			status:  http.StatusOK,
			body:    `{"AuthenticationResult":{"AccessToken":"a"}}`,
			wantErr: ErrInvalidResponse,
		},
		{
			name:    "garbage success body",
			status:  http.StatusOK,
			body:    `{{{`,
			wantErr: ErrInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.status, tt.body)

			_, err := client.Login(context.Background(), "u", "p")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			if tt.wantMsg != "" {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, tt.status, apiErr.StatusCode)
				assert.Equal(t, tt.wantMsg, Message(err))
			}
		})
	}
}

func TestLogin_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, "id", nil, metrics.NewNoopMetrics())

	_, err := client.Login(context.Background(), "u", "p")
	assert.ErrorIs(t, err, ErrProviderConnection)
}

func TestRegister(t *testing.T) {
	client, fake := newTestClient(t, http.StatusOK, `{
		"UserConfirmed": false,
		"UserSub": "5f1c2a9e",
		"CodeDeliveryDetails": {
			"Destination": "s***@e***.edu",
			"DeliveryMedium": "EMAIL",
			"AttributeName": "email"
		}
	}`)

	result, err := client.Register(context.Background(), "student@example.edu", "Hunter22!")
	require.NoError(t, err)

	assert.False(t, result.UserConfirmed)
	assert.Equal(t, "5f1c2a9e", result.UserSub)
	assert.Equal(t, "s***@e***.edu", result.Destination)
	assert.Equal(t, "EMAIL", result.DeliveryMedium)
	assert.Equal(t, "email", result.AttributeName)

	assert.Equal(t, "AWSCognitoIdentityProviderService.SignUp", fake.recorded().target)
	assert.Equal(t, "student@example.edu", fake.recorded().req["Username"])
	assert.Equal(t, []any{
		map[string]any{"Name": "email", "Value": "student@example.edu"},
	}, fake.recorded().req["UserAttributes"])
}

func TestRegister_UserExists(t *testing.T) {
	client, _ := newTestClient(t, http.StatusBadRequest,
		`{"__type":"UsernameExistsException","message":"An account with the given email already exists."}`)

	_, err := client.Register(context.Background(), "student@example.edu", "Hunter22!")
	assert.ErrorIs(t, err, ErrUserExists)
	assert.Equal(t, "An account with the given email already exists.", Message(err))
}

func TestConfirm(t *testing.T) {
	client, fake := newTestClient(t, http.StatusOK, `{}`)

	require.NoError(t, client.Confirm(context.Background(), "student@example.edu", "123456"))
	assert.Equal(t, "AWSCognitoIdentityProviderService.ConfirmSignUp", fake.recorded().target)
	assert.Equal(t, "123456", fake.recorded().req["ConfirmationCode"])
	assert.Equal(t, "app-client-id", fake.recorded().req["ClientId"])
}

func TestConfirm_CodeMismatch(t *testing.T) {
	client, _ := newTestClient(t, http.StatusBadRequest,
		`{"__type":"CodeMismatchException","message":"Invalid verification code provided, please try again."}`)

	err := client.Confirm(context.Background(), "student@example.edu", "000000")
	assert.ErrorIs(t, err, ErrCodeMismatch)
}

func TestMessage_FallsBackToError(t *testing.T) {
	err := errors.New("plain failure")
	assert.Equal(t, "plain failure", Message(err))
}
