package attendance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/SC0R9I0N/qr-class-manager/internal/core"
	"github.com/SC0R9I0N/qr-class-manager/internal/version"

	retry "github.com/appleboy/go-httpretry"
)

// ScanPath is the backend route attendance scans are posted to.
const ScanPath = "/attendance/scan"

// maxResponseBytes caps how much of a response body is kept for classification.
const maxResponseBytes = 1 << 20

var _ core.AttendanceBackend = (*HTTPBackend)(nil)

// HTTPBackend submits scans to the attendance REST API.
type HTTPBackend struct {
	baseURL string
	client  *retry.Client
}

// NewHTTPBackend creates a backend rooted at baseURL. The retry client
// should only retry transport failures, see client.CreateRetryClient.
func NewHTTPBackend(baseURL string, client *retry.Client) *HTTPBackend {
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Submit posts one scan. Any HTTP answer is returned as a BackendResponse;
// an error means no response was received.
func (b *HTTPBackend) Submit(
	ctx context.Context,
	idToken string,
	sub core.Submission,
) (*core.BackendResponse, error) {
	jsonData, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := b.client.Post(
		ctx,
		b.baseURL+ScanPath,
		retry.WithBody("application/json", bytes.NewBuffer(jsonData)),
		retry.WithHeader("Accept", "application/json"),
		retry.WithHeader("Authorization", "Bearer "+idToken),
		retry.WithHeader("User-Agent", version.UserAgent()),
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &core.BackendResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
