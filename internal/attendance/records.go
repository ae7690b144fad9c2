package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/SC0R9I0N/qr-class-manager/internal/token"

	"golang.org/x/oauth2"
)

// Record is one stored attendance entry as listed by GET /attendance.
type Record struct {
	AttendanceID  string `json:"attendance_id"`
	SessionID     string `json:"session_id"`
	ClassID       string `json:"class_id"`
	StudentID     string `json:"student_id"`
	ScanTimestamp string `json:"scan_timestamp"`
	Location      string `json:"location,omitempty"`
	DeviceInfo    string `json:"device_info,omitempty"`
}

// ListFilter narrows a listing; empty fields are not sent.
type ListFilter struct {
	SessionID string
	StudentID string
}

type listResponse struct {
	Records []Record `json:"records"`
	Count   int      `json:"count"`
	Message string   `json:"message"`
	Error   string   `json:"error"`
}

// RecordsClient reads attendance records with a bearer token taken from
// an oauth2.TokenSource, refreshing it as needed.
type RecordsClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRecordsClient wraps base so every request carries a token from ts.
func NewRecordsClient(baseURL string, ts oauth2.TokenSource, base *http.Client) *RecordsClient {
	if base == nil {
		base = http.DefaultClient
	}
	return &RecordsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &oauth2.Transport{
				Source: oauth2.ReuseTokenSource(nil, ts),
				Base:   base.Transport,
			},
			Timeout: base.Timeout,
		},
	}
}

// List returns the records visible to the caller.
func (c *RecordsClient) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	query := url.Values{}
	if filter.SessionID != "" {
		query.Set("session_id", filter.SessionID)
	}
	if filter.StudentID != "" {
		query.Set("student_id", filter.StudentID)
	}

	endpoint := c.baseURL + "/attendance"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if errors.Is(err, token.ErrReauthRequired) {
		return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	var out listResponse
	parseErr := json.Unmarshal(body, &out)

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if parseErr == nil && out.Message != "" {
			msg = out.Message
		} else if parseErr == nil && out.Error != "" {
			msg = out.Error
		}
		return nil, fmt.Errorf("%w: HTTP %d - %s", ErrApplication, resp.StatusCode, msg)
	}
	if parseErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrApplication, parseErr)
	}

	return out.Records, nil
}
