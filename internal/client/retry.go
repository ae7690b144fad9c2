package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpclient "github.com/appleboy/go-httpclient"
	retry "github.com/appleboy/go-httpretry"
)

// NewHTTPClient creates the plain HTTP client used for single-shot calls
// such as identity provider requests. The go-httpclient wrapper runs
// without request signing since both upstream APIs authenticate by token.
func NewHTTPClient(timeout time.Duration, insecureSkipVerify bool) (*http.Client, error) {
	client, err := httpclient.NewAuthClient(
		httpclient.AuthModeNone,
		"",
		httpclient.WithTimeout(timeout),
		httpclient.WithInsecureSkipVerify(insecureSkipVerify),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}
	return client, nil
}

// CreateRetryClient creates an HTTP client that retries only when no
// response was received. Any status code, 5xx included, is passed through
// so the caller can classify it.
func CreateRetryClient(
	timeout time.Duration,
	insecureSkipVerify bool,
	maxRetries int,
	retryDelay, maxRetryDelay time.Duration,
) (*retry.Client, error) {
	client, err := NewHTTPClient(timeout, insecureSkipVerify)
	if err != nil {
		return nil, err
	}

	retryClient, err := retry.NewRealtimeClient(
		retry.WithHTTPClient(client),
		retry.WithMaxRetries(maxRetries),
		retry.WithInitialRetryDelay(retryDelay),
		retry.WithMaxRetryDelay(maxRetryDelay),
		retry.WithRetryableChecker(TransportErrorChecker),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create retry client: %w", err)
	}

	return retryClient, nil
}

// TransportErrorChecker retries only network failures. A cancelled or
// expired context is final, and every HTTP response is returned as is.
func TransportErrorChecker(err error, _ *http.Response) bool {
	return err != nil && !isContextError(err)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
