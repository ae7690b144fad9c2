package attendance

import "errors"

var (
	// ErrValidation indicates the scanned text is not a usable payload; nothing was sent
	ErrValidation = errors.New("invalid QR code")

	// ErrSessionExpired indicates no valid identity token could be obtained
	ErrSessionExpired = errors.New("session expired")

	// ErrTransport indicates the backend could not be reached or did not answer in time
	ErrTransport = errors.New("attendance server unreachable")

	// ErrApplication indicates the backend answered with a failure status other than 409
	ErrApplication = errors.New("attendance server rejected the scan")

	// ErrScanInProgress indicates a submission is already in flight on this engine
	ErrScanInProgress = errors.New("a scan is already being submitted")

	// ErrNotReady indicates Scan was called outside the awaiting-scan state
	ErrNotReady = errors.New("engine is not awaiting a scan")

	// ErrScanCancelled indicates the engine was reset while the scan was in flight
	ErrScanCancelled = errors.New("scan cancelled")
)
