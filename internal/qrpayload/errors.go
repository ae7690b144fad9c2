package qrpayload

import "errors"

var (
	// ErrInvalidPayload indicates the scanned text is not a JSON document
	ErrInvalidPayload = errors.New("invalid QR payload")

	// ErrMissingField indicates a minted payload lacks one of the required keys
	ErrMissingField = errors.New("QR payload missing required field")

	// ErrExpired indicates the payload's expiry lies in the past
	ErrExpired = errors.New("QR payload expired")
)
