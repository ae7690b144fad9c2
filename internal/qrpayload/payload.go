// Package qrpayload binds scannable payloads to class sessions.
//
// The client side only checks that a scan is JSON and normalises it;
// whether the payload names a real, active session is decided by the
// attendance backend, which mints and verifies payloads with Mint and Verify.
package qrpayload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Well-known payload keys.
const (
	KeySessionID = "session_id"
	KeyClassID   = "class_id"
	KeyTimestamp = "timestamp"
	KeyExpiry    = "expiry"
)

// Payload is a scanned QR payload that parsed as JSON.
type Payload struct {
	canonical string
	fields    map[string]any
}

// Validate parses raw as a single JSON value and re-serialises it. The
// canonical form has insignificant whitespace removed and consistent
// escaping. No keys are required.
func Validate(raw string) (*Payload, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty scan", ErrInvalidPayload)
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrInvalidPayload)
	}

	canonical, err := encode(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	p := &Payload{canonical: canonical}
	if obj, ok := value.(map[string]any); ok {
		p.fields = obj
	}
	return p, nil
}

func encode(value any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// String returns the canonical JSON text sent as qr_code_data.
func (p *Payload) String() string {
	return p.canonical
}

// SessionID returns the session_id key when present as a string.
func (p *Payload) SessionID() (string, bool) {
	return p.stringField(KeySessionID)
}

// ClassID returns the class_id key when present as a string.
func (p *Payload) ClassID() (string, bool) {
	return p.stringField(KeyClassID)
}

// IsObject reports whether the payload is a JSON object.
func (p *Payload) IsObject() bool {
	return p.fields != nil
}

func (p *Payload) stringField(key string) (string, bool) {
	v, ok := p.fields[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// noCodeMarkers are fragments of decoder messages emitted while a frame
// simply contains no code yet.
var noCodeMarkers = []string{
	"NotFoundException",
	"No MultiFormat Readers",
	"No barcode or QR code detected",
	"no code found",
}

// IsNoCodeNoise reports whether a decoder error message only says that no
// code is in view. Such messages are dropped instead of surfaced.
func IsNoCodeNoise(msg string) bool {
	for _, marker := range noCodeMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
