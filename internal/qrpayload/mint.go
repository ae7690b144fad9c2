package qrpayload

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DefaultExpiry is how long a minted payload stays valid when no explicit
// lifetime is requested.
const DefaultExpiry = 60 * time.Minute

// naiveISO is the layout of timestamps written without a zone offset;
// such values are read as UTC.
const naiveISO = "2006-01-02T15:04:05.999999999"

// Minted is the content of a session payload.
type Minted struct {
	SessionID string    `json:"session_id"`
	ClassID   string    `json:"class_id"`
	Timestamp time.Time `json:"timestamp"`
	Expiry    time.Time `json:"expiry"`
}

// ExpiredAt reports whether the payload is no longer valid at now.
func (m *Minted) ExpiredAt(now time.Time) bool {
	return !m.Expiry.IsZero() && now.After(m.Expiry)
}

// Mint builds the payload for one session, valid for ttl from now.
// A non-positive ttl falls back to DefaultExpiry.
func Mint(sessionID, classID string, ttl time.Duration, now time.Time) (string, *Minted, error) {
	if sessionID == "" || classID == "" {
		return "", nil, fmt.Errorf("%w: session_id and class_id are required", ErrMissingField)
	}
	if ttl <= 0 {
		ttl = DefaultExpiry
	}

	now = now.UTC().Truncate(time.Second)
	m := &Minted{
		SessionID: sessionID,
		ClassID:   classID,
		Timestamp: now,
		Expiry:    now.Add(ttl),
	}

	data, err := json.Marshal(m)
	if err != nil {
		return "", nil, err
	}
	return string(data), m, nil
}

// Verify parses a scanned payload on the backend. session_id, class_id and
// timestamp are required; expiry is optional, and checked against now
// only when enforceExpiry is set.
func Verify(raw string, now time.Time, enforceExpiry bool) (*Minted, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	m := &Minted{}
	var ok bool
	if m.SessionID, ok = fields[KeySessionID].(string); !ok || m.SessionID == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, KeySessionID)
	}
	if m.ClassID, ok = fields[KeyClassID].(string); !ok || m.ClassID == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, KeyClassID)
	}

	ts, ok := fields[KeyTimestamp].(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, KeyTimestamp)
	}
	var err error
	if m.Timestamp, err = parseTime(ts); err != nil {
		return nil, fmt.Errorf("%w: timestamp: %v", ErrInvalidPayload, err)
	}

	if rawExpiry, present := fields[KeyExpiry]; present {
		s, ok := rawExpiry.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expiry is not a string", ErrInvalidPayload)
		}
		if m.Expiry, err = parseTime(s); err != nil {
			return nil, fmt.Errorf("%w: expiry: %v", ErrInvalidPayload, err)
		}
	}

	if enforceExpiry && m.ExpiredAt(now) {
		return nil, fmt.Errorf("%w: at %s", ErrExpired, m.Expiry.Format(time.RFC3339))
	}
	return m, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(naiveISO, s, time.UTC)
}
