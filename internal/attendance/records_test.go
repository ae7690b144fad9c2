package attendance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SC0R9I0N/qr-class-manager/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type tokenSourceFunc func() (*oauth2.Token, error)

func (f tokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

func staticSource(tok string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"})
}

func TestRecordsClient_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/attendance", r.URL.Path)
		assert.Equal(t, "s1", r.URL.Query().Get("session_id"))
		assert.False(t, r.URL.Query().Has("student_id"))
		assert.Equal(t, "Bearer id-token", r.Header.Get("Authorization"))

		_, _ = io.WriteString(w, `{"records":[
			{"attendance_id":"a1","session_id":"s1","class_id":"c1","student_id":"u1","scan_timestamp":"2026-03-02T09:00:00"},
			{"attendance_id":"a2","session_id":"s1","class_id":"c1","student_id":"u2","scan_timestamp":"2026-03-02T09:01:00"}
		],"count":2}`)
	}))
	defer srv.Close()

	records, err := NewRecordsClient(srv.URL, staticSource("id-token"), nil).
		List(context.Background(), ListFilter{SessionID: "s1"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a1", records[0].AttendanceID)
	assert.Equal(t, "u2", records[1].StudentID)
}

func TestRecordsClient_Errors(t *testing.T) {
	t.Run("forbidden", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `{"error":"Forbidden","message":"you do not own this class"}`)
		}))
		defer srv.Close()

		_, err := NewRecordsClient(srv.URL, staticSource("t"), nil).List(context.Background(), ListFilter{})
		require.ErrorIs(t, err, ErrApplication)
		assert.Contains(t, err.Error(), "you do not own this class")
	})

	t.Run("reauth required", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			called = true
		}))
		defer srv.Close()

		ts := tokenSourceFunc(func() (*oauth2.Token, error) {
			return nil, fmt.Errorf("%w: no refresh token held", token.ErrReauthRequired)
		})
		_, err := NewRecordsClient(srv.URL, ts, nil).List(context.Background(), ListFilter{})
		require.ErrorIs(t, err, ErrSessionExpired)
		assert.False(t, called)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewRecordsClient(url, staticSource("t"), nil).List(context.Background(), ListFilter{})
		assert.ErrorIs(t, err, ErrTransport)
	})

	t.Run("bad body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `<html>`)
		}))
		defer srv.Close()

		_, err := NewRecordsClient(srv.URL, staticSource("t"), nil).List(context.Background(), ListFilter{})
		assert.ErrorIs(t, err, ErrApplication)
	})
}
