package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SC0R9I0N/qr-class-manager/internal/config"
	"github.com/SC0R9I0N/qr-class-manager/internal/metrics"
	"github.com/SC0R9I0N/qr-class-manager/internal/middleware"
	"github.com/SC0R9I0N/qr-class-manager/internal/services"
	"github.com/SC0R9I0N/qr-class-manager/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

type testServer struct {
	router *gin.Engine
	t      *testing.T
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.New(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(context.Background()) })

	cfg := &config.Config{QRCodeExpiration: time.Hour, QRExpiryEnforced: true}
	recorder := metrics.NewNoopMetrics()

	attendance := NewAttendanceHandler(services.NewAttendanceService(db, cfg, recorder))
	sessions := NewSessionHandler(services.NewSessionService(db, cfg, recorder))

	r := gin.New()
	r.GET("/health", Health(db))
	api := r.Group("/", middleware.BearerAuth(middleware.BearerAuthConfig{Secret: testSecret}, recorder))
	api.POST("/attendance/scan", attendance.Scan)
	api.GET("/attendance", attendance.List)
	api.POST("/sessions", sessions.Open)
	api.GET("/sessions", sessions.List)
	api.GET("/sessions/:id", sessions.Get)
	api.POST("/sessions/:id/qr", sessions.MintQR)
	api.POST("/sessions/:id/close", sessions.Close)

	return &testServer{router: r, t: t}
}

func bearer(t *testing.T, sub string, groups ...string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":            sub,
		"cognito:groups": groups,
		"exp":            time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func (s *testServer) do(method, path, auth string, body any) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

// openSession opens and activates a session, returning its ID and QR payload.
func (s *testServer) openSession(prof string) (string, string) {
	s.t.Helper()

	w, body := s.do(http.MethodPost, "/sessions", prof, map[string]any{
		"class_id":   "c1",
		"class_name": "Databases",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	sessionID := body["session_id"].(string)
	assert.Equal(s.t, false, body["is_active"])

	w, body = s.do(http.MethodPost, "/sessions/"+sessionID+"/qr", prof, nil)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return sessionID, body["qr_code_data"].(string)
}

func TestScanFlow(t *testing.T) {
	s := newTestServer(t)
	prof := bearer(t, "prof-1", "professors")
	stud := bearer(t, "student-1", "students")

	sessionID, qr := s.openSession(prof)

	w, body := s.do(http.MethodPost, "/attendance/scan", stud, map[string]any{
		"qr_code_data": qr,
		"location":     "Room 204",
		"device_info":  "test",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, sessionID, body["session_id"])
	assert.Equal(t, "c1", body["class_id"])
	assert.Equal(t, "Databases", body["class_name"])
	assert.Equal(t, "attendance recorded successfully", body["message"])
	assert.NotEmpty(t, body["attendance_id"])
	assert.NotEmpty(t, body["scan_timestamp"])

	w, body = s.do(http.MethodPost, "/attendance/scan", stud, map[string]any{"qr_code_data": qr})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Attendance already recorded", body["error"])
	assert.Equal(t, "you have already marked attendance for this session", body["message"])

	w, body = s.do(http.MethodGet, "/attendance?session_id="+sessionID, prof, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["count"])

	w, _ = s.do(http.MethodPost, "/sessions/"+sessionID+"/close", prof, nil)
	require.Equal(t, http.StatusOK, w.Code)

	other := bearer(t, "student-2", "students")
	w, body = s.do(http.MethodPost, "/attendance/scan", other, map[string]any{"qr_code_data": qr})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "session not active", body["error"])
}

func TestScanErrors(t *testing.T) {
	s := newTestServer(t)
	prof := bearer(t, "prof-1", "professors")
	stud := bearer(t, "student-1", "students")
	sessionID, qr := s.openSession(prof)

	tests := []struct {
		name      string
		auth      string
		body      any
		wantCode  int
		wantError string
	}{
		{"no token", "", map[string]any{"qr_code_data": qr}, http.StatusUnauthorized, "Unauthorized"},
		{"professor", prof, map[string]any{"qr_code_data": qr}, http.StatusForbidden, "only students can scan attendance"},
		{"empty body", stud, nil, http.StatusBadRequest, "qr_code_data is required"},
		{"empty payload", stud, map[string]any{"qr_code_data": ""}, http.StatusBadRequest, "qr_code_data is required"},
		{"malformed json body", stud, `{"qr_code_data":`, http.StatusBadRequest, "invalid request body"},
		{"payload not json", stud, map[string]any{"qr_code_data": "not json"}, http.StatusBadRequest, "invalid/expired QR code"},
		{"unknown session", stud, map[string]any{"qr_code_data": `{"session_id":"nope","class_id":"c1","timestamp":"2026-03-02T09:00:00"}`}, http.StatusNotFound, "session not found"},
		{"class mismatch", stud, map[string]any{"qr_code_data": `{"session_id":"` + sessionID + `","class_id":"c2","timestamp":"2026-03-02T09:00:00"}`}, http.StatusBadRequest, "QR code does not match session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := s.do(http.MethodPost, "/attendance/scan", tt.auth, tt.body)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestSessionEndpoints(t *testing.T) {
	s := newTestServer(t)
	prof := bearer(t, "prof-1", "professors")
	otherProf := bearer(t, "prof-2", "professors")
	stud := bearer(t, "student-1", "students")

	sessionID, _ := s.openSession(prof)

	w, body := s.do(http.MethodGet, "/sessions?class_id=c1", prof, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["count"])

	w, body = s.do(http.MethodGet, "/sessions/"+sessionID, prof, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["is_active"])

	w, _ = s.do(http.MethodGet, "/sessions", prof, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(http.MethodPost, "/sessions/"+sessionID+"/qr", otherProf, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "you do not own this class", body["error"])

	w, body = s.do(http.MethodPost, "/sessions", stud, map[string]any{"class_id": "c9"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "only professors can manage sessions", body["error"])

	w, body = s.do(http.MethodPost, "/sessions", prof, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "class_id is required", body["error"])

	w, body = s.do(http.MethodPost, "/sessions", prof, map[string]any{"class_id": "c1", "session_date": "March 2nd"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "session_date must match")

	w, body = s.do(http.MethodPost, "/sessions/"+sessionID+"/qr", prof, map[string]any{"expiry_minutes": 0})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["expires_at"])

	w, _ = s.do(http.MethodPost, "/sessions/"+sessionID+"/qr", prof, map[string]any{"expiry_minutes": 100000})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/sessions/missing/close", prof, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAttendanceList_StudentSeesOwn(t *testing.T) {
	s := newTestServer(t)
	prof := bearer(t, "prof-1", "professors")
	stud := bearer(t, "student-1", "students")
	stud2 := bearer(t, "student-2", "students")

	_, qr := s.openSession(prof)
	for _, who := range []string{stud, stud2} {
		w, _ := s.do(http.MethodPost, "/attendance/scan", who, map[string]any{"qr_code_data": qr})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, body := s.do(http.MethodGet, "/attendance?student_id=student-2", stud, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["count"])
	records := body["records"].([]any)
	assert.Equal(t, "student-1", records[0].(map[string]any)["student_id"])

	w, _ = s.do(http.MethodGet, "/attendance", bearer(t, "guest"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, body := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

type downDB struct{}

func (downDB) Health(context.Context) error { return errors.New("connection refused") }

func TestHealth_Unhealthy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", Health(downDB{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unhealthy")
}

func TestRespondError_Unknown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk on fire")
}
