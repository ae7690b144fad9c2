package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMetricsAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const secret = "scrape-secret"

	tests := []struct {
		name      string
		token     string
		header    string
		wantCode  int
		wantInMsg string
	}{
		{name: "open when unconfigured", token: "", header: "", wantCode: http.StatusOK},
		{name: "valid token", token: secret, header: "Bearer " + secret, wantCode: http.StatusOK},
		{name: "wrong token", token: secret, header: "Bearer nope", wantCode: http.StatusUnauthorized, wantInMsg: "Invalid token"},
		{name: "empty bearer", token: secret, header: "Bearer ", wantCode: http.StatusUnauthorized, wantInMsg: "Invalid token"},
		{name: "missing header", token: secret, header: "", wantCode: http.StatusUnauthorized, wantInMsg: "Bearer token required"},
		{name: "basic scheme", token: secret, header: "Basic dGVzdDp0ZXN0", wantCode: http.StatusUnauthorized, wantInMsg: "Bearer token required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(MetricsAuthMiddleware(tt.token))
			r.GET("/metrics", func(c *gin.Context) { c.String(http.StatusOK, "metrics") })

			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "metrics", w.Body.String())
				return
			}
			assert.Contains(t, w.Body.String(), tt.wantInMsg)
			assert.Equal(t, `Bearer realm="Metrics"`, w.Header().Get("WWW-Authenticate"))
		})
	}
}
