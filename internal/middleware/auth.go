package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/SC0R9I0N/qr-class-manager/internal/core"
	"github.com/SC0R9I0N/qr-class-manager/internal/models"
	"github.com/SC0R9I0N/qr-class-manager/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// BearerAuthConfig holds what identity tokens are checked against.
type BearerAuthConfig struct {
	Secret   string // HS256 signing key
	Issuer   string // Checked when set
	Audience string // Checked when set
}

// BearerAuth verifies the identity token in the Authorization header and
// stores the caller on the context. Failures abort with 401.
func BearerAuth(cfg BearerAuthConfig, m core.Recorder) gin.HandlerFunc {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	parser := jwt.NewParser(opts...)
	keyFunc := func(*jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}

	return func(c *gin.Context) {
		raw, reason := bearerToken(c.GetHeader("Authorization"))
		if reason != "" {
			unauthorized(c, m, reason, "Bearer token required")
			return
		}

		mapClaims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(raw, mapClaims, keyFunc); err != nil {
			logrus.WithError(err).WithField("path", c.Request.URL.Path).Warn("Invalid identity token")
			unauthorized(c, m, "invalid_token", "Token validation failed")
			return
		}

		claims, err := token.ClaimsFromMap(mapClaims)
		if err != nil || claims.Subject == "" {
			unauthorized(c, m, "invalid_claims", "Token has no subject")
			return
		}

		caller := &models.Caller{
			Subject:  claims.Subject,
			Username: claims.Username,
			Email:    claims.Email,
			Groups:   claims.Groups,
		}
		models.SetCaller(c, caller)

		logrus.WithFields(logrus.Fields{
			"subject": caller.Subject,
			"groups":  caller.Groups,
			"path":    c.Request.URL.Path,
		}).Debug("Caller authenticated")

		c.Next()
	}
}

func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "missing_header"
	}
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", "invalid_scheme"
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "empty_token"
	}
	return raw, ""
}

func unauthorized(c *gin.Context, m core.Recorder, reason, message string) {
	m.RecordAuthFailure(reason)
	c.Header("WWW-Authenticate", fmt.Sprintf(`Bearer error=%q`, reason))
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "Unauthorized",
		"message": message,
	})
}
