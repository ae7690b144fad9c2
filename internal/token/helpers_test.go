package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// mintIDToken signs an identity-token shaped JWT expiring at exp.
func mintIDToken(t *testing.T, exp time.Time, groups ...string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":              "5f1c2a9e-student",
		"email":            "student@example.edu",
		"cognito:username": "student@example.edu",
		"iat":              exp.Add(-time.Hour).Unix(),
		"exp":              exp.Unix(),
	}
	if len(groups) > 0 {
		claims["cognito:groups"] = groups
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}
