package handlers

import (
	"errors"
	"net/http"

	"github.com/SC0R9I0N/qr-class-manager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// errorStatus maps service errors onto HTTP status codes.
var errorStatus = []struct {
	err    error
	status int
}{
	{services.ErrUnauthorized, http.StatusUnauthorized},
	{services.ErrNotStudent, http.StatusForbidden},
	{services.ErrNotProfessor, http.StatusForbidden},
	{services.ErrInvalidRole, http.StatusForbidden},
	{services.ErrNotClassOwner, http.StatusForbidden},
	{services.ErrQRCodeRequired, http.StatusBadRequest},
	{services.ErrInvalidQRCode, http.StatusBadRequest},
	{services.ErrSessionNotActive, http.StatusBadRequest},
	{services.ErrQRSessionMismatch, http.StatusBadRequest},
	{services.ErrSessionNotFound, http.StatusNotFound},
	{services.ErrClassNotFound, http.StatusNotFound},
	{services.ErrAlreadyRecorded, http.StatusConflict},
}

// respondError writes the JSON error body for err. Unknown errors become a
// 500 whose detail is only logged.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrAlreadyRecorded) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   services.ErrAlreadyRecorded.Error(),
			"message": services.AlreadyRecordedMessage,
		})
		return
	}

	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"error": m.err.Error()})
			return
		}
	}

	logrus.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
