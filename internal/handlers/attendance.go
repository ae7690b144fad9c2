package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/SC0R9I0N/qr-class-manager/internal/models"
	"github.com/SC0R9I0N/qr-class-manager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type AttendanceHandler struct {
	service  *services.AttendanceService
	validate *validator.Validate
}

func NewAttendanceHandler(s *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: s, validate: newValidator()}
}

// Scan godoc
//
//	@Summary		Record attendance from a scanned QR code
//	@Tags			Attendance
//	@Accept			json
//	@Produce		json
//	@Param			body	body		services.ScanRequest	true	"Scanned payload"
//	@Success		200		{object}	services.ScanResult
//	@Failure		400		{object}	object{error=string}	"Missing, invalid or expired QR code; inactive or mismatched session"
//	@Failure		401		{object}	object{error=string}
//	@Failure		403		{object}	object{error=string}	"Caller is not a student"
//	@Failure		404		{object}	object{error=string}	"Session not found"
//	@Failure		409		{object}	object{error=string,message=string}	"Attendance already recorded"
//	@Router			/attendance/scan [post]
func (h *AttendanceHandler) Scan(c *gin.Context) {
	caller := models.CallerFromContext(c)
	if caller == nil {
		respondError(c, services.ErrUnauthorized)
		return
	}
	// The role check comes before body validation
	if !caller.IsStudent() {
		respondError(c, services.ErrNotStudent)
		return
	}

	var req services.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.QRCodeData == "" {
		respondError(c, services.ErrQRCodeRequired)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	result, err := h.service.Scan(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// List godoc
//
//	@Summary		List attendance records
//	@Description	Professors see records of classes they own; students see their own.
//	@Tags			Attendance
//	@Produce		json
//	@Param			session_id	query		string	false	"Session filter"
//	@Param			student_id	query		string	false	"Student filter (professors only)"
//	@Param			class_id	query		string	false	"Class filter"
//	@Success		200			{object}	object{records=[]services.RecordView,count=int}
//	@Router			/attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	var q services.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}

	records, err := h.service.List(c.Request.Context(), models.CallerFromContext(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"count":   len(records),
	})
}
