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

type SessionHandler struct {
	service  *services.SessionService
	validate *validator.Validate
}

func NewSessionHandler(s *services.SessionService) *SessionHandler {
	return &SessionHandler{service: s, validate: newValidator()}
}

// sessionView is the JSON shape of a session.
type sessionView struct {
	SessionID   string `json:"session_id"`
	ClassID     string `json:"class_id"`
	SessionDate string `json:"session_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time,omitempty"`
	IsActive    bool   `json:"is_active"`
	QRCodeData  string `json:"qr_code_data,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func toSessionView(s *models.Session) sessionView {
	return sessionView{
		SessionID:   s.ID,
		ClassID:     s.ClassID,
		SessionDate: s.SessionDate,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		IsActive:    s.IsActive,
		QRCodeData:  s.QRCodeData,
		CreatedAt:   s.CreatedAt.UTC().Format(services.ScanTimestampLayout),
	}
}

// Open godoc
//
//	@Summary	Open a session for a class the caller owns
//	@Tags		Sessions
//	@Accept		json
//	@Produce	json
//	@Param		body	body		services.OpenSessionRequest	true	"Session details"
//	@Success	201		{object}	sessionView
//	@Failure	403		{object}	object{error=string}	"Not a professor, or class owned by someone else"
//	@Router		/sessions [post]
func (h *SessionHandler) Open(c *gin.Context) {
	var req services.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	session, err := h.service.OpenSession(c.Request.Context(), models.CallerFromContext(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionView(session))
}

// MintQR godoc
//
//	@Summary	Mint a QR payload and activate the session
//	@Tags		Sessions
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Session ID"
//	@Param		body	body		services.MintRequest	false	"Expiry override"
//	@Success	200		{object}	services.MintResult
//	@Router		/sessions/{id}/qr [post]
func (h *SessionHandler) MintQR(c *gin.Context) {
	var req services.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	result, err := h.service.MintQR(c.Request.Context(), models.CallerFromContext(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Close godoc
//
//	@Summary	Stop a session from accepting scans
//	@Tags		Sessions
//	@Produce	json
//	@Param		id	path		string	true	"Session ID"
//	@Success	200	{object}	sessionView
//	@Router		/sessions/{id}/close [post]
func (h *SessionHandler) Close(c *gin.Context) {
	session, err := h.service.CloseSession(c.Request.Context(), models.CallerFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(session))
}

// Get returns one session.
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.service.GetSession(c.Request.Context(), models.CallerFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(session))
}

// List returns the sessions of ?class_id=.
func (h *SessionHandler) List(c *gin.Context) {
	classID := c.Query("class_id")
	if classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_id is required"})
		return
	}

	sessions, err := h.service.ListSessions(c.Request.Context(), models.CallerFromContext(c), classID)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]sessionView, 0, len(sessions))
	for i := range sessions {
		views = append(views, toSessionView(&sessions[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"class_id": classID,
		"sessions": views,
		"count":    len(views),
	})
}
