package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type suggestRequest struct {
	Text     string `json:"text" binding:"required"`
	ClientID string `json:"clientId"`
}

// suggestAppointment returns a booking proposal without storing it. With a clientId it
// also returns the pending appointment the client confirms through the regular save.
func (h *Handler) suggestAppointment(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "text is required")
		return
	}

	ex, err := h.services.Assistant.Suggest(c.Request.Context(), req.Text, time.Now())
	if err != nil {
		h.log.Warn("assistant suggestion failed", slog.Any("err", err), slog.String("request_id", requestID(c)))
		errorResponse(c, http.StatusBadGateway, "assistant could not read the request")
		return
	}
	if ex == nil {
		successResponse(c, http.StatusOK, gin.H{"suggestion": nil})
		return
	}
	data := gin.H{"suggestion": ex}
	if req.ClientID != "" {
		data["appointment"] = ex.Candidate(req.ClientID)
	}
	successResponse(c, http.StatusOK, data)
}

type reminderRequest struct {
	ClientName string    `json:"clientName" binding:"required"`
	At         time.Time `json:"at" binding:"required"`
	Service    string    `json:"service" binding:"required"`
}

func (h *Handler) reminderMessage(c *gin.Context) {
	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "clientName, at and service are required")
		return
	}
	msg := h.services.Assistant.Reminder(c.Request.Context(), req.ClientName, req.At, req.Service)
	successResponse(c, http.StatusOK, gin.H{"message": msg})
}
