package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cronos/backend/internal/domain"
)

func (h *Handler) listEvents(c *gin.Context) {
	rows, err := h.services.Events.List(c.Request.Context())
	if err != nil {
		h.failResponse(c, "events list failed", err)
		return
	}
	if rows == nil {
		rows = []domain.Event{}
	}
	successResponse(c, http.StatusOK, rows)
}

func (h *Handler) getEvent(c *gin.Context) {
	e, err := h.services.Events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failResponse(c, "event get failed", err)
		return
	}
	successResponse(c, http.StatusOK, e)
}

func (h *Handler) saveEvent(c *gin.Context) {
	var req domain.Event
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}
	if id := c.Param("id"); id != "" {
		req.ID = id
	}
	saved, err := h.services.Events.Save(c.Request.Context(), req)
	if err != nil {
		h.failResponse(c, "event save failed", err)
		return
	}
	savedResponse(c, saved)
}

func (h *Handler) deleteEvent(c *gin.Context) {
	if err := h.services.Events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.failResponse(c, "event delete failed", err)
		return
	}
	noContentResponse(c)
}

func (h *Handler) toggleAttendee(c *gin.Context) {
	e, err := h.services.Events.ToggleAttendee(c.Request.Context(), c.Param("id"), c.Param("clientId"))
	if err != nil {
		h.failResponse(c, "attendee toggle failed", err)
		return
	}
	successResponse(c, http.StatusOK, e)
}

func (h *Handler) getFormFields(c *gin.Context) {
	fields, err := h.services.Forms.Fields(c.Request.Context())
	if err != nil {
		h.failResponse(c, "form fields load failed", err)
		return
	}
	if fields == nil {
		fields = []domain.CustomField{}
	}
	successResponse(c, http.StatusOK, fields)
}

func (h *Handler) saveFormFields(c *gin.Context) {
	var req []domain.CustomField
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}
	fields, err := h.services.Forms.SaveFields(c.Request.Context(), req)
	if err != nil {
		h.failResponse(c, "form fields save failed", err)
		return
	}
	successResponse(c, http.StatusOK, fields)
}
