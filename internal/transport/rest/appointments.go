package rest

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cronos/backend/internal/domain"
	"cronos/backend/internal/service/appointments"
)

type saveAppointmentResponse struct {
	Appointment domain.Appointment  `json:"appointment"`
	Transaction *domain.Transaction `json:"transaction,omitempty"`
}

func (h *Handler) saveAppointment(c *gin.Context) {
	var req domain.Appointment
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}
	if id := c.Param("id"); id != "" {
		req.ID = id
	}

	ctx := c.Request.Context()
	if err := h.services.Forms.Validate(ctx, req.CustomFields); err != nil {
		h.failResponse(c, "custom field validation failed", err)
		return
	}

	res, err := h.services.Appointments.Save(ctx, req)
	if err != nil {
		h.failResponse(c, "appointment save failed", err)
		return
	}

	status := http.StatusOK
	if c.Param("id") == "" {
		status = http.StatusCreated
	}
	c.JSON(status, successResponseBody{
		Status:   "success",
		Data:     saveAppointmentResponse{Appointment: res.Appointment, Transaction: res.Transaction},
		Warnings: res.Warnings,
	})
}

func (h *Handler) getAppointment(c *gin.Context) {
	appt, err := h.services.Appointments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failResponse(c, "appointment get failed", err)
		return
	}
	successResponse(c, http.StatusOK, appt)
}

func (h *Handler) deleteAppointment(c *gin.Context) {
	if err := h.services.Appointments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.failResponse(c, "appointment delete failed", err)
		return
	}
	noContentResponse(c)
}

func (h *Handler) listAppointments(c *gin.Context) {
	from, ok := h.queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := h.queryTime(c, "to")
	if !ok {
		return
	}
	includeCancelled, _ := strconv.ParseBool(c.DefaultQuery("includeCancelled", "false"))

	appts, err := h.services.Appointments.List(c.Request.Context(), appointments.Filter{
		From:             from,
		To:               to,
		ProviderID:       c.Query("providerId"),
		ClientID:         c.Query("clientId"),
		Status:           domain.AppointmentStatus(c.Query("status")),
		IncludeCancelled: includeCancelled,
	})
	if err != nil {
		h.failResponse(c, "appointments list failed", err)
		return
	}
	if appts == nil {
		appts = []domain.Appointment{}
	}
	successResponse(c, http.StatusOK, appts)
}

type statusRequest struct {
	Status domain.AppointmentStatus `json:"status" binding:"required"`
}

func (h *Handler) setAppointmentStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "status is required")
		return
	}
	res, err := h.services.Appointments.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.failResponse(c, "appointment status change failed", err)
		return
	}
	c.JSON(http.StatusOK, successResponseBody{Status: "success", Data: res.Appointment, Warnings: res.Warnings})
}

func (h *Handler) checkConflict(c *gin.Context) {
	start, ok := h.queryTime(c, "start")
	if !ok {
		return
	}
	end, ok := h.queryTime(c, "end")
	if !ok {
		return
	}
	conflict, err := h.services.Appointments.CheckConflict(c.Request.Context(), start, end, c.Query("providerId"), c.Query("excludeId"))
	if err != nil {
		h.failResponse(c, "conflict check failed", err)
		return
	}
	successResponse(c, http.StatusOK, gin.H{"conflict": conflict})
}

// queryTime reads an optional RFC 3339 query parameter. It writes the error response
// and returns false when the value is malformed.
func (h *Handler) queryTime(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		h.log.Debug("invalid time parameter", slog.String("param", key), slog.String("value", raw))
		badRequestResponse(c, key+" must be an RFC 3339 timestamp")
		return time.Time{}, false
	}
	return t, true
}
