package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cronos/backend/internal/domain"
)

func (h *Handler) getWeek(c *gin.Context) {
	week, err := h.services.Availability.Week(c.Request.Context())
	if err != nil {
		h.failResponse(c, "availability load failed", err)
		return
	}
	successResponse(c, http.StatusOK, week)
}

func (h *Handler) saveWeek(c *gin.Context) {
	var week domain.WeekAvailability
	if err := c.ShouldBindJSON(&week); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}
	if err := h.services.Availability.SaveWeek(c.Request.Context(), week); err != nil {
		h.failResponse(c, "availability save failed", err)
		return
	}
	successResponse(c, http.StatusOK, week)
}

func (h *Handler) listExceptions(c *gin.Context) {
	rows, err := h.services.Availability.Exceptions(c.Request.Context())
	if err != nil {
		h.failResponse(c, "exceptions list failed", err)
		return
	}
	if rows == nil {
		rows = []domain.DayException{}
	}
	successResponse(c, http.StatusOK, rows)
}

func (h *Handler) saveException(c *gin.Context) {
	var sched domain.DaySchedule
	if err := c.ShouldBindJSON(&sched); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}
	ex, err := h.services.Availability.SaveException(c.Request.Context(), domain.DayException{
		Date:     c.Param("date"),
		Schedule: sched,
	})
	if err != nil {
		h.failResponse(c, "exception save failed", err)
		return
	}
	successResponse(c, http.StatusOK, ex)
}

func (h *Handler) deleteException(c *gin.Context) {
	if err := h.services.Availability.DeleteException(c.Request.Context(), c.Param("date")); err != nil {
		h.failResponse(c, "exception delete failed", err)
		return
	}
	noContentResponse(c)
}

func (h *Handler) resolveDay(c *gin.Context) {
	date, err := h.services.Availability.ParseDate(c.Param("date"))
	if err != nil {
		h.failResponse(c, "invalid date", err)
		return
	}
	sched, err := h.services.Availability.Resolve(c.Request.Context(), date)
	if err != nil {
		h.failResponse(c, "day resolve failed", err)
		return
	}
	successResponse(c, http.StatusOK, gin.H{"date": date.Format(domain.DateLayout), "schedule": sched})
}

func (h *Handler) freeSlots(c *gin.Context) {
	date, err := h.services.Availability.ParseDate(c.Param("date"))
	if err != nil {
		h.failResponse(c, "invalid date", err)
		return
	}
	minutes, err := strconv.Atoi(c.DefaultQuery("duration", "0"))
	if err != nil || minutes < 0 {
		badRequestResponse(c, "duration must be a non-negative number of minutes")
		return
	}

	slots, err := h.services.Availability.FreeSlots(c.Request.Context(), date, c.Query("providerId"), time.Duration(minutes)*time.Minute)
	if err != nil {
		h.failResponse(c, "free slots failed", err)
		return
	}
	if slots == nil {
		slots = []time.Time{}
	}
	successResponse(c, http.StatusOK, slots)
}
