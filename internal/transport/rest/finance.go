package rest

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cronos/backend/internal/domain"
)

func (h *Handler) listTransactions(c *gin.Context) {
	var (
		rows []domain.Transaction
		err  error
	)
	if raw := c.Query("month"); raw != "" {
		month, perr := h.services.Finance.ParseMonth(raw)
		if perr != nil {
			h.failResponse(c, "invalid month", perr)
			return
		}
		rows, err = h.services.Finance.InMonth(c.Request.Context(), month)
	} else {
		rows, err = h.services.Finance.List(c.Request.Context())
	}
	if err != nil {
		h.failResponse(c, "transactions list failed", err)
		return
	}
	if rows == nil {
		rows = []domain.Transaction{}
	}
	successResponse(c, http.StatusOK, rows)
}

func (h *Handler) getTransaction(c *gin.Context) {
	tx, err := h.services.Finance.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failResponse(c, "transaction get failed", err)
		return
	}
	successResponse(c, http.StatusOK, tx)
}

func (h *Handler) saveTransaction(c *gin.Context) {
	var req domain.Transaction
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}
	if id := c.Param("id"); id != "" {
		req.ID = id
	}
	saved, err := h.services.Finance.Save(c.Request.Context(), req)
	if err != nil {
		h.failResponse(c, "transaction save failed", err)
		return
	}
	savedResponse(c, saved)
}

func (h *Handler) deleteTransaction(c *gin.Context) {
	if err := h.services.Finance.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.failResponse(c, "transaction delete failed", err)
		return
	}
	noContentResponse(c)
}

func (h *Handler) summaryMonth(c *gin.Context) (time.Time, bool) {
	raw := c.Query("month")
	if raw == "" {
		return time.Now(), true
	}
	month, err := h.services.Finance.ParseMonth(raw)
	if err != nil {
		h.failResponse(c, "invalid month", err)
		return time.Time{}, false
	}
	return month, true
}

func (h *Handler) financeSummary(c *gin.Context) {
	month, ok := h.summaryMonth(c)
	if !ok {
		return
	}
	sum, err := h.services.Finance.Summary(c.Request.Context(), month)
	if err != nil {
		h.failResponse(c, "finance summary failed", err)
		return
	}
	successResponse(c, http.StatusOK, sum)
}

func (h *Handler) financeExport(c *gin.Context) {
	month, ok := h.summaryMonth(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.services.Finance.WriteCSV(c.Request.Context(), &buf, month); err != nil {
		h.failResponse(c, "finance export failed", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="financeiro.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
