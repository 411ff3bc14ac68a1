package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cronos/backend/internal/domain"
)

func activeOnly(c *gin.Context) bool {
	v, _ := strconv.ParseBool(c.DefaultQuery("active", "false"))
	return v
}

func (h *Handler) listClients(c *gin.Context) {
	rows, err := h.services.Catalog.Clients(c.Request.Context())
	if err != nil {
		h.failResponse(c, "clients list failed", err)
		return
	}
	if rows == nil {
		rows = []domain.Client{}
	}
	successResponse(c, http.StatusOK, rows)
}

func (h *Handler) getClient(c *gin.Context) {
	cl, err := h.services.Catalog.Client(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failResponse(c, "client get failed", err)
		return
	}
	successResponse(c, http.StatusOK, cl)
}

func (h *Handler) saveClient(c *gin.Context) {
	var req domain.Client
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}
	if id := c.Param("id"); id != "" {
		req.ID = id
	}
	saved, err := h.services.Catalog.SaveClient(c.Request.Context(), req)
	if err != nil {
		h.failResponse(c, "client save failed", err)
		return
	}
	savedResponse(c, saved)
}

func (h *Handler) deleteClient(c *gin.Context) {
	if err := h.services.Catalog.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		h.failResponse(c, "client delete failed", err)
		return
	}
	noContentResponse(c)
}

func (h *Handler) listServices(c *gin.Context) {
	var (
		rows []domain.Service
		err  error
	)
	if activeOnly(c) {
		rows, err = h.services.Catalog.ActiveServices(c.Request.Context())
	} else {
		rows, err = h.services.Catalog.Services(c.Request.Context())
	}
	if err != nil {
		h.failResponse(c, "services list failed", err)
		return
	}
	if rows == nil {
		rows = []domain.Service{}
	}
	successResponse(c, http.StatusOK, rows)
}

func (h *Handler) getService(c *gin.Context) {
	svc, err := h.services.Catalog.ServiceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failResponse(c, "service get failed", err)
		return
	}
	successResponse(c, http.StatusOK, svc)
}

func (h *Handler) saveService(c *gin.Context) {
	var req domain.Service
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}
	if id := c.Param("id"); id != "" {
		req.ID = id
	}
	saved, err := h.services.Catalog.SaveService(c.Request.Context(), req)
	if err != nil {
		h.failResponse(c, "service save failed", err)
		return
	}
	savedResponse(c, saved)
}

func (h *Handler) deleteService(c *gin.Context) {
	if err := h.services.Catalog.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		h.failResponse(c, "service delete failed", err)
		return
	}
	noContentResponse(c)
}

func (h *Handler) listProviders(c *gin.Context) {
	var (
		rows []domain.Provider
		err  error
	)
	if activeOnly(c) {
		rows, err = h.services.Catalog.ActiveProviders(c.Request.Context())
	} else {
		rows, err = h.services.Catalog.Providers(c.Request.Context())
	}
	if err != nil {
		h.failResponse(c, "providers list failed", err)
		return
	}
	if rows == nil {
		rows = []domain.Provider{}
	}
	successResponse(c, http.StatusOK, rows)
}

func (h *Handler) getProvider(c *gin.Context) {
	p, err := h.services.Catalog.Provider(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failResponse(c, "provider get failed", err)
		return
	}
	successResponse(c, http.StatusOK, p)
}

func (h *Handler) saveProvider(c *gin.Context) {
	var req domain.Provider
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}
	if id := c.Param("id"); id != "" {
		req.ID = id
	}
	saved, err := h.services.Catalog.SaveProvider(c.Request.Context(), req)
	if err != nil {
		h.failResponse(c, "provider save failed", err)
		return
	}
	savedResponse(c, saved)
}

func (h *Handler) deleteProvider(c *gin.Context) {
	if err := h.services.Catalog.DeleteProvider(c.Request.Context(), c.Param("id")); err != nil {
		h.failResponse(c, "provider delete failed", err)
		return
	}
	noContentResponse(c)
}

// savedResponse answers 201 for a POST and 200 for an update by id.
func savedResponse(c *gin.Context, data any) {
	if c.Param("id") == "" {
		createdResponse(c, data)
		return
	}
	successResponse(c, http.StatusOK, data)
}
