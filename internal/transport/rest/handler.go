package rest

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"cronos/backend/internal/assistant"
	"cronos/backend/internal/service/appointments"
	"cronos/backend/internal/service/availability"
	"cronos/backend/internal/service/catalog"
	"cronos/backend/internal/service/events"
	"cronos/backend/internal/service/finance"
	"cronos/backend/internal/service/forms"
)

type Services struct {
	Appointments *appointments.Service
	Availability *availability.Service
	Catalog      *catalog.Service
	Events       *events.Service
	Forms        *forms.Service
	Finance      *finance.Service
	Assistant    assistant.Suggester
}

type Handler struct {
	services    Services
	log         *slog.Logger
	corsOrigins []string
	limiter     *RateLimiter
}

type Option func(*Handler)

func WithCORSOrigins(origins []string) Option {
	return func(h *Handler) { h.corsOrigins = origins }
}

// WithAssistantLimiter rate limits the assistant routes.
func WithAssistantLimiter(rl *RateLimiter) Option {
	return func(h *Handler) { h.limiter = rl }
}

func NewHandler(services Services, log *slog.Logger, opts ...Option) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if services.Assistant == nil {
		services.Assistant = assistant.Disabled{}
	}
	h := &Handler{
		services: services,
		log:      log.With(slog.String("component", "rest")),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router builds the gin engine with every route registered.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	h.InitRoutes(router)
	return router
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(requestIDMiddleware())
	router.Use(h.loggerMiddleware())
	router.Use(corsMiddleware(h.corsOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		appts := api.Group("/appointments")
		{
			appts.GET("", h.listAppointments)
			appts.POST("", h.saveAppointment)
			appts.GET("/conflicts", h.checkConflict)
			appts.GET("/:id", h.getAppointment)
			appts.PUT("/:id", h.saveAppointment)
			appts.PATCH("/:id/status", h.setAppointmentStatus)
			appts.DELETE("/:id", h.deleteAppointment)
		}

		avail := api.Group("/availability")
		{
			avail.GET("/week", h.getWeek)
			avail.PUT("/week", h.saveWeek)
			avail.GET("/exceptions", h.listExceptions)
			avail.PUT("/exceptions/:date", h.saveException)
			avail.DELETE("/exceptions/:date", h.deleteException)
			avail.GET("/days/:date", h.resolveDay)
			avail.GET("/days/:date/slots", h.freeSlots)
		}

		h.initCatalogRoutes(api)

		evts := api.Group("/events")
		{
			evts.GET("", h.listEvents)
			evts.POST("", h.saveEvent)
			evts.GET("/:id", h.getEvent)
			evts.PUT("/:id", h.saveEvent)
			evts.DELETE("/:id", h.deleteEvent)
			evts.POST("/:id/attendees/:clientId", h.toggleAttendee)
		}

		api.GET("/form-fields", h.getFormFields)
		api.PUT("/form-fields", h.saveFormFields)

		txs := api.Group("/transactions")
		{
			txs.GET("", h.listTransactions)
			txs.POST("", h.saveTransaction)
			txs.GET("/:id", h.getTransaction)
			txs.PUT("/:id", h.saveTransaction)
			txs.DELETE("/:id", h.deleteTransaction)
		}
		api.GET("/finance/summary", h.financeSummary)
		api.GET("/finance/export", h.financeExport)

		ai := api.Group("/assistant")
		if h.limiter != nil {
			ai.Use(h.limiter.Middleware())
		}
		{
			ai.POST("/suggest", h.suggestAppointment)
			ai.POST("/reminder", h.reminderMessage)
		}
	}
}

func (h *Handler) initCatalogRoutes(api *gin.RouterGroup) {
	clients := api.Group("/clients")
	{
		clients.GET("", h.listClients)
		clients.POST("", h.saveClient)
		clients.GET("/:id", h.getClient)
		clients.PUT("/:id", h.saveClient)
		clients.DELETE("/:id", h.deleteClient)
	}

	services := api.Group("/services")
	{
		services.GET("", h.listServices)
		services.POST("", h.saveService)
		services.GET("/:id", h.getService)
		services.PUT("/:id", h.saveService)
		services.DELETE("/:id", h.deleteService)
	}

	providers := api.Group("/providers")
	{
		providers.GET("", h.listProviders)
		providers.POST("", h.saveProvider)
		providers.GET("/:id", h.getProvider)
		providers.PUT("/:id", h.saveProvider)
		providers.DELETE("/:id", h.deleteProvider)
	}
}
