package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"cronos/backend/internal/domain"
	"cronos/backend/internal/service/appointments"
	"cronos/backend/internal/service/availability"
	"cronos/backend/internal/service/catalog"
	"cronos/backend/internal/service/events"
	"cronos/backend/internal/service/finance"
	"cronos/backend/internal/service/forms"
	"cronos/backend/internal/store"
)

type errorResponseBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

type successResponseBody struct {
	Status   string   `json:"status"`
	Data     any      `json:"data,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func successResponse(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, successResponseBody{Status: "success", Data: data})
}

func createdResponse(c *gin.Context, data any) {
	successResponse(c, http.StatusCreated, data)
}

func noContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponseBody{
		Status:  "error",
		Message: message,
		Code:    statusCode,
	})
}

func badRequestResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message)
}

func notFoundResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusNotFound, message)
}

func internalServerErrorResponse(c *gin.Context) {
	errorResponse(c, http.StatusInternalServerError, "internal server error")
}

func isValidation(err error) bool {
	var (
		apptErr    *appointments.ValidationError
		availErr   *availability.ValidationError
		catalogErr *catalog.ValidationError
		eventsErr  *events.ValidationError
		financeErr *finance.ValidationError
		formsErr   *forms.ValidationError
	)
	return errors.As(err, &apptErr) ||
		errors.As(err, &availErr) ||
		errors.As(err, &catalogErr) ||
		errors.As(err, &eventsErr) ||
		errors.As(err, &financeErr) ||
		errors.As(err, &formsErr)
}

// failResponse maps a service error to its HTTP status. Unexpected errors are logged
// and hidden from the client.
func (h *Handler) failResponse(c *gin.Context, msg string, err error) {
	var cfgErr *domain.ConfigurationError
	switch {
	case isValidation(err):
		badRequestResponse(c, err.Error())
	case errors.Is(err, store.ErrConflict):
		errorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrNotFound):
		notFoundResponse(c, "not found")
	case errors.As(err, &cfgErr):
		h.log.Error("availability misconfigured", slog.Any("err", err), slog.String("request_id", requestID(c)))
		errorResponse(c, http.StatusInternalServerError, "availability template is incomplete")
	default:
		h.log.Error(msg, slog.Any("err", err), slog.String("request_id", requestID(c)))
		internalServerErrorResponse(c)
	}
}
