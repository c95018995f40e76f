package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusForError maps service error kinds onto HTTP status codes.
func statusForError(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrState),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrConfiguration):
		return http.StatusUnprocessableEntity
	case errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500:
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body for err. Server errors are logged and
// replaced by fallback so internals do not leak.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusForError(err)

	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}

	logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	body := gin.H{"error": err.Error()}

	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) && vErr.Difference != nil {
		body["debitTotal"] = vErr.DebitTotal.String()
		body["creditTotal"] = vErr.CreditTotal.String()
		body["difference"] = vErr.Difference.String()
	}
	var sErr *apperrors.StateError
	if errors.As(err, &sErr) {
		body["state"] = sErr.State
	}
	var cErr *apperrors.ConfigurationError
	if errors.As(err, &cErr) {
		body["mapping"] = cErr.Mapping
	}
	c.JSON(status, body)
}

// actorID reads the authenticated user or aborts with 401.
func actorID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

func bindError(c *gin.Context, op string, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request for "+op, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}
