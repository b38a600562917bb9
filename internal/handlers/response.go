package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"todo_app/internal/service"
	"todo_app/internal/ui"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK        = "ok"
	statusAdded     = "added"
	statusDeleted   = "deleted"
	statusEditing   = "editing"
	statusSaved     = "saved"
	statusCancelled = "cancelled"
	statusToggled   = "toggled"
	statusNavigated = "navigated"
	statusMenu      = "menu_toggled"
	statusAccepted  = "accepted"
	statusLoggedOut = "logged_out"

	errIssueToken      = "failed to issue token"
	errNotEditing      = "no item is being edited"
	errBadIndex        = "index must be a non-negative integer"
	errInternal        = "internal error"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// statusFor maps state manager and event errors to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyField),
		errors.Is(err, service.ErrIndexOutOfRange),
		errors.Is(err, service.ErrUnknownField),
		errors.Is(err, ui.ErrBadTarget),
		errors.Is(err, ui.ErrUnknownEvent):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnknownView):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError writes err with its mapped status. Unexpected errors are
// logged and hidden.
func (h *Handler) respondWithError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		h.logAndJSONError(c, code, errInternal, "request_failed", err, "path", c.FullPath())
		return
	}
	if h.log != nil {
		h.log.Infow("request_rejected", "path", c.FullPath(), "status", code, "err", err)
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

// Respond with a status and the ViewState after the operation.
func (h *Handler) respondWithState(c *gin.Context, status string) {
	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"state":  h.services.Snapshot(),
	})
}

// indexParam reads the :index path segment, writing a 400 when it is invalid.
func (h *Handler) indexParam(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || i < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadIndex})
		return 0, false
	}
	return i, true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
