package handlers

import (
	"net/http"

	"todo_app/internal/models"
	"todo_app/internal/ui"

	"github.com/gin-gonic/gin"
)

// NavigateRequest selects a screen.
type NavigateRequest struct {
	// Screen to show. Allowed: home, about
	View string `json:"view" binding:"required" example:"about"`
}

// @Summary      Get view state
// @Description  The full ViewState a render host would draw
// @Tags         view
// @Produce      json
// @Success      200  {object}  models.ViewState
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Snapshot())
}

// @Summary      Navigate
// @Tags         view
// @Accept       json
// @Produce      json
// @Param        body  body      NavigateRequest  true  "Target screen"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/view [post]
// @Security     BearerAuth
func (h *Handler) navigate(c *gin.Context) {
	var req NavigateRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if err := h.services.Navigate(models.View(req.View)); err != nil {
		h.respondWithError(c, err)
		return
	}
	h.respondWithState(c, statusNavigated)
}

// @Summary      Toggle menu
// @Tags         view
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/menu/toggle [post]
// @Security     BearerAuth
func (h *Handler) toggleMenu(c *gin.Context) {
	h.services.ToggleMenu()
	h.respondWithState(c, statusMenu)
}

// @Summary      Dispatch event
// @Description  Applies a render host event such as {"type":"tap","target":"toggle:0"}
// @Tags         view
// @Accept       json
// @Produce      json
// @Param        body  body      ui.Event  true  "Event"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /events [post]
func (h *Handler) postEvent(c *gin.Context) {
	var ev ui.Event
	if ok := h.bindJSONOrBadRequest(c, &ev); !ok {
		return
	}
	if err := h.events.Dispatch(ev); err != nil {
		h.respondWithError(c, err)
		return
	}
	h.respondWithState(c, statusAccepted)
}
