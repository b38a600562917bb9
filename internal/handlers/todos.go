package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TodoTextRequest is the body for adding an item or saving an edit.
type TodoTextRequest struct {
	Text string `json:"text" example:"Buy milk"`
}

// @Summary      List todos
// @Description  Rows of the active user's list with their completion marks
// @Tags         todos
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "todos, completed_count"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/todos [get]
// @Security     BearerAuth
func (h *Handler) listTodos(c *gin.Context) {
	vs := h.services.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"todos":           vs.Todos,
		"completed_count": vs.CompletedCount(),
	})
}

// @Summary      Add todo
// @Description  Whitespace is trimmed; blank text leaves the list unchanged
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      TodoTextRequest  true  "Item text"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/todos [post]
// @Security     BearerAuth
func (h *Handler) addTodo(c *gin.Context) {
	var req TodoTextRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if err := h.services.AddTodo(req.Text); err != nil {
		h.respondWithError(c, err)
		return
	}
	h.respondWithState(c, statusAdded)
}

// @Summary      Delete todo
// @Tags         todos
// @Produce      json
// @Param        index  path      int  true  "Position in the list"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /api/v1/todos/{index} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTodo(c *gin.Context) {
	i, ok := h.indexParam(c)
	if !ok {
		return
	}
	if err := h.services.DeleteTodo(i); err != nil {
		h.respondWithError(c, err)
		return
	}
	h.respondWithState(c, statusDeleted)
}

// @Summary      Start editing
// @Tags         todos
// @Produce      json
// @Param        index  path      int  true  "Position in the list"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /api/v1/todos/{index}/edit [post]
// @Security     BearerAuth
func (h *Handler) startEdit(c *gin.Context) {
	i, ok := h.indexParam(c)
	if !ok {
		return
	}
	if err := h.services.StartEdit(i); err != nil {
		h.respondWithError(c, err)
		return
	}
	h.respondWithState(c, statusEditing)
}

// @Summary      Save edit
// @Description  Replaces the text of the item being edited. Blank text keeps edit mode open.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      TodoTextRequest  true  "New text"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/todos/edit [put]
// @Security     BearerAuth
func (h *Handler) saveEdit(c *gin.Context) {
	var req TodoTextRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if !h.services.Snapshot().Edit.Active {
		c.JSON(http.StatusConflict, gin.H{"error": errNotEditing})
		return
	}
	if err := h.services.SetDraft(req.Text); err != nil {
		h.respondWithError(c, err)
		return
	}
	if err := h.services.SaveEdit(); err != nil {
		h.respondWithError(c, err)
		return
	}
	h.respondWithState(c, statusSaved)
}

// @Summary      Cancel edit
// @Tags         todos
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/todos/edit [delete]
// @Security     BearerAuth
func (h *Handler) cancelEdit(c *gin.Context) {
	if err := h.services.CancelEdit(); err != nil {
		h.respondWithError(c, err)
		return
	}
	h.respondWithState(c, statusCancelled)
}

// @Summary      Toggle completion
// @Tags         todos
// @Produce      json
// @Param        index  path      int  true  "Position in the list"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /api/v1/todos/{index}/toggle [post]
// @Security     BearerAuth
func (h *Handler) toggleTodo(c *gin.Context) {
	i, ok := h.indexParam(c)
	if !ok {
		return
	}
	if err := h.services.ToggleComplete(i); err != nil {
		h.respondWithError(c, err)
		return
	}
	h.respondWithState(c, statusToggled)
}
