package handlers

import (
	"net/http"

	"todo_app/internal/models"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for both sign-up and sign-in. Empty
// fields are left to the auth manager so the host sees its inline message.
type authCredentials struct {
	Username string `json:"username" example:"demo"`
	Password string `json:"password" example:"demo123"`
}

// AuthResponse is returned by sign-up and sign-in.
type AuthResponse struct {
	Token   string              `json:"token"`
	Session models.SessionState `json:"session"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}

// respondWithToken issues a token for the new session.
func (h *Handler) respondWithToken(c *gin.Context, st models.SessionState) {
	token, err := h.services.IssueToken(st.CurrentUser)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errIssueToken, "auth_issue_token_failed", err,
			"username", st.CurrentUser)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Token: token, Session: st})
}

// @Summary      Sign up
// @Description  Registers a user, logs them in and returns a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  AuthResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	st, err := h.services.Signup(input.Username, input.Password)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	h.respondWithToken(c, st)
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  AuthResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	st, err := h.services.Login(input.Username, input.Password)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	h.respondWithToken(c, st)
}

// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (h *Handler) logout(c *gin.Context) {
	h.services.Logout()
	h.respondWithState(c, statusLoggedOut)
}
