package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"todo_app/internal/models"
	"todo_app/internal/repository"
	"todo_app/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// ---- Service Mocks ----

type mockTokens struct {
	issueToken string
	issueErr   error
	parseUser  string
	parseErr   error

	lastIssueUser  string
	lastParseToken string
}

func (m *mockTokens) IssueToken(username string) (string, error) {
	m.lastIssueUser = username
	return m.issueToken, m.issueErr
}

func (m *mockTokens) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseUser, m.parseErr
}

type mockSession struct {
	session  models.SessionState
	loginErr error

	logoutCalls int
}

func (m *mockSession) Login(username, password string) (models.SessionState, error) {
	if m.loginErr != nil {
		return models.SessionState{}, m.loginErr
	}
	m.session = models.LoggedInAs(username)
	return m.session, nil
}

func (m *mockSession) Signup(username, password string) (models.SessionState, error) {
	return m.Login(username, password)
}

func (m *mockSession) Logout() {
	m.logoutCalls++
	m.session = models.LoggedOut()
}

func (m *mockSession) CurrentSession() models.SessionState { return m.session }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// newStateService wires a real state manager over an in-memory store and a
// real token service.
func newStateService(t *testing.T) *service.Service {
	t.Helper()
	n := 0
	m := service.NewStateManager(
		repository.NewSnapshots(repository.NewMemoryStore()),
		service.WithHasher(service.NewBcryptHasher(bcrypt.MinCost)),
		service.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
	m.Hydrate()
	return service.NewService(m, service.NewTokenService("test-key", 0))
}
