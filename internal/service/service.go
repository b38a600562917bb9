package service

import (
	"todo_app/internal/models"
)

// Session exposes the authentication operations.
type Session interface {
	Login(username, password string) (models.SessionState, error)
	Signup(username, password string) (models.SessionState, error)
	Logout()
	CurrentSession() models.SessionState
}

// Todos exposes CRUD on the active user's list. Items are addressed by
// position.
type Todos interface {
	AddTodo(text string) error
	DeleteTodo(index int) error
	StartEdit(index int) error
	SetDraft(draft string) error
	SaveEdit() error
	CancelEdit() error
	ToggleComplete(index int) error
}

// Navigation exposes the home/about state machine.
type Navigation interface {
	Navigate(view models.View) error
	ToggleMenu()
}

// Views exposes snapshots, commit notifications and form inputs to render
// hosts.
type Views interface {
	Snapshot() models.ViewState
	Subscribe(fn func(models.ViewState)) (unsubscribe func())
	Watch(fn func(models.ViewState)) (unsubscribe func())
	SetInput(field models.Field, value string) error
}

// Tokens issues and checks bearer tokens for the HTTP host.
type Tokens interface {
	IssueToken(username string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Service aggregates everything the hosts need.
type Service struct {
	Session
	Todos
	Navigation
	Views
	Tokens
}

// Ensure implementation of the host-facing interfaces at compile time.
var (
	_ Session    = (*StateManager)(nil)
	_ Todos      = (*StateManager)(nil)
	_ Navigation = (*StateManager)(nil)
	_ Views      = (*StateManager)(nil)
	_ Tokens     = (*TokenService)(nil)
)

// NewService exposes one state manager through all host-facing interfaces.
func NewService(manager *StateManager, tokens *TokenService) *Service {
	s := &Service{
		Session:    manager,
		Todos:      manager,
		Navigation: manager,
		Views:      manager,
	}
	if tokens != nil {
		s.Tokens = tokens
	}
	return s
}
