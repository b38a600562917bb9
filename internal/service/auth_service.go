package service

import (
	"errors"
	"fmt"
	"strings"

	"todo_app/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// Demo account seeded into an empty registry.
const (
	DemoUsername = "demo"
	DemoPassword = "demo123"
)

// PasswordHasher turns passwords into stored hashes and checks them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// BcryptHasher hashes with golang.org/x/crypto/bcrypt at a fixed cost.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher clamps cost into bcrypt's accepted range.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{Cost: cost}
}

// Hash hashes password safely.
func (h BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Compare verifies password against hash.
func (h BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// AuthManager owns the user registry and the session.
type AuthManager struct {
	registry models.UserRegistry
	session  models.SessionState
	hasher   PasswordHasher
}

func NewAuthManager(registry models.UserRegistry, session models.SessionState, hasher PasswordHasher) *AuthManager {
	return &AuthManager{registry: registry, session: session, hasher: hasher}
}

// blank reports whether s is empty or whitespace only.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Login authenticates against the registry. Usernames match exactly and
// case-sensitively.
func (a *AuthManager) Login(username, password string) (models.SessionState, error) {
	if blank(username) || blank(password) {
		return models.SessionState{}, ErrEmptyField
	}
	u, ok := a.registry.Find(username)
	if !ok {
		return models.SessionState{}, ErrInvalidCredentials
	}
	if err := a.hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return models.SessionState{}, ErrInvalidCredentials
		}
		// a corrupt stored hash is indistinguishable from a wrong password to the user
		return models.SessionState{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	a.session = models.LoggedInAs(username)
	return a.session, nil
}

// Signup registers a new account and logs it in.
func (a *AuthManager) Signup(username, password string) (models.SessionState, error) {
	if blank(username) || blank(password) {
		return models.SessionState{}, ErrEmptyField
	}
	if a.registry.Contains(username) {
		return models.SessionState{}, ErrDuplicateUsername
	}
	hash, err := a.hasher.Hash(password)
	if err != nil {
		return models.SessionState{}, err
	}
	a.registry = append(a.registry, models.UserCredential{Username: username, PasswordHash: hash})
	a.session = models.LoggedInAs(username)
	return a.session, nil
}

// Logout clears the session unconditionally.
func (a *AuthManager) Logout() models.SessionState {
	a.session = models.LoggedOut()
	return a.session
}

// Session returns the current session.
func (a *AuthManager) Session() models.SessionState { return a.session }

// Registry returns a copy of the registered users.
func (a *AuthManager) Registry() models.UserRegistry { return a.registry.Clone() }

// DefaultRegistry is the registry seeded when none is stored.
func DefaultRegistry(hasher PasswordHasher) (models.UserRegistry, error) {
	hash, err := hasher.Hash(DemoPassword)
	if err != nil {
		return nil, err
	}
	return models.UserRegistry{{Username: DemoUsername, PasswordHash: hash}}, nil
}
