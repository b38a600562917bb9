package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"todo_app/internal/models"
)

// Fixed keys and per-user key prefixes.
const (
	KeyAuthState         = "auth-state"
	KeyUsers             = "users"
	todosKeyPrefix       = "todos-"
	completedTodosPrefix = "completed-todos-"
)

var errEmptyUsername = errors.New("username is required for per-user keys")

// TodosKey is the key holding username's todo list.
func TodosKey(username string) string { return todosKeyPrefix + username }

// CompletedKey is the key holding username's completion set.
func CompletedKey(username string) string { return completedTodosPrefix + username }

// Snapshots reads and writes typed structures as JSON strings in a KVStore.
// Every failure comes back as a *PersistenceError.
type Snapshots struct {
	kv KVStore
}

func NewSnapshots(kv KVStore) *Snapshots {
	return &Snapshots{kv: kv}
}

// Encode serializes v the way it is stored.
func Encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a stored string into dst.
func Decode(s string, dst any) error {
	return json.Unmarshal([]byte(s), dst)
}

// load fetches key and decodes it into dst. ok is false when the key is absent.
func (s *Snapshots) load(ctx context.Context, key string, dst any) (bool, error) {
	if s == nil || s.kv == nil {
		return false, readError(key, errors.New("no store attached"))
	}
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, readError(key, err)
	}
	if !ok {
		return false, nil
	}
	if err := Decode(raw, dst); err != nil {
		return false, readError(key, fmt.Errorf("%w: %w", ErrMalformedValue, err))
	}
	return true, nil
}

// WriteRaw stores an already encoded value.
func (s *Snapshots) WriteRaw(ctx context.Context, key, value string) error {
	if s == nil || s.kv == nil {
		return writeError(key, errors.New("no store attached"))
	}
	if err := s.kv.Set(ctx, key, value); err != nil {
		return writeError(key, err)
	}
	return nil
}

func (s *Snapshots) save(ctx context.Context, key string, v any) error {
	raw, err := Encode(v)
	if err != nil {
		return writeError(key, err)
	}
	return s.WriteRaw(ctx, key, raw)
}

// LoadUsers reads the user registry.
func (s *Snapshots) LoadUsers(ctx context.Context) (models.UserRegistry, bool, error) {
	var users models.UserRegistry
	ok, err := s.load(ctx, KeyUsers, &users)
	if err != nil || !ok {
		return nil, ok, err
	}
	return users, true, nil
}

func (s *Snapshots) SaveUsers(ctx context.Context, users models.UserRegistry) error {
	if users == nil {
		users = models.UserRegistry{}
	}
	return s.save(ctx, KeyUsers, users)
}

// LoadSession reads the persisted session.
func (s *Snapshots) LoadSession(ctx context.Context) (models.SessionState, bool, error) {
	var st models.SessionState
	ok, err := s.load(ctx, KeyAuthState, &st)
	if err != nil || !ok {
		return models.SessionState{}, ok, err
	}
	return st, true, nil
}

func (s *Snapshots) SaveSession(ctx context.Context, st models.SessionState) error {
	return s.save(ctx, KeyAuthState, st)
}

// LoadTodos reads username's list.
func (s *Snapshots) LoadTodos(ctx context.Context, username string) ([]models.TodoItem, bool, error) {
	if username == "" {
		return nil, false, readError(TodosKey(username), errEmptyUsername)
	}
	var items []models.TodoItem
	ok, err := s.load(ctx, TodosKey(username), &items)
	if err != nil || !ok {
		return nil, ok, err
	}
	return items, true, nil
}

func (s *Snapshots) SaveTodos(ctx context.Context, username string, items []models.TodoItem) error {
	if username == "" {
		return writeError(TodosKey(username), errEmptyUsername)
	}
	if items == nil {
		items = []models.TodoItem{}
	}
	return s.save(ctx, TodosKey(username), items)
}

// LoadCompleted reads username's completion set.
func (s *Snapshots) LoadCompleted(ctx context.Context, username string) (models.CompletionSet, bool, error) {
	if username == "" {
		return nil, false, readError(CompletedKey(username), errEmptyUsername)
	}
	var set models.CompletionSet
	ok, err := s.load(ctx, CompletedKey(username), &set)
	if err != nil || !ok {
		return nil, ok, err
	}
	if set == nil {
		set = models.NewCompletionSet()
	}
	return set, true, nil
}

func (s *Snapshots) SaveCompleted(ctx context.Context, username string, set models.CompletionSet) error {
	if username == "" {
		return writeError(CompletedKey(username), errEmptyUsername)
	}
	if set == nil {
		set = models.NewCompletionSet()
	}
	return s.save(ctx, CompletedKey(username), set)
}
