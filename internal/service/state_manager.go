package service

import (
	"context"
	"errors"
	"sync"

	"todo_app/internal/logger"
	"todo_app/internal/models"
	"todo_app/internal/repository"
)

// StateManager owns all todo-app state for one process: session, registry,
// the active user's list, form inputs and navigation. Every operation runs to
// completion under one lock and ends with a commit that first hands a fresh
// ViewState to the subscribed render hosts and then writes the touched keys
// to the store.
//
// Listeners run while the lock is held and must not call back into the
// manager.
type StateManager struct {
	mu sync.Mutex

	ctx    context.Context
	log    *logger.Logger
	snaps  *repository.Snapshots
	hasher PasswordHasher
	sync   *syncer

	auth   *AuthManager
	todos  *TodoList
	nav    *Navigator
	inputs models.Inputs

	authError string
	revision  uint64

	listeners    []listener
	nextListener int
}

type listener struct {
	id int
	fn func(models.ViewState)
}

// Option configures a StateManager.
type Option func(*StateManager)

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(m *StateManager) { m.log = logger.OrNop(l) }
}

// WithHasher replaces the bcrypt hasher.
func WithHasher(h PasswordHasher) Option {
	return func(m *StateManager) {
		if h != nil {
			m.hasher = h
		}
	}
}

// WithIDGenerator sets the function that names new todo items.
func WithIDGenerator(fn func() string) Option {
	return func(m *StateManager) { m.todos = NewTodoList(fn) }
}

// WithContext sets the context passed to store calls.
func WithContext(ctx context.Context) Option {
	return func(m *StateManager) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// NewStateManager builds a logged-out manager over snaps. Call Hydrate to load
// stored state.
func NewStateManager(snaps *repository.Snapshots, opts ...Option) *StateManager {
	m := &StateManager{
		ctx:    context.Background(),
		log:    logger.Nop(),
		snaps:  snaps,
		hasher: NewBcryptHasher(0),
		todos:  NewTodoList(nil),
		nav:    NewNavigator(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.sync = newSyncer(snaps, m.log)
	m.auth = NewAuthManager(nil, models.LoggedOut(), m.hasher)
	return m
}

// Hydrate loads every key from the store and publishes the first ViewState.
// Absent or malformed keys are seeded with defaults. Keys the store failed to
// read get defaults in memory only, so a transient failure never overwrites
// stored data.
func (m *StateManager) Hydrate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var d dirty

	users, ok, err := m.snaps.LoadUsers(m.ctx)
	if err != nil {
		m.log.Warnw("persistence_read_failed", "key", repository.KeyUsers, "err", err)
	}
	usersKnown := ok || rewritable(err)
	if ok {
		m.sync.remember(repository.KeyUsers, users)
	} else {
		users, err = DefaultRegistry(m.hasher)
		if err != nil {
			m.log.Errorw("seed_registry_failed", "err", err)
			users = models.UserRegistry{}
		}
		if usersKnown {
			d |= dirtyUsers
		}
	}

	session, ok, err := m.snaps.LoadSession(m.ctx)
	if err != nil {
		m.log.Warnw("persistence_read_failed", "key", repository.KeyAuthState, "err", err)
	}
	if ok {
		m.sync.remember(repository.KeyAuthState, session)
	} else {
		session = models.LoggedOut()
		if rewritable(err) {
			d |= dirtySession
		}
	}
	if session.IsAuthenticated && !users.Contains(session.CurrentUser) {
		m.log.Warnw("session_user_unknown", "user", session.CurrentUser)
		session = models.LoggedOut()
		// with an unreadable registry the stored session may still be valid
		if usersKnown {
			d |= dirtySession
		}
	}
	if !session.IsAuthenticated {
		session = models.LoggedOut()
	}

	m.auth = NewAuthManager(users, session, m.hasher)
	m.todos.Clear()
	m.nav.Reset()
	m.inputs = models.Inputs{}
	m.authError = ""
	if session.IsAuthenticated {
		d |= m.loadUserData(session.CurrentUser, true)
	}
	m.commit(d)
}

// rewritable reports whether a failed load may be replaced in the store: the
// key was absent (err is nil) or held a value that does not decode.
func rewritable(err error) bool {
	return err == nil || errors.Is(err, repository.ErrMalformedValue)
}

// loadUserData replaces the in-memory list with username's stored data.
// Absent keys get the seed list (when seed is true) or an empty list.
func (m *StateManager) loadUserData(username string, seed bool) dirty {
	var d dirty

	items, ok, err := m.snaps.LoadTodos(m.ctx, username)
	if err != nil {
		m.log.Warnw("persistence_read_failed", "key", repository.TodosKey(username), "err", err)
	}
	todosKnown := ok || rewritable(err)
	if ok {
		m.sync.remember(repository.TodosKey(username), items)
	} else {
		items = nil
		if seed {
			items = m.todos.SeedItems(DefaultTodos)
		}
		if todosKnown {
			d |= dirtyTodos
		}
	}

	done, ok, err := m.snaps.LoadCompleted(m.ctx, username)
	if err != nil {
		m.log.Warnw("persistence_read_failed", "key", repository.CompletedKey(username), "err", err)
	}
	if ok {
		m.sync.remember(repository.CompletedKey(username), done)
	} else {
		done = models.NewCompletionSet()
		if rewritable(err) {
			d |= dirtyCompleted
		}
	}

	// pruning against a list that failed to load would drop real marks
	if m.todos.Reset(items, done) && todosKnown {
		d |= dirtyCompleted
	}
	return d
}

// commit publishes the new state to listeners, then persists the keys in d.
func (m *StateManager) commit(d dirty) {
	m.revision++
	vs := m.snapshot()
	for _, l := range m.listeners {
		l.fn(vs)
	}
	m.sync.flush(m.ctx, d, persisted{
		session:   m.auth.Session(),
		users:     m.auth.registry,
		todos:     m.todos.items,
		completed: m.todos.done,
	})
}

func (m *StateManager) snapshot() models.ViewState {
	return models.ViewState{
		Revision:  m.revision,
		Session:   m.auth.Session(),
		Nav:       m.nav.State(),
		Inputs:    m.inputs,
		AuthError: m.authError,
		Todos:     m.todos.Rows(),
		Edit:      m.todos.Edit(),
	}
}

// Snapshot returns the current ViewState.
func (m *StateManager) Snapshot() models.ViewState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// Subscribe registers fn to receive a ViewState after every commit. The
// returned function removes it and must not be called from inside fn.
func (m *StateManager) Subscribe(fn func(models.ViewState)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subscribe(fn)
}

// Watch is Subscribe preceded by a call to fn with the current ViewState.
// Both happen under the lock, so fn sees every revision from now on.
func (m *StateManager) Watch(fn func(models.ViewState)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.snapshot())
	return m.subscribe(fn)
}

func (m *StateManager) subscribe(fn func(models.ViewState)) func() {
	m.nextListener++
	id := m.nextListener
	m.listeners = append(m.listeners, listener{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// CurrentSession returns the session.
func (m *StateManager) CurrentSession() models.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.auth.Session()
}

// Users returns a copy of the registry.
func (m *StateManager) Users() models.UserRegistry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.auth.Registry()
}

// SetInput updates a form field. FieldEditDraft edits the draft of the item
// being edited and is ignored outside edit mode.
func (m *StateManager) SetInput(field models.Field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch field {
	case models.FieldUsername:
		m.inputs.Username = value
	case models.FieldPassword:
		m.inputs.Password = value
	case models.FieldNewTodo:
		m.inputs.NewTodo = value
	case models.FieldEditDraft:
		if !m.todos.SetDraft(value) {
			return nil
		}
	default:
		return ErrUnknownField
	}
	m.commit(dirtyNone)
	return nil
}

// Login authenticates and loads the user's list. On failure the session and
// registry are untouched and the message is shown inline.
func (m *StateManager) Login(username, password string) (models.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.authError = ""
	st, err := m.auth.Login(username, password)
	if err != nil {
		m.authError = authMessage(err)
		m.log.Infow("auth_login_failed", "username", username, "err", err)
		m.commit(dirtyNone)
		return models.SessionState{}, err
	}
	m.inputs.Username, m.inputs.Password = "", ""
	d := dirtySession | m.loadUserData(username, true)
	m.log.Infow("auth_login", "username", username)
	m.commit(d)
	return st, nil
}

// Signup registers, logs in, and starts the new user with an empty list.
func (m *StateManager) Signup(username, password string) (models.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.authError = ""
	st, err := m.auth.Signup(username, password)
	if err != nil {
		m.authError = authMessage(err)
		m.log.Infow("auth_sign_up_failed", "username", username, "err", err)
		m.commit(dirtyNone)
		return models.SessionState{}, err
	}
	m.inputs.Username, m.inputs.Password = "", ""
	d := dirtySession | dirtyUsers | m.loadUserData(username, false)
	m.log.Infow("auth_sign_up", "username", username)
	m.commit(d)
	return st, nil
}

// Logout ends the session and returns to the home screen.
func (m *StateManager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.auth.Logout()
	m.todos.Clear()
	m.nav.Reset()
	m.inputs.NewTodo = ""
	m.authError = ""
	m.commit(dirtySession)
}

// mutateTodos runs op on the active user's list and commits when it reports a
// change.
func (m *StateManager) mutateTodos(op func(*TodoList) (bool, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.auth.Session().IsAuthenticated {
		return ErrNotAuthenticated
	}
	changed, err := op(m.todos)
	if err != nil {
		return err
	}
	if changed {
		m.commit(dirtyUserData)
	}
	return nil
}

// AddTodo appends trimmed text. Blank text is a no-op.
func (m *StateManager) AddTodo(text string) error {
	return m.mutateTodos(func(l *TodoList) (bool, error) {
		if !l.Add(text) {
			return false, nil
		}
		m.inputs.NewTodo = ""
		return true, nil
	})
}

// DeleteTodo removes the item at index.
func (m *StateManager) DeleteTodo(index int) error {
	return m.mutateTodos(func(l *TodoList) (bool, error) {
		return true, l.Delete(index)
	})
}

// StartEdit enters edit mode for the item at index.
func (m *StateManager) StartEdit(index int) error {
	return m.mutateTodos(func(l *TodoList) (bool, error) {
		return true, l.StartEdit(index)
	})
}

// SetDraft updates the edit draft.
func (m *StateManager) SetDraft(draft string) error {
	return m.mutateTodos(func(l *TodoList) (bool, error) {
		return l.SetDraft(draft), nil
	})
}

// SaveEdit writes the draft back. A blank draft is a no-op.
func (m *StateManager) SaveEdit() error {
	return m.mutateTodos(func(l *TodoList) (bool, error) {
		return l.SaveEdit(), nil
	})
}

// CancelEdit leaves edit mode.
func (m *StateManager) CancelEdit() error {
	return m.mutateTodos(func(l *TodoList) (bool, error) {
		return l.CancelEdit(), nil
	})
}

// ToggleComplete flips the completion mark of the item at index.
func (m *StateManager) ToggleComplete(index int) error {
	return m.mutateTodos(func(l *TodoList) (bool, error) {
		return true, l.Toggle(index)
	})
}

// Navigate switches screens.
func (m *StateManager) Navigate(v models.View) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.nav.Navigate(v); err != nil {
		return err
	}
	m.commit(dirtyNone)
	return nil
}

// ToggleMenu opens or closes the dropdown.
func (m *StateManager) ToggleMenu() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nav.ToggleMenu()
	m.commit(dirtyNone)
}
