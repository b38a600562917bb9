package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"todo_app/internal/models"
	"todo_app/internal/repository"
)

// recordingStore wraps a MemoryStore and records every Set in order.
type recordingStore struct {
	*repository.MemoryStore

	mu      sync.Mutex
	sets    []string
	getErr  error
	setErr  error
	onSetFn func(key string)

	// failOnce fails the next Get of each listed key, then forgets it.
	failOnce map[string]error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: repository.NewMemoryStore()}
}

func (r *recordingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if r.getErr != nil {
		return "", false, r.getErr
	}
	r.mu.Lock()
	err, ok := r.failOnce[key]
	delete(r.failOnce, key)
	r.mu.Unlock()
	if ok {
		return "", false, err
	}
	return r.MemoryStore.Get(ctx, key)
}

func (r *recordingStore) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	r.sets = append(r.sets, key)
	fn := r.onSetFn
	r.mu.Unlock()
	if fn != nil {
		fn(key)
	}
	if r.setErr != nil {
		return r.setErr
	}
	return r.MemoryStore.Set(ctx, key, value)
}

func (r *recordingStore) takeSets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.sets
	r.sets = nil
	return out
}

func (r *recordingStore) raw(t *testing.T, key string) string {
	t.Helper()
	v, ok, _ := r.MemoryStore.Get(context.Background(), key)
	if !ok {
		t.Fatalf("key %q not stored", key)
	}
	return v
}

func newTestManager(t *testing.T, kv repository.KVStore) *StateManager {
	t.Helper()
	return NewStateManager(repository.NewSnapshots(kv),
		WithHasher(fastHasher()),
		WithIDGenerator(seqIDs()),
	)
}

func todoTexts(vs models.ViewState) []string {
	out := make([]string, 0, len(vs.Todos))
	for _, r := range vs.Todos {
		out = append(out, r.Text)
	}
	return out
}

func TestStateManager_Hydrate_SeedsDefaults(t *testing.T) {
	kv := newRecordingStore()
	m := newTestManager(t, kv)
	m.Hydrate()

	if got := kv.takeSets(); !reflect.DeepEqual(got, []string{"auth-state", "users"}) {
		t.Fatalf("seed writes = %v", got)
	}
	if m.CurrentSession().IsAuthenticated {
		t.Fatalf("expected logged out after first start")
	}
	if !m.Users().Contains(DemoUsername) {
		t.Fatalf("expected demo user in registry")
	}

	// demo has no stored list yet, so login seeds it
	if _, err := m.Login(DemoUsername, DemoPassword); err != nil {
		t.Fatalf("Login demo: %v", err)
	}
	if got := todoTexts(m.Snapshot()); !reflect.DeepEqual(got, DefaultTodos) {
		t.Fatalf("todos = %v, want seed %v", got, DefaultTodos)
	}
	if got := kv.takeSets(); !reflect.DeepEqual(got, []string{"auth-state", "todos-demo", "completed-todos-demo"}) {
		t.Fatalf("login writes = %v", got)
	}
	if kv.raw(t, "completed-todos-demo") != "[]" {
		t.Fatalf("completed should be seeded empty")
	}
}

func TestStateManager_Hydrate_RestoresSession(t *testing.T) {
	kv := newRecordingStore()
	first := newTestManager(t, kv)
	first.Hydrate()
	if _, err := first.Signup("alice", "pw1"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	_ = first.AddTodo("Task A")
	_ = first.ToggleComplete(0)
	kv.takeSets()

	second := newTestManager(t, kv)
	second.Hydrate()

	vs := second.Snapshot()
	if !vs.Session.IsAuthenticated || vs.Session.CurrentUser != "alice" {
		t.Fatalf("session not restored: %+v", vs.Session)
	}
	if len(vs.Todos) != 1 || vs.Todos[0].Text != "Task A" || !vs.Todos[0].Completed {
		t.Fatalf("todos not restored: %+v", vs.Todos)
	}
	if got := kv.takeSets(); len(got) != 0 {
		t.Fatalf("hydrating stored state should not rewrite it, wrote %v", got)
	}
}

func TestStateManager_Hydrate_MalformedValuesFallBack(t *testing.T) {
	kv := newRecordingStore()
	ctx := context.Background()
	_ = kv.MemoryStore.Set(ctx, "users", "{broken")
	_ = kv.MemoryStore.Set(ctx, "auth-state", "42")

	m := newTestManager(t, kv)
	m.Hydrate()

	if m.CurrentSession().IsAuthenticated {
		t.Fatalf("expected logged out")
	}
	if !m.Users().Contains(DemoUsername) {
		t.Fatalf("expected default registry")
	}
	if got := kv.takeSets(); !reflect.DeepEqual(got, []string{"auth-state", "users"}) {
		t.Fatalf("defaults should be written back, got %v", got)
	}
}

func TestStateManager_ReadFailureKeepsStoredValues(t *testing.T) {
	ctx := context.Background()
	errFlaky := errors.New("read timed out")

	t.Run("users at hydrate", func(t *testing.T) {
		kv := newRecordingStore()
		first := newTestManager(t, kv)
		first.Hydrate()
		if _, err := first.Signup("alice", "pw1"); err != nil {
			t.Fatalf("Signup: %v", err)
		}
		stored := kv.raw(t, "users")
		kv.takeSets()

		kv.failOnce = map[string]error{"users": errFlaky}
		second := newTestManager(t, kv)
		second.Hydrate()

		if second.Users().Contains("alice") {
			t.Fatalf("unreadable registry should fall back to defaults in memory")
		}
		if got := kv.takeSets(); len(got) != 0 {
			t.Fatalf("hydrate after a failed read must not write, wrote %v", got)
		}
		if kv.raw(t, "users") != stored {
			t.Fatalf("users overwritten: %s", kv.raw(t, "users"))
		}
		if kv.raw(t, "auth-state") != `{"is_authenticated":true,"current_user":"alice"}` {
			t.Fatalf("auth-state overwritten: %s", kv.raw(t, "auth-state"))
		}
	})

	t.Run("todos at login", func(t *testing.T) {
		kv := newRecordingStore()
		_ = kv.MemoryStore.Set(ctx, "todos-demo", `[{"id":"p","text":"precious"}]`)
		_ = kv.MemoryStore.Set(ctx, "completed-todos-demo", `["p"]`)
		m := newTestManager(t, kv)
		m.Hydrate()
		kv.takeSets()

		kv.failOnce = map[string]error{"todos-demo": errFlaky}
		if _, err := m.Login(DemoUsername, DemoPassword); err != nil {
			t.Fatalf("Login: %v", err)
		}
		if got := kv.takeSets(); !reflect.DeepEqual(got, []string{"auth-state"}) {
			t.Fatalf("login writes = %v", got)
		}
		if raw := kv.raw(t, "todos-demo"); raw != `[{"id":"p","text":"precious"}]` {
			t.Fatalf("todos-demo overwritten: %s", raw)
		}
		if raw := kv.raw(t, "completed-todos-demo"); raw != `["p"]` {
			t.Fatalf("completed-todos-demo overwritten: %s", raw)
		}
	})
}

func TestStateManager_FailedWriteIsRetried(t *testing.T) {
	kv := newRecordingStore()
	m := newTestManager(t, kv)
	m.Hydrate()
	_, _ = m.Signup("bob", "pw")
	kv.takeSets()

	kv.setErr = errors.New("disk full")
	if err := m.AddTodo("first"); err != nil {
		t.Fatalf("AddTodo: %v", err)
	}
	if raw := kv.raw(t, "todos-bob"); raw != "[]" {
		t.Fatalf("failed write should leave the old value, got %s", raw)
	}

	kv.setErr = nil
	kv.takeSets()
	if err := m.AddTodo("second"); err != nil {
		t.Fatalf("AddTodo: %v", err)
	}
	if got := kv.takeSets(); !reflect.DeepEqual(got, []string{"todos-bob"}) {
		t.Fatalf("writes = %v", got)
	}
	want := `[{"id":"id-1","text":"first"},{"id":"id-2","text":"second"}]`
	if raw := kv.raw(t, "todos-bob"); raw != want {
		t.Fatalf("todos-bob = %s, want %s", raw, want)
	}
}

func TestStateManager_Hydrate_UnknownSessionUserLogsOut(t *testing.T) {
	kv := newRecordingStore()
	ctx := context.Background()
	_ = kv.MemoryStore.Set(ctx, "users", "[]")
	_ = kv.MemoryStore.Set(ctx, "auth-state", `{"is_authenticated":true,"current_user":"ghost"}`)

	m := newTestManager(t, kv)
	m.Hydrate()

	if m.CurrentSession().IsAuthenticated {
		t.Fatalf("session for unknown user must be dropped")
	}
	if kv.raw(t, "auth-state") != `{"is_authenticated":false}` {
		t.Fatalf("auth-state = %s", kv.raw(t, "auth-state"))
	}
}

func TestStateManager_Hydrate_StoreUnavailable(t *testing.T) {
	kv := newRecordingStore()
	kv.getErr = errors.New("bridge missing")
	kv.setErr = errors.New("bridge missing")

	m := newTestManager(t, kv)
	m.Hydrate()

	if !m.Users().Contains(DemoUsername) {
		t.Fatalf("expected in-memory defaults")
	}
	if _, err := m.Login(DemoUsername, DemoPassword); err != nil {
		t.Fatalf("login must work without a store: %v", err)
	}
	if err := m.AddTodo("still works"); err != nil {
		t.Fatalf("AddTodo: %v", err)
	}
	if n := len(m.Snapshot().Todos); n != len(DefaultTodos)+1 {
		t.Fatalf("expected %d todos, got %d", len(DefaultTodos)+1, n)
	}
}

func TestStateManager_Scenario(t *testing.T) {
	kv := newRecordingStore()
	_ = kv.MemoryStore.Set(context.Background(), "users", "[]")
	m := newTestManager(t, kv)
	m.Hydrate()

	st, err := m.Signup("alice", "pw1")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if st.CurrentUser != "alice" {
		t.Fatalf("CurrentUser = %q", st.CurrentUser)
	}
	if n := len(m.Snapshot().Todos); n != 0 {
		t.Fatalf("new user should start empty, got %d items", n)
	}

	if err := m.AddTodo("Task A"); err != nil {
		t.Fatalf("AddTodo: %v", err)
	}
	if got := todoTexts(m.Snapshot()); !reflect.DeepEqual(got, []string{"Task A"}) {
		t.Fatalf("todos = %v", got)
	}

	m.Logout()
	vs := m.Snapshot()
	if vs.Session.IsAuthenticated {
		t.Fatalf("expected logged out")
	}
	if len(vs.Todos) != 0 {
		t.Fatalf("todos must be hidden after logout")
	}

	if _, err := m.Login("alice", "pw1"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got := todoTexts(m.Snapshot()); !reflect.DeepEqual(got, []string{"Task A"}) {
		t.Fatalf("restored todos = %v", got)
	}
}

func TestStateManager_AuthErrorsLeaveStateUnchanged(t *testing.T) {
	kv := newRecordingStore()
	m := newTestManager(t, kv)
	m.Hydrate()
	kv.takeSets()

	if _, err := m.Login("demo", ""); !errors.Is(err, ErrEmptyField) {
		t.Fatalf("expected ErrEmptyField, got %v", err)
	}
	if m.Snapshot().AuthError == "" {
		t.Fatalf("expected inline message")
	}
	if _, err := m.Signup("demo", "x"); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if _, err := m.Login("demo", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if got := kv.takeSets(); len(got) != 0 {
		t.Fatalf("failed auth must not write, wrote %v", got)
	}
	if len(m.Users()) != 1 || m.CurrentSession().IsAuthenticated {
		t.Fatalf("registry/session changed")
	}

	// next successful attempt clears the message and the form
	_ = m.SetInput(models.FieldUsername, "demo")
	_ = m.SetInput(models.FieldPassword, "demo123")
	if _, err := m.Login("demo", "demo123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	vs := m.Snapshot()
	if vs.AuthError != "" || vs.Inputs.Username != "" || vs.Inputs.Password != "" {
		t.Fatalf("expected cleared message and inputs, got %+v", vs)
	}
}

func TestStateManager_TodoOpsRequireLogin(t *testing.T) {
	m := newTestManager(t, newRecordingStore())
	m.Hydrate()

	ops := map[string]func() error{
		"add":    func() error { return m.AddTodo("x") },
		"delete": func() error { return m.DeleteTodo(0) },
		"edit":   func() error { return m.StartEdit(0) },
		"save":   m.SaveEdit,
		"cancel": m.CancelEdit,
		"toggle": func() error { return m.ToggleComplete(0) },
		"draft":  func() error { return m.SetDraft("x") },
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrNotAuthenticated) {
			t.Fatalf("%s: expected ErrNotAuthenticated, got %v", name, err)
		}
	}
}

func TestStateManager_PersistsPerUserKeys(t *testing.T) {
	kv := newRecordingStore()
	m := newTestManager(t, kv)
	m.Hydrate()
	_, _ = m.Signup("bob", "pw")
	kv.takeSets()

	_ = m.AddTodo("  first ")
	if got := kv.takeSets(); !reflect.DeepEqual(got, []string{"todos-bob"}) {
		t.Fatalf("add should only rewrite todos, wrote %v", got)
	}
	if raw := kv.raw(t, "todos-bob"); raw != `[{"id":"id-1","text":"first"}]` {
		t.Fatalf("todos-bob = %s", raw)
	}

	_ = m.ToggleComplete(0)
	if got := kv.takeSets(); !reflect.DeepEqual(got, []string{"completed-todos-bob"}) {
		t.Fatalf("toggle should only rewrite completed, wrote %v", got)
	}

	_ = m.DeleteTodo(0)
	if got := kv.takeSets(); !reflect.DeepEqual(got, []string{"todos-bob", "completed-todos-bob"}) {
		t.Fatalf("delete writes = %v", got)
	}
	if kv.raw(t, "completed-todos-bob") != "[]" {
		t.Fatalf("completion of deleted item must be dropped")
	}

	_ = m.AddTodo("   ")
	if got := kv.takeSets(); len(got) != 0 {
		t.Fatalf("blank add must not write, wrote %v", got)
	}
}

func TestStateManager_EditFlow(t *testing.T) {
	m := newTestManager(t, newRecordingStore())
	m.Hydrate()
	_, _ = m.Signup("carol", "pw")
	_ = m.AddTodo("draft me")

	if err := m.StartEdit(0); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	if err := m.SetInput(models.FieldEditDraft, "  edited  "); err != nil {
		t.Fatalf("SetInput: %v", err)
	}
	if d := m.Snapshot().Edit.Draft; d != "  edited  " {
		t.Fatalf("draft = %q", d)
	}
	if err := m.SaveEdit(); err != nil {
		t.Fatalf("SaveEdit: %v", err)
	}
	vs := m.Snapshot()
	if vs.Edit.Active || vs.Todos[0].Text != "edited" {
		t.Fatalf("unexpected state after save: %+v", vs)
	}
	if err := m.StartEdit(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestStateManager_ListenersRunBeforePersistence(t *testing.T) {
	kv := newRecordingStore()
	m := newTestManager(t, kv)
	m.Hydrate()
	_, _ = m.Signup("dave", "pw")

	var order []string
	kv.onSetFn = func(key string) { order = append(order, "set:"+key) }
	unsubscribe := m.Subscribe(func(vs models.ViewState) {
		order = append(order, "render")
	})

	_ = m.AddTodo("x")
	if !reflect.DeepEqual(order, []string{"render", "set:todos-dave"}) {
		t.Fatalf("order = %v", order)
	}

	unsubscribe()
	order = nil
	_ = m.AddTodo("y")
	if !reflect.DeepEqual(order, []string{"set:todos-dave"}) {
		t.Fatalf("unsubscribed listener still called: %v", order)
	}
}

func TestStateManager_WatchDeliversCurrentFirst(t *testing.T) {
	m := newTestManager(t, newRecordingStore())
	m.Hydrate()
	m.ToggleMenu()

	var seen []uint64
	stop := m.Watch(func(vs models.ViewState) { seen = append(seen, vs.Revision) })
	start := m.Snapshot().Revision
	m.ToggleMenu()
	stop()
	m.ToggleMenu()

	if !reflect.DeepEqual(seen, []uint64{start, start + 1}) {
		t.Fatalf("seen = %v, want [%d %d]", seen, start, start+1)
	}
}

func TestStateManager_RevisionIncreasesPerCommit(t *testing.T) {
	m := newTestManager(t, newRecordingStore())
	m.Hydrate()
	var seen []uint64
	m.Subscribe(func(vs models.ViewState) { seen = append(seen, vs.Revision) })

	m.ToggleMenu()
	_ = m.Navigate(models.ViewAbout)

	if len(seen) != 2 || seen[1] != seen[0]+1 {
		t.Fatalf("revisions = %v", seen)
	}
	if vs := m.Snapshot(); vs.Nav.View != models.ViewAbout || vs.Nav.MenuOpen {
		t.Fatalf("nav = %+v", vs.Nav)
	}
	if err := m.Navigate("nowhere"); !errors.Is(err, ErrUnknownView) {
		t.Fatalf("expected ErrUnknownView, got %v", err)
	}
}

func TestStateManager_LogoutResetsView(t *testing.T) {
	m := newTestManager(t, newRecordingStore())
	m.Hydrate()
	_, _ = m.Login(DemoUsername, DemoPassword)
	_ = m.Navigate(models.ViewAbout)
	m.ToggleMenu()
	_ = m.StartEdit(0)

	m.Logout()
	vs := m.Snapshot()
	if vs.Nav != (models.NavState{View: models.ViewHome}) {
		t.Fatalf("nav = %+v", vs.Nav)
	}
	if vs.Edit.Active || len(vs.Todos) != 0 {
		t.Fatalf("logout should drop list and edit state: %+v", vs)
	}
}

func TestStateManager_SetInput_UnknownField(t *testing.T) {
	m := newTestManager(t, newRecordingStore())
	if err := m.SetInput("email", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestNewService_WiresManager(t *testing.T) {
	m := newTestManager(t, newRecordingStore())
	svc := NewService(m, NewTokenService("k", 0))
	if svc.Session == nil || svc.Todos == nil || svc.Navigation == nil || svc.Views == nil || svc.Tokens == nil {
		t.Fatalf("service not fully wired: %+v", svc)
	}
	if NewService(m, nil).Tokens != nil {
		t.Fatalf("nil token service should leave Tokens unset")
	}
}
