package service

import (
	"context"

	"todo_app/internal/logger"
	"todo_app/internal/models"
	"todo_app/internal/repository"
)

// dirty marks which persisted structures a commit touched.
type dirty uint8

const (
	dirtySession dirty = 1 << iota
	dirtyUsers
	dirtyTodos
	dirtyCompleted

	dirtyNone     dirty = 0
	dirtyUserData       = dirtyTodos | dirtyCompleted
)

// persisted is what the syncer needs to see after a commit.
type persisted struct {
	session   models.SessionState
	users     models.UserRegistry
	todos     []models.TodoItem
	completed models.CompletionSet
}

// syncer writes committed state to the KVStore. Keys are written in a fixed
// order (auth-state, users, todos, completed) and a key is skipped when its
// encoded value matches the last value written or read for it.
type syncer struct {
	snaps *repository.Snapshots
	log   *logger.Logger
	last  map[string]string
}

func newSyncer(snaps *repository.Snapshots, log *logger.Logger) *syncer {
	return &syncer{snaps: snaps, log: log, last: make(map[string]string)}
}

// remember records v as the current stored value of key.
func (s *syncer) remember(key string, v any) {
	if raw, err := repository.Encode(v); err == nil {
		s.last[key] = raw
	}
}

func (s *syncer) write(ctx context.Context, key string, v any) {
	raw, err := repository.Encode(v)
	if err != nil {
		s.log.Errorw("persistence_encode_failed", "key", key, "err", err)
		return
	}
	if prev, ok := s.last[key]; ok && prev == raw {
		return
	}
	if err := s.snaps.WriteRaw(ctx, key, raw); err != nil {
		s.log.Warnw("persistence_write_failed", "key", key, "err", err)
		return
	}
	s.last[key] = raw
}

// flush writes the structures marked in d.
func (s *syncer) flush(ctx context.Context, d dirty, p persisted) {
	if d&dirtySession != 0 {
		s.write(ctx, repository.KeyAuthState, p.session)
	}
	if d&dirtyUsers != 0 {
		users := p.users
		if users == nil {
			users = models.UserRegistry{}
		}
		s.write(ctx, repository.KeyUsers, users)
	}
	if !p.session.IsAuthenticated || p.session.CurrentUser == "" {
		return
	}
	user := p.session.CurrentUser
	if d&dirtyTodos != 0 {
		todos := p.todos
		if todos == nil {
			todos = []models.TodoItem{}
		}
		s.write(ctx, repository.TodosKey(user), todos)
	}
	if d&dirtyCompleted != 0 {
		completed := p.completed
		if completed == nil {
			completed = models.NewCompletionSet()
		}
		s.write(ctx, repository.CompletedKey(user), completed)
	}
}
