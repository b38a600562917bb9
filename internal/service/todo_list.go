package service

import (
	"strings"

	"todo_app/internal/models"

	"github.com/google/uuid"
)

// DefaultTodos is the list given to a user whose list was never stored.
var DefaultTodos = []string{
	"Learn the basics",
	"Build a todo app",
	"Ship it",
}

// TodoList is one user's items, their completion marks and the edit draft.
// Operations address items by position; completion and edit state follow the
// item's ID so they survive deletes.
type TodoList struct {
	items []models.TodoItem
	done  models.CompletionSet
	edit  models.EditState
	newID func() string
}

func NewTodoList(newID func() string) *TodoList {
	if newID == nil {
		newID = uuid.NewString
	}
	return &TodoList{done: models.NewCompletionSet(), newID: newID}
}

// SeedItems builds fresh items for texts.
func (l *TodoList) SeedItems(texts []string) []models.TodoItem {
	out := make([]models.TodoItem, 0, len(texts))
	for _, t := range texts {
		out = append(out, models.TodoItem{ID: l.newID(), Text: t})
	}
	return out
}

// Reset replaces the contents and leaves edit mode. Completion marks that do
// not belong to any item are dropped; Reset reports whether that happened.
func (l *TodoList) Reset(items []models.TodoItem, done models.CompletionSet) bool {
	l.items = append([]models.TodoItem(nil), items...)
	if done == nil {
		done = models.NewCompletionSet()
	}
	l.done = done.Clone()
	l.edit = models.EditState{}
	return l.done.Prune(l.items)
}

// Clear empties the list, e.g. on logout.
func (l *TodoList) Clear() {
	l.Reset(nil, nil)
}

func (l *TodoList) inRange(index int) bool {
	return index >= 0 && index < len(l.items)
}

// indexOf returns the position of id, or -1.
func (l *TodoList) indexOf(id string) int {
	for i, it := range l.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Add appends the trimmed text. Blank text is ignored.
func (l *TodoList) Add(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	l.items = append(l.items, models.TodoItem{ID: l.newID(), Text: text})
	return true
}

// Delete removes the item at index along with its completion mark.
func (l *TodoList) Delete(index int) error {
	if !l.inRange(index) {
		return ErrIndexOutOfRange
	}
	id := l.items[index].ID
	l.items = append(l.items[:index], l.items[index+1:]...)
	l.done.Remove(id)
	if l.edit.Active && l.edit.ItemID == id {
		l.edit = models.EditState{}
	}
	return nil
}

// StartEdit puts the item at index into edit mode, replacing any other edit.
func (l *TodoList) StartEdit(index int) error {
	if !l.inRange(index) {
		return ErrIndexOutOfRange
	}
	it := l.items[index]
	l.edit = models.EditState{Active: true, Index: index, ItemID: it.ID, Draft: it.Text}
	return nil
}

// SetDraft replaces the edit draft. Ignored outside edit mode.
func (l *TodoList) SetDraft(draft string) bool {
	if !l.edit.Active {
		return false
	}
	l.edit.Draft = draft
	return true
}

// SaveEdit writes the trimmed draft back and leaves edit mode. A blank draft
// keeps edit mode open and changes nothing.
func (l *TodoList) SaveEdit() bool {
	if !l.edit.Active {
		return false
	}
	text := strings.TrimSpace(l.edit.Draft)
	if text == "" {
		return false
	}
	i := l.indexOf(l.edit.ItemID)
	l.edit = models.EditState{}
	if i < 0 {
		return false
	}
	l.items[i].Text = text
	return true
}

// CancelEdit leaves edit mode without writing.
func (l *TodoList) CancelEdit() bool {
	if !l.edit.Active {
		return false
	}
	l.edit = models.EditState{}
	return true
}

// Toggle flips the completion mark of the item at index.
func (l *TodoList) Toggle(index int) error {
	if !l.inRange(index) {
		return ErrIndexOutOfRange
	}
	l.done.Toggle(l.items[index].ID)
	return nil
}

// Items returns a copy of the items.
func (l *TodoList) Items() []models.TodoItem {
	return append([]models.TodoItem(nil), l.items...)
}

// Completed returns a copy of the completion set.
func (l *TodoList) Completed() models.CompletionSet {
	return l.done.Clone()
}

// Edit returns the edit state with Index pointing at the item's current position.
func (l *TodoList) Edit() models.EditState {
	e := l.edit
	if e.Active {
		e.Index = l.indexOf(e.ItemID)
	}
	return e
}

// Rows renders the list for a ViewState.
func (l *TodoList) Rows() []models.TodoView {
	edit := l.Edit()
	rows := make([]models.TodoView, 0, len(l.items))
	for i, it := range l.items {
		rows = append(rows, models.TodoView{
			Index:     i,
			ID:        it.ID,
			Text:      it.Text,
			Completed: l.done.Has(it.ID),
			Editing:   edit.Active && edit.ItemID == it.ID,
		})
	}
	return rows
}
