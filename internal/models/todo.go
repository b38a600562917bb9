package models

import (
	"encoding/json"
	"sort"
)

// TodoItem is one entry of a user's list. ID is assigned once at creation and
// never reused; position in the list is not identity.
type TodoItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// CompletionSet marks finished items by ID.
type CompletionSet map[string]struct{}

// NewCompletionSet builds a set from ids.
func NewCompletionSet(ids ...string) CompletionSet {
	s := make(CompletionSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is marked complete.
func (s CompletionSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Toggle flips the mark for id and reports the new value.
func (s CompletionSet) Toggle(id string) bool {
	if s.Has(id) {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

// Remove drops id from the set.
func (s CompletionSet) Remove(id string) {
	delete(s, id)
}

// Prune drops every id that does not belong to items and reports whether
// anything was removed.
func (s CompletionSet) Prune(items []TodoItem) bool {
	live := make(map[string]struct{}, len(items))
	for _, it := range items {
		live[it.ID] = struct{}{}
	}
	removed := false
	for id := range s {
		if _, ok := live[id]; !ok {
			delete(s, id)
			removed = true
		}
	}
	return removed
}

// IDs returns the members in sorted order.
func (s CompletionSet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (s CompletionSet) Clone() CompletionSet {
	out := make(CompletionSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as a sorted array so equal sets encode equally.
func (s CompletionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON decodes a JSON array of ids.
func (s *CompletionSet) UnmarshalJSON(b []byte) error {
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	*s = NewCompletionSet(ids...)
	return nil
}

// EditState tracks the single item currently being edited.
type EditState struct {
	Active bool   `json:"active"`
	Index  int    `json:"index"`
	ItemID string `json:"item_id,omitempty"`
	Draft  string `json:"draft"`
}
