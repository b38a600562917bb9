package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"todo_app/internal/models"
)

// EventType separates button presses from text changes.
type EventType string

const (
	EventTap   EventType = "tap"
	EventInput EventType = "input"
)

// Tap targets.
const (
	TargetLogin      = "login"
	TargetSignup     = "signup"
	TargetLogout     = "logout"
	TargetAdd        = "add"
	TargetDelete     = "delete"
	TargetEdit       = "edit"
	TargetToggle     = "toggle"
	TargetSaveEdit   = "save-edit"
	TargetCancelEdit = "cancel-edit"
	TargetNav        = "nav"
	TargetMenu       = "menu"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrBadTarget    = errors.New("malformed event target")
)

// Event is what a render host sends when the user does something.
type Event struct {
	Type   EventType `json:"type" binding:"required"`
	Target string    `json:"target" binding:"required"`
	Value  string    `json:"value"`
}

// Tap builds a tap event.
func Tap(target string) Event { return Event{Type: EventTap, Target: target} }

// TapAt builds an indexed tap event such as "toggle:2".
func TapAt(target string, index int) Event {
	return Tap(target + ":" + strconv.Itoa(index))
}

// Input builds a text change event for field.
func Input(field models.Field, value string) Event {
	return Event{Type: EventInput, Target: string(field), Value: value}
}

// splitTarget parses "name" or "name:arg".
func splitTarget(target string) (name, arg string, hasArg bool) {
	name, arg, hasArg = strings.Cut(target, ":")
	return name, arg, hasArg
}

func parseIndex(target, arg string) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadTarget, target)
	}
	return i, nil
}
