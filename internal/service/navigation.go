package service

import "todo_app/internal/models"

// Navigator is the home/about switch plus the dropdown menu flag.
type Navigator struct {
	state models.NavState
}

func NewNavigator() *Navigator {
	return &Navigator{state: models.NavState{View: models.ViewHome}}
}

// Navigate switches screens and closes the menu.
func (n *Navigator) Navigate(v models.View) error {
	if !v.Valid() {
		return ErrUnknownView
	}
	n.state = models.NavState{View: v}
	return nil
}

// ToggleMenu opens or closes the dropdown.
func (n *Navigator) ToggleMenu() {
	n.state.MenuOpen = !n.state.MenuOpen
}

// Reset returns to the home screen with the menu closed.
func (n *Navigator) Reset() {
	n.state = models.NavState{View: models.ViewHome}
}

func (n *Navigator) State() models.NavState { return n.state }
