package ui

import (
	"errors"
	"fmt"

	"todo_app/internal/logger"
	"todo_app/internal/models"
	"todo_app/internal/service"
)

// RenderHost draws a ViewState. Implementations must not call back into the
// state manager from Render.
type RenderHost interface {
	Render(models.ViewState)
}

// RenderFunc adapts a function to RenderHost.
type RenderFunc func(models.ViewState)

func (f RenderFunc) Render(vs models.ViewState) { f(vs) }

// Attach renders the current snapshot on host and subscribes it to every
// later commit without a gap between the two. The returned function detaches
// it.
func Attach(host RenderHost, views service.Views) func() {
	return views.Watch(host.Render)
}

// Controller turns host events into state manager calls.
type Controller struct {
	services *service.Service
	log      *logger.Logger
}

func NewController(services *service.Service, log *logger.Logger) *Controller {
	return &Controller{services: services, log: logger.OrNop(log)}
}

// Dispatch applies one event. Auth failures are shown through the ViewState
// auth error and are not returned.
func (c *Controller) Dispatch(ev Event) error {
	var err error
	switch ev.Type {
	case EventInput:
		err = c.input(ev)
	case EventTap:
		err = c.tap(ev)
	default:
		err = fmt.Errorf("%w: type %q", ErrUnknownEvent, ev.Type)
	}
	if err != nil {
		c.log.Debugw("event_rejected", "type", ev.Type, "target", ev.Target, "err", err)
	}
	return err
}

func (c *Controller) input(ev Event) error {
	err := c.services.SetInput(models.Field(ev.Target), ev.Value)
	if errors.Is(err, service.ErrUnknownField) {
		return fmt.Errorf("%w: input %q", ErrUnknownEvent, ev.Target)
	}
	return err
}

func (c *Controller) tap(ev Event) error {
	name, arg, hasArg := splitTarget(ev.Target)

	switch name {
	case TargetDelete, TargetEdit, TargetToggle:
		if !hasArg {
			return fmt.Errorf("%w: %q needs an index", ErrBadTarget, ev.Target)
		}
		i, err := parseIndex(ev.Target, arg)
		if err != nil {
			return err
		}
		switch name {
		case TargetDelete:
			return c.services.DeleteTodo(i)
		case TargetEdit:
			return c.services.StartEdit(i)
		default:
			return c.services.ToggleComplete(i)
		}
	case TargetNav:
		if !hasArg {
			return fmt.Errorf("%w: %q needs a view", ErrBadTarget, ev.Target)
		}
		if err := c.services.Navigate(models.View(arg)); err != nil {
			return fmt.Errorf("%w: %w", ErrBadTarget, err)
		}
		return nil
	}

	if hasArg {
		return fmt.Errorf("%w: %q takes no argument", ErrBadTarget, ev.Target)
	}

	vs := c.services.Snapshot()
	switch name {
	case TargetLogin:
		_, err := c.services.Login(vs.Inputs.Username, vs.Inputs.Password)
		return swallowAuth(err)
	case TargetSignup:
		_, err := c.services.Signup(vs.Inputs.Username, vs.Inputs.Password)
		return swallowAuth(err)
	case TargetLogout:
		c.services.Logout()
		return nil
	case TargetAdd:
		return c.services.AddTodo(vs.Inputs.NewTodo)
	case TargetSaveEdit:
		return c.services.SaveEdit()
	case TargetCancelEdit:
		return c.services.CancelEdit()
	case TargetMenu:
		c.services.ToggleMenu()
		return nil
	}
	return fmt.Errorf("%w: tap %q", ErrUnknownEvent, ev.Target)
}

// swallowAuth drops the errors the manager already reports inline.
func swallowAuth(err error) error {
	if errors.Is(err, service.ErrEmptyField) ||
		errors.Is(err, service.ErrInvalidCredentials) ||
		errors.Is(err, service.ErrDuplicateUsername) {
		return nil
	}
	return err
}
