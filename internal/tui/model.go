package tui

import (
	"todo_app/internal/logger"
	"todo_app/internal/models"
	"todo_app/internal/service"
	"todo_app/internal/ui"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const feedSize = 8

// focus says which widget receives typed keys.
type focus int

const (
	focusList focus = iota
	focusUsername
	focusPassword
	focusNewTodo
	focusDraft
)

// stateMsg carries a snapshot committed outside this model's own Update.
type stateMsg models.ViewState

// Model is the bubbletea render host. Every user action becomes a ui.Event;
// what is drawn always comes from the latest ViewState.
type Model struct {
	views  service.Views
	events *ui.Controller
	feed   ui.Feed
	detach func()

	keys   KeyMap
	styles Styles

	state  models.ViewState
	cursor int
	focus  focus
	status string
	width  int

	username textinput.Model
	password textinput.Model
	newTodo  textinput.Model
	draft    textinput.Model
}

// NewModel attaches a terminal host to services. Call Close when the program
// exits.
func NewModel(services *service.Service, log *logger.Logger) Model {
	model := Model{
		views:    services,
		events:   ui.NewController(services, log),
		feed:     ui.NewFeed(feedSize),
		keys:     DefaultKeyMap,
		styles:   DefaultStyles(),
		username: newInput("username", false),
		password: newInput("password", true),
		newTodo:  newInput("what needs doing?", false),
		draft:    newInput("", false),
	}
	model.detach = ui.Attach(model.feed, services)
	model.apply(services.Snapshot())
	return model
}

func newInput(placeholder string, secret bool) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 256
	input.Width = 40
	input.Prompt = ""
	if secret {
		input.EchoMode = textinput.EchoPassword
		input.EchoCharacter = '•'
	}
	return input
}

// Close unsubscribes the model from the state manager.
func (model Model) Close() {
	if model.detach != nil {
		model.detach()
	}
}

// Init implements tea.Model. Starts listening for commits.
func (model Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listenForState(model.feed))
}

// listenForState returns a tea.Cmd that blocks until a snapshot arrives.
func listenForState(feed ui.Feed) tea.Cmd {
	return func() tea.Msg {
		vs, ok := <-feed
		if !ok {
			return nil
		}
		return stateMsg(vs)
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case stateMsg:
		cmd := model.apply(models.ViewState(message))
		return model, tea.Batch(cmd, listenForState(model.feed))

	case tea.WindowSizeMsg:
		model.width = message.Width
		return model, nil

	case tea.KeyMsg:
		if message.Type == tea.KeyCtrlC {
			return model, tea.Quit
		}
		if !model.state.Session.IsAuthenticated {
			return model.handleLoginKeys(message)
		}
		if model.focus == focusNewTodo || model.focus == focusDraft {
			return model.handleFieldKeys(message)
		}
		return model.handleListKeys(message)
	}

	// Cursor blink and other widget messages.
	var cmd tea.Cmd
	if input := model.focusedInput(); input != nil {
		*input, cmd = input.Update(message)
	}
	return model, cmd
}

func (model Model) handleLoginKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.NextField):
		if model.focus == focusUsername {
			return model, model.setFocus(focusPassword)
		}
		return model, model.setFocus(focusUsername)
	case key.Matches(message, model.keys.Submit):
		return model, model.dispatch(ui.Tap(ui.TargetLogin))
	case key.Matches(message, model.keys.Signup):
		return model, model.dispatch(ui.Tap(ui.TargetSignup))
	}
	return model.forwardToInput(message)
}

func (model Model) handleFieldKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Submit):
		if model.focus == focusDraft {
			return model, model.dispatch(ui.Tap(ui.TargetSaveEdit))
		}
		cmd := model.dispatch(ui.Tap(ui.TargetAdd))
		return model, tea.Batch(cmd, model.setFocus(focusList))
	case key.Matches(message, model.keys.Cancel):
		if model.focus == focusDraft {
			return model, model.dispatch(ui.Tap(ui.TargetCancelEdit))
		}
		cmd := model.dispatch(ui.Input(models.FieldNewTodo, ""))
		return model, tea.Batch(cmd, model.setFocus(focusList))
	}
	return model.forwardToInput(message)
}

func (model Model) handleListKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := model.keys
	switch {
	case key.Matches(message, keys.Quit):
		return model, tea.Quit
	case key.Matches(message, keys.Menu):
		return model, model.dispatch(ui.Tap(ui.TargetMenu))
	case key.Matches(message, keys.Home):
		return model, model.dispatch(ui.Tap(ui.TargetNav + ":" + string(models.ViewHome)))
	case key.Matches(message, keys.About):
		return model, model.dispatch(ui.Tap(ui.TargetNav + ":" + string(models.ViewAbout)))
	case key.Matches(message, keys.Logout):
		return model, model.dispatch(ui.Tap(ui.TargetLogout))
	}

	// List keys only act on the home screen.
	if model.state.Nav.View != models.ViewHome {
		return model, nil
	}
	switch {
	case key.Matches(message, keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}
	case key.Matches(message, keys.Down):
		if model.cursor < len(model.state.Todos)-1 {
			model.cursor++
		}
	case key.Matches(message, keys.Add):
		return model, model.setFocus(focusNewTodo)
	case len(model.state.Todos) == 0:
		// Nothing below addresses an empty list.
	case key.Matches(message, keys.Toggle):
		return model, model.dispatch(ui.TapAt(ui.TargetToggle, model.cursor))
	case key.Matches(message, keys.Delete):
		return model, model.dispatch(ui.TapAt(ui.TargetDelete, model.cursor))
	case key.Matches(message, keys.Edit):
		return model, model.dispatch(ui.TapAt(ui.TargetEdit, model.cursor))
	}
	return model, nil
}

// forwardToInput lets the focused text field handle the key and reports a
// changed value as an input event.
func (model Model) forwardToInput(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	input := model.focusedInput()
	if input == nil {
		return model, nil
	}
	before := input.Value()
	var cmd tea.Cmd
	*input, cmd = input.Update(message)
	if after := input.Value(); after != before {
		return model, tea.Batch(cmd, model.dispatch(ui.Input(model.focusField(), after)))
	}
	return model, cmd
}

// dispatch sends ev to the controller and redraws from the resulting state.
func (model *Model) dispatch(ev ui.Event) tea.Cmd {
	if err := model.events.Dispatch(ev); err != nil {
		model.status = err.Error()
	} else {
		model.status = ""
	}
	return model.apply(model.views.Snapshot())
}

// apply adopts vs unless a newer snapshot was already applied, then brings
// the text fields and focus in line with it.
func (model *Model) apply(vs models.ViewState) tea.Cmd {
	if vs.Revision < model.state.Revision {
		return nil
	}
	model.state = vs

	if n := len(vs.Todos); model.cursor >= n {
		model.cursor = max(n-1, 0)
	}

	syncValue(&model.username, vs.Inputs.Username)
	syncValue(&model.password, vs.Inputs.Password)
	syncValue(&model.newTodo, vs.Inputs.NewTodo)

	switch {
	case !vs.Session.IsAuthenticated:
		if model.focus != focusUsername && model.focus != focusPassword {
			return model.setFocus(focusUsername)
		}
	case vs.Edit.Active:
		syncValue(&model.draft, vs.Edit.Draft)
		if vs.Edit.Index >= 0 {
			model.cursor = vs.Edit.Index
		}
		if model.focus != focusDraft {
			return model.setFocus(focusDraft)
		}
	case model.focus != focusNewTodo:
		if model.focus != focusList {
			return model.setFocus(focusList)
		}
	}
	return nil
}

func syncValue(input *textinput.Model, value string) {
	if input.Value() != value {
		input.SetValue(value)
		input.CursorEnd()
	}
}

func (model *Model) setFocus(f focus) tea.Cmd {
	model.focus = f
	model.username.Blur()
	model.password.Blur()
	model.newTodo.Blur()
	model.draft.Blur()
	if input := model.focusedInput(); input != nil {
		return input.Focus()
	}
	return nil
}

func (model *Model) focusedInput() *textinput.Model {
	switch model.focus {
	case focusUsername:
		return &model.username
	case focusPassword:
		return &model.password
	case focusNewTodo:
		return &model.newTodo
	case focusDraft:
		return &model.draft
	}
	return nil
}

func (model Model) focusField() models.Field {
	switch model.focus {
	case focusUsername:
		return models.FieldUsername
	case focusPassword:
		return models.FieldPassword
	case focusNewTodo:
		return models.FieldNewTodo
	default:
		return models.FieldEditDraft
	}
}
