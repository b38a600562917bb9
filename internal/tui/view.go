package tui

import (
	"fmt"
	"strings"

	"todo_app/internal/models"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

const aboutText = `A small todo list with accounts.

Each user has their own list, saved between runs.
Sign in as demo / demo123 or create an account.`

// View implements tea.Model.
func (model Model) View() string {
	var sections []string
	sections = append(sections, model.renderHeader())

	if model.state.Nav.MenuOpen {
		sections = append(sections, model.renderMenu())
	}

	switch {
	case !model.state.Session.IsAuthenticated:
		sections = append(sections, model.renderLogin())
	case model.state.Nav.View == models.ViewAbout:
		sections = append(sections, aboutText)
	default:
		sections = append(sections, model.renderList())
	}

	if model.status != "" {
		sections = append(sections, model.styles.Error.Render(model.status))
	}
	sections = append(sections, model.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (model Model) renderHeader() string {
	styles := model.styles
	tab := func(label string, v models.View) string {
		if model.state.Nav.View == v {
			return styles.NavOn.Render(label)
		}
		return styles.Nav.Render(label)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Title.Render("Todo")+"  ",
		tab("Home", models.ViewHome),
		tab("About", models.ViewAbout),
	)
	if st := model.state.Session; st.IsAuthenticated {
		header += styles.Faint.Render("  signed in as " + st.CurrentUser)
	}
	return header + "\n"
}

func (model Model) renderMenu() string {
	return model.styles.Menu.Render("1  Home\n2  About")
}

func (model Model) renderLogin() string {
	styles := model.styles
	lines := []string{
		styles.Label.Render("Username") + model.username.View(),
		styles.Label.Render("Password") + model.password.View(),
	}
	if msg := model.state.AuthError; msg != "" {
		lines = append(lines, "", styles.Error.Render(msg))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (model Model) renderList() string {
	styles := model.styles
	var lines []string

	if len(model.state.Todos) == 0 {
		lines = append(lines, styles.Faint.Render("  Nothing to do. Press a to add an item."))
	}
	for i, row := range model.state.Todos {
		check := "[ ]"
		if row.Completed {
			check = "[x]"
		}

		var text string
		switch {
		case row.Editing:
			text = styles.Editing.Render(model.draft.View())
		case row.Completed:
			text = styles.Done.Render(row.Text)
		default:
			text = row.Text
		}

		line := check + " " + text
		if i == model.cursor {
			lines = append(lines, styles.Selected.Render("›"+line))
		} else {
			lines = append(lines, styles.Row.Render(line))
		}
	}

	lines = append(lines, "")
	if model.focus == focusNewTodo {
		lines = append(lines, styles.Label.Render("New")+model.newTodo.View())
	}
	lines = append(lines, styles.Faint.Render(
		fmt.Sprintf("%d of %d done", model.state.CompletedCount(), len(model.state.Todos))))
	return strings.Join(lines, "\n") + "\n"
}

func (model Model) renderHelp() string {
	var bindings []key.Binding
	switch {
	case !model.state.Session.IsAuthenticated:
		bindings = model.keys.loginHelp()
	case model.focus == focusNewTodo || model.focus == focusDraft:
		bindings = []key.Binding{model.keys.Submit, model.keys.Cancel}
	default:
		bindings = model.keys.listHelp()
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return model.styles.Help.Render(strings.Join(parts, " · "))
}
