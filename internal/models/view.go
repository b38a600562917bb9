package models

// View is one of the two top-level screens.
type View string

const (
	ViewHome  View = "home"
	ViewAbout View = "about"
)

// Valid reports whether v names a known screen.
func (v View) Valid() bool {
	return v == ViewHome || v == ViewAbout
}

// NavState is the screen selection plus the dropdown menu flag.
type NavState struct {
	View     View `json:"view"`
	MenuOpen bool `json:"menu_open"`
}

// TodoView is a list row as the render host sees it.
type TodoView struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Editing   bool   `json:"editing"`
}

// ViewState is the immutable snapshot handed to render hosts after a commit.
type ViewState struct {
	Revision  uint64       `json:"revision"`
	Session   SessionState `json:"session"`
	Nav       NavState     `json:"nav"`
	Inputs    Inputs       `json:"inputs"`
	AuthError string       `json:"auth_error,omitempty"`
	Todos     []TodoView   `json:"todos"`
	Edit      EditState    `json:"edit"`
}

// CompletedCount returns how many rows are marked complete.
func (v ViewState) CompletedCount() int {
	n := 0
	for _, t := range v.Todos {
		if t.Completed {
			n++
		}
	}
	return n
}
