package models

// SessionState records who, if anyone, is logged in.
type SessionState struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	CurrentUser     string `json:"current_user,omitempty"`
}

// LoggedOut is the zero session.
func LoggedOut() SessionState { return SessionState{} }

// LoggedInAs returns an authenticated session for username.
func LoggedInAs(username string) SessionState {
	return SessionState{IsAuthenticated: true, CurrentUser: username}
}

// Field names a form input the render host can edit.
type Field string

const (
	FieldUsername  Field = "username"
	FieldPassword  Field = "password"
	FieldNewTodo   Field = "new-todo"
	FieldEditDraft Field = "edit-draft"
)

// Inputs holds the current contents of the form fields.
type Inputs struct {
	Username string `json:"username"`
	Password string `json:"-"` // never echoed back to hosts
	NewTodo  string `json:"new_todo"`
}
