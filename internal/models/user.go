package models

// UserCredential is a registered account. The password is kept as a bcrypt hash.
type UserCredential struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

// UserRegistry is the ordered list of accounts, unique by username.
type UserRegistry []UserCredential

// Find returns the credential registered under username, if any.
func (r UserRegistry) Find(username string) (UserCredential, bool) {
	for _, u := range r {
		if u.Username == username {
			return u, true
		}
	}
	return UserCredential{}, false
}

// Contains reports whether username is registered.
func (r UserRegistry) Contains(username string) bool {
	_, ok := r.Find(username)
	return ok
}

// Clone returns a copy that does not share the backing array.
func (r UserRegistry) Clone() UserRegistry {
	if r == nil {
		return nil
	}
	out := make(UserRegistry, len(r))
	copy(out, r)
	return out
}
