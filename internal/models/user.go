package models

// User represents a user account in the system.
//
// Password holds whatever the configured password scheme stores: the literal
// password under the plain scheme, a bcrypt hash otherwise.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
	CreatedAt int64  `json:"createdAt"` // milliseconds since epoch
}

// Sanitized returns a copy of the user without the stored credential.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// Session is the explicit record of who is signed in.
type Session struct {
	User      User  `json:"user"`
	IsAdmin   bool  `json:"isAdmin"`
	StartedAt int64 `json:"startedAt"`
}
