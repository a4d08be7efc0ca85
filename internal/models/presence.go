package models

// Presence statuses.
const (
	StatusOnline = "online"
	StatusAway   = "away"
	StatusBusy   = "busy"
)

// Cursor is a caret position inside an open file.
type Cursor struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Presence is the derived online state of one user in a project session.
// It is never persisted; it lives only in the client-side state store.
type Presence struct {
	UserID   int     `json:"id"`
	Username string  `json:"username"`
	Status   string  `json:"status"`
	Cursor   *Cursor `json:"cursor,omitempty"`
}
