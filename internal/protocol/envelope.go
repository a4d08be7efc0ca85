package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"codeforge/internal/models"
)

// Envelope types carried on the collaboration socket. Join/leave/edit tags
// have legacy spellings that are accepted on decode and normalized.
const (
	TypeJoin       = "user_join"
	TypeLeave      = "user_leave"
	TypeChat       = "chat_message"
	TypeCursor     = "cursor_update"
	TypeCodeChange = "code_change"

	// Server-composed notifications fanned out to project rooms.
	TypeFileCreated    = "file_created"
	TypeFileChange     = "file_change"
	TypeFileBatch      = "file_batch_operation"
	TypeTerminalOutput = "terminal_output"
	TypeGitOperation   = "git_operation"
)

var ErrMalformed = errors.New("malformed envelope")

// Envelope is one parsed wire frame. Raw always holds the original bytes so
// unrecognized frames can be forwarded untouched.
type Envelope struct {
	Type      string
	ProjectID int
	Origin    string
	Timestamp time.Time
	Payload   Payload
	Raw       []byte
}

// Payload is the typed content of a known envelope.
type Payload interface{ isPayload() }

type JoinPayload struct {
	User models.UserRef
}

type LeavePayload struct {
	UserID int
}

// ChatMessage is the wire form of a chat entry. The id is client-generated
// so the optimistic local append and the relayed copy share an identity.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    int       `json:"userId"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatPayload struct {
	Message ChatMessage
}

type CursorPayload struct {
	UserID int
	Cursor models.Cursor
}

type CodeChangePayload struct {
	UserID   int
	FilePath string
	FileID   int
	Content  string
	Changes  json.RawMessage
}

// UnknownPayload carries an unrecognized frame for pass-through delivery.
type UnknownPayload struct {
	Raw json.RawMessage
}

func (JoinPayload) isPayload()       {}
func (LeavePayload) isPayload()      {}
func (ChatPayload) isPayload()       {}
func (CursorPayload) isPayload()     {}
func (CodeChangePayload) isPayload() {}
func (UnknownPayload) isPayload()    {}

type frameHead struct {
	Type      string `json:"type"`
	ProjectID int    `json:"projectId"`
	Origin    string `json:"origin"`
	Timestamp string `json:"timestamp"`
}

func normalizeType(t string) string {
	switch t {
	case "join":
		return TypeJoin
	case "leave":
		return TypeLeave
	case "cursor_position":
		return TypeCursor
	case "file_edit":
		return TypeCodeChange
	}
	return t
}

// Decode parses a frame once at the boundary. Non-JSON input returns
// ErrMalformed; a JSON frame with an unrecognized type decodes into an
// UnknownPayload and is never an error.
func Decode(raw []byte) (Envelope, error) {
	var head frameHead
	if err := json.Unmarshal(raw, &head); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	env := Envelope{
		Type:      normalizeType(head.Type),
		ProjectID: head.ProjectID,
		Origin:    head.Origin,
		Raw:       raw,
	}
	if head.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, head.Timestamp); err == nil {
			env.Timestamp = ts
		}
	}

	switch env.Type {
	case TypeJoin:
		var body struct {
			User models.UserRef `json:"user"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		env.Payload = JoinPayload{User: body.User}
	case TypeLeave:
		var body struct {
			UserID int `json:"userId"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		env.Payload = LeavePayload{UserID: body.UserID}
	case TypeChat:
		var body struct {
			Data ChatMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		env.Payload = ChatPayload{Message: body.Data}
	case TypeCursor:
		var body struct {
			UserID int           `json:"userId"`
			Cursor models.Cursor `json:"cursor"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		env.Payload = CursorPayload{UserID: body.UserID, Cursor: body.Cursor}
	case TypeCodeChange:
		var body struct {
			UserID   int             `json:"userId"`
			FilePath string          `json:"filePath"`
			FileID   int             `json:"fileId"`
			Content  string          `json:"content"`
			Changes  json.RawMessage `json:"changes"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		env.Payload = CodeChangePayload{
			UserID:   body.UserID,
			FilePath: body.FilePath,
			FileID:   body.FileID,
			Content:  body.Content,
			Changes:  body.Changes,
		}
	default:
		env.Payload = UnknownPayload{Raw: raw}
	}
	return env, nil
}

// Encode returns the wire bytes for the envelope.
func (e Envelope) Encode() []byte {
	return e.Raw
}
