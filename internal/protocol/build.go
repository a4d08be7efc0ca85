package protocol

import (
	"encoding/json"
	"time"

	"codeforge/internal/models"
)

func stamp(ts time.Time) string {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return ts.UTC().Format(time.RFC3339)
}

func build(typ string, projectID int, origin string, ts time.Time, payload Payload, body any) Envelope {
	raw, _ := json.Marshal(body)
	return Envelope{
		Type:      typ,
		ProjectID: projectID,
		Origin:    origin,
		Timestamp: ts,
		Payload:   payload,
		Raw:       raw,
	}
}

// NewJoin announces a user joining a project session.
func NewJoin(projectID int, user models.UserRef, origin string) Envelope {
	now := time.Now().UTC()
	return build(TypeJoin, projectID, origin, now, JoinPayload{User: user}, struct {
		Type      string         `json:"type"`
		ProjectID int            `json:"projectId"`
		User      models.UserRef `json:"user"`
		Origin    string         `json:"origin,omitempty"`
		Timestamp string         `json:"timestamp"`
	}{TypeJoin, projectID, user, origin, stamp(now)})
}

// NewLeave removes a user's presence from a project session.
func NewLeave(projectID, userID int) Envelope {
	now := time.Now().UTC()
	return build(TypeLeave, projectID, "", now, LeavePayload{UserID: userID}, struct {
		Type      string `json:"type"`
		ProjectID int    `json:"projectId"`
		UserID    int    `json:"userId"`
		Timestamp string `json:"timestamp"`
	}{TypeLeave, projectID, userID, stamp(now)})
}

// NewChat wraps a chat message for the wire.
func NewChat(projectID int, msg ChatMessage, origin string) Envelope {
	now := time.Now().UTC()
	return build(TypeChat, projectID, origin, now, ChatPayload{Message: msg}, struct {
		Type      string      `json:"type"`
		ProjectID int         `json:"projectId"`
		Data      ChatMessage `json:"data"`
		Origin    string      `json:"origin,omitempty"`
		Timestamp string      `json:"timestamp"`
	}{TypeChat, projectID, msg, origin, stamp(now)})
}

// NewCursor reports a caret move.
func NewCursor(projectID, userID int, cursor models.Cursor, origin string) Envelope {
	now := time.Now().UTC()
	return build(TypeCursor, projectID, origin, now, CursorPayload{UserID: userID, Cursor: cursor}, struct {
		Type      string        `json:"type"`
		ProjectID int           `json:"projectId"`
		UserID    int           `json:"userId"`
		Cursor    models.Cursor `json:"cursor"`
		Origin    string        `json:"origin,omitempty"`
		Timestamp string        `json:"timestamp"`
	}{TypeCursor, projectID, userID, cursor, origin, stamp(now)})
}

// NewCodeChange notifies other sessions of an edit. No merge logic is
// implied; the editor host decides what to do with it.
func NewCodeChange(projectID, userID int, filePath, content string, changes json.RawMessage, origin string) Envelope {
	now := time.Now().UTC()
	return build(TypeCodeChange, projectID, origin, now, CodeChangePayload{
		UserID:   userID,
		FilePath: filePath,
		Content:  content,
		Changes:  changes,
	}, struct {
		Type      string          `json:"type"`
		ProjectID int             `json:"projectId"`
		UserID    int             `json:"userId"`
		FilePath  string          `json:"filePath"`
		Content   string          `json:"content,omitempty"`
		Changes   json.RawMessage `json:"changes,omitempty"`
		Origin    string          `json:"origin,omitempty"`
		Timestamp string          `json:"timestamp"`
	}{TypeCodeChange, projectID, userID, filePath, content, changes, origin, stamp(now)})
}

// NewNotification builds a server-composed fan-out frame (file events,
// terminal output). Data is marshaled as-is under "data".
func NewNotification(typ string, projectID int, data any) Envelope {
	now := time.Now().UTC()
	raw, _ := json.Marshal(struct {
		Type      string `json:"type"`
		ProjectID int    `json:"projectId"`
		Data      any    `json:"data"`
		Timestamp string `json:"timestamp"`
	}{typ, projectID, data, stamp(now)})
	return Envelope{
		Type:      typ,
		ProjectID: projectID,
		Timestamp: now,
		Payload:   UnknownPayload{Raw: raw},
		Raw:       raw,
	}
}
