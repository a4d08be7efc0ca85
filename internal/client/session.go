package client

import (
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"codeforge/internal/models"
	"codeforge/internal/protocol"
)

// Options tunes a Session beyond the endpoint and identity.
type Options struct {
	ReconnectDelay time.Duration
	Dialer         *websocket.Dialer

	// OnCodeChange fires for every remote edit. The editor host owns what
	// to do with it; the session keeps no document state.
	OnCodeChange func(protocol.CodeChangePayload)
}

// Session is the client-side collaboration state store for one project:
// who is present, where their cursors are, and the chat log. It folds
// inbound frames into that state and tags outbound frames with a
// per-session origin so its own relayed frames are recognized and skipped.
type Session struct {
	manager   *Manager
	projectID int
	user      models.UserRef
	origin    string

	onCodeChange func(protocol.CodeChangePayload)

	mu       sync.RWMutex
	presence map[int]*models.Presence
	messages []protocol.ChatMessage
}

// NewSession builds a session for one user in one project. Call Connect
// to go live.
func NewSession(url string, projectID int, user models.UserRef, opts Options) *Session {
	s := &Session{
		projectID:    projectID,
		user:         user,
		origin:       uuid.NewString(),
		onCodeChange: opts.OnCodeChange,
		presence:     make(map[int]*models.Presence),
	}
	s.manager = NewManager(Config{
		URL:            url,
		ReconnectDelay: opts.ReconnectDelay,
		Dialer:         opts.Dialer,
		JoinFrame: func() []byte {
			return protocol.NewJoin(projectID, user, s.origin).Encode()
		},
		OnFrame: s.handleFrame,
	})
	return s
}

// Connect opens the socket and announces the local user. The join is
// re-sent on every reconnect so the server rebuilds the room binding.
func (s *Session) Connect() {
	s.upsertPresence(models.Presence{
		UserID:   s.user.ID,
		Username: s.user.Username,
		Status:   models.StatusOnline,
	})
	s.manager.Connect()
}

// Close shuts the session down permanently.
func (s *Session) Close() error {
	return s.manager.Close()
}

// State reports the underlying connection state.
func (s *Session) State() State {
	return s.manager.State()
}

// SendMessage appends the message locally right away and sends it. The
// relayed copy comes back tagged with this session's origin and is
// skipped, so the message lands exactly once.
func (s *Session) SendMessage(text string) protocol.ChatMessage {
	msg := protocol.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    s.user.ID,
		Username:  s.user.Username,
		Message:   text,
		Timestamp: time.Now().UTC(),
	}
	s.appendMessage(msg)
	s.manager.Send(protocol.NewChat(s.projectID, msg, s.origin).Encode())
	return msg
}

// SendCursorUpdate reports the local caret position. The local store is
// not touched; the editor host already knows its own caret.
func (s *Session) SendCursorUpdate(cursor models.Cursor) {
	s.manager.Send(protocol.NewCursor(s.projectID, s.user.ID, cursor, s.origin).Encode())
}

// SendCodeChange reports a local edit.
func (s *Session) SendCodeChange(filePath, content string, changes json.RawMessage) {
	s.manager.Send(protocol.NewCodeChange(s.projectID, s.user.ID, filePath, content, changes, s.origin).Encode())
}

// Collaborators returns a snapshot of present users, ordered by user id.
func (s *Session) Collaborators() []models.Presence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Presence, 0, len(s.presence))
	for _, p := range s.presence {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// Messages returns a snapshot of the chat log in arrival order.
func (s *Session) Messages() []protocol.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]protocol.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) handleFrame(raw []byte) {
	env, err := protocol.Decode(raw)
	if err != nil {
		log.Printf("collab session: dropping malformed frame: %v", err)
		return
	}
	s.Apply(env)
}

// Apply folds one envelope into the session state. Frames tagged with this
// session's own origin are echoes of its optimistic updates and are
// skipped; join and leave always apply because presence must stay exact.
func (s *Session) Apply(env protocol.Envelope) {
	switch p := env.Payload.(type) {
	case protocol.JoinPayload:
		s.upsertPresence(models.Presence{
			UserID:   p.User.ID,
			Username: p.User.Username,
			Status:   models.StatusOnline,
		})
	case protocol.LeavePayload:
		s.removePresence(p.UserID)
	case protocol.ChatPayload:
		if env.Origin == s.origin {
			return
		}
		s.appendMessage(p.Message)
	case protocol.CursorPayload:
		if env.Origin == s.origin {
			return
		}
		s.setCursor(p.UserID, p.Cursor)
	case protocol.CodeChangePayload:
		if env.Origin == s.origin {
			return
		}
		if s.onCodeChange != nil {
			s.onCodeChange(p)
		}
	default:
		log.Printf("collab session: ignoring %q frame", env.Type)
	}
}

func (s *Session) upsertPresence(p models.Presence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.presence[p.UserID]; ok {
		cur.Username = p.Username
		cur.Status = p.Status
		return
	}
	s.presence[p.UserID] = &p
}

func (s *Session) removePresence(userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.presence, userID)
}

// setCursor moves a known collaborator's caret. Cursor frames for users
// that never joined are dropped.
func (s *Session) setCursor(userID int, cursor models.Cursor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.presence[userID]; ok {
		c := cursor
		p.Cursor = &c
	}
}

func (s *Session) appendMessage(msg protocol.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}
