package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeforge/internal/models"
	"codeforge/internal/protocol"
)

func newOfflineSession(opts Options) *Session {
	// Never connected; Apply is exercised directly.
	return NewSession("ws://127.0.0.1:0/ws", 1, models.UserRef{ID: 1, Username: "alice"}, opts)
}

func TestSessionJoinUpsertsPresenceOnce(t *testing.T) {
	s := newOfflineSession(Options{})

	join := protocol.NewJoin(1, models.UserRef{ID: 2, Username: "bob"}, "remote")
	s.Apply(join)
	s.Apply(join)

	collabs := s.Collaborators()
	require.Len(t, collabs, 1)
	assert.Equal(t, 2, collabs[0].UserID)
	assert.Equal(t, "bob", collabs[0].Username)
	assert.Equal(t, models.StatusOnline, collabs[0].Status)
}

func TestSessionLeaveRemovesPresence(t *testing.T) {
	s := newOfflineSession(Options{})

	s.Apply(protocol.NewJoin(1, models.UserRef{ID: 2, Username: "bob"}, "remote"))
	s.Apply(protocol.NewLeave(1, 2))

	assert.Empty(t, s.Collaborators())
}

func TestSessionCursorUpdatesKnownUserOnly(t *testing.T) {
	s := newOfflineSession(Options{})
	s.Apply(protocol.NewJoin(1, models.UserRef{ID: 2, Username: "bob"}, "remote"))

	s.Apply(protocol.NewCursor(1, 2, models.Cursor{Line: 4, Column: 7}, "remote"))
	collabs := s.Collaborators()
	require.Len(t, collabs, 1)
	require.NotNil(t, collabs[0].Cursor)
	assert.Equal(t, models.Cursor{Line: 4, Column: 7}, *collabs[0].Cursor)

	// A cursor for a user that never joined is dropped.
	s.Apply(protocol.NewCursor(1, 99, models.Cursor{Line: 1, Column: 1}, "remote"))
	assert.Len(t, s.Collaborators(), 1)
}

func TestSessionChatAppendsRemoteMessages(t *testing.T) {
	s := newOfflineSession(Options{})

	msg := protocol.ChatMessage{ID: "m1", UserID: 2, Username: "bob", Message: "hi", Timestamp: time.Now().UTC()}
	s.Apply(protocol.NewChat(1, msg, "remote"))

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", msgs[0].Message)
}

func TestSessionSuppressesOwnEcho(t *testing.T) {
	s := newOfflineSession(Options{})

	sent := s.SendMessage("hello")
	require.Len(t, s.Messages(), 1)

	// The server relays the frame back tagged with this session's origin.
	echo, err := protocol.Decode(protocol.NewChat(1, sent, s.origin).Encode())
	require.NoError(t, err)
	s.Apply(echo)

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, sent.ID, msgs[0].ID)
}

func TestSessionCodeChangeInvokesEditorCallback(t *testing.T) {
	var got protocol.CodeChangePayload
	s := newOfflineSession(Options{
		OnCodeChange: func(p protocol.CodeChangePayload) { got = p },
	})

	s.Apply(protocol.NewCodeChange(1, 2, "src/index.js", "new body", nil, "remote"))
	assert.Equal(t, "src/index.js", got.FilePath)
	assert.Equal(t, "new body", got.Content)

	// A change tagged with this session's own origin is its echo.
	got = protocol.CodeChangePayload{}
	s.Apply(protocol.NewCodeChange(1, 1, "src/index.js", "self", nil, s.origin))
	assert.Empty(t, got.FilePath)
}

func TestSessionIgnoresUnknownFrames(t *testing.T) {
	s := newOfflineSession(Options{})
	s.Apply(protocol.NewJoin(1, models.UserRef{ID: 2, Username: "bob"}, "remote"))

	env, err := protocol.Decode([]byte(`{"type":"screen_share_offer","projectId":1}`))
	require.NoError(t, err)
	s.Apply(env)

	assert.Len(t, s.Collaborators(), 1)
	assert.Empty(t, s.Messages())
}

func TestSessionSendMessageQueuesWhileOffline(t *testing.T) {
	s := newOfflineSession(Options{})

	s.SendMessage("hello")
	s.SendCursorUpdate(models.Cursor{Line: 1, Column: 2})

	assert.Equal(t, 2, s.manager.QueueLen())
	assert.Len(t, s.Messages(), 1)
}
