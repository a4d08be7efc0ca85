package client

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeforge/internal/models"
	"codeforge/internal/ws"
)

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := ws.NewRegistry()
	handler := ws.NewCollabHandler(registry, ws.NewRouter(registry))

	engine := gin.New()
	engine.GET("/ws", handler.Handle)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

func serverWSURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestTwoSessionsSeeEachOther(t *testing.T) {
	srv := startServer(t)

	alice := NewSession(serverWSURL(srv), 1, models.UserRef{ID: 1, Username: "alice"}, Options{})
	defer alice.Close()
	alice.Connect()

	require.Eventually(t, func() bool { return alice.State() == StateConnected }, 2*time.Second, 10*time.Millisecond)

	bob := NewSession(serverWSURL(srv), 1, models.UserRef{ID: 2, Username: "bob"}, Options{})
	defer bob.Close()
	bob.Connect()

	// Alice learns of Bob through his relayed join.
	require.Eventually(t, func() bool {
		return len(alice.Collaborators()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	bob.SendMessage("hi alice")

	require.Eventually(t, func() bool {
		return len(alice.Messages()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "hi alice", alice.Messages()[0].Message)

	// Bob holds exactly his optimistic copy; the relay never duplicates it.
	time.Sleep(100 * time.Millisecond)
	require.Len(t, bob.Messages(), 1)

	require.NoError(t, bob.Close())
	require.Eventually(t, func() bool {
		return len(alice.Collaborators()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestOfflineMessageDeliveredOnceAfterJoin(t *testing.T) {
	srv := startServer(t)

	alice := NewSession(serverWSURL(srv), 1, models.UserRef{ID: 1, Username: "alice"}, Options{})
	defer alice.Close()
	alice.Connect()
	require.Eventually(t, func() bool { return alice.State() == StateConnected }, 2*time.Second, 10*time.Millisecond)

	// Bob writes before ever connecting; the message rides the queue and
	// lands after his join, so Alice sees the join first.
	bob := NewSession(serverWSURL(srv), 1, models.UserRef{ID: 2, Username: "bob"}, Options{})
	defer bob.Close()
	bob.SendMessage("hello")
	require.Len(t, bob.Messages(), 1)

	bob.Connect()

	require.Eventually(t, func() bool {
		return len(alice.Messages()) == 1 && len(alice.Collaborators()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "hello", alice.Messages()[0].Message)

	// Exactly once on both sides.
	time.Sleep(100 * time.Millisecond)
	assert.Len(t, alice.Messages(), 1)
	assert.Len(t, bob.Messages(), 1)
}

func TestCursorPropagatesBetweenSessions(t *testing.T) {
	srv := startServer(t)

	alice := NewSession(serverWSURL(srv), 1, models.UserRef{ID: 1, Username: "alice"}, Options{})
	defer alice.Close()
	alice.Connect()
	require.Eventually(t, func() bool { return alice.State() == StateConnected }, 2*time.Second, 10*time.Millisecond)

	bob := NewSession(serverWSURL(srv), 1, models.UserRef{ID: 2, Username: "bob"}, Options{})
	defer bob.Close()
	bob.Connect()
	require.Eventually(t, func() bool { return len(alice.Collaborators()) == 2 }, 2*time.Second, 10*time.Millisecond)

	bob.SendCursorUpdate(models.Cursor{Line: 10, Column: 4})

	require.Eventually(t, func() bool {
		for _, p := range alice.Collaborators() {
			if p.UserID == 2 && p.Cursor != nil && p.Cursor.Line == 10 {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}
