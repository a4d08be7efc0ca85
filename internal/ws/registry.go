package ws

import (
	"sync"

	"github.com/gorilla/websocket"

	"codeforge/internal/models"
)

// session is the registry's record for one live connection. A connection
// belongs to at most one project room at a time; a later Associate call
// replaces the previous binding.
type session struct {
	info      ConnInfo
	projectID int
	user      models.UserRef
	joined    bool
	writeMu   sync.Mutex
}

// Registry tracks live websocket connections and their project rooms.
// State is process-local; reconnecting clients must re-send a join frame.
type Registry struct {
	mu       sync.RWMutex
	sessions map[*websocket.Conn]*session
	rooms    map[int]map[*websocket.Conn]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[*websocket.Conn]*session),
		rooms:    make(map[int]map[*websocket.Conn]bool),
	}
}

// Register adds a connection on transport accept.
func (r *Registry) Register(conn *websocket.Conn, info ConnInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[conn] = &session{info: info}
}

// Associate binds a connection to a project and user once a join frame
// arrives. Rebinding moves the connection between rooms.
func (r *Registry) Associate(conn *websocket.Conn, projectID int, user models.UserRef) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[conn]
	if !ok {
		return
	}
	if sess.joined && sess.projectID != projectID {
		r.removeFromRoom(sess.projectID, conn)
	}
	sess.projectID = projectID
	sess.user = user
	sess.joined = true
	if _, ok := r.rooms[projectID]; !ok {
		r.rooms[projectID] = make(map[*websocket.Conn]bool)
	}
	r.rooms[projectID][conn] = true
}

// Unregister removes a connection on transport close. Idempotent: a second
// call for the same connection is a no-op and reports ok=false. The returned
// binding lets the caller broadcast a leave frame to the room.
func (r *Registry) Unregister(conn *websocket.Conn) (info ConnInfo, projectID int, user models.UserRef, joined bool, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, exists := r.sessions[conn]
	if !exists {
		return ConnInfo{}, 0, models.UserRef{}, false, false
	}
	delete(r.sessions, conn)
	if sess.joined {
		r.removeFromRoom(sess.projectID, conn)
	}
	return sess.info, sess.projectID, sess.user, sess.joined, true
}

func (r *Registry) removeFromRoom(projectID int, conn *websocket.Conn) {
	if conns, ok := r.rooms[projectID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(r.rooms, projectID)
		}
	}
}

// Project reports the project a connection joined, if any.
func (r *Registry) Project(conn *websocket.Conn) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[conn]
	if !ok || !sess.joined {
		return 0, false
	}
	return sess.projectID, true
}

// RoomConns returns the connections in a project room, excluding except.
func (r *Registry) RoomConns(projectID int, except *websocket.Conn) []*websocket.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := make([]*websocket.Conn, 0, len(r.rooms[projectID]))
	for conn := range r.rooms[projectID] {
		if conn != except {
			conns = append(conns, conn)
		}
	}
	return conns
}

// RoomSize reports how many connections joined a project room.
func (r *Registry) RoomSize(projectID int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[projectID])
}

func (r *Registry) connInfo(conn *websocket.Conn) (ConnInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[conn]
	if !ok {
		return ConnInfo{}, false
	}
	return sess.info, true
}

// write serializes frame writes per connection. gorilla/websocket allows
// only one concurrent writer; both the read loop and REST handlers fan out
// through here.
func (r *Registry) write(conn *websocket.Conn, payload []byte) error {
	r.mu.RLock()
	sess, ok := r.sessions[conn]
	r.mu.RUnlock()
	if !ok {
		return websocket.ErrCloseSent
	}
	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, payload)
}
