package ws

import (
	"context"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"codeforge/internal/observability"
	"codeforge/internal/protocol"
)

// Router fans an envelope out to the other connections in its project room.
// Delivery is best-effort, at-most-once: a failed write closes and removes
// that one connection and is never surfaced to the sender.
type Router struct {
	registry *Registry
}

// NewRouter builds a Router over a registry.
func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// Broadcast delivers an envelope to every other connection in the project
// room. Broadcast scope is always the project room; unrecognized envelope
// types are forwarded byte-for-byte.
func (rt *Router) Broadcast(projectID int, sender *websocket.Conn, env protocol.Envelope) {
	payload := env.Encode()
	for _, conn := range rt.registry.RoomConns(projectID, sender) {
		if err := rt.registry.write(conn, payload); err != nil {
			log.Printf("websocket write error: %v", err)
			if info, ok := rt.registry.connInfo(conn); ok {
				rt.publishWSError(projectID, info, err)
			}
			// Closing wakes the connection's read loop, which owns
			// unregistration and the leave broadcast. Consuming the
			// binding here would swallow that user's leave.
			conn.Close()
		}
	}
	observability.IncWSEvent("collab", env.Type)
}

// Notify composes and fans out a server-side notification (file events,
// terminal output) to a project room.
func (rt *Router) Notify(typ string, projectID int, data any) {
	rt.Broadcast(projectID, nil, protocol.NewNotification(typ, projectID, data))
}

func (rt *Router) publishWSError(projectID int, info ConnInfo, err error) {
	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        "collab",
			"resource_id": projectID,
			"event":       "ws_error",
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"identity": map[string]interface{}{
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}

	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(context.Background(), "ws_events.collab", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   payload,
	}, headers)
	observability.IncWSEvent("collab", "ws_error")
}
