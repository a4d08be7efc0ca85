package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"codeforge/internal/observability"
	"codeforge/internal/protocol"
)

// CollabHandler accepts collaboration websocket connections. Project and
// user identity arrive later, on the join frame, so the handshake only
// registers the bare connection.
type CollabHandler struct {
	registry *Registry
	router   *Router
}

// NewCollabHandler constructs a CollabHandler.
func NewCollabHandler(registry *Registry, router *Router) *CollabHandler {
	return &CollabHandler{registry: registry, router: router}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and starts the read loop.
func (h *CollabHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("codeforge/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	h.registry.Register(conn, info)

	observability.IncWSActive("collab")
	observability.IncWSEvent("collab", "ws_connect")
	_ = observability.PublishEvent(ctx, "ws_events.collab", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload:   wsEventPayload("ws_connect", 0, info, 0, ""),
	}, observability.BuildHeaders(requestID, traceID))

	go h.readLoop(ctx, conn, info)
}

func (h *CollabHandler) readLoop(ctx context.Context, conn *websocket.Conn, info ConnInfo) {
	var closeReason string
	defer func() {
		if _, projectID, user, joined, ok := h.registry.Unregister(conn); ok {
			if joined {
				h.router.Broadcast(projectID, conn, protocol.NewLeave(projectID, user.ID))
			}
			observability.DecWSActive("collab")
			observability.IncWSEvent("collab", "ws_disconnect")
			_ = observability.PublishEvent(ctx, "ws_events.collab", observability.EventEnvelope{
				EventType: "ws_events",
				EventName: "ws_disconnect",
				Payload:   wsEventPayload("ws_disconnect", projectID, info, user.ID, closeReason),
			}, observability.BuildHeaders(info.RequestID, info.TraceID))
		}
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("collab", "ws_error")
			}
			return
		}

		env, err := protocol.Decode(raw)
		if err != nil {
			// Malformed frames are dropped; the connection stays open.
			log.Printf("websocket decode error: %v", err)
			observability.IncWSEvent("collab", "bad_frame")
			continue
		}

		if join, ok := env.Payload.(protocol.JoinPayload); ok {
			h.registry.Associate(conn, env.ProjectID, join.User)
			h.router.Broadcast(env.ProjectID, conn, env)
			continue
		}

		projectID := env.ProjectID
		if projectID == 0 {
			// Envelope without a project id falls back to the sender's room.
			var joined bool
			projectID, joined = h.registry.Project(conn)
			if !joined {
				log.Printf("dropping %q frame from unjoined connection %s", env.Type, info.ConnID)
				continue
			}
		}
		h.router.Broadcast(projectID, conn, env)
	}
}

func wsEventPayload(event string, projectID int, info ConnInfo, userID int, reason string) map[string]interface{} {
	return map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        "collab",
			"resource_id": projectID,
			"event":       event,
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id":   userID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}
}
