package ws

import (
	"time"

	"github.com/google/uuid"
)

// ConnInfo is transport-level metadata captured at handshake time. The
// user identity is not known yet; it arrives with the join frame.
type ConnInfo struct {
	ConnID      string
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

func newConnID() string {
	return uuid.NewString()
}
