package client

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// State is the connection lifecycle of a Manager.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	}
	return "disconnected"
}

// DefaultReconnectDelay is the pause between reconnect attempts when the
// config leaves it unset.
const DefaultReconnectDelay = 3 * time.Second

// Config wires a Manager to its endpoint and its owner's callbacks.
type Config struct {
	URL string

	// ReconnectDelay is the fixed pause between reconnect attempts.
	// Zero means DefaultReconnectDelay.
	ReconnectDelay time.Duration

	Dialer *websocket.Dialer

	// JoinFrame, when set, is sent first on every successful connect,
	// before any queued frames are flushed.
	JoinFrame func() []byte

	// OnFrame receives every inbound frame. Called from the read loop.
	OnFrame func(raw []byte)
}

// Manager owns one collaboration socket. It dials, reads, and reconnects
// forever with a fixed delay until Close is called. Frames sent while the
// socket is down are queued in order and flushed after the next join.
type Manager struct {
	url       string
	delay     time.Duration
	dialer    *websocket.Dialer
	joinFrame func() []byte
	onFrame   func(raw []byte)

	mu      sync.Mutex
	writeMu sync.Mutex
	state   State
	conn    *websocket.Conn
	queue   [][]byte
	started bool
	closed  bool
	done    chan struct{}
}

// NewManager builds a Manager. Call Connect to start it.
func NewManager(cfg Config) *Manager {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	return &Manager{
		url:       cfg.URL,
		delay:     cfg.ReconnectDelay,
		dialer:    cfg.Dialer,
		joinFrame: cfg.JoinFrame,
		onFrame:   cfg.OnFrame,
		done:      make(chan struct{}),
	}
}

// Connect starts the dial/read/reconnect loop. Subsequent calls are no-ops.
func (m *Manager) Connect() {
	m.mu.Lock()
	if m.started || m.closed {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()
	go m.run()
}

// Close stops the manager for good and drops the socket. Queued frames are
// discarded. Safe to call more than once.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	conn := m.conn
	m.conn = nil
	m.state = StateDisconnected
	m.mu.Unlock()

	close(m.done)
	if conn != nil {
		conn.Close()
	}
	return nil
}

// Send transmits a frame, or queues it if the socket is down. It never
// fails: a frame that cannot be written now goes to the head of the queue
// and rides out the reconnect.
func (m *Manager) Send(frame []byte) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if m.state != StateConnected || m.conn == nil {
		m.queue = append(m.queue, frame)
		m.mu.Unlock()
		return
	}
	conn := m.conn
	m.mu.Unlock()

	if err := m.writeFrame(conn, frame); err != nil {
		m.mu.Lock()
		m.queue = append([][]byte{frame}, m.queue...)
		if m.conn == conn {
			m.state = StateDisconnected
		}
		m.mu.Unlock()
		conn.Close()
	}
}

// State reports the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// QueueLen reports how many frames are waiting for the next connect.
func (m *Manager) QueueLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

func (m *Manager) run() {
	for {
		select {
		case <-m.done:
			return
		default:
		}

		m.setState(StateConnecting)
		conn, resp, err := m.dialer.Dial(m.url, nil)
		if resp != nil {
			resp.Body.Close()
		}
		if err != nil {
			log.Printf("collab client: dial %s: %v", m.url, err)
			m.setState(StateDisconnected)
			if !m.sleep() {
				return
			}
			continue
		}

		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			conn.Close()
			return
		}
		m.conn = conn
		m.mu.Unlock()

		// Still Connecting: Send keeps queueing until the join is on the
		// wire and the backlog is drained, so nothing can overtake them.
		joined := true
		if m.joinFrame != nil {
			if err := m.writeFrame(conn, m.joinFrame()); err != nil {
				log.Printf("collab client: join write failed: %v", err)
				conn.Close()
				joined = false
			}
		}
		if joined {
			m.flush(conn)
		}
		m.readLoop(conn)

		m.mu.Lock()
		if m.conn == conn {
			m.conn = nil
		}
		m.state = StateDisconnected
		closed := m.closed
		m.mu.Unlock()
		if closed {
			return
		}
		if !m.sleep() {
			return
		}
	}
}

func (m *Manager) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			conn.Close()
			return
		}
		if m.onFrame != nil {
			m.onFrame(raw)
		}
	}
}

// flush drains the offline queue in FIFO order and only then flips the
// state to Connected, under the same lock Send uses. A Send racing the
// drain therefore either lands behind the backlog or writes directly to a
// connection whose queue is already empty; queued frames can never be
// overtaken. A failed write puts the frame back at the head so nothing is
// lost across the reconnect.
func (m *Manager) flush(conn *websocket.Conn) {
	for {
		m.mu.Lock()
		if m.closed || m.conn != conn {
			m.mu.Unlock()
			return
		}
		if len(m.queue) == 0 {
			m.state = StateConnected
			m.mu.Unlock()
			return
		}
		frame := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		if err := m.writeFrame(conn, frame); err != nil {
			m.mu.Lock()
			m.queue = append([][]byte{frame}, m.queue...)
			m.mu.Unlock()
			conn.Close()
			return
		}
	}
}

func (m *Manager) writeFrame(conn *websocket.Conn, frame []byte) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, frame)
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Manager) sleep() bool {
	select {
	case <-m.done:
		return false
	case <-time.After(m.delay):
		return true
	}
}
