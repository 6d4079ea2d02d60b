package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/edukhmer/notifykit/pkg/logger"
)

// Conn is one registered real-time connection. A user may hold several at
// once (multiple tabs or devices). Messages are delivered through a buffered
// channel; slow consumers drop messages rather than block the sender.
type Conn struct {
	id     string
	userID string
	ch     chan Message
	closed bool
	mu     sync.Mutex
}

// ID returns the connection identifier.
func (c *Conn) ID() string { return c.id }

// UserID returns the authenticated owner of the connection.
func (c *Conn) UserID() string { return c.userID }

// Receive returns the channel the transport layer reads events from.
// The channel is closed when the connection is disconnected.
func (c *Conn) Receive() <-chan Message { return c.ch }

// send delivers non-blocking; a full buffer drops the message.
func (c *Conn) send(msg Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.ch <- msg:
		return true
	default:
		return false
	}
}

func (c *Conn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.ch)
		c.closed = true
	}
}

// Registry tracks which users have active real-time connections and routes
// events to them. All methods are safe for concurrent use.
type Registry struct {
	verifier   TokenVerifier
	users      map[string]map[string]*Conn // userID -> connID -> conn
	conns      map[string]*Conn            // connID -> conn
	bufferSize int
	presence   Presence
	logger     *slog.Logger
	closed     bool
	mu         sync.RWMutex
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithBufferSize sets the per-connection message buffer. Default is 32.
func WithBufferSize(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.bufferSize = n
		}
	}
}

// WithLogger sets the logger for the Registry.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithPresence attaches a cross-node presence store updated on connect and
// disconnect.
func WithPresence(p Presence) RegistryOption {
	return func(r *Registry) {
		r.presence = p
	}
}

// NewRegistry creates a connection registry. Every connection must present a
// credential the verifier accepts.
func NewRegistry(verifier TokenVerifier, opts ...RegistryOption) *Registry {
	r := &Registry{
		verifier:   verifier,
		users:      make(map[string]map[string]*Conn),
		conns:      make(map[string]*Conn),
		bufferSize: 32,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Connect authenticates the credential token and registers a new connection
// under the resolved user. A rejected token registers nothing.
func (r *Registry) Connect(ctx context.Context, token string) (*Conn, error) {
	userID, err := r.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	conn := &Conn{
		id:     uuid.New().String(),
		userID: userID,
		ch:     make(chan Message, r.bufferSize),
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRegistryClosed
	}
	if r.users[userID] == nil {
		r.users[userID] = make(map[string]*Conn)
	}
	r.users[userID][conn.id] = conn
	r.conns[conn.id] = conn
	r.mu.Unlock()

	if r.presence != nil {
		if err := r.presence.Connected(ctx, userID, conn.id); err != nil {
			r.logger.LogAttrs(ctx, slog.LevelWarn, "failed to record presence",
				logger.UserID(userID),
				logger.ConnID(conn.id),
				logger.Error(err),
			)
		}
	}

	r.logger.LogAttrs(ctx, slog.LevelDebug, "connection registered",
		logger.UserID(userID),
		logger.ConnID(conn.id),
	)
	return conn, nil
}

// Disconnect removes a connection. When the user's last connection goes, the
// user entry is removed entirely.
func (r *Registry) Disconnect(ctx context.Context, connID string) {
	r.mu.Lock()
	conn, ok := r.conns[connID]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.conns, connID)
	if set := r.users[conn.userID]; set != nil {
		delete(set, connID)
		if len(set) == 0 {
			delete(r.users, conn.userID)
		}
	}
	r.mu.Unlock()

	conn.close()

	if r.presence != nil {
		if err := r.presence.Disconnected(ctx, conn.userID, connID); err != nil {
			r.logger.LogAttrs(ctx, slog.LevelWarn, "failed to clear presence",
				logger.UserID(conn.userID),
				logger.ConnID(connID),
				logger.Error(err),
			)
		}
	}
}

// SendToUser broadcasts an event to every active connection of one user.
// Unknown users are a no-op.
func (r *Registry) SendToUser(ctx context.Context, userID, event string, payload any) {
	msg := Message{Event: event, Payload: payload}

	r.mu.RLock()
	targets := make([]*Conn, 0, len(r.users[userID]))
	for _, conn := range r.users[userID] {
		targets = append(targets, conn)
	}
	r.mu.RUnlock()

	for _, conn := range targets {
		if !conn.send(msg) {
			r.logger.LogAttrs(ctx, slog.LevelDebug, "dropped event for slow connection",
				logger.UserID(userID),
				logger.ConnID(conn.id),
				logger.Event(event),
			)
		}
	}
}

// SendToUsers broadcasts an event to each user in turn.
func (r *Registry) SendToUsers(ctx context.Context, userIDs []string, event string, payload any) {
	for _, id := range userIDs {
		r.SendToUser(ctx, id, event, payload)
	}
}

// IsUserConnected reports whether the user has at least one active
// connection on this node.
func (r *Registry) IsUserConnected(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users[userID]) > 0
}

// ConnectedUserCount returns the number of distinct users with at least one
// active connection on this node.
func (r *Registry) ConnectedUserCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Close disconnects everything and refuses further connections.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	conns := make([]*Conn, 0, len(r.conns))
	for _, conn := range r.conns {
		conns = append(conns, conn)
	}
	clear(r.users)
	clear(r.conns)
	r.mu.Unlock()

	for _, conn := range conns {
		conn.close()
	}
}
