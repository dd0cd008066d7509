// File: internal/services/sync/client.go
package sync

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/Ayaf-Bless/secureChat/internal/domain"
)

// Status is the client's connection state as shown to the user.
type Status string

const (
	StatusDisconnected Status = "offline"
	StatusConnecting   Status = "connecting"
	StatusReconnecting Status = "reconnecting"
	StatusConnected    Status = "connected"
)

// MessageStore is the write surface the client needs from the store.
type MessageStore interface {
	InsertMessage(ctx context.Context, msg domain.Message) error
}

// ConnectionDropper lets the client pass a simulated drop through to the
// endpoint without touching its own state.
type ConnectionDropper interface {
	DropConnections()
}

// Client maintains a best-effort live connection to the sync endpoint. It
// reconnects forever with exponential backoff, emits heartbeats while
// connected, and feeds broadcast messages into the store plus a local
// notification stream.
type Client struct {
	config  *ClientConfig
	store   MessageStore
	logger  Logger
	dialer  *websocket.Dialer
	backoff *backoff.ExponentialBackOff

	mu            sync.RWMutex
	status        Status
	lastHeartbeat time.Time
	wasConnected  bool
	onStatus      func(Status)
	dropper       ConnectionDropper

	notifications chan Notification
}

func NewClient(config *ClientConfig, store MessageStore, logger Logger) (*Client, error) {
	if config == nil {
		return nil, NewConfigError("client config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}
	if store == nil {
		return nil, NewConfigError("message store is required")
	}
	if logger == nil {
		return nil, NewConfigError("logger is required")
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = config.BackoffFloor
	bo.MaxInterval = config.BackoffCeiling
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0 // retry forever
	bo.Reset()

	return &Client{
		config:        config,
		store:         store,
		logger:        logger,
		dialer:        &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		backoff:       bo,
		status:        StatusDisconnected,
		notifications: make(chan Notification, 64),
	}, nil
}

// SetStatusListener registers a callback for status transitions. Must be
// called before Run.
func (c *Client) SetStatusListener(fn func(Status)) {
	c.mu.Lock()
	c.onStatus = fn
	c.mu.Unlock()
}

// SetConnectionDropper wires the administrative drop pass-through.
func (c *Client) SetConnectionDropper(d ConnectionDropper) {
	c.mu.Lock()
	c.dropper = d
	c.mu.Unlock()
}

// Notifications is the stream of ingested broadcast messages for the UI.
func (c *Client) Notifications() <-chan Notification {
	return c.notifications
}

func (c *Client) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// LastHeartbeat reports when the last pong was observed. Advisory telemetry
// only; staleness never forces a close.
func (c *Client) LastHeartbeat() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastHeartbeat
}

// SimulateDrop asks the endpoint to close all connections. The client's own
// state only changes when it observes the resulting close event.
func (c *Client) SimulateDrop() {
	c.mu.RLock()
	dropper := c.dropper
	c.mu.RUnlock()
	if dropper != nil {
		dropper.DropConnections()
	}
}

// Run drives the connect/serve/reconnect cycle until ctx is cancelled.
// The backoff delay doubles on every consecutive failed or closed cycle,
// capped at the ceiling, and resets to the floor only after a cycle
// reaches Connected.
func (c *Client) Run(ctx context.Context) error {
	for {
		c.setStatus(c.connectingStatus())
		conn, resp, err := c.dialer.DialContext(ctx, c.config.URL, nil)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			c.setStatus(StatusDisconnected)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			delay := c.nextDelay()
			c.logger.Warn("sync dial failed", "url", c.config.URL, "retry_in", delay.String(), "error", err)
			if err := c.wait(ctx, delay); err != nil {
				return err
			}
			continue
		}

		c.markConnected()
		c.serve(ctx, conn)
		c.setStatus(StatusDisconnected)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		delay := c.nextDelay()
		c.logger.Info("sync connection closed", "retry_in", delay.String())
		if err := c.wait(ctx, delay); err != nil {
			return err
		}
	}
}

// serve runs the heartbeat and read loops for one connection and returns
// once the connection closes for any reason.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	var closeOnce sync.Once
	closeConn := func() { closeOnce.Do(func() { _ = conn.Close() }) }
	defer closeConn()

	go func() {
		select {
		case <-ctx.Done():
			closeConn()
		case <-done:
		}
	}()
	go c.heartbeatLoop(conn, done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			close(done)
			return
		}
		c.handleFrame(ctx, data)
	}
}

func (c *Client) heartbeatLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(c.config.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteJSON(Frame{Type: TypePing}); err != nil {
				c.logger.Debug("heartbeat write failed", "error", err)
				return
			}
		}
	}
}

// handleFrame decodes one inbound frame. Decode failures skip the frame;
// unknown types are ignored.
func (c *Client) handleFrame(ctx context.Context, data []byte) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.logger.Debug("discarding malformed frame", "error", err)
		return
	}

	switch frame.Type {
	case TypePong:
		c.mu.Lock()
		c.lastHeartbeat = time.Now()
		c.mu.Unlock()
	case TypeNewMessage:
		if len(frame.Payload) == 0 {
			return
		}
		var payload NewMessagePayload
		if err := json.Unmarshal(frame.Payload, &payload); err != nil {
			c.logger.Debug("discarding malformed new-message payload", "error", err)
			return
		}
		c.ingest(ctx, payload)
	}
}

func (c *Client) ingest(ctx context.Context, payload NewMessagePayload) {
	msg := payload.ToMessage()
	if err := c.store.InsertMessage(ctx, msg); err != nil {
		c.logger.Error("failed to store inbound message", "message_id", msg.ID, "chat_id", msg.ChatID, "error", err)
		return
	}

	select {
	case c.notifications <- Notification{ChatID: msg.ChatID, Message: msg}:
	default:
		c.logger.Warn("dropping notification for slow consumer", "chat_id", msg.ChatID)
	}
}

func (c *Client) markConnected() {
	c.backoff.Reset()
	c.mu.Lock()
	c.wasConnected = true
	c.mu.Unlock()
	c.setStatus(StatusConnected)
}

// connectingStatus reports Reconnecting instead of Connecting once a prior
// cycle has reached Connected. Purely a reporting distinction.
func (c *Client) connectingStatus() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.wasConnected {
		return StatusReconnecting
	}
	return StatusConnecting
}

func (c *Client) nextDelay() time.Duration {
	delay := c.backoff.NextBackOff()
	if delay == backoff.Stop {
		delay = c.config.BackoffCeiling
	}
	return delay
}

func (c *Client) wait(ctx context.Context, delay time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func (c *Client) setStatus(status Status) {
	c.mu.Lock()
	changed := c.status != status
	c.status = status
	fn := c.onStatus
	c.mu.Unlock()

	if changed && fn != nil {
		fn(status)
	}
}
