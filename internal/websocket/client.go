package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrFeedBacklog is returned when a subscriber has fallen too far behind the
// change feed to accept another event.
var ErrFeedBacklog = errors.New("change feed backlog full")

const (
	feedWriteTimeout = 10 * time.Second
	feedIdleTimeout  = 60 * time.Second
	// must stay below feedIdleTimeout so the peer's pong arrives in time
	feedPingInterval = feedIdleTimeout * 9 / 10
	// subscribers only send control frames
	feedReadLimit = 512
	feedBacklog   = 64
)

// Client is one browser tab subscribed to the ledger change feed. The feed is
// one-way: events flow out, and reads only service pongs and the close
// handshake.
type Client struct {
	id          string
	conn        *websocket.Conn
	hub         *Hub
	events      chan []byte
	logger      zerolog.Logger
	connectedAt time.Time

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	id := uuid.NewString()
	return &Client{
		id:     id,
		conn:   conn,
		hub:    hub,
		events: make(chan []byte, feedBacklog),
		logger: log.With().
			Str("component", "change_feed").
			Str("client_id", id).
			Str("remote_addr", conn.RemoteAddr().String()).
			Logger(),
		connectedAt: time.Now(),
	}
}

func (c *Client) ID() string {
	return c.id
}

// Send queues a serialized ledger event. A subscriber whose backlog is full
// misses the event and gets ErrFeedBacklog; it resynchronizes on reconnect.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.events <- data:
		return nil
	default:
		return ErrFeedBacklog
	}
}

// Close ends the subscription. Repeated calls are no-ops.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.events)
		c.mu.Unlock()

		err = c.conn.Close()
	})
	return err
}

func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Serve streams events until the peer goes away, then leaves the hub.
// It blocks; callers run it on its own goroutine.
func (c *Client) Serve() {
	go c.deliver()
	c.awaitClose()

	c.hub.Unregister(c)
	c.Close()
	c.logger.Info().
		Dur("connected_for", time.Since(c.connectedAt)).
		Msg("Change feed subscriber disconnected")
}

// awaitClose drains inbound frames so pongs and close frames are processed.
func (c *Client) awaitClose() {
	c.conn.SetReadLimit(feedReadLimit)
	c.conn.SetReadDeadline(time.Now().Add(feedIdleTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(feedIdleTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn().Err(err).Msg("Change feed subscriber dropped")
			}
			return
		}
	}
}

// deliver writes queued events and keeps the connection alive with pings.
func (c *Client) deliver() {
	keepalive := time.NewTicker(feedPingInterval)
	defer func() {
		keepalive.Stop()
		c.Close()
	}()

	for {
		select {
		case data, ok := <-c.events:
			c.conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to deliver ledger event")
				return
			}

		case <-keepalive.C:
			c.conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug().Err(err).Msg("Change feed keepalive failed")
				return
			}
		}
	}
}
