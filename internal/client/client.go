// Package client owns the persistent connection to the table server: the
// connection state machine, keepalive, inbound dispatch, reconnection and
// resume, the action debouncer, and the auto-action executor.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"holdem-client/internal/config"
	"holdem-client/internal/events"
	"holdem-client/internal/gamestate"
	"holdem-client/internal/history"
	"holdem-client/internal/wire"
)

var (
	ErrNotConnected   = errors.New("client: not connected")
	ErrSendBufferFull = errors.New("client: send buffer full")
	ErrClosed         = errors.New("client: closed")
)

const (
	maxFrameSize     = 65536
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
	sendBufferSize   = 256
)

// Client is an owned, explicitly constructed connection object: construct
// with New, connect, and tear down with Close. It is safe for concurrent
// use; inbound messages are processed strictly in arrival order by a
// single read pump.
type Client struct {
	cfg     config.Config
	log     *zap.Logger
	bus     *events.Bus
	state   *gamestate.Synchronizer
	timer   *gamestate.TurnTimer
	deb     *debouncer
	auto    *autoResponder
	history history.Service

	// sessionID correlates log lines across reconnects of this client
	// instance.
	sessionID string

	mu       sync.Mutex
	status   Status
	conn     *websocket.Conn
	sendCh   chan []byte
	connDone chan struct{}
	token    string
	userID   string
	username string
	role     string
	closed   bool

	// authExpiredSignaled guards the auth-expired signal against duplicate
	// emission while a credential refresh is in flight.
	authExpiredSignaled bool

	resume       *resumePlan
	attemptsLeft int
	reconnect    *time.Timer

	done chan struct{}
}

// New constructs a client. log may be nil (no-op logging); hist may be nil
// (history disabled).
func New(cfg config.Config, log *zap.Logger, hist history.Service) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if hist == nil {
		hist = history.Nop{}
	}
	sessionID := uuid.NewString()
	log = log.Named("client").With(zap.String("session", sessionID))

	c := &Client{
		cfg:       cfg,
		log:       log,
		bus:       events.NewBus(log),
		state:     gamestate.NewSynchronizer(log),
		timer:     gamestate.NewTurnTimer(cfg.TimerTolerance),
		deb:       newDebouncer(cfg.DebounceWindow),
		auto:      &autoResponder{},
		history:   hist,
		sessionID: sessionID,
		done:      make(chan struct{}),
	}
	go c.tickLoop()
	return c
}

// Events returns the bus the presentation layer subscribes to.
func (c *Client) Events() *events.Bus { return c.bus }

// Status returns the current connection status.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Snapshot returns a copy of the current game state, if any.
func (c *Client) Snapshot() (gamestate.Snapshot, bool) {
	return c.state.Current()
}

// Membership returns the current table membership.
func (c *Client) Membership() gamestate.Membership {
	return c.state.Membership()
}

// Username returns the authenticated display name, empty before auth.
func (c *Client) Username() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.username
}

// Role returns the authenticated role, e.g. "player" or "admin".
func (c *Client) Role() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.role
}

// setStatusLocked transitions the status and notifies observers only on an
// actual change. Callers hold c.mu.
func (c *Client) setStatusLocked(next Status) {
	if c.status == next {
		return
	}
	prev := c.status
	c.status = next
	c.log.Info("status changed",
		zap.String("from", prev.String()),
		zap.String("to", next.String()))
	c.bus.Publish(events.StatusChanged{Old: prev.String(), New: next.String()})
}

// Connect opens the transport if not already connecting or connected.
// Calling it while a connection is up or in flight is a no-op returning
// nil rather than opening a second transport.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	switch c.status {
	case StatusConnecting, StatusConnected, StatusAuthenticated:
		c.mu.Unlock()
		return nil
	}
	c.setStatusLocked(StatusConnecting)
	c.mu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, c.cfg.ServerURL, nil)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		c.mu.Lock()
		c.setStatusLocked(StatusError)
		c.mu.Unlock()
		c.bus.Publish(events.ErrorReported{Message: "connection failed: " + err.Error()})
		return fmt.Errorf("dial %s: %w", c.cfg.ServerURL, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return ErrClosed
	}
	c.conn = conn
	c.sendCh = make(chan []byte, sendBufferSize)
	c.connDone = make(chan struct{})
	sendCh, connDone := c.sendCh, c.connDone
	c.setStatusLocked(StatusConnected)
	c.mu.Unlock()

	go c.readPump(conn)
	go c.writePump(conn, sendCh, connDone)
	return nil
}

// Authenticate stores the credential for later resume and sends the auth
// intent. The status becomes authenticated only on the server's explicit
// acknowledgment, never optimistically.
func (c *Client) Authenticate(token string) error {
	c.mu.Lock()
	c.token = token
	c.authExpiredSignaled = false
	c.mu.Unlock()
	return c.send(wire.Auth(token))
}

// Disconnect deterministically tears down keepalive, the transport, and
// any pending reconnect, and resets status to disconnected. Idempotent.
// Table membership survives; the stale snapshot does not.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.reconnect != nil {
		c.reconnect.Stop()
		c.reconnect = nil
	}
	c.resume = nil
	c.teardownConnLocked()
	c.setStatusLocked(StatusDisconnected)
	c.mu.Unlock()

	c.state.Discard()
}

// Close disconnects and stops the countdown loop and event bus. The client
// is unusable afterwards.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.Disconnect()
	close(c.done)
	c.bus.Close()
}

// teardownConnLocked drops the current transport. Callers hold c.mu.
func (c *Client) teardownConnLocked() {
	if c.connDone != nil {
		close(c.connDone)
		c.connDone = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.sendCh = nil
}

func (c *Client) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(maxFrameSize)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleClosed(conn, err)
			return
		}
		c.handleFrame(data)
	}
}

// handleClosed reacts to the transport closing underneath us. An explicit
// Disconnect has already detached the connection and is not a trigger for
// resume.
func (c *Client) handleClosed(conn *websocket.Conn, err error) {
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}
	c.teardownConnLocked()
	c.setStatusLocked(StatusDisconnected)

	membership := c.state.Membership()
	willResume := !c.closed && !membership.None() && c.cfg.ReconnectAttempts > 0
	if willResume {
		seat := gamestate.SpectatorSeat
		if membership.Seated {
			seat = membership.Seat
		}
		c.resume = &resumePlan{tableID: membership.TableID, seat: seat}
		c.attemptsLeft = c.cfg.ReconnectAttempts
		c.reconnect = time.AfterFunc(c.cfg.ReconnectDelay, c.attemptResume)
	}
	c.mu.Unlock()

	if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		c.log.Warn("connection closed unexpectedly", zap.Error(err))
	}
	if willResume {
		c.log.Info("resume scheduled",
			zap.String("table", membership.TableID),
			zap.Duration("delay", c.cfg.ReconnectDelay))
	} else {
		c.state.Discard()
	}
}

// writePump serializes all writes to one connection and owns the keepalive
// ticker. The ping intent goes out only while authenticated.
func (c *Client) writePump(conn *websocket.Conn, send <-chan []byte, done <-chan struct{}) {
	ticker := time.NewTicker(c.cfg.KeepaliveInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case <-done:
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case msg := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			if c.Status() != StatusAuthenticated {
				continue
			}
			data, err := wire.Ping().Encode()
			if err != nil {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}

func (c *Client) send(in wire.Intent) error {
	data, err := in.Encode()
	if err != nil {
		return err
	}

	c.mu.Lock()
	ch := c.sendCh
	st := c.status
	c.mu.Unlock()

	if ch == nil || (st != StatusConnected && st != StatusAuthenticated) {
		return ErrNotConnected
	}
	select {
	case ch <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// JoinTable requests membership at tableID. seat < 0 spectates.
func (c *Client) JoinTable(tableID string, seat int) error {
	if err := c.send(wire.JoinTable(tableID, seat)); err != nil {
		return err
	}
	if seat < 0 {
		seat = gamestate.SpectatorSeat
	}
	c.state.Joined(tableID, seat)
	return nil
}

// LeaveTable leaves the current table and clears membership and state.
func (c *Client) LeaveTable() error {
	if err := c.send(wire.LeaveTable()); err != nil {
		return err
	}
	c.auto.Disarm()
	c.state.Left()
	return nil
}

// StandUp gives up the seat but stays at the table as a spectator.
func (c *Client) StandUp() error {
	if err := c.send(wire.StandUp()); err != nil {
		return err
	}
	c.auto.Disarm()
	c.state.StoodUp()
	return nil
}

// SendAction submits a player action. A manual submission always clears
// the auto-respond flag. A duplicate of the immediately preceding action
// inside the debounce window is silently dropped.
func (c *Client) SendAction(action string, amount int64) error {
	c.auto.Disarm()
	if !c.deb.allow(actionKey(action, amount)) {
		c.log.Debug("debounced duplicate action", zap.String("action", action))
		return nil
	}
	return c.send(wire.Action(action, amount))
}

// SendChat sends a chat message to the current table.
func (c *Client) SendChat(message string) error {
	return c.send(wire.Chat(message))
}

// SetAutoRespond arms or disarms the single-shot auto-respond flag.
func (c *Client) SetAutoRespond(on bool) {
	c.auto.Arm(on)
}

// AutoRespondArmed reports whether the flag is currently set.
func (c *Client) AutoRespondArmed() bool {
	return c.auto.Armed()
}

// AutoRespondAvailable reports whether the control should be offered at
// all: the local player must still hold live cards this hand.
func (c *Client) AutoRespondAvailable() bool {
	snap, ok := c.state.Current()
	if !ok {
		return false
	}
	return snap.InHand(c.Username())
}

// Admin intents.

func (c *Client) CreateTable(name string) error {
	return c.send(wire.CreateTable(name))
}

func (c *Client) DeleteTable(tableID string) error {
	return c.send(wire.DeleteTable(tableID))
}

func (c *Client) StartGame() error {
	return c.send(wire.StartGame())
}

func (c *Client) GiveChips(player string, amount int64) error {
	return c.send(wire.GiveChips(player, amount))
}

func (c *Client) TakeChips(player string, amount int64) error {
	return c.send(wire.TakeChips(player, amount))
}

func (c *Client) RequestLedger() error {
	return c.send(wire.GetLedger())
}

func (c *Client) RequestStandings() error {
	return c.send(wire.GetStandings())
}

// tickLoop drives the turn countdown at the configured interval for the
// client's whole lifetime. Reconciliation against authoritative values
// happens in dispatch; the tick never waits for it.
func (c *Client) tickLoop() {
	ticker := time.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()
	dt := c.cfg.TickInterval.Seconds()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if _, ok := c.state.Current(); !ok {
				continue
			}
			remaining := c.timer.Tick(dt)
			c.bus.Publish(events.CountdownTick{
				Remaining: remaining,
				BankMode:  c.timer.BankMode(),
			})
		}
	}
}
