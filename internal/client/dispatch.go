package client

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"holdem-client/internal/events"
	"holdem-client/internal/gamestate"
	"holdem-client/internal/history"
	"holdem-client/internal/wire"
)

const historyWriteTimeout = 3 * time.Second

// handleFrame decodes and routes one inbound frame. Unknown tags are
// logged and dropped; malformed payloads become a generic error event.
// Nothing here may take down the read pump.
func (c *Client) handleFrame(data []byte) {
	ev, err := wire.Decode(data)
	if err != nil {
		if errors.Is(err, wire.ErrUnknownType) {
			c.log.Warn("dropping unknown message", zap.Error(err))
			return
		}
		c.log.Error("malformed message from server", zap.Error(err))
		c.bus.Publish(events.ErrorReported{Message: "received a malformed message from the server"})
		return
	}

	switch ev := ev.(type) {
	case wire.AuthSuccess:
		c.handleAuthSuccess(ev)
	case wire.ServerError:
		c.handleServerError(ev)
	case wire.GameState:
		c.handleGameState(ev)
	case wire.PlayerAction:
		c.bus.Publish(events.ActionAnnounced{Action: ev})
	case wire.PlayerJoined:
		c.bus.Publish(events.PlayerLifecycle{Kind: wire.EventPlayerJoined, Username: ev.Username})
	case wire.PlayerLeft:
		c.bus.Publish(events.PlayerLifecycle{Kind: wire.EventPlayerLeft, Username: ev.Username})
	case wire.PlayerDisconnected:
		c.bus.Publish(events.PlayerLifecycle{Kind: wire.EventPlayerDisconnected, Username: ev.Username})
	case wire.PlayerReconnected:
		c.bus.Publish(events.PlayerLifecycle{Kind: wire.EventPlayerReconnected, Username: ev.Username})
	case wire.HandResult:
		c.handleHandResult(ev)
	case wire.ChipsUpdated:
		applied := c.state.PatchChips(ev.Player, ev.Chips)
		c.bus.Publish(events.ChipsChanged{Update: ev, Applied: applied})
	case wire.HandStarted:
		c.auto.Disarm()
		c.bus.Publish(events.HandStartedReceived{HandNumber: ev.HandNumber, DealerSeat: ev.DealerSeat})
	case wire.StateChanged:
		c.bus.Publish(events.PhaseChanged{Previous: ev.Previous, Current: ev.New})
	case wire.ChatMessage:
		c.handleChat(ev)
	case wire.TablesList:
		c.bus.Publish(events.TableListUpdated{Tables: ev.Tables})
	case wire.TableCreated:
		c.handleTableChanged(ev.TableID, false)
	case wire.TableDeleted:
		c.handleTableChanged(ev.TableID, true)
	case wire.Ledger:
		c.bus.Publish(events.LedgerReceived{Ledger: ev})
	case wire.Standings:
		c.bus.Publish(events.StandingsReceived{Standings: ev})
	}
}

func (c *Client) handleAuthSuccess(ev wire.AuthSuccess) {
	c.mu.Lock()
	c.userID = ev.UserID
	c.username = ev.Username
	c.role = ev.Role
	c.authExpiredSignaled = false
	plan := c.resume
	c.resume = nil
	c.setStatusLocked(StatusAuthenticated)
	c.mu.Unlock()

	if plan != nil {
		c.log.Info("re-joining table after resume",
			zap.String("table", plan.tableID), zap.Int("seat", plan.seat))
		if err := c.send(wire.JoinTable(plan.tableID, plan.seat)); err != nil {
			c.log.Error("resume join failed", zap.Error(err))
			c.bus.Publish(events.ErrorReported{Message: "failed to re-join table after reconnect"})
		}
	}
}

func (c *Client) handleServerError(ev wire.ServerError) {
	if ev.TokenExpired() {
		c.mu.Lock()
		already := c.authExpiredSignaled
		c.authExpiredSignaled = true
		c.mu.Unlock()
		if !already {
			c.log.Info("credential expired, signaling refresh")
			c.bus.Publish(events.AuthExpired{})
		}
		return
	}

	if ev.Code == wire.CodeTableNotFound {
		c.auto.Disarm()
		c.state.Left()
		c.bus.Publish(events.ReturnedToLobby{Reason: ev.Message})
	}
	c.bus.Publish(events.ErrorReported{Message: ev.Message, Code: ev.Code})
}

func (c *Client) handleGameState(gs wire.GameState) {
	snap := gamestate.FromWire(gs)
	prev, hadPrev := c.state.Current()
	res := c.state.Apply(snap)

	// Reconcile the countdown. A new hand or a turn handover reseeds the
	// baseline outright; within one turn the tolerance rule decides.
	authoritative := snap.TimeRemaining
	if snap.TimeBankActive {
		authoritative = snap.TimeBankLeft
	}
	if res.HandChanged || !hadPrev || prev.CurrentPlayer != snap.CurrentPlayer {
		c.timer.Seed(authoritative, snap.TimeBankActive)
	} else {
		c.timer.SetBankMode(snap.TimeBankActive, authoritative)
	}

	c.bus.Publish(events.SnapshotUpdated{Snapshot: snap})

	if res.HandChanged {
		c.auto.Disarm()
		c.bus.Publish(events.HandChanged{Previous: res.PrevHand, Current: res.NewHand})
	}

	username := c.Username()
	if username == "" {
		return
	}
	if !snap.InHand(username) {
		c.auto.Disarm()
		return
	}

	wasMine := hadPrev && prev.CurrentPlayer == username
	if snap.CurrentPlayer == username && !wasMine {
		c.maybeAutoRespond(snap)
	}
}

// maybeAutoRespond fires the fallback action exactly once per enablement
// when the turn just became the local player's.
func (c *Client) maybeAutoRespond(snap gamestate.Snapshot) {
	if !c.auto.Armed() {
		return
	}
	action, ok := pickAutoAction(snap.ValidActions)
	if !ok {
		return
	}
	if !c.auto.fire() {
		return
	}
	c.log.Info("auto-responding", zap.String("action", action))
	if !c.deb.allow(actionKey(action, 0)) {
		return
	}
	if err := c.send(wire.Action(action, 0)); err != nil {
		c.log.Error("auto-respond send failed", zap.Error(err))
	}
}

func (c *Client) handleHandResult(ev wire.HandResult) {
	c.bus.Publish(events.HandResultReceived{Result: ev})

	snap, ok := c.state.Current()
	if !ok {
		return
	}
	rec := history.HandRecord{
		TableID:    snap.TableID,
		HandNumber: snap.HandNumber,
		Pot:        ev.Pot,
		PlayedAt:   time.Now().UTC(),
	}
	for _, w := range ev.Winners {
		rec.Winners = append(rec.Winners, history.Winner{
			Username: w.Username,
			Amount:   w.Amount,
			Hand:     w.Hand,
		})
	}
	ctx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
	defer cancel()
	if err := c.history.RecordHand(ctx, rec); err != nil {
		c.log.Warn("recording hand result failed", zap.Error(err))
	}
}

func (c *Client) handleChat(ev wire.ChatMessage) {
	c.bus.Publish(events.ChatReceived{Message: ev})

	m := c.state.Membership()
	if m.None() {
		return
	}
	var sentAt time.Time
	if ev.Time > 0 {
		sentAt = time.UnixMilli(ev.Time).UTC()
	}
	ctx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
	defer cancel()
	if err := c.history.RecordChat(ctx, history.ChatRecord{
		TableID:  m.TableID,
		Username: ev.Username,
		Message:  ev.Message,
		SentAt:   sentAt,
	}); err != nil {
		c.log.Warn("recording chat failed", zap.Error(err))
	}
}

// handleTableChanged reacts to lobby-wide table lifecycle notices. Changes
// to other tables only stale the cached list; deletion of the current
// table forces a return to the lobby.
func (c *Client) handleTableChanged(tableID string, deleted bool) {
	m := c.state.Membership()
	if tableID != m.TableID || m.None() {
		c.bus.Publish(events.TableListStale{TableID: tableID})
		return
	}
	if deleted {
		c.auto.Disarm()
		c.state.Left()
		c.bus.Publish(events.ReturnedToLobby{Reason: "table closed"})
		c.bus.Publish(events.TableListStale{TableID: tableID})
	}
}
