// Package events fans client happenings out to the presentation layer:
// a single tagged-event stream with consumer-side filtering. Delivery for
// one subscriber is in publish order; a publish never blocks, a full
// subscriber buffer simply drops that event for that subscriber.
package events

import (
	"sync"

	"go.uber.org/zap"

	"holdem-client/internal/gamestate"
	"holdem-client/internal/wire"
)

// Event is one notification to the presentation layer.
type Event interface{ busEvent() }

// StatusChanged reports a connection status transition. Old and New are
// always distinct; duplicate statuses are never published.
type StatusChanged struct {
	Old string
	New string
}

// SnapshotUpdated carries the freshly applied game state.
type SnapshotUpdated struct {
	Snapshot gamestate.Snapshot
}

// HandChanged marks a new-hand boundary: per-hand UI state (last action,
// winner highlight, auto-respond flag) must be reset.
type HandChanged struct {
	Previous int64
	Current  int64
}

// CountdownTick carries the locally extrapolated turn timer value.
type CountdownTick struct {
	Remaining float64
	BankMode  bool
}

type HandResultReceived struct {
	Result wire.HandResult
}

type ChatReceived struct {
	Message wire.ChatMessage
}

type ActionAnnounced struct {
	Action wire.PlayerAction
}

type ChipsChanged struct {
	Update  wire.ChipsUpdated
	Applied bool // whether the patch landed in the current snapshot
}

// PlayerLifecycle covers joined/left/disconnected/reconnected notices.
type PlayerLifecycle struct {
	Kind     string // one of the wire player_* event tags
	Username string
}

type TableListUpdated struct {
	Tables []wire.TableInfo
}

// TableListStale signals that a table was created or deleted elsewhere and
// the list should be re-fetched from the lobby service.
type TableListStale struct {
	TableID string
}

type LedgerReceived struct {
	Ledger wire.Ledger
}

type StandingsReceived struct {
	Standings wire.Standings
}

// HandStartedReceived relays the server's hand_started announcement.
type HandStartedReceived struct {
	HandNumber int64
	DealerSeat int
}

// PhaseChanged relays the server's state_changed announcement.
type PhaseChanged struct {
	Previous string
	Current  string
}

// AuthExpired fires once per credential expiry; it is guarded against
// duplicate emission while a refresh is in flight.
type AuthExpired struct{}

// ErrorReported surfaces a user-visible error: server application errors,
// decode failures, connection failures.
type ErrorReported struct {
	Message string
	Code    string
}

// ReturnedToLobby signals that membership was force-cleared (table not
// found / closed) and the UI should show the lobby.
type ReturnedToLobby struct {
	Reason string
}

func (StatusChanged) busEvent()       {}
func (SnapshotUpdated) busEvent()     {}
func (HandChanged) busEvent()         {}
func (CountdownTick) busEvent()       {}
func (HandResultReceived) busEvent()  {}
func (ChatReceived) busEvent()        {}
func (ActionAnnounced) busEvent()     {}
func (ChipsChanged) busEvent()        {}
func (PlayerLifecycle) busEvent()     {}
func (TableListUpdated) busEvent()    {}
func (TableListStale) busEvent()      {}
func (LedgerReceived) busEvent()      {}
func (StandingsReceived) busEvent()   {}
func (HandStartedReceived) busEvent() {}
func (PhaseChanged) busEvent()        {}
func (AuthExpired) busEvent()         {}
func (ErrorReported) busEvent()       {}
func (ReturnedToLobby) busEvent()     {}

// Bus is the fan-out point. Construct with NewBus, tear down with Close;
// Close drains nothing and closes every subscriber channel.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool
	log    *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		subs: make(map[int]chan Event),
		log:  log.Named("events"),
	}
}

// Subscribe registers a new consumer with the given buffer size and returns
// its channel plus a cancel func. After Close the channel arrives closed.
func (b *Bus) Subscribe(buf int) (<-chan Event, func()) {
	if buf <= 0 {
		buf = 64
	}
	ch := make(chan Event, buf)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
}

// Publish delivers e to every subscriber without blocking. A subscriber
// whose buffer is full misses this event.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.log.Warn("subscriber buffer full, dropping event",
				zap.Int("subscriber", id))
		}
	}
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
