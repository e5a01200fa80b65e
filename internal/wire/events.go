package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Event tags (server -> client).
const (
	EventAuthSuccess        = "auth_success"
	EventAuthenticated      = "authenticated" // legacy alias for auth_success
	EventError              = "error"
	EventGameState          = "game_state"
	EventPlayerAction       = "player_action"
	EventPlayerJoined       = "player_joined"
	EventPlayerLeft         = "player_left"
	EventPlayerDisconnected = "player_disconnected"
	EventPlayerReconnected  = "player_reconnected"
	EventHandResult         = "hand_result"
	EventChipsUpdated       = "chips_updated"
	EventHandStarted        = "hand_started"
	EventStateChanged       = "state_changed"
	EventChat               = "chat"
	EventTablesList         = "tables_list"
	EventTableCreated       = "table_created"
	EventTableDeleted       = "table_deleted"
	EventLedger             = "ledger"
	EventStandings          = "standings"
)

// Error codes the client special-cases.
const (
	CodeAuthFailed    = "AUTH_FAILED"
	CodeTableNotFound = "TABLE_NOT_FOUND"
)

var (
	// ErrUnknownType marks a tag outside the closed event set. Callers log
	// and drop these; they are never fatal.
	ErrUnknownType = errors.New("unknown event type")
)

// Event is one decoded inbound message.
type Event interface{ event() }

type AuthSuccess struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type ServerError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// TokenExpired reports whether this error is the auth-expiry signature
// that should be routed to the dedicated auth-expired signal.
func (e ServerError) TokenExpired() bool {
	return e.Code == CodeAuthFailed && strings.Contains(strings.ToLower(e.Message), "expired")
}

type TimeBank struct {
	Active    bool    `json:"active"`
	Remaining float64 `json:"remaining"`
}

type PlayerState struct {
	Seat      int      `json:"seat"`
	Username  string   `json:"username"`
	Chips     int64    `json:"chips"`
	Bet       int64    `json:"bet"`
	Folded    bool     `json:"folded"`
	AllIn     bool     `json:"all_in"`
	Connected bool     `json:"connected"`
	HoleCards []string `json:"hole_cards,omitempty"`
}

// GameState is the full authoritative snapshot of one table moment.
type GameState struct {
	TableID        string        `json:"table_id"`
	Phase          string        `json:"phase"`
	HandNumber     int64         `json:"hand_number"`
	DealerSeat     int           `json:"dealer_seat"`
	Pot            int64         `json:"pot"`
	CommunityCards []string      `json:"community_cards"`
	Players        []PlayerState `json:"players"`
	CurrentPlayer  string        `json:"current_player"`
	ValidActions   []string      `json:"valid_actions"`
	MinRaise       int64         `json:"min_raise"`
	CallAmount     int64         `json:"call_amount"`
	TimeRemaining  float64       `json:"time_remaining"`
	TimeBank       TimeBank      `json:"time_bank"`
}

type PlayerAction struct {
	User   string `json:"user"`
	Action string `json:"action"`
	Amount int64  `json:"amount,omitempty"`
}

type PlayerJoined struct {
	Username string `json:"username"`
	Seat     *int   `json:"seat,omitempty"`
}

type PlayerLeft struct {
	Username string `json:"username"`
}

type PlayerDisconnected struct {
	Username string `json:"username"`
}

type PlayerReconnected struct {
	Username string `json:"username"`
}

type HandWinner struct {
	Username string `json:"username"`
	Amount   int64  `json:"amount"`
	Hand     string `json:"hand,omitempty"`
}

type HandResult struct {
	Winners    []HandWinner        `json:"winners"`
	Pot        int64               `json:"pot"`
	ShownHands map[string][]string `json:"shown_hands,omitempty"`
}

type ChipsUpdated struct {
	Player string `json:"player"`
	Chips  int64  `json:"chips"`
	Change int64  `json:"change"`
}

type HandStarted struct {
	HandNumber int64 `json:"hand_number"`
	DealerSeat int   `json:"dealer_seat"`
}

type StateChanged struct {
	Previous string `json:"previous"`
	New      string `json:"new"`
}

type ChatMessage struct {
	Username string `json:"username"`
	Message  string `json:"message"`
	Time     int64  `json:"time,omitempty"`
}

type TableInfo struct {
	TableID    string `json:"table_id"`
	Name       string `json:"name"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"max_players"`
	InProgress bool   `json:"in_progress"`
}

type TablesList struct {
	Tables []TableInfo `json:"tables"`
}

type TableCreated struct {
	TableID string `json:"table_id"`
}

type TableDeleted struct {
	TableID string `json:"table_id"`
}

type LedgerEntry struct {
	Username string `json:"username"`
	BuyIn    int64  `json:"buy_in"`
	CashOut  int64  `json:"cash_out"`
	Net      int64  `json:"net"`
}

type Ledger struct {
	Entries []LedgerEntry `json:"entries"`
}

type StandingsEntry struct {
	Username string `json:"username"`
	Chips    int64  `json:"chips"`
	Rank     int    `json:"rank"`
}

type Standings struct {
	Entries []StandingsEntry `json:"entries"`
}

func (AuthSuccess) event()        {}
func (ServerError) event()        {}
func (GameState) event()          {}
func (PlayerAction) event()       {}
func (PlayerJoined) event()       {}
func (PlayerLeft) event()         {}
func (PlayerDisconnected) event() {}
func (PlayerReconnected) event()  {}
func (HandResult) event()         {}
func (ChipsUpdated) event()       {}
func (HandStarted) event()        {}
func (StateChanged) event()       {}
func (ChatMessage) event()        {}
func (TablesList) event()         {}
func (TableCreated) event()       {}
func (TableDeleted) event()       {}
func (Ledger) event()             {}
func (Standings) event()          {}

type head struct {
	Type string `json:"type"`
}

// Decode parses one inbound frame into its typed event. Unknown tags return
// ErrUnknownType; malformed payloads return a wrapped decode error. Neither
// must ever take down the dispatch loop.
func Decode(data []byte) (Event, error) {
	var h head
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	var (
		ev  Event
		err error
	)
	switch h.Type {
	case EventAuthSuccess, EventAuthenticated:
		ev, err = decodeAs[AuthSuccess](data)
	case EventError:
		ev, err = decodeAs[ServerError](data)
	case EventGameState:
		ev, err = decodeAs[GameState](data)
	case EventPlayerAction:
		ev, err = decodeAs[PlayerAction](data)
	case EventPlayerJoined:
		ev, err = decodeAs[PlayerJoined](data)
	case EventPlayerLeft:
		ev, err = decodeAs[PlayerLeft](data)
	case EventPlayerDisconnected:
		ev, err = decodeAs[PlayerDisconnected](data)
	case EventPlayerReconnected:
		ev, err = decodeAs[PlayerReconnected](data)
	case EventHandResult:
		ev, err = decodeAs[HandResult](data)
	case EventChipsUpdated:
		ev, err = decodeAs[ChipsUpdated](data)
	case EventHandStarted:
		ev, err = decodeAs[HandStarted](data)
	case EventStateChanged:
		ev, err = decodeAs[StateChanged](data)
	case EventChat:
		ev, err = decodeAs[ChatMessage](data)
	case EventTablesList:
		ev, err = decodeAs[TablesList](data)
	case EventTableCreated:
		ev, err = decodeAs[TableCreated](data)
	case EventTableDeleted:
		ev, err = decodeAs[TableDeleted](data)
	case EventLedger:
		ev, err = decodeAs[Ledger](data)
	case EventStandings:
		ev, err = decodeAs[Standings](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, h.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", h.Type, err)
	}
	return ev, nil
}

func decodeAs[T Event](data []byte) (Event, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
