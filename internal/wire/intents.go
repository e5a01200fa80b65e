// Package wire defines the JSON message protocol spoken over the table
// server's WebSocket: outbound client intents and the closed set of
// inbound server events.
package wire

import "encoding/json"

// Intent types (client -> server).
const (
	IntentAuth        = "auth"
	IntentJoinTable   = "join_table"
	IntentLeaveTable  = "leave_table"
	IntentStandUp     = "stand_up"
	IntentAction      = "action"
	IntentChat        = "chat"
	IntentPing        = "ping"
	IntentCreateTable = "create_table"
	IntentDeleteTable = "delete_table"
	IntentStartGame   = "start_game"
	IntentGiveChips   = "give_chips"
	IntentTakeChips   = "take_chips"
	IntentGetLedger   = "get_ledger"
	IntentGetStandings = "get_standings"
)

// Player actions carried by the "action" intent and echoed back in
// player_action events and valid_actions lists.
const (
	ActionCheck = "check"
	ActionBet   = "bet"
	ActionCall  = "call"
	ActionRaise = "raise"
	ActionFold  = "fold"
	ActionAllIn = "all_in"
)

// Intent is a single flat outbound record. Fields not relevant to a given
// intent type stay zero and are omitted from the encoding.
type Intent struct {
	Type    string `json:"type"`
	Token   string `json:"token,omitempty"`
	TableID string `json:"table_id,omitempty"`
	Seat    *int   `json:"seat,omitempty"`
	Action  string `json:"action,omitempty"`
	Amount  int64  `json:"amount,omitempty"`
	Message string `json:"message,omitempty"`
	Player  string `json:"player,omitempty"`
	Name    string `json:"name,omitempty"`
}

func (i Intent) Encode() ([]byte, error) {
	return json.Marshal(i)
}

func Auth(token string) Intent {
	return Intent{Type: IntentAuth, Token: token}
}

// JoinTable requests membership at tableID. seat < 0 means spectate.
func JoinTable(tableID string, seat int) Intent {
	in := Intent{Type: IntentJoinTable, TableID: tableID}
	if seat >= 0 {
		s := seat
		in.Seat = &s
	}
	return in
}

func LeaveTable() Intent { return Intent{Type: IntentLeaveTable} }

func StandUp() Intent { return Intent{Type: IntentStandUp} }

func Action(action string, amount int64) Intent {
	return Intent{Type: IntentAction, Action: action, Amount: amount}
}

func Chat(message string) Intent {
	return Intent{Type: IntentChat, Message: message}
}

func Ping() Intent { return Intent{Type: IntentPing} }

func CreateTable(name string) Intent {
	return Intent{Type: IntentCreateTable, Name: name}
}

func DeleteTable(tableID string) Intent {
	return Intent{Type: IntentDeleteTable, TableID: tableID}
}

func StartGame() Intent { return Intent{Type: IntentStartGame} }

func GiveChips(player string, amount int64) Intent {
	return Intent{Type: IntentGiveChips, Player: player, Amount: amount}
}

func TakeChips(player string, amount int64) Intent {
	return Intent{Type: IntentTakeChips, Player: player, Amount: amount}
}

func GetLedger() Intent { return Intent{Type: IntentGetLedger} }

func GetStandings() Intent { return Intent{Type: IntentGetStandings} }
