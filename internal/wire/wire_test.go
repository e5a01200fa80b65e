package wire

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestIntentEncode_OmitsEmptyFields(t *testing.T) {
	data, err := Ping().Encode()
	if err != nil {
		t.Fatalf("Encode err: %v", err)
	}
	if string(data) != `{"type":"ping"}` {
		t.Fatalf("unexpected ping encoding: %s", data)
	}
}

func TestJoinTable_SeatOptional(t *testing.T) {
	data, err := JoinTable("main", 3).Encode()
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["table_id"] != "main" {
		t.Fatalf("table_id = %v", got["table_id"])
	}
	if got["seat"] != float64(3) {
		t.Fatalf("seat = %v, want 3", got["seat"])
	}

	data, err = JoinTable("main", -1).Encode()
	if err != nil {
		t.Fatal(err)
	}
	got = map[string]any{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if _, present := got["seat"]; present {
		t.Fatalf("spectator join should omit seat, got %s", data)
	}
}

func TestDecode_GameState(t *testing.T) {
	payload := `{
		"type": "game_state",
		"table_id": "main",
		"phase": "flop",
		"hand_number": 7,
		"dealer_seat": 2,
		"pot": 300,
		"community_cards": ["As", "Td", "7h"],
		"players": [
			{"seat": 0, "username": "alice", "chips": 950, "bet": 100, "connected": true},
			{"seat": 1, "username": "bob", "chips": 800, "bet": 100, "folded": true, "connected": true}
		],
		"current_player": "alice",
		"valid_actions": ["check", "bet"],
		"min_raise": 100,
		"call_amount": 0,
		"time_remaining": 28.5,
		"time_bank": {"active": false, "remaining": 60}
	}`
	ev, err := Decode([]byte(payload))
	if err != nil {
		t.Fatalf("Decode err: %v", err)
	}
	gs, ok := ev.(GameState)
	if !ok {
		t.Fatalf("expected GameState, got %T", ev)
	}
	if gs.HandNumber != 7 || gs.TableID != "main" || gs.Phase != "flop" {
		t.Fatalf("unexpected snapshot header: %+v", gs)
	}
	if len(gs.Players) != 2 || !gs.Players[1].Folded {
		t.Fatalf("unexpected players: %+v", gs.Players)
	}
	if gs.TimeRemaining != 28.5 || gs.TimeBank.Remaining != 60 {
		t.Fatalf("unexpected timer fields: %+v", gs)
	}
}

func TestDecode_AliasAuthenticated(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"authenticated","user_id":"u1","username":"alice","role":"player"}`))
	if err != nil {
		t.Fatal(err)
	}
	as, ok := ev.(AuthSuccess)
	if !ok {
		t.Fatalf("expected AuthSuccess, got %T", ev)
	}
	if as.Username != "alice" {
		t.Fatalf("username = %q", as.Username)
	}
}

func TestDecode_UnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"solar_flare"}`))
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := Decode([]byte(`{"type":`)); err == nil {
		t.Fatal("expected decode error for truncated frame")
	}
	if _, err := Decode([]byte(`{"type":"chips_updated","chips":"not-a-number"}`)); err == nil {
		t.Fatal("expected decode error for mistyped field")
	}
}

func TestServerError_TokenExpired(t *testing.T) {
	cases := []struct {
		e    ServerError
		want bool
	}{
		{ServerError{Code: CodeAuthFailed, Message: "token expired"}, true},
		{ServerError{Code: CodeAuthFailed, Message: "Session Expired"}, true},
		{ServerError{Code: CodeAuthFailed, Message: "bad password"}, false},
		{ServerError{Code: CodeTableNotFound, Message: "token expired"}, false},
	}
	for _, tc := range cases {
		if got := tc.e.TokenExpired(); got != tc.want {
			t.Fatalf("TokenExpired(%+v) = %v, want %v", tc.e, got, tc.want)
		}
	}
}
