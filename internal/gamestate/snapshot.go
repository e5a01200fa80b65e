// Package gamestate reconstructs a coherent view of one table from the
// server's event stream: the authoritative snapshot, side-event patches,
// table membership, and the locally-extrapolated turn countdown.
package gamestate

import (
	"holdem-client/card"
	"holdem-client/internal/wire"
)

// Phase values mirrored from the server.
const (
	PhaseWaiting  = "waiting"
	PhasePreflop  = "preflop"
	PhaseFlop     = "flop"
	PhaseTurn     = "turn"
	PhaseRiver    = "river"
	PhaseShowdown = "showdown"
)

type PlayerView struct {
	Seat      int
	Username  string
	Chips     int64
	Bet       int64
	Folded    bool
	AllIn     bool
	Connected bool
	HoleCards []card.Card
}

// Snapshot is the client-side model of one authoritative game_state event.
// It is replaced wholesale on every snapshot; the only in-place mutation is
// the chip patch applied by the Synchronizer.
type Snapshot struct {
	TableID        string
	Phase          string
	HandNumber     int64
	DealerSeat     int
	Pot            int64
	CommunityCards []card.Card
	Players        []PlayerView
	CurrentPlayer  string
	ValidActions   []string
	MinRaise       int64
	CallAmount     int64
	TimeRemaining  float64
	TimeBankActive bool
	TimeBankLeft   float64
}

// FromWire converts a decoded game_state payload into the client model.
func FromWire(gs wire.GameState) Snapshot {
	snap := Snapshot{
		TableID:        gs.TableID,
		Phase:          gs.Phase,
		HandNumber:     gs.HandNumber,
		DealerSeat:     gs.DealerSeat,
		Pot:            gs.Pot,
		CommunityCards: card.ParseList(gs.CommunityCards),
		CurrentPlayer:  gs.CurrentPlayer,
		ValidActions:   append([]string(nil), gs.ValidActions...),
		MinRaise:       gs.MinRaise,
		CallAmount:     gs.CallAmount,
		TimeRemaining:  gs.TimeRemaining,
		TimeBankActive: gs.TimeBank.Active,
		TimeBankLeft:   gs.TimeBank.Remaining,
	}
	for _, p := range gs.Players {
		snap.Players = append(snap.Players, PlayerView{
			Seat:      p.Seat,
			Username:  p.Username,
			Chips:     p.Chips,
			Bet:       p.Bet,
			Folded:    p.Folded,
			AllIn:     p.AllIn,
			Connected: p.Connected,
			HoleCards: card.ParseList(p.HoleCards),
		})
	}
	return snap
}

// Player returns the entry for username, if present.
func (s *Snapshot) Player(username string) (PlayerView, bool) {
	for _, p := range s.Players {
		if p.Username == username {
			return p, true
		}
	}
	return PlayerView{}, false
}

// ActionLegal reports whether action is in the snapshot's valid set.
func (s *Snapshot) ActionLegal(action string) bool {
	for _, a := range s.ValidActions {
		if a == action {
			return true
		}
	}
	return false
}

// InHand reports whether username still holds live cards this hand:
// present, not folded, not all-in, and actually dealt in.
func (s *Snapshot) InHand(username string) bool {
	p, ok := s.Player(username)
	if !ok {
		return false
	}
	return !p.Folded && !p.AllIn && len(p.HoleCards) > 0
}
