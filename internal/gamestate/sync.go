package gamestate

import (
	"sync"

	"go.uber.org/zap"
)

// Membership is the client's relationship with one table. The zero value
// means no table at all (lobby).
type Membership struct {
	TableID string
	Seat    int
	Seated  bool
}

// SpectatorSeat is the Seat value while spectating.
const SpectatorSeat = -1

func (m Membership) None() bool { return m.TableID == "" }

// Synchronizer owns the single current Snapshot and the table membership
// state machine. It is the only writer of either; every other component
// reads or requests a patch.
type Synchronizer struct {
	mu         sync.Mutex
	current    *Snapshot
	membership Membership
	log        *zap.Logger
}

func NewSynchronizer(log *zap.Logger) *Synchronizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synchronizer{log: log.Named("gamestate")}
}

// ApplyResult describes what changed when a snapshot was applied.
type ApplyResult struct {
	HandChanged bool
	PrevHand    int64
	NewHand     int64
}

// Apply replaces the current snapshot wholesale. A strict increase of the
// hand number is a new-hand boundary; the result carries old and new values
// so per-hand collaborator state can be reset exactly once.
func (s *Synchronizer) Apply(snap Snapshot) ApplyResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := ApplyResult{NewHand: snap.HandNumber}
	if s.current != nil {
		res.PrevHand = s.current.HandNumber
		if snap.HandNumber > s.current.HandNumber {
			res.HandChanged = true
		}
	}
	copied := snap
	s.current = &copied
	return res
}

// Current returns a copy of the current snapshot, if any.
func (s *Synchronizer) Current() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Snapshot{}, false
	}
	return *s.current, true
}

// PatchChips sets the named player's chip count in the current snapshot.
// A missing snapshot or absent player makes this a no-op; the next full
// snapshot carries the truth anyway.
func (s *Synchronizer) PatchChips(player string, chips int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	for i := range s.current.Players {
		if s.current.Players[i].Username == player {
			s.current.Players[i].Chips = chips
			return true
		}
	}
	s.log.Debug("chip patch for absent player", zap.String("player", player))
	return false
}

// Discard drops the current snapshot, e.g. when the table is left or the
// connection drops without resume. Membership is handled separately.
func (s *Synchronizer) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Membership returns the current table membership.
func (s *Synchronizer) Membership() Membership {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.membership
}

// Joined records a successful join acknowledgment. seat == SpectatorSeat
// means spectating.
func (s *Synchronizer) Joined(tableID string, seat int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.membership = Membership{
		TableID: tableID,
		Seat:    seat,
		Seated:  seat != SpectatorSeat,
	}
}

// StoodUp moves a seated membership back to spectating at the same table.
func (s *Synchronizer) StoodUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.membership.None() {
		return
	}
	s.membership.Seat = SpectatorSeat
	s.membership.Seated = false
}

// Left clears membership entirely and drops the snapshot. Used for explicit
// leaves and for the server rejecting the table (not found / closed), which
// forces a return to the lobby.
func (s *Synchronizer) Left() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.membership = Membership{}
	s.current = nil
}
