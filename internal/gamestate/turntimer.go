package gamestate

import "sync"

// Timer defaults. The tick is driven externally (the client's 100ms loop);
// the reconciler itself is pure state so the tolerance rule is testable
// without a real timer.
const (
	DefaultTickSeconds = 0.1
	DefaultTolerance   = 2.0
)

// TurnTimer extrapolates a smoothly-decreasing countdown between
// infrequent authoritative updates. Small authoritative jitter is ignored
// to avoid visible rewinding; a materially different value snaps the
// baseline immediately. Time-bank mode switches the countdown source to
// the player's remaining bank, with the same tolerance rule.
type TurnTimer struct {
	mu        sync.Mutex
	remaining float64
	bankMode  bool
	tolerance float64
}

func NewTurnTimer(tolerance float64) *TurnTimer {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &TurnTimer{tolerance: tolerance}
}

// Tick advances the local countdown by dt seconds, clamped at zero, and
// returns the new value.
func (t *TurnTimer) Tick(dt float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remaining -= dt
	if t.remaining < 0 {
		t.remaining = 0
	}
	return t.remaining
}

// Reconcile offers an authoritative value. It becomes the new baseline only
// when it differs from the local value by more than the tolerance; it never
// blocks or skips ticks. Returns true when the baseline was adopted.
func (t *TurnTimer) Reconcile(authoritative float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	diff := authoritative - t.remaining
	if diff < 0 {
		diff = -diff
	}
	if diff <= t.tolerance {
		return false
	}
	t.remaining = authoritative
	return true
}

// Seed resets the countdown unconditionally, e.g. at a new turn.
func (t *TurnTimer) Seed(value float64, bankMode bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remaining = value
	t.bankMode = bankMode
}

// SetBankMode switches the countdown source between the per-turn clock and
// the time bank. Switching modes always adopts the given value; within a
// mode the tolerance rule applies.
func (t *TurnTimer) SetBankMode(bank bool, value float64) {
	t.mu.Lock()
	if bank != t.bankMode {
		t.bankMode = bank
		t.remaining = value
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()
	t.Reconcile(value)
}

// Remaining returns the current local countdown value.
func (t *TurnTimer) Remaining() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// BankMode reports whether the countdown source is the time bank.
func (t *TurnTimer) BankMode() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bankMode
}
