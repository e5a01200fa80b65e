package client

import (
	"sync"

	"holdem-client/internal/wire"
)

// autoResponder holds the single-shot auto-respond flag. It is inert until
// the turn transitions to the local player; firing, any manual action, a
// new hand, or loss of hand eligibility all force it off.
type autoResponder struct {
	mu    sync.Mutex
	armed bool
}

func (a *autoResponder) Arm(on bool) {
	a.mu.Lock()
	a.armed = on
	a.mu.Unlock()
}

func (a *autoResponder) Disarm() { a.Arm(false) }

func (a *autoResponder) Armed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.armed
}

// fire atomically consumes the flag. It returns true at most once per
// enablement.
func (a *autoResponder) fire() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.armed {
		return false
	}
	a.armed = false
	return true
}

// pickAutoAction chooses the deterministic fallback from the legal set:
// check if legal, else fold, else nothing.
func pickAutoAction(valid []string) (string, bool) {
	legal := func(want string) bool {
		for _, a := range valid {
			if a == want {
				return true
			}
		}
		return false
	}
	if legal(wire.ActionCheck) {
		return wire.ActionCheck, true
	}
	if legal(wire.ActionFold) {
		return wire.ActionFold, true
	}
	return "", false
}
