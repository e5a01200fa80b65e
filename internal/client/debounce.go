package client

import (
	"fmt"
	"sync"
	"time"
)

// debouncer suppresses duplicate rapid submissions of the same logical
// action, absorbing accidental double-taps. It is the only place an
// outbound intent is deliberately dropped instead of forwarded.
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	lastKey string
	lastAt  time.Time
	now     func() time.Time
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{window: window, now: time.Now}
}

// allow reports whether this submission should go out. A repeat of the
// same key inside the window is dropped; anything else passes and becomes
// the new reference point.
func (d *debouncer) allow(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if key == d.lastKey && now.Sub(d.lastAt) < d.window {
		return false
	}
	d.lastKey = key
	d.lastAt = now
	return true
}

func actionKey(action string, amount int64) string {
	return fmt.Sprintf("%s/%d", action, amount)
}
