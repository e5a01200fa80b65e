package client

import (
	"context"
	"time"

	"go.uber.org/zap"

	"holdem-client/internal/events"
)

const resumeTimeout = 15 * time.Second

// resumePlan remembers where we were when the transport dropped: the table
// to re-join and the seat to reclaim after re-authenticating.
type resumePlan struct {
	tableID string
	seat    int
}

// attemptResume runs on the reconnect timer after an unexpected drop while
// at a table. It reopens the transport and re-authenticates; the re-join
// goes out when the server acknowledges the auth. Attempts are bounded:
// once they are spent the failure is surfaced for the user to retry
// manually.
func (c *Client) attemptResume() {
	c.mu.Lock()
	if c.closed || c.resume == nil {
		c.mu.Unlock()
		return
	}
	c.attemptsLeft--
	attemptsLeft := c.attemptsLeft
	token := c.token
	plan := *c.resume
	c.mu.Unlock()

	c.log.Info("attempting resume",
		zap.String("table", plan.tableID),
		zap.Int("attempts_left", attemptsLeft))

	ctx, cancel := context.WithTimeout(context.Background(), resumeTimeout)
	err := c.Connect(ctx)
	cancel()
	if err != nil {
		if attemptsLeft > 0 {
			c.mu.Lock()
			if !c.closed && c.resume != nil {
				c.reconnect = time.AfterFunc(c.cfg.ReconnectDelay, c.attemptResume)
			}
			c.mu.Unlock()
			return
		}
		c.mu.Lock()
		c.resume = nil
		c.reconnect = nil
		c.mu.Unlock()
		c.state.Discard()
		c.bus.Publish(events.ErrorReported{Message: "reconnect failed; please retry"})
		return
	}

	if err := c.Authenticate(token); err != nil {
		c.log.Error("resume auth send failed", zap.Error(err))
		c.bus.Publish(events.ErrorReported{Message: "failed to re-authenticate after reconnect"})
	}
}
