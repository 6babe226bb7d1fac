// Package formfill consumes fill-form events and applies them to an in-memory
// draft of the requisition form. Each event replaces the whole draft in one
// step; fields never trickle in one at a time.
package formfill

import (
	"sync"

	"recruitdesk/internal/common/logger"
	"recruitdesk/internal/events"
	"recruitdesk/internal/models"
)

// Draft is the current state of a requisition form being filled.
type Draft struct {
	Fields        models.JobFieldPayload
	LastRequestID string
	Applied       bool
}

// Applier subscribes to fill-form events and keeps the latest draft. A later
// event fully overwrites an earlier one.
type Applier struct {
	logger logger.Logger

	mu    sync.RWMutex
	draft Draft

	cancel func()
	done   chan struct{}
}

func NewApplier(bus *events.Bus, log logger.Logger) *Applier {
	a := &Applier{
		logger: log.WithFields(map[string]interface{}{"component": "formfill"}),
		done:   make(chan struct{}),
	}

	ch, cancel := bus.Subscribe(events.TopicFillJobForm)
	a.cancel = cancel

	go func() {
		defer close(a.done)
		for evt := range ch {
			payload, ok := evt.Payload.(events.FillJobFormEvent)
			if !ok {
				a.logger.Warn("unexpected payload on fill topic", map[string]interface{}{
					"eventId": evt.ID,
				})
				continue
			}
			a.apply(payload)
		}
	}()

	return a
}

// apply swaps in the new draft atomically under the lock.
func (a *Applier) apply(payload events.FillJobFormEvent) {
	a.mu.Lock()
	a.draft = Draft{
		Fields:        payload.Fields,
		LastRequestID: payload.RequestID,
		Applied:       true,
	}
	a.mu.Unlock()

	a.logger.Info("form draft filled", map[string]interface{}{
		"requestId": payload.RequestID,
		"title":     payload.Fields.Title,
	})
}

// Snapshot returns a copy of the current draft.
func (a *Applier) Snapshot() Draft {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.draft
}

// Reset clears the draft, e.g. after the form is submitted.
func (a *Applier) Reset() {
	a.mu.Lock()
	a.draft = Draft{}
	a.mu.Unlock()
}

// Close unsubscribes and waits for the consumer goroutine to drain.
func (a *Applier) Close() {
	a.cancel()
	<-a.done
}
