// Package events is the in-process pub/sub channel that replaces the page
// global custom event the views previously listened on. Topics are typed and
// subscribers are explicit; there is no ambient discovery by event name.
package events

import (
	"context"
	"sync"
	"time"

	"recruitdesk/internal/common/logger"
	"recruitdesk/internal/common/metrics"
	"recruitdesk/internal/models"

	"github.com/google/uuid"
)

type Topic string

const (
	// TopicFillJobForm carries extraction results to listening forms.
	TopicFillJobForm Topic = "fill-job-form"

	TopicJobCreated       Topic = "job.created"
	TopicJobStatusChanged Topic = "job.status-changed"
	TopicJobDeleted       Topic = "job.deleted"
	TopicCVUploaded       Topic = "cv.uploaded"
	TopicCVStatusChanged  Topic = "cv.status-changed"
)

// Event is the unit delivered to subscribers.
type Event struct {
	ID         string      `json:"id"`
	Topic      Topic       `json:"topic"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// FillJobFormEvent is the payload published on TopicFillJobForm.
type FillJobFormEvent struct {
	RequestID string                 `json:"requestId"`
	Fields    models.JobFieldPayload `json:"fields"`
}

// JobEvent is the payload for job lifecycle topics.
type JobEvent struct {
	Job models.JobRequisition `json:"job"`
}

// CVEvent is the payload for CV lifecycle topics.
type CVEvent struct {
	JobID string    `json:"jobId"`
	CV    models.CV `json:"cv"`
}

// Bus is a topic-keyed fan-out of buffered channels. Publish never blocks:
// a subscriber that cannot keep up loses events (counted, logged) rather than
// stalling the publishing store operation.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic]map[int]chan Event
	nextID int
	buffer int
	closed bool
	logger logger.Logger
}

func NewBus(bufferSize int, log logger.Logger) *Bus {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Bus{
		subs:   make(map[Topic]map[int]chan Event),
		buffer: bufferSize,
		logger: log.WithFields(map[string]interface{}{"component": "event-bus"}),
	}
}

// Subscribe registers interest in a topic. The returned cancel func removes
// the subscription and closes the channel; it is safe to call twice.
func (b *Bus) Subscribe(topic Topic) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan Event)
	}
	b.subs[topic][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if subs, ok := b.subs[topic]; ok {
				if c, ok := subs[id]; ok {
					delete(subs, id)
					close(c)
				}
			}
		})
	}
	return ch, cancel
}

// Publish delivers the payload to every current subscriber of the topic.
func (b *Bus) Publish(ctx context.Context, topic Topic, payload interface{}) {
	evt := Event{
		ID:         uuid.New().String(),
		Topic:      topic,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subs[topic] {
		select {
		case ch <- evt:
		default:
			metrics.EventsDroppedTotal.WithLabelValues(string(topic)).Inc()
			b.logger.Warn("subscriber channel full, event dropped", map[string]interface{}{
				"topic":   string(topic),
				"eventId": evt.ID,
			})
		}
	}
}

// Close tears down all subscriptions. Publishing after Close is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for topic, subs := range b.subs {
		for id, ch := range subs {
			delete(subs, id)
			close(ch)
		}
		delete(b.subs, topic)
	}
}
