package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitdesk/internal/common/logger"
	"recruitdesk/internal/models"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := NewBus(4, logger.NewTestLogger(t))
	defer bus.Close()

	ch1, cancel1 := bus.Subscribe(TopicJobCreated)
	defer cancel1()
	ch2, cancel2 := bus.Subscribe(TopicJobCreated)
	defer cancel2()
	other, cancelOther := bus.Subscribe(TopicJobDeleted)
	defer cancelOther()

	bus.Publish(context.Background(), TopicJobCreated, JobEvent{Job: models.JobRequisition{ID: "1"}})

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case evt := <-ch:
			assert.Equal(t, TopicJobCreated, evt.Topic)
			assert.NotEmpty(t, evt.ID)
			payload, ok := evt.Payload.(JobEvent)
			require.True(t, ok)
			assert.Equal(t, "1", payload.Job.ID)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed event")
		}
	}

	select {
	case <-other:
		t.Fatal("event leaked to another topic")
	default:
	}
}

func TestPublishDropsWhenSubscriberIsFull(t *testing.T) {
	bus := NewBus(1, logger.NewTestLogger(t))
	defer bus.Close()

	ch, cancel := bus.Subscribe(TopicCVUploaded)
	defer cancel()

	ctx := context.Background()
	bus.Publish(ctx, TopicCVUploaded, CVEvent{JobID: "1"})
	bus.Publish(ctx, TopicCVUploaded, CVEvent{JobID: "2"}) // dropped, buffer is full

	evt := <-ch
	payload := evt.Payload.(CVEvent)
	assert.Equal(t, "1", payload.JobID)

	select {
	case <-ch:
		t.Fatal("second event should have been dropped")
	default:
	}
}

func TestCancelClosesChannel(t *testing.T) {
	bus := NewBus(4, logger.NewTestLogger(t))
	defer bus.Close()

	ch, cancel := bus.Subscribe(TopicJobCreated)
	cancel()
	cancel() // safe to call twice

	_, open := <-ch
	assert.False(t, open)

	// publishing after cancel must not panic
	bus.Publish(context.Background(), TopicJobCreated, JobEvent{})
}

func TestCloseShutsDownEverything(t *testing.T) {
	bus := NewBus(4, logger.NewTestLogger(t))

	ch, cancel := bus.Subscribe(TopicJobCreated)
	bus.Close()

	_, open := <-ch
	assert.False(t, open)

	// all of these are no-ops after close
	bus.Publish(context.Background(), TopicJobCreated, JobEvent{})
	bus.Close()
	cancel()

	late, lateCancel := bus.Subscribe(TopicJobCreated)
	defer lateCancel()
	_, open = <-late
	assert.False(t, open, "subscriptions after close are born closed")
}
