package events

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHub() *Hub {
	return NewHub(slog.Default())
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	h := testHub()
	a, cancelA := h.Subscribe()
	b, cancelB := h.Subscribe()
	defer cancelA()
	defer cancelB()

	h.Publish(Change{Table: "properties", Action: ActionInsert, ID: "p-1"})

	for _, ch := range []<-chan Change{a, b} {
		select {
		case got := <-ch:
			assert.Equal(t, "properties", got.Table)
			assert.Equal(t, ActionInsert, got.Action)
			assert.Equal(t, "p-1", got.ID)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive change")
		}
	}
}

func TestCancelClosesChannel(t *testing.T) {
	h := testHub()
	ch, cancel := h.Subscribe()
	require.Equal(t, 1, h.SubscriberCount())

	cancel()
	assert.Equal(t, 0, h.SubscriberCount())

	_, open := <-ch
	assert.False(t, open)

	// Cancel is idempotent.
	cancel()
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	h := testHub()
	_, cancel := h.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			h.Publish(Change{Table: "properties", Action: ActionUpdate, ID: "p-1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on slow subscriber")
	}
}

func TestPublishAfterCancelIsSafe(t *testing.T) {
	h := testHub()
	_, cancel := h.Subscribe()
	cancel()

	h.Publish(Change{Table: "property_photos", Action: ActionDelete, ID: "ph-1"})
}
