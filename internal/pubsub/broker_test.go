package pubsub

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBroker() *Broker {
	return &Broker{
		subscribers: make(map[string][]chan []byte),
		latest:      make(map[string][]byte),
	}
}

func TestBrokerPublishSubscribe(t *testing.T) {
	b := newTestBroker()

	ch, unsubscribe := b.Subscribe("scores")
	defer unsubscribe()

	b.Publish("scores", []byte("one"))
	assert.Equal(t, []byte("one"), <-ch)
}

func TestBrokerReplaysLatestOnSubscribe(t *testing.T) {
	b := newTestBroker()

	b.Publish("scores", []byte("stale"))
	b.Publish("scores", []byte("fresh"))

	ch, unsubscribe := b.Subscribe("scores")
	defer unsubscribe()

	// Only the most recent message is retained.
	assert.Equal(t, []byte("fresh"), <-ch)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra message: %s", extra)
	default:
	}
}

func TestBrokerUnsubscribeClosesChannel(t *testing.T) {
	b := newTestBroker()

	ch, unsubscribe := b.Subscribe("scores")
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe must not panic on the closed channel.
	require.NotPanics(t, func() { b.Publish("scores", []byte("late")) })
}

func TestBrokerFanOut(t *testing.T) {
	b := newTestBroker()

	const subscribers = 5
	var wg sync.WaitGroup
	for i := 0; i < subscribers; i++ {
		ch, unsubscribe := b.Subscribe("scores")
		defer unsubscribe()
		wg.Add(1)
		go func(ch <-chan []byte) {
			defer wg.Done()
			assert.Equal(t, []byte("hello"), <-ch)
		}(ch)
	}

	b.Publish("scores", []byte("hello"))
	wg.Wait()
}

func TestBrokerPublishJSON(t *testing.T) {
	b := newTestBroker()

	ch, unsubscribe := b.Subscribe("scores")
	defer unsubscribe()

	b.PublishJSON("scores", map[string]int{"points": 50})

	var event Event
	require.NoError(t, json.Unmarshal(<-ch, &event))
	assert.Equal(t, "scores", event.Topic)
	assert.JSONEq(t, `{"points":50}`, string(event.Data))
}
