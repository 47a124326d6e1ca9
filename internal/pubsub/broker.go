package pubsub

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Broker is a simple in-memory pub/sub system for live scoreboard and
// rating feeds. Unlike a log stream, a scoreboard only needs the most
// recent state, so the broker retains a single latest message per topic
// and replays it to new subscribers.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[string][]chan []byte
	latest      map[string][]byte
}

type Event struct {
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

var (
	once   sync.Once
	broker *Broker
)

// GetBroker returns the singleton instance of the Broker.
func GetBroker() *Broker {
	once.Do(func() {
		broker = &Broker{
			subscribers: make(map[string][]chan []byte),
			latest:      make(map[string][]byte),
		}
	})
	return broker
}

// Subscribe subscribes to a topic. The latest retained message, if any,
// is delivered first, then live messages.
func (b *Broker) Subscribe(topic string) (<-chan []byte, func()) {
	b.mu.Lock()

	ch := make(chan []byte, 64)
	if msg, ok := b.latest[topic]; ok {
		ch <- msg
	}
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subscribers := b.subscribers[topic]
		for i, sub := range subscribers {
			if sub == ch {
				b.subscribers[topic] = append(subscribers[:i], subscribers[i+1:]...)
				close(ch)
				break
			}
		}
		zap.S().Debugf("unsubscribed from topic %s", topic)
	}

	return ch, unsubscribe
}

// Publish delivers a message to all subscribers of a topic and retains
// it as the topic's latest state. Slow subscribers with a full channel
// miss the message rather than blocking the publisher.
func (b *Broker) Publish(topic string, msg []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest[topic] = msg

	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- msg:
		default:
		}
	}
}

// PublishJSON marshals v and publishes it wrapped in an Event envelope.
func (b *Broker) PublishJSON(topic string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		zap.S().Errorf("pubsub: failed to marshal event for topic %s: %v", topic, err)
		return
	}
	payload, err := json.Marshal(Event{Topic: topic, Data: data})
	if err != nil {
		zap.S().Errorf("pubsub: failed to marshal envelope for topic %s: %v", topic, err)
		return
	}
	b.Publish(topic, payload)
}
