package notify

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu       sync.Mutex
	failures int
	sent     []string
	done     chan struct{}
}

func (r *recordingSender) Send(chatID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return errors.New("send failed")
	}
	r.sent = append(r.sent, text)
	select {
	case r.done <- struct{}{}:
	default:
	}
	return nil
}

func (r *recordingSender) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sent...)
}

func TestDispatcherDelivers(t *testing.T) {
	sender := &recordingSender{done: make(chan struct{}, 1)}
	d := NewDispatcher(sender, 8)
	d.Start()
	defer d.Stop()

	d.Enqueue("42", "hello")

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
	assert.Equal(t, []string{"hello"}, sender.messages())
}

func TestDispatcherRetriesOnFailure(t *testing.T) {
	sender := &recordingSender{failures: 2, done: make(chan struct{}, 1)}
	d := NewDispatcher(sender, 8)
	d.retryDelay = 10 * time.Millisecond
	d.Start()
	defer d.Stop()

	d.Enqueue("42", "eventually")

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered after retries")
	}
	assert.Equal(t, []string{"eventually"}, sender.messages())
}

func TestDispatcherGivesUpAfterMaxAttempts(t *testing.T) {
	sender := &recordingSender{failures: 100, done: make(chan struct{}, 1)}
	d := NewDispatcher(sender, 8)
	d.retryDelay = 5 * time.Millisecond
	d.Start()
	defer d.Stop()

	d.Enqueue("42", "doomed")

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, sender.messages())

	sender.mu.Lock()
	attempts := 100 - sender.failures
	sender.mu.Unlock()
	assert.Equal(t, d.maxAttempts, attempts)
}

func TestDispatcherFullQueueDrops(t *testing.T) {
	sender := &recordingSender{done: make(chan struct{}, 1)}
	d := NewDispatcher(sender, 1)
	// Worker not started: the queue fills and further messages drop
	// without blocking.
	d.Enqueue("42", "first")
	require.NotPanics(t, func() { d.Enqueue("42", "second") })
	assert.Len(t, d.queue, 1)
}
