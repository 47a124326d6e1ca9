package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sender delivers one message to one recipient.
type Sender interface {
	Send(chatID, text string) error
}

// NopSender discards every message. Used when no delivery channel is
// configured.
type NopSender struct{}

func (NopSender) Send(chatID, text string) error { return nil }

type message struct {
	chatID   string
	text     string
	attempts int
}

// Dispatcher decouples result recording from message delivery: Enqueue
// never blocks, a single worker drains the queue, and a failed delivery
// is retried with backoff before being dropped. The recording
// transaction has already committed by the time a message is here, so
// delivery problems are logged and swallowed, never surfaced.
type Dispatcher struct {
	sender      Sender
	queue       chan message
	maxAttempts int
	retryDelay  time.Duration

	quit chan struct{}
	wg   sync.WaitGroup
}

func NewDispatcher(sender Sender, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Dispatcher{
		sender:      sender,
		queue:       make(chan message, queueSize),
		maxAttempts: 3,
		retryDelay:  5 * time.Second,
		quit:        make(chan struct{}),
	}
}

// Start launches the delivery worker.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
}

// Stop shuts the worker down. Messages still queued are dropped with a
// warning.
func (d *Dispatcher) Stop() {
	close(d.quit)
	d.wg.Wait()
	if n := len(d.queue); n > 0 {
		zap.S().Warnf("notify: dropping %d undelivered messages on shutdown", n)
	}
}

// Enqueue hands a message to the worker. A full queue drops the message
// rather than blocking the caller.
func (d *Dispatcher) Enqueue(chatID, text string) {
	select {
	case d.queue <- message{chatID: chatID, text: text}:
	default:
		zap.S().Warnf("notify: queue full, dropping message for chat %s", chatID)
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case <-d.quit:
			return
		case msg := <-d.queue:
			d.deliver(msg)
		}
	}
}

func (d *Dispatcher) deliver(msg message) {
	err := d.sender.Send(msg.chatID, msg.text)
	if err == nil {
		return
	}

	msg.attempts++
	if msg.attempts >= d.maxAttempts {
		zap.S().Errorf("notify: giving up on message for chat %s after %d attempts: %v",
			msg.chatID, msg.attempts, err)
		return
	}

	zap.S().Warnf("notify: delivery to chat %s failed (attempt %d): %v", msg.chatID, msg.attempts, err)
	time.AfterFunc(d.retryDelay, func() {
		select {
		case d.queue <- msg:
		case <-d.quit:
		}
	})
}
