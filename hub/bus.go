// Package hub implements the connection/broadcast core of the chat server:
// the process-wide bus, presence registry and access cache, the websocket
// gate, and the per-connection inbound/outbound pumps.
package hub

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Bus is the single process-wide fan-out channel. Every connection holds
// exactly one Subscription; external collaborators (the REST layer) publish
// raw JSON through the same Publish path as the hub itself.
//
// Delivery per subscriber is in publish order but with possible gaps: a
// subscriber that reads too slowly loses its oldest unread items instead of
// stalling the publisher. Bus is safe for concurrent use.
type Bus struct {
	mu          sync.Mutex
	log         *slog.Logger
	subscribers map[*Subscription]struct{}
	bufferSize  int
}

// Subscription is one subscriber's bounded queue. C is closed by Unsubscribe;
// consumers must treat a closed channel as end of stream.
type Subscription struct {
	C chan []byte
}

func NewBus(log *slog.Logger, bufferSize int) *Bus {
	return &Bus{
		log:         log,
		subscribers: make(map[*Subscription]struct{}),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a new bounded queue on the bus. Items published before
// this call are never seen by the new subscriber.
func (b *Bus) Subscribe() *Subscription {
	sub := &Subscription{C: make(chan []byte, b.bufferSize)}
	b.mu.Lock()
	b.subscribers[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Unsubscribe removes the subscription and closes its channel. Closing under
// the same lock Publish holds guarantees no send can race the close.
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[sub]; !ok {
		return
	}
	delete(b.subscribers, sub)
	close(sub.C)
}

// SubscriberCount reports how many queues are currently registered.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

// Publish enqueues raw into every subscriber queue without ever blocking.
// When a queue is full the oldest unread item is evicted to make room, so the
// slow subscriber skips forward instead of back-pressuring the publisher.
// Every channel operation below is non-blocking, so the lock is never held
// across a suspension point.
func (b *Bus) Publish(raw []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subscribers {
		select {
		case sub.C <- raw:
		default:
			select {
			case <-sub.C:
				b.log.Debug("slow subscriber, dropping oldest item")
			default:
			}
			select {
			case sub.C <- raw:
			default:
			}
		}
	}
}

// PublishJSON marshals v and publishes it. It is the typed entry point used
// by the hub and the Notifier; arbitrary pre-encoded payloads go through
// Publish directly.
func (b *Bus) PublishJSON(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b.Publish(raw)
	return nil
}
