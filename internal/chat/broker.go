// Package chat provides the household message board: persistence,
// in-process fan-out and WebSocket delivery.
package chat

import (
	"log/slog"
	"sync"

	"github.com/emel-04/FlatmateHarmony/internal/models"
)

// Broker fans messages out to live subscribers, one topic per
// household. It is purely in-process; persistence is the service's
// job, delivery to absent members happens via history on reconnect.
type Broker struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
	closed bool
}

// Subscription is a live feed of one household's messages. Callers
// must Cancel it when done or the broker leaks entries.
type Subscription struct {
	broker      *Broker
	householdID string
	ch          chan models.ChatMessage
	done        bool // guarded by broker.mu
}

// subscriptionBuffer bounds the per-subscriber queue. A subscriber
// that stops draining gets messages dropped, not a blocked publisher.
const subscriptionBuffer = 64

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{topics: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers a live feed for the given household. Subscribing
// on a closed broker returns an already-cancelled subscription.
func (b *Broker) Subscribe(householdID string) *Subscription {
	sub := &Subscription{
		broker:      b,
		householdID: householdID,
		ch:          make(chan models.ChatMessage, subscriptionBuffer),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		sub.done = true
		close(sub.ch)
		return sub
	}
	subs, ok := b.topics[householdID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		b.topics[householdID] = subs
	}
	subs[sub] = struct{}{}
	return sub
}

// Publish delivers a message to every live subscriber of its
// household. Slow subscribers are skipped.
func (b *Broker) Publish(msg models.ChatMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.topics[msg.HouseholdID] {
		select {
		case sub.ch <- msg:
		default:
			slog.Warn("chat subscriber buffer full, dropping message",
				"household_id", msg.HouseholdID, "message_id", msg.ID)
		}
	}
}

// Close shuts the broker down and cancels every subscription.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, subs := range b.topics {
		for sub := range subs {
			sub.done = true
			close(sub.ch)
		}
	}
	b.topics = make(map[string]map[*Subscription]struct{})
}

// C is the channel messages arrive on. It is closed when the
// subscription is cancelled or the broker shuts down.
func (s *Subscription) C() <-chan models.ChatMessage {
	return s.ch
}

// Cancel removes the subscription and closes its channel. Safe to call
// more than once.
func (s *Subscription) Cancel() {
	b := s.broker
	b.mu.Lock()
	defer b.mu.Unlock()
	if s.done {
		return
	}
	s.done = true
	if subs, ok := b.topics[s.householdID]; ok {
		delete(subs, s)
		if len(subs) == 0 {
			delete(b.topics, s.householdID)
		}
	}
	close(s.ch)
}
