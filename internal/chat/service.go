package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/emel-04/FlatmateHarmony/internal/models"
	"github.com/emel-04/FlatmateHarmony/internal/storage"
)

// ErrEmptyMessage is returned when a message has no content.
var ErrEmptyMessage = errors.New("message content required")

// historyLimit is how many recent messages a client gets on load.
const historyLimit = 100

// Service persists messages and fans them out to live subscribers.
// Persist-then-publish: a message a subscriber sees is always already
// in history.
type Service struct {
	store  storage.ChatStore
	broker *Broker
}

// NewService creates a chat service.
func NewService(store storage.ChatStore, broker *Broker) *Service {
	return &Service{store: store, broker: broker}
}

// Send stores a message and publishes it to live subscribers.
func (s *Service) Send(ctx context.Context, householdID, senderID, senderName, content string) (*models.ChatMessage, error) {
	if content == "" {
		return nil, ErrEmptyMessage
	}

	msg := &models.ChatMessage{
		ID:          uuid.New().String(),
		HouseholdID: householdID,
		SenderID:    senderID,
		SenderName:  senderName,
		Content:     content,
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	s.broker.Publish(*msg)
	return msg, nil
}

// History returns the most recent messages in chronological order.
func (s *Service) History(ctx context.Context, householdID string) ([]models.ChatMessage, error) {
	msgs, err := s.store.ListMessages(ctx, householdID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	return msgs, nil
}

// Subscribe opens a live feed for the household.
func (s *Service) Subscribe(householdID string) *Subscription {
	return s.broker.Subscribe(householdID)
}
