package models

// ChatMessage is one message in a household's chat room.
type ChatMessage struct {
	// ID is the unique identifier (UUID format).
	ID string

	// HouseholdID is the chat room the message belongs to.
	HouseholdID string

	// SenderID is the user ID of the author.
	SenderID string

	// SenderName is the author's display name at send time, denormalized
	// so history renders without a roster lookup.
	SenderName string

	Content string

	// Timestamp is the Unix millisecond timestamp the message was sent.
	Timestamp int64
}
