package domain

import (
	"time"

	"github.com/google/uuid"

	"chat-app/errors"
)

// MaxMessageLength bounds message content, in characters.
const MaxMessageLength = 1000

// Message is an immutable record addressed to exactly one of a user or a
// group. Both recipient fields being set, or neither, is unrepresentable
// through the constructors.
type Message struct {
	ID               uuid.UUID
	Content          string
	SenderID         uuid.UUID
	SentAt           time.Time
	RecipientUserID  *uuid.UUID
	RecipientGroupID *uuid.UUID
}

// NewMessage validates the exclusive-recipient rule and stamps the
// message. Content length is validated upstream, before any storage
// access.
func NewMessage(content string, senderID uuid.UUID, recipientUserID, recipientGroupID *uuid.UUID) (Message, error) {
	if (recipientUserID == nil) == (recipientGroupID == nil) {
		return Message{}, errors.ErrAmbiguousTarget
	}
	return Message{
		ID:               uuid.New(),
		Content:          content,
		SenderID:         senderID,
		SentAt:           time.Now().UTC(),
		RecipientUserID:  recipientUserID,
		RecipientGroupID: recipientGroupID,
	}, nil
}

// IsDirect reports whether the message targets a single user.
func (m Message) IsDirect() bool {
	return m.RecipientUserID != nil
}
