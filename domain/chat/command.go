// Package chat defines the command and query shapes accepted by the
// messaging service.
package chat

import "github.com/google/uuid"

// SendMessageCommand targets exactly one of RecipientUserID or
// RecipientGroupID; the service rejects anything else before touching
// storage.
type SendMessageCommand struct {
	Content          string
	SenderID         uuid.UUID
	RecipientUserID  *uuid.UUID
	RecipientGroupID *uuid.UUID
}

// GetMessagesQuery pages through one conversation: direct (both
// directions between UserID and RecipientUserID) or group.
type GetMessagesQuery struct {
	UserID           uuid.UUID
	RecipientUserID  *uuid.UUID
	RecipientGroupID *uuid.UUID
	Page             int
	PageSize         int
}
