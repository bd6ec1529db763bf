package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chat-app/errors"
)

func TestNewMessage_ExclusiveRecipient(t *testing.T) {
	sender := uuid.New()
	user := uuid.New()
	group := uuid.New()

	t.Run("should accept a user recipient", func(t *testing.T) {
		req := require.New(t)
		msg, err := NewMessage("hello", sender, &user, nil)
		req.NoError(err)
		req.True(msg.IsDirect())
		req.Equal(user, *msg.RecipientUserID)
		req.Nil(msg.RecipientGroupID)
	})

	t.Run("should accept a group recipient", func(t *testing.T) {
		req := require.New(t)
		msg, err := NewMessage("hello", sender, nil, &group)
		req.NoError(err)
		req.False(msg.IsDirect())
		req.Equal(group, *msg.RecipientGroupID)
		req.Nil(msg.RecipientUserID)
	})

	t.Run("should reject both recipients", func(t *testing.T) {
		req := require.New(t)
		_, err := NewMessage("hello", sender, &user, &group)
		req.ErrorIs(err, errors.ErrAmbiguousTarget)
		req.ErrorIs(err, errors.ErrInvalidOperation)
	})

	t.Run("should reject no recipient", func(t *testing.T) {
		req := require.New(t)
		_, err := NewMessage("hello", sender, nil, nil)
		req.ErrorIs(err, errors.ErrAmbiguousTarget)
	})
}

func TestNewContactPair(t *testing.T) {
	t.Run("should normalize the pair order", func(t *testing.T) {
		req := require.New(t)
		a := uuid.New()
		b := uuid.New()

		p1, err := NewContactPair(a, b)
		req.NoError(err)
		p2, err := NewContactPair(b, a)
		req.NoError(err)

		req.Equal(p1, p2)
		req.Equal(p1.Other(a), b)
		req.Equal(p1.Other(b), a)
	})

	t.Run("should reject a self pair", func(t *testing.T) {
		req := require.New(t)
		a := uuid.New()
		_, err := NewContactPair(a, a)
		req.ErrorIs(err, errors.ErrSelfContact)
	})
}
