package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-app/domain"
	"chat-app/domain/chat"
	"chat-app/errors"
	"chat-app/mocks"
)

type stubFilter struct{ replaced string }

func (f stubFilter) Censor(content string) string {
	return strings.ReplaceAll(content, f.replaced, strings.Repeat("*", len(f.replaced)))
}

func TestMessageService_SendMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockIUserRepository(ctrl)
	mockGroups := mocks.NewMockIGroupRepository(ctrl)
	mockMessages := mocks.NewMockIMessageRepository(ctrl)
	svc := NewMessageService(mockUsers, mockGroups, mockMessages, nil, discardLogger())
	ctx := context.Background()

	alice := domain.NewUser("alice", "Alice Doe", "hash")
	bob := domain.NewUser("bob", "Bob Doe", "hash")

	t.Run("should send a direct message and denormalize the sender", func(t *testing.T) {
		req := require.New(t)

		mockUsers.EXPECT().GetByID(alice.ID).Return(alice, nil).Times(1)
		mockUsers.EXPECT().GetByID(bob.ID).Return(bob, nil).Times(1)
		mockMessages.EXPECT().
			Add(gomock.Any()).
			DoAndReturn(func(message domain.Message) error {
				req.True(message.IsDirect())
				req.Equal(bob.ID, *message.RecipientUserID)
				return nil
			}).
			Times(1)

		dto, err := svc.SendMessage(ctx, chat.SendMessageCommand{
			Content:         "hello bob",
			SenderID:        alice.ID,
			RecipientUserID: lo.ToPtr(bob.ID),
		})

		req.NoError(err)
		req.Equal("hello bob", dto.Content)
		req.Equal("alice", dto.SenderUsername)
		req.Equal("Alice Doe", dto.SenderName)
	})

	t.Run("should send to a group the sender belongs to", func(t *testing.T) {
		req := require.New(t)
		group := domain.RestoreGroup(uuid.New(), "Team", alice.ID, time.Now().UTC(),
			[]uuid.UUID{alice.ID, bob.ID})

		mockUsers.EXPECT().GetByID(bob.ID).Return(bob, nil).Times(1)
		mockGroups.EXPECT().GetByID(group.ID).Return(group, nil).Times(1)
		mockMessages.EXPECT().Add(gomock.Any()).Return(nil).Times(1)

		dto, err := svc.SendMessage(ctx, chat.SendMessageCommand{
			Content:          "hello team",
			SenderID:         bob.ID,
			RecipientGroupID: lo.ToPtr(group.ID),
		})

		req.NoError(err)
		req.Equal(group.ID, *dto.RecipientGroupID)
		req.Nil(dto.RecipientUserID)
	})

	t.Run("should forbid posting to a group the sender is not in", func(t *testing.T) {
		req := require.New(t)
		group := domain.NewGroup("Team", alice.ID)

		mockUsers.EXPECT().GetByID(bob.ID).Return(bob, nil).Times(1)
		mockGroups.EXPECT().GetByID(group.ID).Return(group, nil).Times(1)
		mockMessages.EXPECT().Add(gomock.Any()).Times(0)

		_, err := svc.SendMessage(ctx, chat.SendMessageCommand{
			Content:          "let me in",
			SenderID:         bob.ID,
			RecipientGroupID: lo.ToPtr(group.ID),
		})

		req.ErrorIs(err, errors.ErrNotGroupMember)
		req.ErrorIs(err, errors.ErrForbidden)
	})

	t.Run("should reject a message addressed to both a user and a group", func(t *testing.T) {
		req := require.New(t)

		mockUsers.EXPECT().GetByID(gomock.Any()).Times(0)

		_, err := svc.SendMessage(ctx, chat.SendMessageCommand{
			Content:          "both",
			SenderID:         alice.ID,
			RecipientUserID:  lo.ToPtr(bob.ID),
			RecipientGroupID: lo.ToPtr(uuid.New()),
		})

		req.ErrorIs(err, errors.ErrAmbiguousTarget)
	})

	t.Run("should reject a message with no recipient at all", func(t *testing.T) {
		req := require.New(t)

		_, err := svc.SendMessage(ctx, chat.SendMessageCommand{
			Content:  "nobody",
			SenderID: alice.ID,
		})

		req.ErrorIs(err, errors.ErrAmbiguousTarget)
		req.ErrorIs(err, errors.ErrInvalidOperation)
	})

	t.Run("should reject empty and oversized content before any lookup", func(t *testing.T) {
		req := require.New(t)

		mockUsers.EXPECT().GetByID(gomock.Any()).Times(0)

		_, emptyErr := svc.SendMessage(ctx, chat.SendMessageCommand{
			Content:         "",
			SenderID:        alice.ID,
			RecipientUserID: lo.ToPtr(bob.ID),
		})
		_, longErr := svc.SendMessage(ctx, chat.SendMessageCommand{
			Content:         strings.Repeat("x", domain.MaxMessageLength+1),
			SenderID:        alice.ID,
			RecipientUserID: lo.ToPtr(bob.ID),
		})

		req.ErrorIs(emptyErr, errors.ErrValidation)
		req.ErrorIs(longErr, errors.ErrValidation)
	})

	t.Run("should fail when the recipient user does not exist", func(t *testing.T) {
		req := require.New(t)
		ghostID := uuid.New()

		mockUsers.EXPECT().GetByID(alice.ID).Return(alice, nil).Times(1)
		mockUsers.EXPECT().GetByID(ghostID).Return(domain.User{}, errors.ErrUserNotFound).Times(1)
		mockMessages.EXPECT().Add(gomock.Any()).Times(0)

		_, err := svc.SendMessage(ctx, chat.SendMessageCommand{
			Content:         "hello?",
			SenderID:        alice.ID,
			RecipientUserID: lo.ToPtr(ghostID),
		})

		req.ErrorIs(err, errors.ErrUserNotFound)
	})
}

func TestMessageService_SendMessage_Moderation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockIUserRepository(ctrl)
	mockGroups := mocks.NewMockIGroupRepository(ctrl)
	mockMessages := mocks.NewMockIMessageRepository(ctrl)
	svc := NewMessageService(mockUsers, mockGroups, mockMessages, stubFilter{replaced: "darn"}, discardLogger())
	ctx := context.Background()

	alice := domain.NewUser("alice", "Alice Doe", "hash")
	bob := domain.NewUser("bob", "Bob Doe", "hash")

	t.Run("should persist the censored content, not the original", func(t *testing.T) {
		req := require.New(t)

		mockUsers.EXPECT().GetByID(alice.ID).Return(alice, nil).Times(1)
		mockUsers.EXPECT().GetByID(bob.ID).Return(bob, nil).Times(1)
		mockMessages.EXPECT().
			Add(gomock.Any()).
			DoAndReturn(func(message domain.Message) error {
				req.Equal("**** it", message.Content)
				return nil
			}).
			Times(1)

		dto, err := svc.SendMessage(ctx, chat.SendMessageCommand{
			Content:         "darn it",
			SenderID:        alice.ID,
			RecipientUserID: lo.ToPtr(bob.ID),
		})

		req.NoError(err)
		req.Equal("**** it", dto.Content)
	})
}

func TestMessageService_GetMessages(t *testing.T) {
	// Each subtest gets its own controller: the AnyTimes expectations of
	// one subtest would otherwise absorb the Times(1) calls of the next.
	setup := func(t *testing.T) (*mocks.MockIUserRepository, *mocks.MockIGroupRepository, *mocks.MockIMessageRepository, IMessageService) {
		ctrl := gomock.NewController(t)
		mockUsers := mocks.NewMockIUserRepository(ctrl)
		mockGroups := mocks.NewMockIGroupRepository(ctrl)
		mockMessages := mocks.NewMockIMessageRepository(ctrl)
		svc := NewMessageService(mockUsers, mockGroups, mockMessages, nil, discardLogger())
		return mockUsers, mockGroups, mockMessages, svc
	}
	ctx := context.Background()

	alice := domain.NewUser("alice", "Alice Doe", "hash")
	bob := domain.NewUser("bob", "Bob Doe", "hash")

	directMessages := func(count int) []domain.Message {
		messages := make([]domain.Message, 0, count)
		for i := 0; i < count; i++ {
			message, err := domain.NewMessage("hi", alice.ID, lo.ToPtr(bob.ID), nil)
			require.NoError(t, err)
			messages = append(messages, message)
		}
		return messages
	}

	t.Run("should paginate 25 direct messages into pages of 10", func(t *testing.T) {
		req := require.New(t)
		mockUsers, _, mockMessages, svc := setup(t)
		conversation := directMessages(25)

		mockUsers.EXPECT().GetByID(alice.ID).Return(alice, nil).AnyTimes()
		mockUsers.EXPECT().GetByID(bob.ID).Return(bob, nil).AnyTimes()
		mockMessages.EXPECT().GetDirect(alice.ID, bob.ID).Return(conversation, nil).Times(1)

		result, err := svc.GetMessages(ctx, chat.GetMessagesQuery{
			UserID:          alice.ID,
			RecipientUserID: lo.ToPtr(bob.ID),
			Page:            3,
			PageSize:        10,
		})

		req.NoError(err)
		req.Equal(25, result.TotalCount)
		req.Equal(3, result.TotalPages)
		req.Len(result.Items, 5)
		req.Equal(conversation[20].ID, result.Items[0].ID)
		req.Equal("alice", result.Items[0].SenderUsername)
	})

	t.Run("should return an empty page past the end", func(t *testing.T) {
		req := require.New(t)
		mockUsers, _, mockMessages, svc := setup(t)
		conversation := directMessages(5)

		mockUsers.EXPECT().GetByID(alice.ID).Return(alice, nil).AnyTimes()
		mockUsers.EXPECT().GetByID(bob.ID).Return(bob, nil).AnyTimes()
		mockMessages.EXPECT().GetDirect(alice.ID, bob.ID).Return(conversation, nil).Times(1)

		result, err := svc.GetMessages(ctx, chat.GetMessagesQuery{
			UserID:          alice.ID,
			RecipientUserID: lo.ToPtr(bob.ID),
			Page:            4,
			PageSize:        10,
		})

		req.NoError(err)
		req.Empty(result.Items)
		req.Equal(5, result.TotalCount)
		req.Equal(1, result.TotalPages)
	})

	t.Run("should reject invalid pagination before any lookup", func(t *testing.T) {
		req := require.New(t)
		mockUsers, _, _, svc := setup(t)

		mockUsers.EXPECT().GetByID(gomock.Any()).Times(0)

		_, pageErr := svc.GetMessages(ctx, chat.GetMessagesQuery{
			UserID:          alice.ID,
			RecipientUserID: lo.ToPtr(bob.ID),
			Page:            0,
			PageSize:        10,
		})
		_, sizeErr := svc.GetMessages(ctx, chat.GetMessagesQuery{
			UserID:          alice.ID,
			RecipientUserID: lo.ToPtr(bob.ID),
			Page:            1,
			PageSize:        101,
		})

		req.ErrorIs(pageErr, errors.ErrValidation)
		req.ErrorIs(sizeErr, errors.ErrValidation)
	})

	t.Run("should reject a query addressed to both a user and a group", func(t *testing.T) {
		req := require.New(t)
		_, _, _, svc := setup(t)

		_, err := svc.GetMessages(ctx, chat.GetMessagesQuery{
			UserID:           alice.ID,
			RecipientUserID:  lo.ToPtr(bob.ID),
			RecipientGroupID: lo.ToPtr(uuid.New()),
			Page:             1,
			PageSize:         10,
		})

		req.ErrorIs(err, errors.ErrAmbiguousTarget)
	})

	t.Run("should forbid reading a group conversation as a non-member", func(t *testing.T) {
		req := require.New(t)
		mockUsers, mockGroups, mockMessages, svc := setup(t)
		group := domain.NewGroup("Team", alice.ID)

		mockUsers.EXPECT().GetByID(bob.ID).Return(bob, nil).Times(1)
		mockGroups.EXPECT().GetByID(group.ID).Return(group, nil).Times(1)
		mockMessages.EXPECT().GetGroup(gomock.Any()).Times(0)

		_, err := svc.GetMessages(ctx, chat.GetMessagesQuery{
			UserID:           bob.ID,
			RecipientGroupID: lo.ToPtr(group.ID),
			Page:             1,
			PageSize:         10,
		})

		req.ErrorIs(err, errors.ErrNotGroupMember)
	})

	t.Run("should read a group conversation as a member", func(t *testing.T) {
		req := require.New(t)
		mockUsers, mockGroups, mockMessages, svc := setup(t)
		group := domain.RestoreGroup(uuid.New(), "Team", alice.ID, time.Now().UTC(),
			[]uuid.UUID{alice.ID, bob.ID})
		message, err := domain.NewMessage("hello team", alice.ID, nil, lo.ToPtr(group.ID))
		req.NoError(err)

		mockUsers.EXPECT().GetByID(bob.ID).Return(bob, nil).Times(1)
		mockGroups.EXPECT().GetByID(group.ID).Return(group, nil).Times(1)
		mockMessages.EXPECT().GetGroup(group.ID).Return([]domain.Message{message}, nil).Times(1)
		mockUsers.EXPECT().GetByID(alice.ID).Return(alice, nil).Times(1)

		result, err := svc.GetMessages(ctx, chat.GetMessagesQuery{
			UserID:           bob.ID,
			RecipientGroupID: lo.ToPtr(group.ID),
			Page:             1,
			PageSize:         10,
		})

		req.NoError(err)
		req.Len(result.Items, 1)
		req.Equal("hello team", result.Items[0].Content)
		req.Equal("alice", result.Items[0].SenderUsername)
	})
}
