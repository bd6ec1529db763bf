package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-app/domain"
	"chat-app/errors"
	"chat-app/mocks"
	"chat-app/repositories"
)

func TestUserService_SearchUsers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	mockIndex := mocks.NewMockIUserSearchIndex(ctrl)
	svc := NewUserService(mockRepo, mockIndex, discardLogger())
	ctx := context.Background()

	t.Run("should search with a zero based offset and report totals", func(t *testing.T) {
		req := require.New(t)
		aliceID := uuid.New()

		mockIndex.EXPECT().
			Search(ctx, "ali", 10, 10).
			Return([]repositories.UserHit{
				{ID: aliceID.String(), Username: "alice", Name: "Alice Doe"},
			}, uint64(11), nil).
			Times(1)

		result, err := svc.SearchUsers(ctx, "ali", 2, 10)

		req.NoError(err)
		req.Len(result.Items, 1)
		req.Equal(aliceID, result.Items[0].ID)
		req.Equal("alice", result.Items[0].Username)
		req.Equal(11, result.TotalCount)
		req.Equal(2, result.TotalPages)
	})

	t.Run("should reject invalid pagination before hitting the index", func(t *testing.T) {
		req := require.New(t)

		mockIndex.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.SearchUsers(ctx, "ali", 0, 10)

		req.ErrorIs(err, errors.ErrValidation)
	})

	t.Run("should return an empty result for no matches", func(t *testing.T) {
		req := require.New(t)

		mockIndex.EXPECT().
			Search(ctx, "zzz", 0, 10).
			Return(nil, uint64(0), nil).
			Times(1)

		result, err := svc.SearchUsers(ctx, "zzz", 1, 10)

		req.NoError(err)
		req.Empty(result.Items)
		req.Equal(0, result.TotalCount)
		req.Equal(0, result.TotalPages)
	})
}

func TestUserService_GetUserByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	mockIndex := mocks.NewMockIUserSearchIndex(ctrl)
	svc := NewUserService(mockRepo, mockIndex, discardLogger())
	ctx := context.Background()

	alice := domain.NewUser("alice", "Alice Doe", "hash")

	t.Run("should return the profile for an existing user", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().GetByID(alice.ID).Return(alice, nil).Times(1)

		dto, err := svc.GetUserByID(ctx, alice.ID)

		req.NoError(err)
		req.NotNil(dto)
		req.Equal("alice", dto.Username)
	})

	t.Run("should return nil without error for a missing user", func(t *testing.T) {
		req := require.New(t)
		ghostID := uuid.New()

		mockRepo.EXPECT().GetByID(ghostID).Return(domain.User{}, errors.ErrUserNotFound).Times(1)

		dto, err := svc.GetUserByID(ctx, ghostID)

		req.NoError(err)
		req.Nil(dto)
	})

	t.Run("should surface storage failures", func(t *testing.T) {
		req := require.New(t)
		userID := uuid.New()

		mockRepo.EXPECT().
			GetByID(userID).
			Return(domain.User{}, fmt.Errorf("disk failure")).
			Times(1)

		_, err := svc.GetUserByID(ctx, userID)

		req.Error(err)
	})
}

func TestUserService_UpdateUserName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	mockIndex := mocks.NewMockIUserSearchIndex(ctrl)
	svc := NewUserService(mockRepo, mockIndex, discardLogger())
	ctx := context.Background()

	alice := domain.NewUser("alice", "Alice Doe", "hash")

	t.Run("should rename and refresh the search index", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().GetByID(alice.ID).Return(alice, nil).Times(1)
		mockRepo.EXPECT().
			Update(gomock.Any()).
			DoAndReturn(func(user domain.User) error {
				req.Equal("Alice Cooper", user.Name)
				req.Equal("alice", user.Username)
				return nil
			}).
			Times(1)
		mockIndex.EXPECT().Index(gomock.Any()).Return(nil).Times(1)

		updated, err := svc.UpdateUserName(ctx, alice.ID, "Alice Cooper")

		req.NoError(err)
		req.True(updated)
	})

	t.Run("should report false for a missing user", func(t *testing.T) {
		req := require.New(t)
		ghostID := uuid.New()

		mockRepo.EXPECT().GetByID(ghostID).Return(domain.User{}, errors.ErrUserNotFound).Times(1)
		mockRepo.EXPECT().Update(gomock.Any()).Times(0)

		updated, err := svc.UpdateUserName(ctx, ghostID, "New Name")

		req.NoError(err)
		req.False(updated)
	})

	t.Run("should reject an empty display name", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().GetByID(gomock.Any()).Times(0)

		_, err := svc.UpdateUserName(ctx, alice.ID, "")

		req.ErrorIs(err, errors.ErrValidation)
	})

	t.Run("should still report success when index refresh fails", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().GetByID(alice.ID).Return(alice, nil).Times(1)
		mockRepo.EXPECT().Update(gomock.Any()).Return(nil).Times(1)
		mockIndex.EXPECT().Index(gomock.Any()).Return(fmt.Errorf("index write failed")).Times(1)

		updated, err := svc.UpdateUserName(ctx, alice.ID, "Alice Cooper")

		req.NoError(err)
		req.True(updated)
	})
}
