package services

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-app/auth"
	"chat-app/contract"
	"chat-app/errors"
	"chat-app/repositories"
)

type IUserService interface {
	SearchUsers(ctx context.Context, term string, page, pageSize int) (contract.PaginatedResult[UserDTO], error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateUserName(ctx context.Context, userID uuid.UUID, name string) (bool, error)
}

type UserService struct {
	userRepository repositories.IUserRepository
	searchIndex    repositories.IUserSearchIndex
	log            *slog.Logger
}

func NewUserService(
	userRepository repositories.IUserRepository,
	searchIndex repositories.IUserSearchIndex,
	log *slog.Logger,
) IUserService {
	return &UserService{
		userRepository: userRepository,
		searchIndex:    searchIndex,
		log:            log,
	}
}

func (s *UserService) SearchUsers(ctx context.Context, term string, page, pageSize int) (contract.PaginatedResult[UserDTO], error) {
	var empty contract.PaginatedResult[UserDTO]
	if err := contract.ValidatePage(page, pageSize); err != nil {
		return empty, err
	}

	hits, total, err := s.searchIndex.Search(ctx, term, (page-1)*pageSize, pageSize)
	if err != nil {
		return empty, err
	}

	items := make([]UserDTO, 0, len(hits))
	for _, hit := range hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			return empty, err
		}
		items = append(items, UserDTO{ID: id, Username: hit.Username, Name: hit.Name})
	}

	totalCount := int(total)
	return contract.PaginatedResult[UserDTO]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: (totalCount + pageSize - 1) / pageSize,
	}, nil
}

// GetUserByID treats a missing user as a normal outcome, not a failure:
// callers get (nil, nil) and decide for themselves.
func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	user, err := s.userRepository.GetByID(userID)
	if err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return lo.ToPtr(toUserDTO(user)), nil
}

// UpdateUserName renames the display name; the username stays fixed.
// Returns false for a missing user.
func (s *UserService) UpdateUserName(ctx context.Context, userID uuid.UUID, name string) (bool, error) {
	if err := auth.ValidateDisplayName(name); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	user, err := s.userRepository.GetByID(userID)
	if err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	user.Rename(name)
	if err := s.userRepository.Update(user); err != nil {
		return false, err
	}
	// The rename is committed; a failed index refresh only degrades
	// search until the next write.
	if err := s.searchIndex.Index(user); err != nil {
		s.log.Warn("User renamed but search indexing failed", "username", user.Username, "err", err)
	}
	return true, nil
}
