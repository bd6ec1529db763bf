package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"chat-app/auth"
	"chat-app/domain"
	"chat-app/errors"
	"chat-app/repositories"
)

type IAuthService interface {
	Register(ctx context.Context, username, name, password string) (UserDTO, error)
	Login(ctx context.Context, username, password string) (LoginResult, error)
}

// UserDTO carries the public profile fields only; the credential hash
// never leaves the service layer.
type UserDTO struct {
	ID       uuid.UUID
	Username string
	Name     string
}

type LoginResult struct {
	Token    string
	Username string
}

type AuthService struct {
	userRepository repositories.IUserRepository
	searchIndex    repositories.IUserSearchIndex
	hasher         auth.IPasswordHasher
	tokens         auth.ITokenService
	log            *slog.Logger
}

func NewAuthService(
	userRepository repositories.IUserRepository,
	searchIndex repositories.IUserSearchIndex,
	hasher auth.IPasswordHasher,
	tokens auth.ITokenService,
	log *slog.Logger,
) IAuthService {
	return &AuthService{
		userRepository: userRepository,
		searchIndex:    searchIndex,
		hasher:         hasher,
		tokens:         tokens,
		log:            log,
	}
}

func (s *AuthService) Register(ctx context.Context, username, name, password string) (UserDTO, error) {
	// 1. Field constraints first, before any storage or hashing work.
	if err := auth.ValidateRegister(auth.RegisterRequest{
		Username: username,
		Name:     name,
		Password: password,
	}); err != nil {
		return UserDTO{}, err
	}
	if err := ctx.Err(); err != nil {
		return UserDTO{}, err
	}

	// 2. Fast uniqueness check. The repository re-checks inside its
	// commit, so a concurrent registration still cannot slip through.
	if _, err := s.userRepository.GetByUsername(username); err == nil {
		return UserDTO{}, errors.ErrUsernameTaken
	} else if !stderrors.Is(err, errors.ErrUserNotFound) {
		return UserDTO{}, err
	}

	// 3. Hash before persisting so the repository never sees the plain
	// password.
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return UserDTO{}, fmt.Errorf("hashing failed: %w", err)
	}

	user := domain.NewUser(username, name, hash)
	if err := s.userRepository.Create(user); err != nil {
		return UserDTO{}, err
	}

	// The search index is derived data; a failed index write must not
	// undo a committed registration.
	if err := s.searchIndex.Index(user); err != nil {
		s.log.Warn("User registered but search indexing failed", "username", username, "err", err)
	}

	return toUserDTO(user), nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	if err := ctx.Err(); err != nil {
		return LoginResult{}, err
	}

	// One shared error for unknown user and bad password, so the
	// response never confirms whether a username exists.
	user, err := s.userRepository.GetByUsername(username)
	if err != nil {
		return LoginResult{}, errors.ErrInvalidCredential
	}

	match, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil || !match {
		return LoginResult{}, errors.ErrInvalidCredential
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return LoginResult{}, errors.ErrTokenGeneration
	}

	return LoginResult{Token: token, Username: user.Username}, nil
}

func toUserDTO(user domain.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
	}
}
