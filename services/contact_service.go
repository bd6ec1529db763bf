package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"chat-app/domain"
	"chat-app/repositories"
)

type IContactService interface {
	AddContact(ctx context.Context, userID, contactID uuid.UUID) (ContactDTO, error)
	RemoveContact(ctx context.Context, userID, contactID uuid.UUID) error
	ListContacts(ctx context.Context, userID uuid.UUID) ([]ContactDTO, error)
}

type ContactDTO struct {
	ID       uuid.UUID
	Username string
	Name     string
	AddedAt  time.Time
}

type ContactService struct {
	userRepository    repositories.IUserRepository
	contactRepository repositories.IContactRepository
}

func NewContactService(
	userRepository repositories.IUserRepository,
	contactRepository repositories.IContactRepository,
) IContactService {
	return &ContactService{
		userRepository:    userRepository,
		contactRepository: contactRepository,
	}
}

// AddContact establishes the relationship for both users at once: the
// repository commits the symmetric edge atomically, and the duplicate
// check lives inside that same commit.
func (s *ContactService) AddContact(ctx context.Context, userID, contactID uuid.UUID) (ContactDTO, error) {
	if err := ctx.Err(); err != nil {
		return ContactDTO{}, err
	}
	if _, err := s.userRepository.GetByID(userID); err != nil {
		return ContactDTO{}, err
	}
	contact, err := s.userRepository.GetByID(contactID)
	if err != nil {
		return ContactDTO{}, err
	}

	pair, err := domain.NewContactPair(userID, contactID)
	if err != nil {
		return ContactDTO{}, err
	}
	if err := s.contactRepository.Add(pair); err != nil {
		return ContactDTO{}, err
	}

	return ContactDTO{
		ID:       contact.ID,
		Username: contact.Username,
		Name:     contact.Name,
		AddedAt:  time.Now().UTC(),
	}, nil
}

func (s *ContactService) RemoveContact(ctx context.Context, userID, contactID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.userRepository.GetByID(userID); err != nil {
		return err
	}
	if _, err := s.userRepository.GetByID(contactID); err != nil {
		return err
	}

	pair, err := domain.NewContactPair(userID, contactID)
	if err != nil {
		return err
	}
	return s.contactRepository.Remove(pair)
}

func (s *ContactService) ListContacts(ctx context.Context, userID uuid.UUID) ([]ContactDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := s.userRepository.GetByID(userID); err != nil {
		return nil, err
	}

	contactIDs, err := s.contactRepository.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	contacts := make([]ContactDTO, 0, len(contactIDs))
	for _, contactID := range contactIDs {
		contact, err := s.userRepository.GetByID(contactID)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, ContactDTO{
			ID:       contact.ID,
			Username: contact.Username,
			Name:     contact.Name,
			AddedAt:  time.Now().UTC(),
		})
	}
	return contacts, nil
}
