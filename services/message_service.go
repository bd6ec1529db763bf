package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-app/auth"
	"chat-app/contract"
	"chat-app/domain"
	"chat-app/domain/chat"
	"chat-app/errors"
	"chat-app/repositories"
)

type IMessageService interface {
	SendMessage(ctx context.Context, cmd chat.SendMessageCommand) (MessageDTO, error)
	GetMessages(ctx context.Context, query chat.GetMessagesQuery) (contract.PaginatedResult[MessageDTO], error)
}

// MessageDTO denormalizes the sender's public fields so a client can
// render the message without a second lookup.
type MessageDTO struct {
	ID               uuid.UUID
	Content          string
	SenderID         uuid.UUID
	SenderUsername   string
	SenderName       string
	SentAt           time.Time
	RecipientUserID  *uuid.UUID
	RecipientGroupID *uuid.UUID
}

// ContentFilter rewrites outgoing content before it is persisted.
type ContentFilter interface {
	Censor(content string) string
}

type MessageService struct {
	userRepository    repositories.IUserRepository
	groupRepository   repositories.IGroupRepository
	messageRepository repositories.IMessageRepository
	filter            ContentFilter
	log               *slog.Logger
}

// NewMessageService accepts a nil filter, which disables moderation.
func NewMessageService(
	userRepository repositories.IUserRepository,
	groupRepository repositories.IGroupRepository,
	messageRepository repositories.IMessageRepository,
	filter ContentFilter,
	log *slog.Logger,
) IMessageService {
	return &MessageService{
		userRepository:    userRepository,
		groupRepository:   groupRepository,
		messageRepository: messageRepository,
		filter:            filter,
		log:               log,
	}
}

func (s *MessageService) SendMessage(ctx context.Context, cmd chat.SendMessageCommand) (MessageDTO, error) {
	// Cheap structural checks first, storage after.
	if err := auth.ValidateMessageContent(cmd.Content); err != nil {
		return MessageDTO{}, err
	}
	if (cmd.RecipientUserID == nil) == (cmd.RecipientGroupID == nil) {
		return MessageDTO{}, errors.ErrAmbiguousTarget
	}
	if err := ctx.Err(); err != nil {
		return MessageDTO{}, err
	}

	sender, err := s.userRepository.GetByID(cmd.SenderID)
	if err != nil {
		return MessageDTO{}, err
	}

	if cmd.RecipientUserID != nil {
		if _, err := s.userRepository.GetByID(*cmd.RecipientUserID); err != nil {
			return MessageDTO{}, err
		}
	} else {
		group, err := s.groupRepository.GetByID(*cmd.RecipientGroupID)
		if err != nil {
			return MessageDTO{}, err
		}
		// Posting requires membership; a group address is not a public
		// mailbox.
		if !group.IsMember(cmd.SenderID) {
			return MessageDTO{}, errors.ErrNotGroupMember
		}
	}

	content := cmd.Content
	if s.filter != nil {
		content = s.filter.Censor(content)
	}

	message, err := domain.NewMessage(content, cmd.SenderID, cmd.RecipientUserID, cmd.RecipientGroupID)
	if err != nil {
		return MessageDTO{}, err
	}
	if err := s.messageRepository.Add(message); err != nil {
		return MessageDTO{}, err
	}

	s.log.Debug("Message sent", "sender", sender.Username, "direct", message.IsDirect())
	return toMessageDTO(message, sender), nil
}

func (s *MessageService) GetMessages(ctx context.Context, query chat.GetMessagesQuery) (contract.PaginatedResult[MessageDTO], error) {
	var empty contract.PaginatedResult[MessageDTO]

	if err := contract.ValidatePage(query.Page, query.PageSize); err != nil {
		return empty, err
	}
	if (query.RecipientUserID == nil) == (query.RecipientGroupID == nil) {
		return empty, errors.ErrAmbiguousTarget
	}
	if err := ctx.Err(); err != nil {
		return empty, err
	}

	if _, err := s.userRepository.GetByID(query.UserID); err != nil {
		return empty, err
	}

	var messages []domain.Message
	if query.RecipientUserID != nil {
		if _, err := s.userRepository.GetByID(*query.RecipientUserID); err != nil {
			return empty, err
		}
		fetched, err := s.messageRepository.GetDirect(query.UserID, *query.RecipientUserID)
		if err != nil {
			return empty, err
		}
		messages = fetched
	} else {
		group, err := s.groupRepository.GetByID(*query.RecipientGroupID)
		if err != nil {
			return empty, err
		}
		if !group.IsMember(query.UserID) {
			return empty, errors.ErrNotGroupMember
		}
		fetched, err := s.messageRepository.GetGroup(*query.RecipientGroupID)
		if err != nil {
			return empty, err
		}
		messages = fetched
	}

	page := contract.Paginate(messages, query.Page, query.PageSize)

	// Resolve sender profiles once per distinct sender on the page.
	senders := make(map[uuid.UUID]domain.User)
	for _, message := range page.Items {
		if _, seen := senders[message.SenderID]; seen {
			continue
		}
		sender, err := s.userRepository.GetByID(message.SenderID)
		if err != nil {
			return empty, err
		}
		senders[message.SenderID] = sender
	}

	return contract.PaginatedResult[MessageDTO]{
		Items: lo.Map(page.Items, func(message domain.Message, _ int) MessageDTO {
			return toMessageDTO(message, senders[message.SenderID])
		}),
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
	}, nil
}

func toMessageDTO(message domain.Message, sender domain.User) MessageDTO {
	return MessageDTO{
		ID:               message.ID,
		Content:          message.Content,
		SenderID:         message.SenderID,
		SenderUsername:   sender.Username,
		SenderName:       sender.Name,
		SentAt:           message.SentAt,
		RecipientUserID:  message.RecipientUserID,
		RecipientGroupID: message.RecipientGroupID,
	}
}
