package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-app/auth"
	"chat-app/domain"
	"chat-app/errors"
	"chat-app/repositories"
)

type IGroupService interface {
	CreateGroup(ctx context.Context, name string, creatorID uuid.UUID) (GroupDTO, error)
	AddMember(ctx context.Context, groupID, requesterID, newMemberID uuid.UUID) error
	RemoveMember(ctx context.Context, groupID, requesterID, memberID uuid.UUID) error
	DeleteGroup(ctx context.Context, groupID, requesterID uuid.UUID) error
	GetGroup(ctx context.Context, groupID, requesterID uuid.UUID) (GroupDTO, error)
	ListUserGroups(ctx context.Context, userID uuid.UUID) ([]GroupDTO, error)
}

type GroupMemberDTO struct {
	ID       uuid.UUID
	Username string
	Name     string
}

type GroupDTO struct {
	ID          uuid.UUID
	Name        string
	CreatorID   uuid.UUID
	CreatorName string
	CreatedAt   time.Time
	Members     []GroupMemberDTO
}

type GroupService struct {
	userRepository  repositories.IUserRepository
	groupRepository repositories.IGroupRepository
}

func NewGroupService(
	userRepository repositories.IUserRepository,
	groupRepository repositories.IGroupRepository,
) IGroupService {
	return &GroupService{
		userRepository:  userRepository,
		groupRepository: groupRepository,
	}
}

func (s *GroupService) CreateGroup(ctx context.Context, name string, creatorID uuid.UUID) (GroupDTO, error) {
	if err := auth.ValidateGroupName(name); err != nil {
		return GroupDTO{}, err
	}
	if err := ctx.Err(); err != nil {
		return GroupDTO{}, err
	}
	creator, err := s.userRepository.GetByID(creatorID)
	if err != nil {
		return GroupDTO{}, err
	}

	group := domain.NewGroup(name, creatorID)
	if err := s.groupRepository.Add(group); err != nil {
		return GroupDTO{}, err
	}

	return GroupDTO{
		ID:          group.ID,
		Name:        group.Name,
		CreatorID:   creatorID,
		CreatorName: creator.Name,
		CreatedAt:   group.CreatedAt,
		Members: []GroupMemberDTO{{
			ID:       creator.ID,
			Username: creator.Username,
			Name:     creator.Name,
		}},
	}, nil
}

// AddMember is a creator-only operation. Duplicates and the capacity
// cap are rejected by the entity itself, so no path around the checks
// exists.
func (s *GroupService) AddMember(ctx context.Context, groupID, requesterID, newMemberID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	group, err := s.groupRepository.GetByID(groupID)
	if err != nil {
		return err
	}
	if !group.IsCreator(requesterID) {
		return errors.ErrNotGroupCreator
	}
	if _, err := s.userRepository.GetByID(newMemberID); err != nil {
		return err
	}
	if err := group.AddMember(newMemberID); err != nil {
		return err
	}
	return s.groupRepository.Update(group)
}

func (s *GroupService) RemoveMember(ctx context.Context, groupID, requesterID, memberID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	group, err := s.groupRepository.GetByID(groupID)
	if err != nil {
		return err
	}
	if !group.IsCreator(requesterID) {
		return errors.ErrNotGroupCreator
	}
	// The entity rejects creator removal before looking at membership.
	if err := group.RemoveMember(memberID); err != nil {
		return err
	}
	return s.groupRepository.Update(group)
}

func (s *GroupService) DeleteGroup(ctx context.Context, groupID, requesterID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	group, err := s.groupRepository.GetByID(groupID)
	if err != nil {
		return err
	}
	if !group.IsCreator(requesterID) {
		return errors.ErrNotGroupCreator
	}
	return s.groupRepository.Delete(groupID)
}

// GetGroup checks existence before membership, so an outsider probing a
// missing group sees "not found", not "forbidden".
func (s *GroupService) GetGroup(ctx context.Context, groupID, requesterID uuid.UUID) (GroupDTO, error) {
	if err := ctx.Err(); err != nil {
		return GroupDTO{}, err
	}
	group, err := s.groupRepository.GetByID(groupID)
	if err != nil {
		return GroupDTO{}, err
	}
	if !group.IsMember(requesterID) {
		return GroupDTO{}, errors.ErrNotGroupMember
	}
	return s.toGroupDTO(group)
}

func (s *GroupService) ListUserGroups(ctx context.Context, userID uuid.UUID) ([]GroupDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := s.userRepository.GetByID(userID); err != nil {
		return nil, err
	}
	groups, err := s.groupRepository.GetForUser(userID)
	if err != nil {
		return nil, err
	}

	dtos := make([]GroupDTO, 0, len(groups))
	for _, group := range groups {
		dto, err := s.toGroupDTO(group)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

func (s *GroupService) toGroupDTO(group domain.Group) (GroupDTO, error) {
	members := make([]domain.User, 0, len(group.MemberIDs()))
	for _, memberID := range group.MemberIDs() {
		member, err := s.userRepository.GetByID(memberID)
		if err != nil {
			return GroupDTO{}, err
		}
		members = append(members, member)
	}

	creatorName := ""
	for _, member := range members {
		if member.ID == group.CreatorID {
			creatorName = member.Name
			break
		}
	}

	return GroupDTO{
		ID:          group.ID,
		Name:        group.Name,
		CreatorID:   group.CreatorID,
		CreatorName: creatorName,
		CreatedAt:   group.CreatedAt,
		Members: lo.Map(members, func(member domain.User, _ int) GroupMemberDTO {
			return GroupMemberDTO{
				ID:       member.ID,
				Username: member.Username,
				Name:     member.Name,
			}
		}),
	}, nil
}
