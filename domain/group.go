package domain

import (
	"time"

	"github.com/google/uuid"

	"chat-app/errors"
)

// MaxGroupMembers caps the member set, creator included.
const MaxGroupMembers = 300

// Group is a named conversation owned by its creator. The creator is
// always a member and holds exclusive rights over membership and
// deletion. The member set is only reachable through the methods below,
// so no caller can build a group that violates the cap or drops the
// creator.
type Group struct {
	ID        uuid.UUID
	Name      string
	CreatorID uuid.UUID
	CreatedAt time.Time
	memberIDs []uuid.UUID
}

// NewGroup seeds the member set with the creator.
func NewGroup(name string, creatorID uuid.UUID) Group {
	return Group{
		ID:        uuid.New(),
		Name:      name,
		CreatorID: creatorID,
		CreatedAt: time.Now().UTC(),
		memberIDs: []uuid.UUID{creatorID},
	}
}

// RestoreGroup rebuilds a group from storage without re-running creation
// rules. Used by repositories only.
func RestoreGroup(id uuid.UUID, name string, creatorID uuid.UUID, createdAt time.Time, memberIDs []uuid.UUID) Group {
	return Group{
		ID:        id,
		Name:      name,
		CreatorID: creatorID,
		CreatedAt: createdAt,
		memberIDs: memberIDs,
	}
}

// MemberIDs returns a copy of the member set in insertion order.
func (g *Group) MemberIDs() []uuid.UUID {
	out := make([]uuid.UUID, len(g.memberIDs))
	copy(out, g.memberIDs)
	return out
}

func (g *Group) IsMember(userID uuid.UUID) bool {
	for _, id := range g.memberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (g *Group) IsCreator(userID uuid.UUID) bool {
	return g.CreatorID == userID
}

// AddMember appends a user, rejecting duplicates and the capacity cap.
func (g *Group) AddMember(userID uuid.UUID) error {
	if g.IsMember(userID) {
		return errors.ErrAlreadyMember
	}
	if len(g.memberIDs) >= MaxGroupMembers {
		return errors.ErrGroupFull
	}
	g.memberIDs = append(g.memberIDs, userID)
	return nil
}

// RemoveMember drops a user from the member set. The creator is checked
// first and can never be removed, even by themselves.
func (g *Group) RemoveMember(userID uuid.UUID) error {
	if userID == g.CreatorID {
		return errors.ErrCreatorRemoval
	}
	for i, id := range g.memberIDs {
		if id == userID {
			g.memberIDs = append(g.memberIDs[:i], g.memberIDs[i+1:]...)
			return nil
		}
	}
	return errors.ErrMemberNotFound
}
