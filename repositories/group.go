//go:generate go run go.uber.org/mock/mockgen -source=group.go -destination=../mocks/mock_group_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"chat-app/domain"
	"chat-app/errors"
)

type IGroupRepository interface {
	Add(group domain.Group) error
	GetByID(id uuid.UUID) (domain.Group, error)
	GetForUser(userID uuid.UUID) ([]domain.Group, error)
	Update(group domain.Group) error
	Delete(id uuid.UUID) error
}

// GroupRepository keeps the group record under its id and one membership
// index entry per member, so GetForUser is a prefix scan instead of a
// full keyspace walk. Record and index entries move together inside a
// single transaction.
type GroupRepository struct {
	db *badger.DB
}

func NewGroupRepository(db *badger.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

type groupRecord struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	CreatorID string   `json:"creator_id"`
	CreatedAt int64    `json:"created_at"`
	MemberIDs []string `json:"member_ids"`
}

func groupKey(id uuid.UUID) []byte {
	return []byte("group:" + id.String())
}

func memberIndexKey(userID, groupID uuid.UUID) []byte {
	return []byte("groupidx:" + userID.String() + ":" + groupID.String())
}

func (r *GroupRepository) Add(group domain.Group) error {
	data, err := json.Marshal(fromGroup(group))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(groupKey(group.ID), data); err != nil {
			return err
		}
		for _, member := range group.MemberIDs() {
			if err := txn.Set(memberIndexKey(member, group.ID), nil); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GroupRepository) GetByID(id uuid.UUID) (domain.Group, error) {
	var group domain.Group
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		group, err = getGroup(txn, id)
		return err
	})
	return group, err
}

// GetForUser resolves the membership index, then loads each record in
// the same read transaction.
func (r *GroupRepository) GetForUser(userID uuid.UUID) ([]domain.Group, error) {
	var groups []domain.Group
	prefix := []byte("groupidx:" + userID.String() + ":")
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)

		var rawIDs []string
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			rawIDs = append(rawIDs, key[strings.LastIndex(key, ":")+1:])
		}
		it.Close()

		for _, raw := range rawIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return err
			}
			group, err := getGroup(txn, id)
			if err != nil {
				return err
			}
			groups = append(groups, group)
		}
		return nil
	})
	return groups, err
}

// Update rewrites the record and diffs the membership index against the
// stored state, removing index entries for dropped members and adding
// entries for new ones.
func (r *GroupRepository) Update(group domain.Group) error {
	data, err := json.Marshal(fromGroup(group))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		previous, err := getGroup(txn, group.ID)
		if err != nil {
			return err
		}

		current := make(map[uuid.UUID]struct{}, len(group.MemberIDs()))
		for _, member := range group.MemberIDs() {
			current[member] = struct{}{}
		}
		for _, member := range previous.MemberIDs() {
			if _, kept := current[member]; !kept {
				if err := txn.Delete(memberIndexKey(member, group.ID)); err != nil {
					return err
				}
			}
		}
		for member := range current {
			if err := txn.Set(memberIndexKey(member, group.ID), nil); err != nil {
				return err
			}
		}
		return txn.Set(groupKey(group.ID), data)
	})
}

// Delete removes the record and every membership index entry. Message
// history is untouched.
func (r *GroupRepository) Delete(id uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		group, err := getGroup(txn, id)
		if err != nil {
			return err
		}
		for _, member := range group.MemberIDs() {
			if err := txn.Delete(memberIndexKey(member, id)); err != nil {
				return err
			}
		}
		return txn.Delete(groupKey(id))
	})
}

func getGroup(txn *badger.Txn, id uuid.UUID) (domain.Group, error) {
	item, err := txn.Get(groupKey(id))
	if err != nil {
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return domain.Group{}, errors.ErrGroupNotFound
		}
		return domain.Group{}, err
	}
	var record groupRecord
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &record)
	}); err != nil {
		return domain.Group{}, err
	}
	return toGroup(record)
}

func fromGroup(group domain.Group) groupRecord {
	members := group.MemberIDs()
	memberIDs := make([]string, len(members))
	for i, member := range members {
		memberIDs[i] = member.String()
	}
	return groupRecord{
		ID:        group.ID.String(),
		Name:      group.Name,
		CreatorID: group.CreatorID.String(),
		CreatedAt: group.CreatedAt.UnixNano(),
		MemberIDs: memberIDs,
	}
}

func toGroup(record groupRecord) (domain.Group, error) {
	id, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Group{}, err
	}
	creatorID, err := uuid.Parse(record.CreatorID)
	if err != nil {
		return domain.Group{}, err
	}
	memberIDs := make([]uuid.UUID, len(record.MemberIDs))
	for i, raw := range record.MemberIDs {
		memberID, err := uuid.Parse(raw)
		if err != nil {
			return domain.Group{}, err
		}
		memberIDs[i] = memberID
	}
	return domain.RestoreGroup(id, record.Name, creatorID,
		time.Unix(0, record.CreatedAt).UTC(), memberIDs), nil
}
