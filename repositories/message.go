//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"chat-app/domain"
	"chat-app/errors"
)

type IMessageRepository interface {
	Add(message domain.Message) error
	GetByID(id uuid.UUID) (domain.Message, error)
	GetDirect(userA, userB uuid.UUID) ([]domain.Message, error)
	GetGroup(groupID uuid.UUID) ([]domain.Message, error)
}

// MessageRepository stores messages under conversation-scoped keys:
//
//	dm:{loID}:{hiID}:{timestamp_padded}:{msgID}
//	gm:{groupID}:{timestamp_padded}:{msgID}
//	msg:{msgID} -> primary key
//
// The 19-digit zero-padded UnixNano makes lexicographic order equal to
// chronological order, and the message UUID breaks ties when two
// messages land on the same nanosecond. Both directions of a direct
// conversation share one prefix because the user pair is normalized.
type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, log: log}
}

type messageRecord struct {
	ID               string  `json:"id"`
	Content          string  `json:"content"`
	SenderID         string  `json:"sender_id"`
	SentAt           int64   `json:"sent_at"`
	RecipientUserID  *string `json:"recipient_user_id,omitempty"`
	RecipientGroupID *string `json:"recipient_group_id,omitempty"`
}

func directPrefix(userA, userB uuid.UUID) string {
	lo, hi := userA.String(), userB.String()
	if lo > hi {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("dm:%s:%s:", lo, hi)
}

func groupPrefix(groupID uuid.UUID) string {
	return fmt.Sprintf("gm:%s:", groupID)
}

func primaryKey(message domain.Message) string {
	var prefix string
	if message.IsDirect() {
		prefix = directPrefix(message.SenderID, *message.RecipientUserID)
	} else {
		prefix = groupPrefix(*message.RecipientGroupID)
	}
	return fmt.Sprintf("%s%019d:%s", prefix, message.SentAt.UnixNano(), message.ID)
}

func pointerKey(id uuid.UUID) []byte {
	return []byte("msg:" + id.String())
}

// Add persists the record and the id pointer in one transaction.
func (r *MessageRepository) Add(message domain.Message) error {
	data, err := json.Marshal(fromMessage(message))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	key := primaryKey(message)
	r.log.Debug("Storing message", "key", key)

	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(key), data); err != nil {
			return err
		}
		return txn.Set(pointerKey(message.ID), []byte(key))
	})
}

func (r *MessageRepository) GetByID(id uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(pointerKey(id))
		if err != nil {
			return err
		}
		var primary []byte
		if err := item.Value(func(val []byte) error {
			primary = append(primary, val...)
			return nil
		}); err != nil {
			return err
		}
		item, err = txn.Get(primary)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var record messageRecord
			if err := json.Unmarshal(val, &record); err != nil {
				return err
			}
			message, err = toMessage(record)
			return err
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, errors.ErrMessageNotFound
	}
	return message, err
}

// GetDirect returns every message between the two users, both
// directions, ascending by sent time.
func (r *MessageRepository) GetDirect(userA, userB uuid.UUID) ([]domain.Message, error) {
	return r.scan([]byte(directPrefix(userA, userB)))
}

// GetGroup returns every message addressed to the group, ascending by
// sent time.
func (r *MessageRepository) GetGroup(groupID uuid.UUID) ([]domain.Message, error) {
	return r.scan([]byte(groupPrefix(groupID)))
}

func (r *MessageRepository) scan(prefix []byte) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record messageRecord
				if err := json.Unmarshal(val, &record); err != nil {
					return err
				}
				message, err := toMessage(record)
				if err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return messages, err
}

func fromMessage(message domain.Message) messageRecord {
	record := messageRecord{
		ID:       message.ID.String(),
		Content:  message.Content,
		SenderID: message.SenderID.String(),
		SentAt:   message.SentAt.UnixNano(),
	}
	if message.RecipientUserID != nil {
		s := message.RecipientUserID.String()
		record.RecipientUserID = &s
	}
	if message.RecipientGroupID != nil {
		s := message.RecipientGroupID.String()
		record.RecipientGroupID = &s
	}
	return record
}

func toMessage(record messageRecord) (domain.Message, error) {
	id, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Message{}, err
	}
	senderID, err := uuid.Parse(record.SenderID)
	if err != nil {
		return domain.Message{}, err
	}
	message := domain.Message{
		ID:       id,
		Content:  record.Content,
		SenderID: senderID,
		SentAt:   time.Unix(0, record.SentAt).UTC(),
	}
	if record.RecipientUserID != nil {
		recipient, err := uuid.Parse(*record.RecipientUserID)
		if err != nil {
			return domain.Message{}, err
		}
		message.RecipientUserID = &recipient
	}
	if record.RecipientGroupID != nil {
		recipient, err := uuid.Parse(*record.RecipientGroupID)
		if err != nil {
			return domain.Message{}, err
		}
		message.RecipientGroupID = &recipient
	}
	return message, nil
}
