//go:generate go run go.uber.org/mock/mockgen -source=contact.go -destination=../mocks/mock_contact_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"chat-app/domain"
	"chat-app/errors"
)

type IContactRepository interface {
	Add(pair domain.ContactPair) error
	Remove(pair domain.ContactPair) error
	Exists(pair domain.ContactPair) (bool, error)
	ListForUser(userID uuid.UUID) ([]uuid.UUID, error)
}

// ContactRepository stores each relationship as one normalized edge plus
// an index entry per endpoint. Edge and index entries always move
// together inside a single transaction, which is what keeps the
// relationship symmetric from the caller's point of view.
type ContactRepository struct {
	db *badger.DB
}

func NewContactRepository(db *badger.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func edgeKey(pair domain.ContactPair) []byte {
	return []byte("contact:" + pair.Lo.String() + ":" + pair.Hi.String())
}

func indexKey(owner, other uuid.UUID) []byte {
	return []byte("contactidx:" + owner.String() + ":" + other.String())
}

// Add commits the edge and both index entries, or nothing. The
// duplicate check runs inside the same transaction.
func (r *ContactRepository) Add(pair domain.ContactPair) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(edgeKey(pair)); err == nil {
			return errors.ErrContactExists
		} else if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(edgeKey(pair), nil); err != nil {
			return err
		}
		if err := txn.Set(indexKey(pair.Lo, pair.Hi), nil); err != nil {
			return err
		}
		return txn.Set(indexKey(pair.Hi, pair.Lo), nil)
	})
}

func (r *ContactRepository) Remove(pair domain.ContactPair) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(edgeKey(pair)); err != nil {
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				return errors.ErrContactNotFound
			}
			return err
		}
		if err := txn.Delete(edgeKey(pair)); err != nil {
			return err
		}
		if err := txn.Delete(indexKey(pair.Lo, pair.Hi)); err != nil {
			return err
		}
		return txn.Delete(indexKey(pair.Hi, pair.Lo))
	})
}

func (r *ContactRepository) Exists(pair domain.ContactPair) (bool, error) {
	var exists bool
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(edgeKey(pair))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err == nil {
			exists = true
		}
		return err
	})
	return exists, err
}

// ListForUser scans the per-endpoint index. Contact lists are small
// enough that no pagination applies here.
func (r *ContactRepository) ListForUser(userID uuid.UUID) ([]uuid.UUID, error) {
	var contacts []uuid.UUID
	prefix := []byte("contactidx:" + userID.String() + ":")
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			raw := key[strings.LastIndex(key, ":")+1:]
			id, err := uuid.Parse(raw)
			if err != nil {
				return err
			}
			contacts = append(contacts, id)
		}
		return nil
	})
	return contacts, err
}
