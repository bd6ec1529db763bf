//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"chat-app/domain"
	"chat-app/errors"
)

type IUserRepository interface {
	Create(user domain.User) error
	GetByID(id uuid.UUID) (domain.User, error)
	GetByUsername(username string) (domain.User, error)
	Update(user domain.User) error
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

// userRecord is the on-disk shape. Timestamps are stored as UnixNano so
// keys and values agree on precision.
type userRecord struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash"`
	CreatedAt    int64  `json:"created_at"`
}

func userKey(username string) []byte {
	return []byte("user:" + username)
}

func userIDKey(id uuid.UUID) []byte {
	return []byte("userid:" + id.String())
}

// Create persists the user under its natural key plus an id pointer.
// The uniqueness check runs inside the update transaction, so two
// concurrent registrations of the same username cannot both commit.
func (r *UserRepository) Create(user domain.User) error {
	data, err := json.Marshal(fromUser(user))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		key := userKey(user.Username)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUsernameTaken
		} else if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(userIDKey(user.ID), []byte(user.Username))
	})
}

func (r *UserRepository) GetByID(id uuid.UUID) (domain.User, error) {
	var user domain.User
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userIDKey(id))
		if err != nil {
			return err
		}
		var username []byte
		if err := item.Value(func(val []byte) error {
			username = append(username, val...)
			return nil
		}); err != nil {
			return err
		}
		user, err = getUser(txn, userKey(string(username)))
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	return user, err
}

func (r *UserRepository) GetByUsername(username string) (domain.User, error) {
	var user domain.User
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = getUser(txn, userKey(username))
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	return user, err
}

// Update rewrites the record in place. The username is immutable, so the
// natural key never moves.
func (r *UserRepository) Update(user domain.User) error {
	data, err := json.Marshal(fromUser(user))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(userKey(user.Username)); err != nil {
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				return errors.ErrUserNotFound
			}
			return err
		}
		return txn.Set(userKey(user.Username), data)
	})
}

// ReindexUsers replays every stored user into the search index. The
// index is derived data, so this is how it is rebuilt after a lost or
// wiped index directory.
func ReindexUsers(db *badger.DB, index IUserSearchIndex) (int, error) {
	var count int
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("user:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record userRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return err
			}
			user, err := toUser(record)
			if err != nil {
				return err
			}
			if err := index.Index(user); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	return count, err
}

func getUser(txn *badger.Txn, key []byte) (domain.User, error) {
	item, err := txn.Get(key)
	if err != nil {
		return domain.User{}, err
	}
	var record userRecord
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &record)
	}); err != nil {
		return domain.User{}, err
	}
	return toUser(record)
}

func fromUser(user domain.User) userRecord {
	return userRecord{
		ID:           user.ID.String(),
		Username:     user.Username,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt.UnixNano(),
	}
}

func toUser(record userRecord) (domain.User, error) {
	id, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		ID:           id,
		Username:     record.Username,
		Name:         record.Name,
		PasswordHash: record.PasswordHash,
		CreatedAt:    time.Unix(0, record.CreatedAt).UTC(),
	}, nil
}
