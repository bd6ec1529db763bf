package repositories

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chat-app/domain"
	"chat-app/errors"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewUserRepository(db)

	user := domain.NewUser("alice", "Alice", "$argon2id$...")
	req.NoError(repository.Create(user))

	byUsername, err := repository.GetByUsername("alice")
	req.NoError(err)
	req.Equal(user, byUsername)

	byID, err := repository.GetByID(user.ID)
	req.NoError(err)
	req.Equal(user, byID)
}

func TestUserRepository_CreateDuplicateUsername(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewUserRepository(db)

	req.NoError(repository.Create(domain.NewUser("alice", "Alice", "h1")))

	err := repository.Create(domain.NewUser("alice", "Imposter", "h2"))
	req.ErrorIs(err, errors.ErrUsernameTaken)
	req.ErrorIs(err, errors.ErrConflict)
}

func TestUserRepository_GetMissing(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewUserRepository(db)

	_, err := repository.GetByUsername("ghost")
	req.ErrorIs(err, errors.ErrUserNotFound)

	_, err = repository.GetByID(uuid.New())
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewUserRepository(db)

	user := domain.NewUser("alice", "Alice", "h1")
	req.NoError(repository.Create(user))

	user.Rename("Alice Cooper")
	req.NoError(repository.Update(user))

	fetched, err := repository.GetByID(user.ID)
	req.NoError(err)
	req.Equal("Alice Cooper", fetched.Name)

	req.ErrorIs(repository.Update(domain.NewUser("ghost", "Ghost", "h")), errors.ErrUserNotFound)
}
