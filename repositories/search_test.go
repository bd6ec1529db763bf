package repositories

import (
	"context"
	"testing"

	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"

	"chat-app/domain"
)

func openTestIndex(t *testing.T) *UserSearchIndex {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewUserSearchIndex(writer)
}

func TestUserSearchIndex_SubstringMatch(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	ctx := context.Background()

	alice := domain.NewUser("alice", "Alice Cooper", "h")
	bob := domain.NewUser("bob", "Bob Marley", "h")
	req.NoError(index.Index(alice))
	req.NoError(index.Index(bob))

	t.Run("should match a username substring case-insensitively", func(t *testing.T) {
		req := require.New(t)
		hits, total, err := index.Search(ctx, "LIC", 0, 10)
		req.NoError(err)
		req.Equal(uint64(1), total)
		req.Len(hits, 1)
		req.Equal(alice.ID.String(), hits[0].ID)
		req.Equal("alice", hits[0].Username)
	})

	t.Run("should match a display name substring", func(t *testing.T) {
		req := require.New(t)
		hits, total, err := index.Search(ctx, "marley", 0, 10)
		req.NoError(err)
		req.Equal(uint64(1), total)
		req.Equal(bob.ID.String(), hits[0].ID)
	})

	t.Run("should return nothing for a foreign term", func(t *testing.T) {
		req := require.New(t)
		hits, total, err := index.Search(ctx, "zelda", 0, 10)
		req.NoError(err)
		req.Zero(total)
		req.Empty(hits)
	})
}

func TestUserSearchIndex_ReindexReplacesDocument(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	ctx := context.Background()

	user := domain.NewUser("alice", "Alice", "h")
	req.NoError(index.Index(user))

	user.Rename("Alicia Keys")
	req.NoError(index.Index(user))

	hits, total, err := index.Search(ctx, "alicia", 0, 10)
	req.NoError(err)
	req.Equal(uint64(1), total)
	req.Equal("Alicia Keys", hits[0].Name)

	// The old name must be gone
	_, total, err = index.Search(ctx, "cooper", 0, 10)
	req.NoError(err)
	req.Zero(total)
}

func TestUserSearchIndex_OffsetPagination(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	ctx := context.Background()

	for _, username := range []string{"dev-one", "dev-two", "dev-three", "dev-four", "dev-five"} {
		req.NoError(index.Index(domain.NewUser(username, "Developer", "h")))
	}

	page1, total, err := index.Search(ctx, "dev", 0, 2)
	req.NoError(err)
	req.Equal(uint64(5), total)
	req.Len(page1, 2)

	page3, total, err := index.Search(ctx, "dev", 4, 2)
	req.NoError(err)
	req.Equal(uint64(5), total)
	req.Len(page3, 1)

	beyond, total, err := index.Search(ctx, "dev", 10, 2)
	req.NoError(err)
	req.Equal(uint64(5), total)
	req.Empty(beyond)
}
