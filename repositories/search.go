//go:generate go run go.uber.org/mock/mockgen -source=search.go -destination=../mocks/mock_user_search_index.go -package=mocks
package repositories

import (
	"context"
	"strings"

	"github.com/blugelabs/bluge"

	"chat-app/domain"
)

type IUserSearchIndex interface {
	Index(user domain.User) error
	Search(ctx context.Context, term string, from, size int) ([]UserHit, uint64, error)
}

// UserHit is a search projection: the public profile fields stored in
// the index, enough to render a result without touching Badger.
type UserHit struct {
	ID       string
	Username string
	Name     string
}

// UserSearchIndex serves the case-insensitive substring search over
// username and display name. Documents are keyed by user id, so
// re-indexing after a rename replaces the previous entry.
type UserSearchIndex struct {
	writer *bluge.Writer
}

func NewUserSearchIndex(writer *bluge.Writer) *UserSearchIndex {
	return &UserSearchIndex{writer: writer}
}

func (s *UserSearchIndex) Index(user domain.User) error {
	doc := bluge.NewDocument(user.ID.String()).
		AddField(bluge.NewTextField("username", user.Username).StoreValue()).
		AddField(bluge.NewTextField("name", user.Name).StoreValue())
	return s.writer.Update(doc.ID(), doc)
}

// Search matches the lowercased term as a substring of either field.
// Wildcard terms are not analyzed by bluge, so the lowering here is
// what makes the match case-insensitive against the analyzed fields.
func (s *UserSearchIndex) Search(ctx context.Context, term string, from, size int) ([]UserHit, uint64, error) {
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, 0, err
	}
	defer reader.Close()

	pattern := "*" + strings.ToLower(term) + "*"
	query := bluge.NewBooleanQuery().
		AddShould(bluge.NewWildcardQuery(pattern).SetField("username")).
		AddShould(bluge.NewWildcardQuery(pattern).SetField("name")).
		SetMinShould(1)

	request := bluge.NewTopNSearch(size, query).
		SetFrom(from).
		WithStandardAggregations()

	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, 0, err
	}

	var hits []UserHit
	match, err := iterator.Next()
	for err == nil && match != nil {
		var hit UserHit
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.ID = string(value)
			case "username":
				hit.Username = string(value)
			case "name":
				hit.Name = string(value)
			}
			return true
		})
		if visitErr != nil {
			return nil, 0, visitErr
		}
		hits = append(hits, hit)
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, 0, err
	}

	return hits, iterator.Aggregations().Count(), nil
}
