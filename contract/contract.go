// Package contract holds the shared shapes exchanged between services
// and their callers.
package contract

import (
	"fmt"

	"chat-app/errors"
)

// MaxPageSize bounds server-side work per query.
const MaxPageSize = 100

// PaginatedResult is a 1-indexed window over an ordered result set.
type PaginatedResult[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalCount int
	TotalPages int
}

// ValidatePage rejects malformed pagination input before any storage
// access.
func ValidatePage(page, pageSize int) error {
	if page < 1 {
		return fmt.Errorf("%w: page must be >= 1, got %d", errors.ErrValidation, page)
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return fmt.Errorf("%w: pageSize must be within 1..%d, got %d", errors.ErrValidation, MaxPageSize, pageSize)
	}
	return nil
}

// Paginate slices the full ordered set. TotalPages is ceil(count/size);
// a window past the end clamps to an empty item list with the counts
// intact.
func Paginate[T any](items []T, page, pageSize int) PaginatedResult[T] {
	totalCount := len(items)
	totalPages := (totalCount + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > totalCount {
		start = totalCount
	}
	end := start + pageSize
	if end > totalCount {
		end = totalCount
	}

	return PaginatedResult[T]{
		Items:      items[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
