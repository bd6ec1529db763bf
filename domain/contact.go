package domain

import (
	"strings"

	"github.com/google/uuid"

	"chat-app/errors"
)

// ContactPair is the symmetric contact relationship between two distinct
// users, normalized so the lexicographically lower ID comes first. One
// edge record covers both directions, which is what makes adds and
// removals symmetric by construction.
type ContactPair struct {
	Lo uuid.UUID
	Hi uuid.UUID
}

// NewContactPair normalizes the pair. A user cannot be its own contact.
func NewContactPair(a, b uuid.UUID) (ContactPair, error) {
	if a == b {
		return ContactPair{}, errors.ErrSelfContact
	}
	if strings.Compare(a.String(), b.String()) > 0 {
		a, b = b, a
	}
	return ContactPair{Lo: a, Hi: b}, nil
}

// Other returns the endpoint opposite to the given user.
func (p ContactPair) Other(userID uuid.UUID) uuid.UUID {
	if p.Lo == userID {
		return p.Hi
	}
	return p.Lo
}
