// Package errors defines the failure kinds shared by every handler.
// Each operation fails with exactly one kind so callers can branch
// with errors.Is instead of parsing messages.
package errors

import "fmt"

// Failure kinds. Specific errors below wrap one of these.
var (
	ErrNotFound         = fmt.Errorf("not found")
	ErrConflict         = fmt.Errorf("conflict")
	ErrForbidden        = fmt.Errorf("forbidden")
	ErrInvalidOperation = fmt.Errorf("invalid operation")
	ErrUnauthorized     = fmt.Errorf("unauthorized")
	ErrValidation       = fmt.Errorf("validation failed")
)

var (
	ErrUserNotFound      = fmt.Errorf("%w: user", ErrNotFound)
	ErrGroupNotFound     = fmt.Errorf("%w: group", ErrNotFound)
	ErrMessageNotFound   = fmt.Errorf("%w: message", ErrNotFound)
	ErrContactNotFound   = fmt.Errorf("%w: contact not in user's contact list", ErrConflict)
	ErrMemberNotFound    = fmt.Errorf("%w: user is not a member of the group", ErrNotFound)
	ErrUsernameTaken     = fmt.Errorf("%w: username already taken", ErrConflict)
	ErrContactExists     = fmt.Errorf("%w: contact already exists", ErrConflict)
	ErrAlreadyMember     = fmt.Errorf("%w: user is already a member of the group", ErrConflict)
	ErrGroupFull         = fmt.Errorf("%w: group has reached maximum capacity", ErrConflict)
	ErrNotGroupCreator   = fmt.Errorf("%w: only the group creator may do this", ErrForbidden)
	ErrNotGroupMember    = fmt.Errorf("%w: user is not a member of this group", ErrForbidden)
	ErrSelfContact       = fmt.Errorf("%w: a user cannot be its own contact", ErrInvalidOperation)
	ErrCreatorRemoval    = fmt.Errorf("%w: cannot remove the group creator", ErrInvalidOperation)
	ErrAmbiguousTarget   = fmt.Errorf("%w: message must target exactly one of user or group", ErrInvalidOperation)
	ErrInvalidCredential = fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	ErrTokenGeneration   = fmt.Errorf("token generation failed")
)
