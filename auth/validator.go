package auth

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"chat-app/errors"
)

var validate = validator.New()

// RegisterRequest carries the field constraints checked before any
// storage or cryptographic work.
type RegisterRequest struct {
	Username string `validate:"required,min=3,max=50"`
	Name     string `validate:"required,max=100"`
	Password string `validate:"required,min=6,max=100"`
}

type GroupNameRequest struct {
	Name string `validate:"required,min=3,max=100"`
}

type MessageContentRequest struct {
	Content string `validate:"required,max=1000"`
}

type DisplayNameRequest struct {
	Name string `validate:"required,max=100"`
}

func ValidateRegister(req RegisterRequest) error {
	return wrap(validate.Struct(req))
}

func ValidateGroupName(name string) error {
	return wrap(validate.Struct(GroupNameRequest{Name: name}))
}

func ValidateMessageContent(content string) error {
	return wrap(validate.Struct(MessageContentRequest{Content: content}))
}

func ValidateDisplayName(name string) error {
	return wrap(validate.Struct(DisplayNameRequest{Name: name}))
}

func wrap(err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}
	return nil
}
