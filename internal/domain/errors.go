package domain

import "github.com/pkg/errors"

var (
	ErrItemNotFound       = errors.New("catalog item not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrDuplicateOrder     = errors.New("order id already exists")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrMissingCredentials = errors.New("assistant credentials are not configured")
)
