package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidUserID   = errors.New("invalid user id")
)
