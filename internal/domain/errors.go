package domain

import "errors"

var (
	// ErrInvalidArgument is returned when a constructor or method receives malformed input
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidOperation is returned when a product variant does not support an operation
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrInvalidState is returned when an action is attempted on an inactive product
	ErrInvalidState = errors.New("invalid state")

	// ErrInsufficientStock is returned when a purchase exceeds available stock
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNotFound is returned when a referenced product is not a current store member
	ErrNotFound = errors.New("not found")
)
