package errors

import (
	"errors"
)

var (
	ErrRemoteQuery          = errors.New("remote store query failed")
	ErrRemoteWrite          = errors.New("remote store write failed")
	ErrValidation           = errors.New("validation failed")
	ErrInvalidProduct       = errors.New("product id must not be empty")
	ErrInvalidQuantity      = errors.New("quantity must be between 0 and 2147483647")
	ErrProductNotFound      = errors.New("product not found")
	ErrSessionNotFound      = errors.New("cart session not found")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrSubmissionInProgress = errors.New("order submission is already in progress")
	ErrCheckoutClosed       = errors.New("checkout is already completed")
	ErrOrderFailed          = errors.New("failed creating order, please try again")
)
