package domain

import "errors"

var (
	ErrValidation          = errors.New("invalid checkout submission")
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrProviderRejected    = errors.New("payment provider rejected the session")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrMalformedEvent      = errors.New("malformed webhook event")
	ErrOrderNotFound       = errors.New("order not found")
	ErrForbidden           = errors.New("order does not belong to the caller")
)
