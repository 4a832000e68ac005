package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentAlreadyExists = errors.New("payment already exists")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrProviderUnsupported  = errors.New("provider is not supported")
	ErrCallbackRejected     = errors.New("callback rejected")

	// ErrNotificationMismatch is a verified notification whose order, amount
	// or currency differ from the stored payment.
	ErrNotificationMismatch = fmt.Errorf("%w: notification does not match payment", ErrCallbackRejected)
)
