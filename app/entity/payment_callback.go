package entity

import "time"

// PaymentCallback is one notification received from a provider, kept whether
// it was processed or rejected.
type PaymentCallback struct {
	ID        uint64
	PaymentID *uint64
	RequestID string

	Provider     string
	CallbackHash string
	Signature    string
	Payload      string

	Status int32
	Error  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
