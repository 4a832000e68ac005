package entity

import "time"

// PaymentEvent records one status transition of a payment.
type PaymentEvent struct {
	ID        uint64
	PaymentID uint64
	EventType string

	OldStatus *int32
	NewStatus int32

	// ProviderEventID is the order number plus the gateway response code.
	ProviderEventID *string
	// ResponseCode is the Ds_Response value that caused the transition.
	ResponseCode *string
	// PayloadJSON holds the verified notification fields without card data.
	PayloadJSON *string

	CreatedAt time.Time
}
