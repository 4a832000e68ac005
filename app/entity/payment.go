package entity

import "time"

const (
	CallbackDeliveryNone    int32 = 0
	CallbackDeliveryPending int32 = 1
	CallbackDeliverySuccess int32 = 10
	CallbackDeliveryFailed  int32 = 20
)

// CheckoutForm is the signed form a browser posts to the gateway.
type CheckoutForm struct {
	Endpoint           string `json:"endpoint"`
	SignatureVersion   string `json:"signature_version"`
	MerchantParameters string `json:"merchant_parameters"`
	Signature          string `json:"signature"`
}

type Payment struct {
	ID uint64

	RequestID     string
	CallerService string

	ResourceType string
	ResourceID   string
	CustomerRef  *string
	CustomerName *string
	Description  *string

	AmountCents int64
	Currency    string

	Status        int32
	PaymentMethod int32
	PaymentType   int32
	Provider      int32
	Language      *string

	// ProviderPaymentID is the gateway order number.
	ProviderPaymentID *string
	CheckoutURL       *string
	CheckoutForm      *CheckoutForm

	ProviderCallbackHash string
	ProviderCallbackURL  string

	StatusCallbackURL string

	RemoteID      *string
	RemoteState   *string
	FailureReason *string

	Metadata map[string]string

	CallbackDeliveryStatus   int32
	CallbackDeliveryAttempts int32
	CallbackDeliveryNextAt   *time.Time
	CallbackDeliveryLastErr  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
