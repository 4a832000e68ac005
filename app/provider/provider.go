package provider

import (
	"context"
	"errors"
)

// ErrInvalidInput marks a payment the provider refused to build from the
// caller's data.
var ErrInvalidInput = errors.New("invalid provider input")

type CreateInput struct {
	RequestID     string
	CallbackHash  string
	ResourceType  string
	ResourceID    string
	AmountCents   int64
	Currency      string
	PaymentMethod int32
	PaymentType   int32

	CustomerRef  *string
	CustomerName string
	Description  string
	Language     string
	Metadata     map[string]string

	SuccessURL string
	CancelURL  string
}

// CheckoutForm holds the fields a browser posts to the provider endpoint.
type CheckoutForm struct {
	Endpoint           string
	SignatureVersion   string
	MerchantParameters string
	Signature          string
}

type CreateOutput struct {
	ProviderPaymentID   *string
	CheckoutURL         *string
	CheckoutForm        *CheckoutForm
	ProviderCallbackURL string
	InitialStatus       int32
}

type CallbackEvent struct {
	ProviderEventID   *string
	ProviderPaymentID *string
	EventType         string
	NewStatus         int32

	AmountCents int64
	Currency    string

	RemoteID      *string
	RemoteState   *string
	FailureReason *string

	// Fields are the authenticated notification values, kept for the event log.
	Fields map[string]any
}

type Provider interface {
	Code() int32
	CreatePayment(ctx context.Context, input *CreateInput) (*CreateOutput, error)
	VerifyAndParseCallback(ctx context.Context, payload []byte, signature string) (*CallbackEvent, error)
}

// PayloadRedactor is implemented by providers whose callback bodies carry
// cardholder data. The result is what gets stored for the callback.
type PayloadRedactor interface {
	RedactPayload(payload []byte) []byte
}
