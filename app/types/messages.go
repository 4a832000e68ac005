package types

import "strconv"

type ProviderType int32

const (
	ProviderType_PROVIDER_TYPE_UNSPECIFIED ProviderType = 0
	ProviderType_PROVIDER_TYPE_REDSYS      ProviderType = 1
)

var ProviderType_name = map[int32]string{
	0: "PROVIDER_TYPE_UNSPECIFIED",
	1: "PROVIDER_TYPE_REDSYS",
}

func (x ProviderType) String() string {
	return enumName(ProviderType_name, int32(x))
}

type PaymentStatus int32

const (
	PaymentStatus_PAYMENT_STATUS_UNSPECIFIED PaymentStatus = 0
	PaymentStatus_PAYMENT_STATUS_CREATED     PaymentStatus = 1
	PaymentStatus_PAYMENT_STATUS_PENDING     PaymentStatus = 2
	PaymentStatus_PAYMENT_STATUS_PROCESSING  PaymentStatus = 3
	PaymentStatus_PAYMENT_STATUS_PAID        PaymentStatus = 10
	PaymentStatus_PAYMENT_STATUS_FAILED      PaymentStatus = 20
	PaymentStatus_PAYMENT_STATUS_CANCELED    PaymentStatus = 30
	PaymentStatus_PAYMENT_STATUS_EXPIRED     PaymentStatus = 40
)

var PaymentStatus_name = map[int32]string{
	0:  "PAYMENT_STATUS_UNSPECIFIED",
	1:  "PAYMENT_STATUS_CREATED",
	2:  "PAYMENT_STATUS_PENDING",
	3:  "PAYMENT_STATUS_PROCESSING",
	10: "PAYMENT_STATUS_PAID",
	20: "PAYMENT_STATUS_FAILED",
	30: "PAYMENT_STATUS_CANCELED",
	40: "PAYMENT_STATUS_EXPIRED",
}

func (x PaymentStatus) String() string {
	return enumName(PaymentStatus_name, int32(x))
}

// PaymentMethod selects the gateway pay methods offered on the payment page.
type PaymentMethod int32

const (
	PaymentMethod_PAYMENT_METHOD_UNSPECIFIED PaymentMethod = 0
	PaymentMethod_PAYMENT_METHOD_HOSTED_CARD PaymentMethod = 1
	PaymentMethod_PAYMENT_METHOD_BIZUM       PaymentMethod = 2
	PaymentMethod_PAYMENT_METHOD_TRANSFER    PaymentMethod = 3
)

var PaymentMethod_name = map[int32]string{
	0: "PAYMENT_METHOD_UNSPECIFIED",
	1: "PAYMENT_METHOD_HOSTED_CARD",
	2: "PAYMENT_METHOD_BIZUM",
	3: "PAYMENT_METHOD_TRANSFER",
}

func (x PaymentMethod) String() string {
	return enumName(PaymentMethod_name, int32(x))
}

// PaymentType TOKENIZED asks the gateway for a card reference usable in later
// merchant initiated payments.
type PaymentType int32

const (
	PaymentType_PAYMENT_TYPE_UNSPECIFIED PaymentType = 0
	PaymentType_PAYMENT_TYPE_ONE_TIME    PaymentType = 1
	PaymentType_PAYMENT_TYPE_TOKENIZED   PaymentType = 2
)

var PaymentType_name = map[int32]string{
	0: "PAYMENT_TYPE_UNSPECIFIED",
	1: "PAYMENT_TYPE_ONE_TIME",
	2: "PAYMENT_TYPE_TOKENIZED",
}

func (x PaymentType) String() string {
	return enumName(PaymentType_name, int32(x))
}

func enumName(names map[int32]string, v int32) string {
	if name, ok := names[v]; ok {
		return name
	}
	return strconv.FormatInt(int64(v), 10)
}

type Payment struct {
	Id                   uint64            `json:"id,omitempty"`
	RequestId            string            `json:"request_id,omitempty"`
	CallerService        string            `json:"caller_service,omitempty"`
	ResourceType         string            `json:"resource_type,omitempty"`
	ResourceId           string            `json:"resource_id,omitempty"`
	CustomerRef          string            `json:"customer_ref,omitempty"`
	CustomerName         string            `json:"customer_name,omitempty"`
	Description          string            `json:"description,omitempty"`
	AmountCents          int64             `json:"amount_cents,omitempty"`
	Currency             string            `json:"currency,omitempty"`
	Status               PaymentStatus     `json:"status,omitempty"`
	PaymentMethod        PaymentMethod     `json:"payment_method,omitempty"`
	PaymentType          PaymentType       `json:"payment_type,omitempty"`
	Provider             ProviderType      `json:"provider,omitempty"`
	Language             string            `json:"language,omitempty"`
	ProviderPaymentId    string            `json:"provider_payment_id,omitempty"`
	CheckoutUrl          string            `json:"checkout_url,omitempty"`
	ProviderCallbackHash string            `json:"provider_callback_hash,omitempty"`
	ProviderCallbackUrl  string            `json:"provider_callback_url,omitempty"`
	StatusCallbackUrl    string            `json:"status_callback_url,omitempty"`
	RemoteId             string            `json:"remote_id,omitempty"`
	RemoteState          string            `json:"remote_state,omitempty"`
	FailureReason        string            `json:"failure_reason,omitempty"`
	Metadata             map[string]string `json:"metadata,omitempty"`
	CreatedAt            string            `json:"created_at,omitempty"`
	UpdatedAt            string            `json:"updated_at,omitempty"`
}

func (x *Payment) GetId() uint64 {
	if x != nil {
		return x.Id
	}
	return 0
}

func (x *Payment) GetStatus() PaymentStatus {
	if x != nil {
		return x.Status
	}
	return PaymentStatus_PAYMENT_STATUS_UNSPECIFIED
}

func (x *Payment) GetCheckoutUrl() string {
	if x != nil {
		return x.CheckoutUrl
	}
	return ""
}

func (x *Payment) GetRemoteId() string {
	if x != nil {
		return x.RemoteId
	}
	return ""
}

func (x *Payment) GetMetadata() map[string]string {
	if x != nil {
		return x.Metadata
	}
	return nil
}

type CreatePaymentRequest struct {
	RequestId         string            `json:"request_id,omitempty"`
	CallerService     string            `json:"caller_service,omitempty"`
	ResourceType      string            `json:"resource_type,omitempty"`
	ResourceId        string            `json:"resource_id,omitempty"`
	CustomerRef       string            `json:"customer_ref,omitempty"`
	CustomerName      string            `json:"customer_name,omitempty"`
	Description       string            `json:"description,omitempty"`
	AmountCents       int64             `json:"amount_cents,omitempty"`
	Currency          string            `json:"currency,omitempty"`
	PaymentMethod     PaymentMethod     `json:"payment_method,omitempty"`
	PaymentType       PaymentType       `json:"payment_type,omitempty"`
	Provider          ProviderType      `json:"provider,omitempty"`
	Language          string            `json:"language,omitempty"`
	StatusCallbackUrl string            `json:"status_callback_url,omitempty"`
	SuccessUrl        string            `json:"success_url,omitempty"`
	CancelUrl         string            `json:"cancel_url,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

func (x *CreatePaymentRequest) GetRequestId() string {
	if x != nil {
		return x.RequestId
	}
	return ""
}

func (x *CreatePaymentRequest) GetCallerService() string {
	if x != nil {
		return x.CallerService
	}
	return ""
}

func (x *CreatePaymentRequest) GetResourceType() string {
	if x != nil {
		return x.ResourceType
	}
	return ""
}

func (x *CreatePaymentRequest) GetResourceId() string {
	if x != nil {
		return x.ResourceId
	}
	return ""
}

func (x *CreatePaymentRequest) GetCustomerRef() string {
	if x != nil {
		return x.CustomerRef
	}
	return ""
}

func (x *CreatePaymentRequest) GetCustomerName() string {
	if x != nil {
		return x.CustomerName
	}
	return ""
}

func (x *CreatePaymentRequest) GetDescription() string {
	if x != nil {
		return x.Description
	}
	return ""
}

func (x *CreatePaymentRequest) GetAmountCents() int64 {
	if x != nil {
		return x.AmountCents
	}
	return 0
}

func (x *CreatePaymentRequest) GetCurrency() string {
	if x != nil {
		return x.Currency
	}
	return ""
}

func (x *CreatePaymentRequest) GetPaymentMethod() PaymentMethod {
	if x != nil {
		return x.PaymentMethod
	}
	return PaymentMethod_PAYMENT_METHOD_UNSPECIFIED
}

func (x *CreatePaymentRequest) GetPaymentType() PaymentType {
	if x != nil {
		return x.PaymentType
	}
	return PaymentType_PAYMENT_TYPE_UNSPECIFIED
}

func (x *CreatePaymentRequest) GetProvider() ProviderType {
	if x != nil {
		return x.Provider
	}
	return ProviderType_PROVIDER_TYPE_UNSPECIFIED
}

func (x *CreatePaymentRequest) GetLanguage() string {
	if x != nil {
		return x.Language
	}
	return ""
}

func (x *CreatePaymentRequest) GetStatusCallbackUrl() string {
	if x != nil {
		return x.StatusCallbackUrl
	}
	return ""
}

func (x *CreatePaymentRequest) GetSuccessUrl() string {
	if x != nil {
		return x.SuccessUrl
	}
	return ""
}

func (x *CreatePaymentRequest) GetCancelUrl() string {
	if x != nil {
		return x.CancelUrl
	}
	return ""
}

func (x *CreatePaymentRequest) GetMetadata() map[string]string {
	if x != nil {
		return x.Metadata
	}
	return nil
}

type GetPaymentRequest struct {
	Id uint64 `json:"id,omitempty"`
}

func (x *GetPaymentRequest) GetId() uint64 {
	if x != nil {
		return x.Id
	}
	return 0
}

type ListPaymentsRequest struct {
	RequestId     string        `json:"request_id,omitempty"`
	CallerService string        `json:"caller_service,omitempty"`
	ResourceType  string        `json:"resource_type,omitempty"`
	ResourceId    string        `json:"resource_id,omitempty"`
	HasStatus     bool          `json:"has_status,omitempty"`
	Status        PaymentStatus `json:"status,omitempty"`
	Provider      ProviderType  `json:"provider,omitempty"`
	Limit         int32         `json:"limit,omitempty"`
	Offset        int32         `json:"offset,omitempty"`
}

func (x *ListPaymentsRequest) GetRequestId() string {
	if x != nil {
		return x.RequestId
	}
	return ""
}

func (x *ListPaymentsRequest) GetCallerService() string {
	if x != nil {
		return x.CallerService
	}
	return ""
}

func (x *ListPaymentsRequest) GetResourceType() string {
	if x != nil {
		return x.ResourceType
	}
	return ""
}

func (x *ListPaymentsRequest) GetResourceId() string {
	if x != nil {
		return x.ResourceId
	}
	return ""
}

func (x *ListPaymentsRequest) GetHasStatus() bool {
	if x != nil {
		return x.HasStatus
	}
	return false
}

func (x *ListPaymentsRequest) GetStatus() PaymentStatus {
	if x != nil {
		return x.Status
	}
	return PaymentStatus_PAYMENT_STATUS_UNSPECIFIED
}

func (x *ListPaymentsRequest) GetProvider() ProviderType {
	if x != nil {
		return x.Provider
	}
	return ProviderType_PROVIDER_TYPE_UNSPECIFIED
}

func (x *ListPaymentsRequest) GetLimit() int32 {
	if x != nil {
		return x.Limit
	}
	return 0
}

func (x *ListPaymentsRequest) GetOffset() int32 {
	if x != nil {
		return x.Offset
	}
	return 0
}

type CancelPaymentRequest struct {
	Id     uint64 `json:"id,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (x *CancelPaymentRequest) GetId() uint64 {
	if x != nil {
		return x.Id
	}
	return 0
}

func (x *CancelPaymentRequest) GetReason() string {
	if x != nil {
		return x.Reason
	}
	return ""
}

type HandleProviderCallbackRequest struct {
	RequestId    string `json:"request_id,omitempty"`
	Provider     string `json:"provider,omitempty"`
	CallbackHash string `json:"callback_hash,omitempty"`
	Signature    string `json:"signature,omitempty"`
	Payload      string `json:"payload,omitempty"`
}

func (x *HandleProviderCallbackRequest) GetRequestId() string {
	if x != nil {
		return x.RequestId
	}
	return ""
}

func (x *HandleProviderCallbackRequest) GetProvider() string {
	if x != nil {
		return x.Provider
	}
	return ""
}

func (x *HandleProviderCallbackRequest) GetCallbackHash() string {
	if x != nil {
		return x.CallbackHash
	}
	return ""
}

func (x *HandleProviderCallbackRequest) GetSignature() string {
	if x != nil {
		return x.Signature
	}
	return ""
}

func (x *HandleProviderCallbackRequest) GetPayload() string {
	if x != nil {
		return x.Payload
	}
	return ""
}

type GetCheckoutFormRequest struct {
	Provider     string `json:"provider,omitempty"`
	CallbackHash string `json:"callback_hash,omitempty"`
}

func (x *GetCheckoutFormRequest) GetProvider() string {
	if x != nil {
		return x.Provider
	}
	return ""
}

func (x *GetCheckoutFormRequest) GetCallbackHash() string {
	if x != nil {
		return x.CallbackHash
	}
	return ""
}

// CheckoutFormResponse carries the signed fields the browser posts to the
// gateway endpoint.
type CheckoutFormResponse struct {
	PaymentId          uint64 `json:"payment_id,omitempty"`
	Endpoint           string `json:"endpoint,omitempty"`
	SignatureVersion   string `json:"signature_version,omitempty"`
	MerchantParameters string `json:"merchant_parameters,omitempty"`
	Signature          string `json:"signature,omitempty"`
}

func (x *CheckoutFormResponse) GetPaymentId() uint64 {
	if x != nil {
		return x.PaymentId
	}
	return 0
}

func (x *CheckoutFormResponse) GetEndpoint() string {
	if x != nil {
		return x.Endpoint
	}
	return ""
}

func (x *CheckoutFormResponse) GetSignatureVersion() string {
	if x != nil {
		return x.SignatureVersion
	}
	return ""
}

func (x *CheckoutFormResponse) GetMerchantParameters() string {
	if x != nil {
		return x.MerchantParameters
	}
	return ""
}

func (x *CheckoutFormResponse) GetSignature() string {
	if x != nil {
		return x.Signature
	}
	return ""
}

type PaymentEnvelopeResponse struct {
	Payment *Payment `json:"payment,omitempty"`
}

func (x *PaymentEnvelopeResponse) GetPayment() *Payment {
	if x != nil {
		return x.Payment
	}
	return nil
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

func (x *ListPaymentsResponse) GetPayments() []*Payment {
	if x != nil {
		return x.Payments
	}
	return nil
}

type MessageResponse struct {
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error,omitempty"`
}

type HealthRequest struct{}

type HealthResponse struct {
	Status string `json:"status,omitempty"`
}

func (x *HealthResponse) GetStatus() string {
	if x != nil {
		return x.Status
	}
	return ""
}
