package types

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

// Column widths of payments.customer_name and payments.description. They
// match the gateway's DS_MERCHANT_TITULAR and DS_MERCHANT_PRODUCTDESCRIPTION.
const (
	maxCustomerNameLength = 60
	maxDescriptionLength  = 125
)

func NewCreatePaymentRequestFromContext(ctx echo.Context) (*CreatePaymentRequest, error) {
	var body CreatePaymentRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.RequestId = strings.TrimSpace(body.RequestId)
	if body.RequestId == "" {
		body.RequestId = strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderXRequestID))
	}
	body.CallerService = strings.TrimSpace(body.CallerService)
	body.ResourceType = strings.TrimSpace(body.ResourceType)
	body.ResourceId = strings.TrimSpace(body.ResourceId)
	body.CustomerRef = strings.TrimSpace(body.CustomerRef)
	body.CustomerName = strings.TrimSpace(body.CustomerName)
	body.Description = strings.TrimSpace(body.Description)
	body.Currency = strings.ToUpper(strings.TrimSpace(body.Currency))
	body.Language = strings.TrimSpace(body.Language)
	body.StatusCallbackUrl = strings.TrimSpace(body.StatusCallbackUrl)
	body.SuccessUrl = strings.TrimSpace(body.SuccessUrl)
	body.CancelUrl = strings.TrimSpace(body.CancelUrl)

	return &body, nil
}

func (r *CreatePaymentRequest) Validate() error {
	if strings.TrimSpace(r.GetRequestId()) == "" {
		return errors.New("request_id is required")
	}
	if strings.TrimSpace(r.GetCallerService()) == "" {
		return errors.New("caller_service is required")
	}
	if strings.TrimSpace(r.GetResourceType()) == "" {
		return errors.New("resource_type is required")
	}
	if strings.TrimSpace(r.GetResourceId()) == "" {
		return errors.New("resource_id is required")
	}
	if r.GetAmountCents() <= 0 {
		return errors.New("amount_cents must be > 0")
	}
	if len(strings.TrimSpace(r.GetCurrency())) != 3 {
		return errors.New("currency must be a 3 character ISO 4217 code")
	}
	if !isValidPaymentMethod(r.GetPaymentMethod()) {
		return errors.New("payment_method must be hosted_card, bizum or transfer")
	}
	if r.GetPaymentType() != PaymentType_PAYMENT_TYPE_ONE_TIME && r.GetPaymentType() != PaymentType_PAYMENT_TYPE_TOKENIZED {
		return errors.New("payment_type must be one_time or tokenized")
	}
	if r.GetProvider() != ProviderType_PROVIDER_TYPE_UNSPECIFIED && r.GetProvider() != ProviderType_PROVIDER_TYPE_REDSYS {
		return errors.New("provider is invalid")
	}
	if strings.TrimSpace(r.GetStatusCallbackUrl()) == "" {
		return errors.New("status_callback_url is required")
	}
	if utf8.RuneCountInString(strings.TrimSpace(r.GetCustomerName())) > maxCustomerNameLength {
		return errors.New("customer_name must be at most 60 characters")
	}
	if utf8.RuneCountInString(strings.TrimSpace(r.GetDescription())) > maxDescriptionLength {
		return errors.New("description must be at most 125 characters")
	}
	if lang := r.GetLanguage(); lang != "" {
		n, err := strconv.Atoi(lang)
		if err != nil || n < 1 || n > 13 {
			return errors.New("language must be a gateway language code between 001 and 013")
		}
	}

	return nil
}

func NewGetPaymentRequestFromContext(ctx echo.Context) (*GetPaymentRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	return &GetPaymentRequest{Id: id}, nil
}

func (r *GetPaymentRequest) Validate() error {
	if r.GetId() == 0 {
		return errors.New("invalid payment id")
	}
	return nil
}

func NewListPaymentsRequestFromContext(ctx echo.Context) (*ListPaymentsRequest, error) {
	req := &ListPaymentsRequest{
		RequestId:     strings.TrimSpace(ctx.QueryParam("request_id")),
		CallerService: strings.TrimSpace(ctx.QueryParam("caller_service")),
		ResourceType:  strings.TrimSpace(ctx.QueryParam("resource_type")),
		ResourceId:    strings.TrimSpace(ctx.QueryParam("resource_id")),
		Limit:         100,
		Offset:        0,
	}

	statusRaw := strings.TrimSpace(ctx.QueryParam("status"))
	if statusRaw != "" {
		status, err := strconv.ParseInt(statusRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.HasStatus = true
		req.Status = PaymentStatus(status)
	}

	providerRaw := strings.TrimSpace(strings.ToLower(ctx.QueryParam("provider")))
	if providerRaw != "" {
		provider, ok := ParseProviderType(providerRaw)
		if !ok {
			return nil, errors.New("invalid provider")
		}
		req.Provider = provider
	}

	if limitRaw := strings.TrimSpace(ctx.QueryParam("limit")); limitRaw != "" {
		limit, err := strconv.ParseInt(limitRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.Limit = int32(limit)
	}

	if offsetRaw := strings.TrimSpace(ctx.QueryParam("offset")); offsetRaw != "" {
		offset, err := strconv.ParseInt(offsetRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.Offset = int32(offset)
	}

	return req, nil
}

func (r *ListPaymentsRequest) Validate() error {
	if r.Limit == 0 {
		r.Limit = 100
	}
	if r.GetLimit() <= 0 || r.GetLimit() > 500 {
		return errors.New("limit must be between 1 and 500")
	}
	if r.GetOffset() < 0 {
		return errors.New("offset must be >= 0")
	}
	if r.GetHasStatus() {
		if !isValidPaymentStatus(r.GetStatus()) {
			return errors.New("invalid status")
		}
	}
	if r.GetProvider() != ProviderType_PROVIDER_TYPE_UNSPECIFIED && r.GetProvider() != ProviderType_PROVIDER_TYPE_REDSYS {
		return errors.New("invalid provider")
	}
	return nil
}

func NewCancelPaymentRequestFromContext(ctx echo.Context) (*CancelPaymentRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}

	var body CancelPaymentRequest
	if err = ctx.Bind(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	body.Id = id
	body.Reason = strings.TrimSpace(body.Reason)

	return &body, nil
}

func (r *CancelPaymentRequest) Validate() error {
	if r.GetId() == 0 {
		return errors.New("invalid payment id")
	}
	return nil
}

func NewHandleProviderCallbackRequestFromContext(ctx echo.Context) (*HandleProviderCallbackRequest, error) {
	provider := strings.TrimSpace(strings.ToLower(ctx.Param("provider")))
	hash := strings.TrimSpace(ctx.Param("hash"))
	requestID := strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderXRequestID))
	if requestID == "" {
		requestID = strings.TrimSpace(ctx.Response().Header().Get(echo.HeaderXRequestID))
	}
	signature := strings.TrimSpace(ctx.Request().Header.Get("X-Provider-Signature"))

	rawBody, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, err
	}

	// The gateway posts Ds_SignatureVersion, Ds_MerchantParameters and
	// Ds_Signature form encoded. The raw body is passed on untouched.
	if strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationForm) {
		if form, err := url.ParseQuery(string(rawBody)); err == nil && signature == "" {
			signature = strings.TrimSpace(form.Get("Ds_Signature"))
		}
	}

	req := &HandleProviderCallbackRequest{
		RequestId:    requestID,
		Provider:     provider,
		CallbackHash: hash,
		Signature:    signature,
		Payload:      string(rawBody),
	}

	var body struct {
		Payload          string `json:"payload"`
		Signature        string `json:"signature"`
		GatewaySignature string `json:"Ds_Signature"`
	}
	if len(rawBody) > 0 && json.Unmarshal(rawBody, &body) == nil {
		if strings.TrimSpace(body.Payload) != "" {
			req.Payload = body.Payload
		}
		if strings.TrimSpace(body.Signature) != "" {
			req.Signature = strings.TrimSpace(body.Signature)
		} else if req.Signature == "" && strings.TrimSpace(body.GatewaySignature) != "" {
			req.Signature = strings.TrimSpace(body.GatewaySignature)
		}
	}

	return req, nil
}

func (r *HandleProviderCallbackRequest) Validate() error {
	if strings.TrimSpace(r.GetRequestId()) == "" {
		return errors.New("request_id is required")
	}
	if strings.TrimSpace(r.GetProvider()) == "" {
		return errors.New("provider is required")
	}
	if strings.TrimSpace(r.GetCallbackHash()) == "" {
		return errors.New("callback hash is required")
	}
	if strings.TrimSpace(r.GetSignature()) == "" {
		return errors.New("provider signature is required")
	}
	if strings.TrimSpace(r.GetPayload()) == "" {
		return errors.New("payload is required")
	}
	return nil
}

func NewGetCheckoutFormRequestFromContext(ctx echo.Context) (*GetCheckoutFormRequest, error) {
	return &GetCheckoutFormRequest{
		Provider:     strings.TrimSpace(strings.ToLower(ctx.Param("provider"))),
		CallbackHash: strings.TrimSpace(ctx.Param("hash")),
	}, nil
}

func (r *GetCheckoutFormRequest) Validate() error {
	if r.GetProvider() == "" {
		return errors.New("provider is required")
	}
	if r.GetCallbackHash() == "" {
		return errors.New("callback hash is required")
	}
	return nil
}

// ParseProviderType accepts a provider name or its numeric code.
func ParseProviderType(value string) (ProviderType, bool) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "1", "redsys":
		return ProviderType_PROVIDER_TYPE_REDSYS, true
	default:
		return ProviderType_PROVIDER_TYPE_UNSPECIFIED, false
	}
}

func isValidPaymentMethod(method PaymentMethod) bool {
	switch method {
	case PaymentMethod_PAYMENT_METHOD_HOSTED_CARD,
		PaymentMethod_PAYMENT_METHOD_BIZUM,
		PaymentMethod_PAYMENT_METHOD_TRANSFER:
		return true
	default:
		return false
	}
}

func isValidPaymentStatus(status PaymentStatus) bool {
	switch status {
	case PaymentStatus_PAYMENT_STATUS_CREATED,
		PaymentStatus_PAYMENT_STATUS_PENDING,
		PaymentStatus_PAYMENT_STATUS_PROCESSING,
		PaymentStatus_PAYMENT_STATUS_PAID,
		PaymentStatus_PAYMENT_STATUS_FAILED,
		PaymentStatus_PAYMENT_STATUS_CANCELED,
		PaymentStatus_PAYMENT_STATUS_EXPIRED:
		return true
	default:
		return false
	}
}
