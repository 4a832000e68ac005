package provider

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/vibast-solutions/ms-go-redsys/app/metrics"
	"github.com/vibast-solutions/ms-go-redsys/app/redsys"
	"github.com/vibast-solutions/ms-go-redsys/app/types"
)

const identifierRequired = "REQUIRED"

type RedsysConfig struct {
	Merchant redsys.MerchantConfig
	Secrets  redsys.SecretProvider

	ProviderCallbackBaseURL string
	CheckoutBaseURL         string
	SuccessURL              string
	FailureURL              string
}

type RedsysProvider struct {
	cfg      RedsysConfig
	newOrder func() string
}

func NewRedsysProvider(cfg RedsysConfig) *RedsysProvider {
	return &RedsysProvider{
		cfg:      cfg,
		newOrder: newOrderNumber,
	}
}

func (p *RedsysProvider) Code() int32 {
	return int32(types.ProviderType_PROVIDER_TYPE_REDSYS)
}

func (p *RedsysProvider) CreatePayment(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	callbackURL := joinCallbackURL(p.cfg.ProviderCallbackBaseURL, input.CallbackHash)
	if callbackURL == "" {
		return nil, errors.New("provider callback base url is not configured")
	}
	checkoutURL := joinCallbackURL(p.cfg.CheckoutBaseURL, input.CallbackHash)
	if checkoutURL == "" {
		return nil, errors.New("checkout base url is not configured")
	}

	params, err := p.cfg.Merchant.NewParameterSet()
	if err != nil {
		return nil, fmt.Errorf("redsys merchant config: %w", err)
	}

	order := p.newOrder()
	if err := p.fillParameters(params, input, order, callbackURL); err != nil {
		if errors.Is(err, redsys.ErrValidation) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}

	secret, err := p.cfg.Secrets.MerchantSecret(ctx, p.cfg.Merchant.MerchantCode, p.cfg.Merchant.Terminal)
	if err != nil {
		return nil, err
	}
	signed, err := redsys.Build(params, secret)
	if err != nil {
		return nil, err
	}
	metrics.ObserveSignedRequest(string(p.cfg.Merchant.Environment))

	return &CreateOutput{
		ProviderPaymentID: &order,
		CheckoutURL:       &checkoutURL,
		CheckoutForm: &CheckoutForm{
			Endpoint:           p.cfg.Merchant.Environment.RedirectURL(),
			SignatureVersion:   signed.SignatureVersion,
			MerchantParameters: signed.MerchantParameters,
			Signature:          signed.Signature,
		},
		ProviderCallbackURL: callbackURL,
		InitialStatus:       int32(types.PaymentStatus_PAYMENT_STATUS_PENDING),
	}, nil
}

func (p *RedsysProvider) fillParameters(params *redsys.ParameterSet, input *CreateInput, order, callbackURL string) error {
	if err := params.SetOrder(order); err != nil {
		return err
	}
	if input.AmountCents <= 0 {
		return &redsys.ValidationError{Field: redsys.FieldAmount, Reason: "must be greater than 0"}
	}
	if err := params.SetAmountMinor(input.AmountCents); err != nil {
		return err
	}
	if strings.TrimSpace(input.Currency) != "" {
		if err := params.SetCurrency(input.Currency); err != nil {
			return err
		}
	}
	if err := params.SetNotificationURL(callbackURL); err != nil {
		return err
	}
	if err := params.SetSuccessURL(firstNonEmpty(input.SuccessURL, p.cfg.SuccessURL)); err != nil {
		return err
	}
	if err := params.SetFailureURL(firstNonEmpty(input.CancelURL, p.cfg.FailureURL)); err != nil {
		return err
	}

	methods, err := payMethodsFor(input.PaymentMethod)
	if err != nil {
		return err
	}
	if err := params.SetPayMethods(methods); err != nil {
		return err
	}
	if input.PaymentType == int32(types.PaymentType_PAYMENT_TYPE_TOKENIZED) {
		if err := params.SetIdentifier(identifierRequired); err != nil {
			return err
		}
	}

	if strings.TrimSpace(input.Language) != "" {
		if err := params.SetLanguage(input.Language); err != nil {
			return err
		}
	}
	if strings.TrimSpace(input.Description) != "" {
		if err := params.SetProductDescription(input.Description); err != nil {
			return err
		}
	}
	if strings.TrimSpace(input.CustomerName) != "" {
		if err := params.SetTitular(input.CustomerName); err != nil {
			return err
		}
	}
	if strings.TrimSpace(input.RequestID) != "" {
		if err := params.SetMerchantData(input.RequestID); err != nil {
			return err
		}
	}
	return nil
}

// VerifyAndParseCallback accepts the gateway form body or its JSON form.
// A signature passed separately takes precedence over the one in the body.
func (p *RedsysProvider) VerifyAndParseCallback(ctx context.Context, payload []byte, signature string) (*CallbackEvent, error) {
	notification, err := parseNotification(payload)
	if err != nil {
		return nil, &redsys.VerificationError{Kind: redsys.MalformedPayload, Err: err}
	}
	if s := strings.TrimSpace(signature); s != "" {
		notification.Signature = s
	}

	secret, err := p.cfg.Secrets.MerchantSecret(ctx, p.cfg.Merchant.MerchantCode, p.cfg.Merchant.Terminal)
	if err != nil {
		return nil, err
	}
	verified, err := redsys.Verify(notification, secret)
	if err != nil {
		return nil, err
	}

	amount, err := verified.Amount()
	if err != nil {
		return nil, &redsys.VerificationError{Kind: redsys.MalformedPayload, Err: err}
	}

	order := verified.Order()
	responseCode := verified.ResponseCode()
	eventID := order + ":" + responseCode
	event := &CallbackEvent{
		ProviderEventID:   &eventID,
		ProviderPaymentID: &order,
		AmountCents:       amount,
		Currency:          verified.Currency(),
		RemoteState:       optionalString(responseCode),
		Fields:            verified.Fields(),
	}

	var declined *redsys.DeclinedError
	switch err := verified.Result(); {
	case err == nil:
		event.EventType = "redsys_payment_approved"
		event.NewStatus = int32(types.PaymentStatus_PAYMENT_STATUS_PAID)
		event.RemoteID = optionalString(verified.AuthorisationCode())
	case errors.As(err, &declined):
		event.EventType = "redsys_payment_declined"
		event.NewStatus = int32(types.PaymentStatus_PAYMENT_STATUS_FAILED)
		reason := declined.Description()
		event.FailureReason = &reason
	default:
		return nil, err
	}

	return event, nil
}

func parseNotification(payload []byte) (redsys.NotificationPayload, error) {
	var notification redsys.NotificationPayload
	body := strings.TrimSpace(string(payload))
	if body == "" {
		return notification, errors.New("empty notification body")
	}

	if strings.HasPrefix(body, "{") {
		if err := json.Unmarshal([]byte(body), &notification); err != nil {
			return notification, err
		}
		return notification, nil
	}

	form, err := url.ParseQuery(body)
	if err != nil {
		return notification, err
	}
	notification.SignatureVersion = form.Get(redsys.FormSignatureVersion)
	notification.MerchantParameters = form.Get(redsys.FormMerchantParameters)
	notification.Signature = form.Get(redsys.FormSignature)
	return notification, nil
}

// RedactPayload removes Ds_CardNumber from the merchant parameters of a
// notification body. Bodies without a card number come back unchanged.
// Parameters that cannot be decoded are dropped.
func (p *RedsysProvider) RedactPayload(payload []byte) []byte {
	notification, err := parseNotification(payload)
	if err != nil || strings.TrimSpace(notification.MerchantParameters) == "" {
		return payload
	}
	redacted, changed := redactMerchantParameters(notification.MerchantParameters)
	if !changed {
		return payload
	}
	notification.MerchantParameters = redacted

	if strings.HasPrefix(strings.TrimSpace(string(payload)), "{") {
		raw, err := json.Marshal(notification)
		if err != nil {
			return nil
		}
		return raw
	}
	form := url.Values{}
	form.Set(redsys.FormSignatureVersion, notification.SignatureVersion)
	form.Set(redsys.FormMerchantParameters, notification.MerchantParameters)
	form.Set(redsys.FormSignature, notification.Signature)
	return []byte(form.Encode())
}

func redactMerchantParameters(encoded string) (string, bool) {
	decoded, err := redsys.Base64URLDecode(encoded)
	if err != nil {
		return "", true
	}
	fields, err := redsys.JSONDecode(string(decoded))
	if err != nil {
		return "", true
	}

	found := false
	for key := range fields {
		if strings.EqualFold(key, redsys.NotifyCardNumber) {
			delete(fields, key)
			found = true
		}
	}
	if !found {
		return encoded, false
	}

	raw, err := redsys.JSONEncode(fields)
	if err != nil {
		return "", true
	}
	return redsys.Base64URLEncode([]byte(raw)), true
}

func payMethodsFor(method int32) (string, error) {
	switch types.PaymentMethod(method) {
	case types.PaymentMethod_PAYMENT_METHOD_HOSTED_CARD:
		return "C", nil
	case types.PaymentMethod_PAYMENT_METHOD_BIZUM:
		return "z", nil
	case types.PaymentMethod_PAYMENT_METHOD_TRANSFER:
		return "R", nil
	default:
		return "", &redsys.ValidationError{Field: redsys.FieldPayMethods, Reason: "unsupported payment method"}
	}
}

// newOrderNumber returns a 12 digit order id. The gateway requires the first
// four characters to be digits and rejects reused orders per merchant.
func newOrderNumber() string {
	id := uuid.New()
	return fmt.Sprintf("%012d", binary.BigEndian.Uint64(id[:8])%1_000_000_000_000)
}

func joinCallbackURL(baseURL, callbackHash string) string {
	baseURL = strings.TrimSpace(strings.TrimRight(baseURL, "/"))
	callbackHash = strings.TrimSpace(callbackHash)
	if baseURL == "" || callbackHash == "" {
		return ""
	}
	return baseURL + "/" + callbackHash
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
