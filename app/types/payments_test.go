package types

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestNewCreatePaymentRequestFromContextUsesHeaderRequestID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/payments", bytes.NewBufferString(`{"caller_service":"orders-service","resource_type":"order","resource_id":"ord_1","amount_cents":1999,"currency":"eur","payment_method":1,"payment_type":1,"language":" 002 ","status_callback_url":"https://example.com/callback"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderXRequestID, "req-from-header")
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	parsed, err := NewCreatePaymentRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.GetRequestId() != "req-from-header" {
		t.Fatalf("expected header request id, got %q", parsed.GetRequestId())
	}
	if parsed.GetCurrency() != "EUR" {
		t.Fatalf("expected upper-cased currency, got %q", parsed.GetCurrency())
	}
	if parsed.GetLanguage() != "002" {
		t.Fatalf("expected trimmed language, got %q", parsed.GetLanguage())
	}
}

func TestCreatePaymentValidate(t *testing.T) {
	req := &CreatePaymentRequest{}
	if err := req.Validate(); err == nil {
		t.Fatal("expected request_id validation error")
	}

	req = &CreatePaymentRequest{
		RequestId:         "req-1",
		CallerService:     "orders-service",
		ResourceType:      "order",
		ResourceId:        "ord-1",
		AmountCents:       999,
		Currency:          "EUR",
		PaymentMethod:     PaymentMethod_PAYMENT_METHOD_BIZUM,
		PaymentType:       PaymentType_PAYMENT_TYPE_TOKENIZED,
		Language:          "099",
		StatusCallbackUrl: "https://example.com/callback",
	}
	if err := req.Validate(); err == nil {
		t.Fatal("expected language validation error")
	}

	req.Language = "001"
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	req.PaymentMethod = PaymentMethod_PAYMENT_METHOD_UNSPECIFIED
	if err := req.Validate(); err == nil {
		t.Fatal("expected payment_method validation error")
	}
}

func TestCreatePaymentValidateFieldLengths(t *testing.T) {
	req := &CreatePaymentRequest{
		RequestId:         "req-1",
		CallerService:     "orders-service",
		ResourceType:      "order",
		ResourceId:        "ord-1",
		AmountCents:       999,
		Currency:          "EUR",
		PaymentMethod:     PaymentMethod_PAYMENT_METHOD_HOSTED_CARD,
		PaymentType:       PaymentType_PAYMENT_TYPE_ONE_TIME,
		StatusCallbackUrl: "https://example.com/callback",
		CustomerName:      strings.Repeat("ñ", 60),
		Description:       strings.Repeat("d", 125),
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected values at column width to be valid, got %v", err)
	}

	req.CustomerName = strings.Repeat("n", 61)
	if err := req.Validate(); err == nil {
		t.Fatal("expected customer_name length error")
	}

	req.CustomerName = "Jane Doe"
	req.Description = strings.Repeat("d", 126)
	if err := req.Validate(); err == nil {
		t.Fatal("expected description length error")
	}
}

func TestNewListPaymentsRequestFromContextAndValidate(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("GET", "/payments?status=10&provider=redsys&limit=20&offset=3", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	parsed, err := NewListPaymentsRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !parsed.GetHasStatus() || parsed.GetStatus() != PaymentStatus_PAYMENT_STATUS_PAID {
		t.Fatalf("unexpected status parse: %+v", parsed)
	}
	if parsed.GetProvider() != ProviderType_PROVIDER_TYPE_REDSYS {
		t.Fatalf("unexpected provider parse: %+v", parsed)
	}
	if err := parsed.Validate(); err != nil {
		t.Fatalf("expected valid list request, got %v", err)
	}
}

func TestNewListPaymentsRequestFromContextRejectsUnknownProvider(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("GET", "/payments?provider=paypal", nil)
	ctx := e.NewContext(req, httptest.NewRecorder())

	if _, err := NewListPaymentsRequestFromContext(ctx); err == nil {
		t.Fatal("expected invalid provider error")
	}
}

func TestListPaymentsValidateDefaultLimit(t *testing.T) {
	req := &ListPaymentsRequest{}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected zero-values request to apply default limit, got %v", err)
	}
	if req.GetLimit() != 100 {
		t.Fatalf("expected default limit 100, got %d", req.GetLimit())
	}
}

func TestNewCancelPaymentRequestFromContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/payments/12/cancel", bytes.NewBufferString(`{"reason":" duplicate "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("12")

	parsed, err := NewCancelPaymentRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.GetId() != 12 || parsed.GetReason() != "duplicate" {
		t.Fatalf("unexpected parsed cancel request: %+v", parsed)
	}
}

func TestNewHandleProviderCallbackRequestFromContextJSONBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/webhooks/providers/redsys/hash-1", bytes.NewBufferString(`{"payload":"Ds_MerchantParameters=abc","signature":"sig-value"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderXRequestID, "callback-req-1")
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("provider", "hash")
	ctx.SetParamValues("redsys", "hash-1")

	parsed, err := NewHandleProviderCallbackRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.GetRequestId() != "callback-req-1" {
		t.Fatalf("expected callback request id, got %q", parsed.GetRequestId())
	}
	if parsed.GetProvider() != "redsys" || parsed.GetCallbackHash() != "hash-1" {
		t.Fatalf("unexpected callback route params: %+v", parsed)
	}
	if parsed.GetPayload() != "Ds_MerchantParameters=abc" {
		t.Fatalf("expected payload from body override, got %q", parsed.GetPayload())
	}
	if parsed.GetSignature() != "sig-value" {
		t.Fatalf("expected signature from body override, got %q", parsed.GetSignature())
	}
	if err := parsed.Validate(); err != nil {
		t.Fatalf("expected valid callback request, got %v", err)
	}
}

func TestNewHandleProviderCallbackRequestFromContextGatewayForm(t *testing.T) {
	body := "Ds_SignatureVersion=HMAC_SHA256_V1&Ds_MerchantParameters=eyJEc19PcmRlciI6IjEyMyJ9&Ds_Signature=abc-_def%3D"
	e := echo.New()
	req := httptest.NewRequest("POST", "/webhooks/providers/redsys/hash-2", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	rec.Header().Set(echo.HeaderXRequestID, "generated-id")
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("provider", "hash")
	ctx.SetParamValues("redsys", "hash-2")

	parsed, err := NewHandleProviderCallbackRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.GetRequestId() != "generated-id" {
		t.Fatalf("expected generated request id, got %q", parsed.GetRequestId())
	}
	if parsed.GetSignature() != "abc-_def=" {
		t.Fatalf("expected signature from form, got %q", parsed.GetSignature())
	}
	if parsed.GetPayload() != body {
		t.Fatalf("expected raw form body as payload, got %q", parsed.GetPayload())
	}
	if err := parsed.Validate(); err != nil {
		t.Fatalf("expected valid callback request, got %v", err)
	}
}

func TestGetCheckoutFormRequestFromContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("GET", "/checkout/Redsys/hash-3", nil)
	ctx := e.NewContext(req, httptest.NewRecorder())
	ctx.SetParamNames("provider", "hash")
	ctx.SetParamValues("Redsys", " hash-3 ")

	parsed, err := NewGetCheckoutFormRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.GetProvider() != "redsys" || parsed.GetCallbackHash() != "hash-3" {
		t.Fatalf("unexpected checkout form request: %+v", parsed)
	}
	if err := parsed.Validate(); err != nil {
		t.Fatalf("expected valid checkout form request, got %v", err)
	}
	if err := (&GetCheckoutFormRequest{Provider: "redsys"}).Validate(); err == nil {
		t.Fatal("expected missing hash error")
	}
}

func TestParseProviderType(t *testing.T) {
	if p, ok := ParseProviderType(" REDSYS "); !ok || p != ProviderType_PROVIDER_TYPE_REDSYS {
		t.Fatalf("expected redsys provider, got %v %v", p, ok)
	}
	if _, ok := ParseProviderType("paypal"); ok {
		t.Fatal("expected unknown provider to be rejected")
	}
}
