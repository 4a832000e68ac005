package mapper

import (
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-redsys/app/entity"
	"github.com/vibast-solutions/ms-go-redsys/app/types"
)

func TestPaymentToProto(t *testing.T) {
	order := "202600000001"
	authCode := "123456"
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	item := &entity.Payment{
		ID:                1,
		Status:            int32(types.PaymentStatus_PAYMENT_STATUS_PAID),
		Provider:          int32(types.ProviderType_PROVIDER_TYPE_REDSYS),
		ProviderPaymentID: &order,
		RemoteID:          &authCode,
		Metadata:          map[string]string{"cart": "42"},
		CreatedAt:         created,
		UpdatedAt:         created,
	}

	got := PaymentToProto(item)
	if got.ProviderPaymentId != order || got.RemoteId != authCode {
		t.Fatalf("unexpected provider fields: %+v", got)
	}
	if got.Status != types.PaymentStatus_PAYMENT_STATUS_PAID || got.CreatedAt != "2026-03-01T10:00:00Z" {
		t.Fatalf("unexpected status or timestamp: %v %s", got.Status, got.CreatedAt)
	}
	got.Metadata["cart"] = "changed"
	if item.Metadata["cart"] != "42" {
		t.Fatal("expected metadata to be copied")
	}
	if PaymentToProto(nil) != nil {
		t.Fatal("expected nil payment for nil entity")
	}
}

func TestCheckoutFormToProto(t *testing.T) {
	if CheckoutFormToProto(&entity.Payment{ID: 1}) != nil {
		t.Fatal("expected nil form for payment without checkout form")
	}

	got := CheckoutFormToProto(&entity.Payment{ID: 7, CheckoutForm: &entity.CheckoutForm{
		Endpoint:           "https://sis-t.redsys.es:25443/sis/realizarPago/utf-8",
		SignatureVersion:   "HMAC_SHA256_V1",
		MerchantParameters: "e30=",
		Signature:          "c2ln",
	}})
	if got.PaymentId != 7 || got.Signature != "c2ln" || got.MerchantParameters != "e30=" {
		t.Fatalf("unexpected checkout form: %+v", got)
	}
}
