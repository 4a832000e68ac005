package mapper

import (
	"time"

	"github.com/vibast-solutions/ms-go-redsys/app/entity"
	"github.com/vibast-solutions/ms-go-redsys/app/types"
)

func PaymentToProto(item *entity.Payment) *types.Payment {
	if item == nil {
		return nil
	}

	return &types.Payment{
		Id:                   item.ID,
		RequestId:            item.RequestID,
		CallerService:        item.CallerService,
		ResourceType:         item.ResourceType,
		ResourceId:           item.ResourceID,
		CustomerRef:          derefString(item.CustomerRef),
		CustomerName:         derefString(item.CustomerName),
		Description:          derefString(item.Description),
		AmountCents:          item.AmountCents,
		Currency:             item.Currency,
		Status:               types.PaymentStatus(item.Status),
		PaymentMethod:        types.PaymentMethod(item.PaymentMethod),
		PaymentType:          types.PaymentType(item.PaymentType),
		Provider:             types.ProviderType(item.Provider),
		Language:             derefString(item.Language),
		ProviderPaymentId:    derefString(item.ProviderPaymentID),
		CheckoutUrl:          derefString(item.CheckoutURL),
		ProviderCallbackHash: item.ProviderCallbackHash,
		ProviderCallbackUrl:  item.ProviderCallbackURL,
		StatusCallbackUrl:    item.StatusCallbackURL,
		RemoteId:             derefString(item.RemoteID),
		RemoteState:          derefString(item.RemoteState),
		FailureReason:        derefString(item.FailureReason),
		Metadata:             cloneMetadata(item.Metadata),
		CreatedAt:            item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:            item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func PaymentsToProto(items []*entity.Payment) []*types.Payment {
	result := make([]*types.Payment, 0, len(items))
	for _, item := range items {
		result = append(result, PaymentToProto(item))
	}
	return result
}

// CheckoutFormToProto returns nil for payments without a signed form.
func CheckoutFormToProto(item *entity.Payment) *types.CheckoutFormResponse {
	if item == nil || item.CheckoutForm == nil {
		return nil
	}
	return &types.CheckoutFormResponse{
		PaymentId:          item.ID,
		Endpoint:           item.CheckoutForm.Endpoint,
		SignatureVersion:   item.CheckoutForm.SignatureVersion,
		MerchantParameters: item.CheckoutForm.MerchantParameters,
		Signature:          item.CheckoutForm.Signature,
	}
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func cloneMetadata(src map[string]string) map[string]string {
	if len(src) == 0 {
		return map[string]string{}
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
