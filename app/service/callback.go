package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-redsys/app/entity"
	"github.com/vibast-solutions/ms-go-redsys/app/metrics"
	"github.com/vibast-solutions/ms-go-redsys/app/provider"
	"github.com/vibast-solutions/ms-go-redsys/app/redsys"
	"github.com/vibast-solutions/ms-go-redsys/app/repository"
	"github.com/vibast-solutions/ms-go-redsys/app/types"
)

const (
	paymentCallbackStatusProcessed int32 = 10
	paymentCallbackStatusRejected  int32 = 20
)

type handleProviderCallbackRequest interface {
	GetRequestId() string
	GetProvider() string
	GetCallbackHash() string
	GetSignature() string
	GetPayload() string
}

func (s *PaymentService) HandleProviderCallback(ctx context.Context, req handleProviderCallbackRequest) (*entity.Payment, error) {
	providerClient, err := s.providerReg.Lookup(req.GetProvider())
	if err != nil {
		if errors.Is(err, provider.ErrProviderNotSupported) {
			return nil, ErrProviderUnsupported
		}
		return nil, err
	}
	providerCode := providerClient.Code()

	payload := []byte(req.GetPayload())
	signature := strings.TrimSpace(req.GetSignature())
	callbackHash := strings.TrimSpace(req.GetCallbackHash())
	parsedEvent, err := providerClient.VerifyAndParseCallback(ctx, payload, signature)
	if err != nil {
		s.persistRejectedCallback(ctx, providerClient, nil, req, fmt.Sprintf("provider callback validation failed: %v", err))
		metrics.ObserveNotification(metrics.ResultRejected)

		var verr *redsys.VerificationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		if verr.Kind == redsys.SignatureMismatch {
			s.logger.WithFields(logrus.Fields{
				"provider":      req.GetProvider(),
				"callback_hash": callbackHash,
			}).Warn("Provider callback signature mismatch")
		}
		return nil, ErrCallbackRejected
	}
	if parsedEvent == nil {
		s.persistRejectedCallback(ctx, providerClient, nil, req, "provider callback payload could not be parsed")
		metrics.ObserveNotification(metrics.ResultRejected)
		return nil, ErrCallbackRejected
	}

	payment, err := s.paymentRepo.FindByCallbackHash(ctx, providerCode, callbackHash)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		s.persistRejectedCallback(ctx, providerClient, nil, req, "payment not found for callback hash")
		metrics.ObserveNotification(metrics.ResultRejected)
		return nil, ErrPaymentNotFound
	}

	if reason := notificationMismatch(payment, parsedEvent); reason != "" {
		paymentID := payment.ID
		s.persistRejectedCallback(ctx, providerClient, &paymentID, req, reason)
		metrics.ObserveNotification(metrics.ResultRejected)
		s.logger.WithFields(logrus.Fields{
			"payment_id": payment.ID,
			"reason":     reason,
		}).Warn("Provider callback does not match payment")
		return nil, ErrNotificationMismatch
	}

	now := time.Now().UTC()
	oldStatus := payment.Status
	payment.Status = nextStatus(oldStatus, parsedEvent.NewStatus)

	if payment.Status != oldStatus {
		switch payment.Status {
		case int32(types.PaymentStatus_PAYMENT_STATUS_PAID):
			payment.RemoteID = parsedEvent.RemoteID
			payment.FailureReason = nil
		case int32(types.PaymentStatus_PAYMENT_STATUS_FAILED):
			payment.FailureReason = parsedEvent.FailureReason
		}
		payment.RemoteState = parsedEvent.RemoteState
	}
	if payment.ProviderPaymentID == nil && parsedEvent.ProviderPaymentID != nil {
		payment.ProviderPaymentID = parsedEvent.ProviderPaymentID
	}

	if payment.Status != oldStatus && terminalStatus(payment.Status) {
		s.markForCallbackDelivery(payment, now)
	}

	payment.UpdatedAt = now
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if parsedEvent.NewStatus == int32(types.PaymentStatus_PAYMENT_STATUS_PAID) {
		metrics.ObserveNotification(metrics.ResultApproved)
	} else {
		metrics.ObserveNotification(metrics.ResultDeclined)
	}

	eventType := strings.TrimSpace(parsedEvent.EventType)
	if eventType == "" {
		eventType = "provider_callback"
	}

	oldStatusPtr := &oldStatus
	if oldStatus == payment.Status {
		oldStatusPtr = nil
	}

	_ = s.eventRepo.Create(ctx, &entity.PaymentEvent{
		PaymentID:       payment.ID,
		EventType:       eventType,
		OldStatus:       oldStatusPtr,
		NewStatus:       payment.Status,
		ProviderEventID: parsedEvent.ProviderEventID,
		ResponseCode:    parsedEvent.RemoteState,
		PayloadJSON:     notificationFieldsJSON(parsedEvent.Fields),
		CreatedAt:       now,
	})

	paymentID := payment.ID
	callbackErr := s.callbackRepo.Create(ctx, &entity.PaymentCallback{
		PaymentID:    &paymentID,
		RequestID:    strings.TrimSpace(req.GetRequestId()),
		Provider:     strings.ToLower(strings.TrimSpace(req.GetProvider())),
		CallbackHash: callbackHash,
		Signature:    signature,
		Payload:      storedPayload(providerClient, payload),
		Status:       paymentCallbackStatusProcessed,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if callbackErr != nil {
		return nil, callbackErr
	}

	return payment, nil
}

// notificationMismatch returns why an authentic notification cannot belong to
// the payment, or an empty string when it does.
func notificationMismatch(payment *entity.Payment, event *provider.CallbackEvent) string {
	if payment.ProviderPaymentID != nil && event.ProviderPaymentID != nil &&
		strings.TrimSpace(*payment.ProviderPaymentID) != strings.TrimSpace(*event.ProviderPaymentID) {
		return "notification order does not match payment"
	}
	if event.AmountCents != payment.AmountCents {
		return fmt.Sprintf("notification amount %d does not match payment amount %d", event.AmountCents, payment.AmountCents)
	}
	if event.Currency != "" {
		expected, ok := redsys.NumericCurrency(payment.Currency)
		if ok && expected != strings.TrimSpace(event.Currency) {
			return "notification currency does not match payment"
		}
	}
	return ""
}

// nextStatus applies a provider status to a payment. Paid is final, and other
// terminal states only give way to paid.
func nextStatus(current, incoming int32) int32 {
	switch {
	case incoming <= 0:
		return current
	case current == int32(types.PaymentStatus_PAYMENT_STATUS_PAID):
		return current
	case incoming == int32(types.PaymentStatus_PAYMENT_STATUS_PAID):
		return incoming
	case terminalStatus(current):
		return current
	default:
		return incoming
	}
}

func notificationFieldsJSON(fields map[string]any) *string {
	if len(fields) == 0 {
		return nil
	}
	stored := make(map[string]any, len(fields))
	for k, v := range fields {
		if strings.EqualFold(k, redsys.NotifyCardNumber) {
			continue
		}
		stored[k] = v
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return nil
	}
	encoded := string(raw)
	return &encoded
}

func (s *PaymentService) persistRejectedCallback(
	ctx context.Context,
	providerClient provider.Provider,
	paymentID *uint64,
	req handleProviderCallbackRequest,
	reason string,
) {
	now := time.Now().UTC()
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "callback rejected"
	}
	trimmedErr := truncate(reason, 1024)
	_ = s.callbackRepo.Create(ctx, &entity.PaymentCallback{
		PaymentID:    paymentID,
		RequestID:    strings.TrimSpace(req.GetRequestId()),
		Provider:     strings.ToLower(strings.TrimSpace(req.GetProvider())),
		CallbackHash: strings.TrimSpace(req.GetCallbackHash()),
		Signature:    strings.TrimSpace(req.GetSignature()),
		Payload:      storedPayload(providerClient, []byte(req.GetPayload())),
		Status:       paymentCallbackStatusRejected,
		Error:        &trimmedErr,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func storedPayload(providerClient provider.Provider, payload []byte) string {
	if redactor, ok := providerClient.(provider.PayloadRedactor); ok {
		return string(redactor.RedactPayload(payload))
	}
	return string(payload)
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}
