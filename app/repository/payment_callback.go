package repository

import (
	"context"

	"github.com/vibast-solutions/ms-go-redsys/app/entity"
)

// PaymentCallbackRepository stores every gateway notification as received,
// including rejected ones.
type PaymentCallbackRepository struct {
	db DBTX
}

func NewPaymentCallbackRepository(db DBTX) *PaymentCallbackRepository {
	return &PaymentCallbackRepository{db: db}
}

const insertPaymentCallback = `
	INSERT INTO payment_callbacks (
		payment_id, request_id, provider, callback_hash, signature, payload, status, error, created_at, updated_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (r *PaymentCallbackRepository) Create(ctx context.Context, callback *entity.PaymentCallback) error {
	var paymentID any
	if callback.PaymentID != nil {
		paymentID = *callback.PaymentID
	}

	result, err := r.db.ExecContext(ctx, insertPaymentCallback,
		paymentID,
		callback.RequestID,
		callback.Provider,
		truncateColumn(callback.CallbackHash, 64),
		truncateColumn(callback.Signature, 128),
		callback.Payload,
		callback.Status,
		nullableStringValue(callback.Error),
		callback.CreatedAt,
		callback.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	callback.ID = uint64(id)
	return nil
}

// truncateColumn cuts request-supplied values to their column width.
func truncateColumn(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}
