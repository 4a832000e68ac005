package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-redsys/app/entity"
)

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentAlreadyExists = errors.New("payment already exists")
)

const paymentColumns = `id, request_id, caller_service, resource_type, resource_id, customer_ref,
	customer_name, description, amount_cents, currency, status, payment_method, payment_type,
	provider, language, provider_payment_id, checkout_url, checkout_form_json,
	provider_callback_hash, provider_callback_url, status_callback_url,
	remote_id, remote_state, failure_reason, metadata_json,
	callback_delivery_status, callback_delivery_attempts, callback_delivery_next_at, callback_delivery_last_error,
	created_at, updated_at`

const (
	statusPending    int32 = 2
	statusProcessing int32 = 3
)

type PaymentFilter struct {
	RequestID     string
	CallerService string
	ResourceType  string
	ResourceID    string
	HasStatus     bool
	Status        int32
	Provider      int32
	Limit         int32
	Offset        int32
}

type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	metadataJSON, err := serializeMetadata(payment.Metadata)
	if err != nil {
		return err
	}
	formJSON, err := serializeCheckoutForm(payment.CheckoutForm)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO payments (
			request_id, caller_service, resource_type, resource_id, customer_ref,
			customer_name, description, amount_cents, currency, status, payment_method, payment_type,
			provider, language, provider_payment_id, checkout_url, checkout_form_json,
			provider_callback_hash, provider_callback_url, status_callback_url,
			remote_id, remote_state, failure_reason, metadata_json,
			callback_delivery_status, callback_delivery_attempts, callback_delivery_next_at, callback_delivery_last_error,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		payment.RequestID,
		payment.CallerService,
		payment.ResourceType,
		payment.ResourceID,
		nullableStringValue(payment.CustomerRef),
		nullableStringValue(payment.CustomerName),
		nullableStringValue(payment.Description),
		payment.AmountCents,
		payment.Currency,
		payment.Status,
		payment.PaymentMethod,
		payment.PaymentType,
		payment.Provider,
		nullableStringValue(payment.Language),
		nullableStringValue(payment.ProviderPaymentID),
		nullableStringValue(payment.CheckoutURL),
		nullableStringValue(formJSON),
		payment.ProviderCallbackHash,
		payment.ProviderCallbackURL,
		payment.StatusCallbackURL,
		nullableStringValue(payment.RemoteID),
		nullableStringValue(payment.RemoteState),
		nullableStringValue(payment.FailureReason),
		metadataJSON,
		payment.CallbackDeliveryStatus,
		payment.CallbackDeliveryAttempts,
		nullableTimeValue(payment.CallbackDeliveryNextAt),
		nullableStringValue(payment.CallbackDeliveryLastErr),
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrPaymentAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	payment.ID = uint64(id)
	return nil
}

// Update writes the mutable columns. Identity, amount and the signed form are
// fixed at creation.
func (r *PaymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	metadataJSON, err := serializeMetadata(payment.Metadata)
	if err != nil {
		return err
	}

	query := `
		UPDATE payments SET
			status = ?,
			provider_payment_id = ?,
			checkout_url = ?,
			provider_callback_url = ?,
			status_callback_url = ?,
			remote_id = ?,
			remote_state = ?,
			failure_reason = ?,
			metadata_json = ?,
			callback_delivery_status = ?,
			callback_delivery_attempts = ?,
			callback_delivery_next_at = ?,
			callback_delivery_last_error = ?,
			updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		payment.Status,
		nullableStringValue(payment.ProviderPaymentID),
		nullableStringValue(payment.CheckoutURL),
		payment.ProviderCallbackURL,
		payment.StatusCallbackURL,
		nullableStringValue(payment.RemoteID),
		nullableStringValue(payment.RemoteState),
		nullableStringValue(payment.FailureReason),
		metadataJSON,
		payment.CallbackDeliveryStatus,
		payment.CallbackDeliveryAttempts,
		nullableTimeValue(payment.CallbackDeliveryNextAt),
		nullableStringValue(payment.CallbackDeliveryLastErr),
		payment.UpdatedAt,
		payment.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uint64) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = ?`
	return r.findOne(ctx, query, id)
}

func (r *PaymentRepository) FindByCallerRequestID(ctx context.Context, callerService, requestID string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE caller_service = ? AND request_id = ? LIMIT 1`
	return r.findOne(ctx, query, callerService, requestID)
}

func (r *PaymentRepository) FindByCallbackHash(ctx context.Context, provider int32, callbackHash string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE provider = ? AND provider_callback_hash = ? LIMIT 1`
	return r.findOne(ctx, query, provider, callbackHash)
}

func (r *PaymentRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Payment, error) {
	payment := &entity.Payment{}
	if err := scanPayment(r.db.QueryRowContext(ctx, query, args...), payment); errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *PaymentRepository) List(ctx context.Context, filter PaymentFilter) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments`

	conditions := make([]string, 0, 6)
	args := make([]interface{}, 0, 8)

	if strings.TrimSpace(filter.RequestID) != "" {
		conditions = append(conditions, "request_id = ?")
		args = append(args, filter.RequestID)
	}
	if strings.TrimSpace(filter.CallerService) != "" {
		conditions = append(conditions, "caller_service = ?")
		args = append(args, filter.CallerService)
	}
	if strings.TrimSpace(filter.ResourceType) != "" {
		conditions = append(conditions, "resource_type = ?")
		args = append(args, filter.ResourceType)
	}
	if strings.TrimSpace(filter.ResourceID) != "" {
		conditions = append(conditions, "resource_id = ?")
		args = append(args, filter.ResourceID)
	}
	if filter.HasStatus {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Provider > 0 {
		conditions = append(conditions, "provider = ?")
		args = append(args, filter.Provider)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	return r.queryMany(ctx, query, args...)
}

func (r *PaymentRepository) ListDueCallbackDispatch(ctx context.Context, now time.Time, limit int32) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE callback_delivery_status = ?
		  AND callback_delivery_next_at IS NOT NULL
		  AND callback_delivery_next_at <= ?
		ORDER BY callback_delivery_next_at ASC
		LIMIT ?
	`
	return r.queryMany(ctx, query, entity.CallbackDeliveryPending, now, limit)
}

func (r *PaymentRepository) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int32) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE status IN (?, ?)
		  AND created_at <= ?
		ORDER BY created_at ASC
		LIMIT ?
	`
	return r.queryMany(ctx, query, statusPending, statusProcessing, cutoff, limit)
}

func (r *PaymentRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*entity.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*entity.Payment, 0)
	for rows.Next() {
		item, err := scanPaymentFromRows(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(scan rowScanner, payment *entity.Payment) error {
	var customerRef sql.NullString
	var customerName sql.NullString
	var description sql.NullString
	var language sql.NullString
	var providerPaymentID sql.NullString
	var checkoutURL sql.NullString
	var checkoutFormJSON sql.NullString
	var remoteID sql.NullString
	var remoteState sql.NullString
	var failureReason sql.NullString
	var metadataJSON string
	var callbackNextAt sql.NullTime
	var callbackLastErr sql.NullString

	err := scan.Scan(
		&payment.ID,
		&payment.RequestID,
		&payment.CallerService,
		&payment.ResourceType,
		&payment.ResourceID,
		&customerRef,
		&customerName,
		&description,
		&payment.AmountCents,
		&payment.Currency,
		&payment.Status,
		&payment.PaymentMethod,
		&payment.PaymentType,
		&payment.Provider,
		&language,
		&providerPaymentID,
		&checkoutURL,
		&checkoutFormJSON,
		&payment.ProviderCallbackHash,
		&payment.ProviderCallbackURL,
		&payment.StatusCallbackURL,
		&remoteID,
		&remoteState,
		&failureReason,
		&metadataJSON,
		&payment.CallbackDeliveryStatus,
		&payment.CallbackDeliveryAttempts,
		&callbackNextAt,
		&callbackLastErr,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return err
	}

	payment.CustomerRef = stringPtrFromNull(customerRef)
	payment.CustomerName = stringPtrFromNull(customerName)
	payment.Description = stringPtrFromNull(description)
	payment.Language = stringPtrFromNull(language)
	payment.ProviderPaymentID = stringPtrFromNull(providerPaymentID)
	payment.CheckoutURL = stringPtrFromNull(checkoutURL)
	payment.RemoteID = stringPtrFromNull(remoteID)
	payment.RemoteState = stringPtrFromNull(remoteState)
	payment.FailureReason = stringPtrFromNull(failureReason)
	payment.CallbackDeliveryNextAt = timePtrFromNull(callbackNextAt)
	payment.CallbackDeliveryLastErr = stringPtrFromNull(callbackLastErr)

	metadata, err := parseMetadata(metadataJSON)
	if err != nil {
		return err
	}
	payment.Metadata = metadata

	form, err := parseCheckoutForm(stringPtrFromNull(checkoutFormJSON))
	if err != nil {
		return err
	}
	payment.CheckoutForm = form

	return nil
}

func scanPaymentFromRows(rows *sql.Rows) (*entity.Payment, error) {
	item := &entity.Payment{}
	if err := scanPayment(rows, item); err != nil {
		return nil, err
	}
	return item, nil
}
