package repository

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-redsys/app/entity"
)

type execResult struct{ id int64 }

func (r execResult) LastInsertId() (int64, error) { return r.id, nil }
func (r execResult) RowsAffected() (int64, error) { return 1, nil }

type recordingDB struct {
	query string
	args  []interface{}
}

func (d *recordingDB) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	d.query = query
	d.args = args
	return execResult{id: 41}, nil
}

func (d *recordingDB) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, sql.ErrConnDone
}

func (d *recordingDB) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func TestPaymentCallbackCreateRejectedWithoutPayment(t *testing.T) {
	db := &recordingDB{}
	repo := NewPaymentCallbackRepository(db)
	reason := "payment not found for callback hash"
	now := time.Now().UTC()
	callback := &entity.PaymentCallback{
		RequestID:    "cb-1",
		Provider:     "redsys",
		CallbackHash: strings.Repeat("h", 80),
		Signature:    strings.Repeat("s", 200),
		Payload:      "Ds_MerchantParameters=e30%3D",
		Status:       20,
		Error:        &reason,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := repo.Create(context.Background(), callback); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if callback.ID != 41 {
		t.Fatalf("expected id 41, got %d", callback.ID)
	}
	if len(db.args) != 10 {
		t.Fatalf("expected 10 args, got %d", len(db.args))
	}
	if db.args[0] != nil {
		t.Fatalf("expected NULL payment id, got %v", db.args[0])
	}
	if db.args[1] != "cb-1" {
		t.Fatalf("unexpected request id arg: %v", db.args[1])
	}
	if len(db.args[3].(string)) != 64 || len(db.args[4].(string)) != 128 {
		t.Fatal("expected hash and signature cut to column width")
	}
}

func TestPaymentEventCreateStoresResponseCode(t *testing.T) {
	db := &recordingDB{}
	repo := NewPaymentEventRepository(db)
	code := "0190"
	oldStatus := int32(2)
	event := &entity.PaymentEvent{
		PaymentID:    7,
		EventType:    "redsys_payment_declined",
		OldStatus:    &oldStatus,
		NewStatus:    20,
		ResponseCode: &code,
		CreatedAt:    time.Now().UTC(),
	}

	if err := repo.Create(context.Background(), event); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if event.ID != 41 {
		t.Fatalf("expected id 41, got %d", event.ID)
	}
	if !strings.Contains(db.query, "response_code") {
		t.Fatalf("expected response_code column in insert: %s", db.query)
	}
	if db.args[5] != "0190" {
		t.Fatalf("unexpected response code arg: %v", db.args[5])
	}
}
