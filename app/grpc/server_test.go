package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-redsys/app/entity"
	"github.com/vibast-solutions/ms-go-redsys/app/provider"
	"github.com/vibast-solutions/ms-go-redsys/app/redsys"
	"github.com/vibast-solutions/ms-go-redsys/app/repository"
	"github.com/vibast-solutions/ms-go-redsys/app/service"
	"github.com/vibast-solutions/ms-go-redsys/app/types"
	"github.com/vibast-solutions/ms-go-redsys/config"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type grpcPaymentRepo struct {
	createFn                  func(ctx context.Context, payment *entity.Payment) error
	updateFn                  func(ctx context.Context, payment *entity.Payment) error
	findByIDFn                func(ctx context.Context, id uint64) (*entity.Payment, error)
	findByCallerRequestIDFn   func(ctx context.Context, callerService, requestID string) (*entity.Payment, error)
	findByCallbackHashFn      func(ctx context.Context, provider int32, callbackHash string) (*entity.Payment, error)
	listFn                    func(ctx context.Context, filter repository.PaymentFilter) ([]*entity.Payment, error)
	listDueCallbackDispatchFn func(ctx context.Context, now time.Time, limit int32) ([]*entity.Payment, error)
	listExpiredPendingFn      func(ctx context.Context, cutoff time.Time, limit int32) ([]*entity.Payment, error)
}

func (r *grpcPaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	if r.createFn != nil {
		return r.createFn(ctx, payment)
	}
	return nil
}

func (r *grpcPaymentRepo) Update(ctx context.Context, payment *entity.Payment) error {
	if r.updateFn != nil {
		return r.updateFn(ctx, payment)
	}
	return nil
}

func (r *grpcPaymentRepo) FindByID(ctx context.Context, id uint64) (*entity.Payment, error) {
	if r.findByIDFn != nil {
		return r.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (r *grpcPaymentRepo) FindByCallerRequestID(ctx context.Context, callerService, requestID string) (*entity.Payment, error) {
	if r.findByCallerRequestIDFn != nil {
		return r.findByCallerRequestIDFn(ctx, callerService, requestID)
	}
	return nil, nil
}

func (r *grpcPaymentRepo) FindByCallbackHash(ctx context.Context, provider int32, callbackHash string) (*entity.Payment, error) {
	if r.findByCallbackHashFn != nil {
		return r.findByCallbackHashFn(ctx, provider, callbackHash)
	}
	return nil, nil
}

func (r *grpcPaymentRepo) List(ctx context.Context, filter repository.PaymentFilter) ([]*entity.Payment, error) {
	if r.listFn != nil {
		return r.listFn(ctx, filter)
	}
	return []*entity.Payment{}, nil
}

func (r *grpcPaymentRepo) ListDueCallbackDispatch(ctx context.Context, now time.Time, limit int32) ([]*entity.Payment, error) {
	if r.listDueCallbackDispatchFn != nil {
		return r.listDueCallbackDispatchFn(ctx, now, limit)
	}
	return []*entity.Payment{}, nil
}

func (r *grpcPaymentRepo) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int32) ([]*entity.Payment, error) {
	if r.listExpiredPendingFn != nil {
		return r.listExpiredPendingFn(ctx, cutoff, limit)
	}
	return []*entity.Payment{}, nil
}

type grpcEventRepo struct{}

func (r *grpcEventRepo) Create(context.Context, *entity.PaymentEvent) error {
	return nil
}

type grpcCallbackRepo struct{}

func (r *grpcCallbackRepo) Create(context.Context, *entity.PaymentCallback) error {
	return nil
}

type grpcProvider struct {
	createOutput *provider.CreateOutput
	createErr    error
	callbackErr  error
	callbackEvt  *provider.CallbackEvent
}

func (p *grpcProvider) Code() int32 {
	return int32(types.ProviderType_PROVIDER_TYPE_REDSYS)
}

func (p *grpcProvider) CreatePayment(context.Context, *provider.CreateInput) (*provider.CreateOutput, error) {
	if p.createErr != nil {
		return nil, p.createErr
	}
	if p.createOutput != nil {
		return p.createOutput, nil
	}
	url := "https://pay.example.com/checkout/redsys/hash"
	id := "202600000077"
	return &provider.CreateOutput{
		ProviderPaymentID: &id,
		CheckoutURL:       &url,
		CheckoutForm: &provider.CheckoutForm{
			Endpoint:           "https://sis-t.redsys.es:25443/sis/realizarPago",
			SignatureVersion:   "HMAC_SHA256_V1",
			MerchantParameters: "e30=",
			Signature:          "c2ln",
		},
		ProviderCallbackURL: "https://gateway.example/payments/callback/hash",
		InitialStatus:       int32(types.PaymentStatus_PAYMENT_STATUS_PENDING),
	}, nil
}

func (p *grpcProvider) VerifyAndParseCallback(context.Context, []byte, string) (*provider.CallbackEvent, error) {
	if p.callbackErr != nil {
		return nil, p.callbackErr
	}
	if p.callbackEvt != nil {
		return p.callbackEvt, nil
	}
	return &provider.CallbackEvent{EventType: "authorised", NewStatus: int32(types.PaymentStatus_PAYMENT_STATUS_PAID)}, nil
}

func newGRPCServerForTest(repo *grpcPaymentRepo, p provider.Provider) *Server {
	paymentService := service.NewPaymentService(
		repo,
		&grpcEventRepo{},
		&grpcCallbackRepo{},
		provider.NewRegistry(p),
		config.PaymentsConfig{CallbackMaxAttempts: 3, CallbackRetryInterval: time.Minute, PendingTimeout: time.Hour, JobBatchSize: 100},
		"payments-app-key",
	)
	return NewServer(paymentService)
}

func TestCreatePaymentInvalidArgument(t *testing.T) {
	srv := newGRPCServerForTest(&grpcPaymentRepo{}, &grpcProvider{})

	_, err := srv.CreatePayment(context.Background(), &types.CreatePaymentRequest{})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestCreatePaymentSuccess(t *testing.T) {
	repo := &grpcPaymentRepo{
		createFn: func(_ context.Context, payment *entity.Payment) error {
			payment.ID = 77
			return nil
		},
	}
	srv := newGRPCServerForTest(repo, &grpcProvider{})

	resp, err := srv.CreatePayment(context.Background(), &types.CreatePaymentRequest{
		RequestId:         "req-1",
		CallerService:     "subscriptions-service",
		ResourceType:      "subscription",
		ResourceId:        "sub-1",
		AmountCents:       1999,
		Currency:          "EUR",
		PaymentMethod:     types.PaymentMethod_PAYMENT_METHOD_HOSTED_CARD,
		PaymentType:       types.PaymentType_PAYMENT_TYPE_ONE_TIME,
		StatusCallbackUrl: "https://caller.example/callback",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.GetPayment().GetId() != 77 {
		t.Fatalf("expected id=77, got %+v", resp.GetPayment())
	}
}

func TestGetPaymentNotFound(t *testing.T) {
	repo := &grpcPaymentRepo{findByIDFn: func(context.Context, uint64) (*entity.Payment, error) { return nil, nil }}
	srv := newGRPCServerForTest(repo, &grpcProvider{})

	_, err := srv.GetPayment(context.Background(), &types.GetPaymentRequest{Id: 9})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestCancelPaymentPaidInvalidStatus(t *testing.T) {
	repo := &grpcPaymentRepo{findByIDFn: func(context.Context, uint64) (*entity.Payment, error) {
		return &entity.Payment{ID: 9, Status: int32(types.PaymentStatus_PAYMENT_STATUS_PAID)}, nil
	}}
	srv := newGRPCServerForTest(repo, &grpcProvider{})

	_, err := srv.CancelPayment(context.Background(), &types.CancelPaymentRequest{Id: 9, Reason: "duplicate"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestHandleProviderCallbackRejected(t *testing.T) {
	repo := &grpcPaymentRepo{}
	srv := newGRPCServerForTest(repo, &grpcProvider{callbackErr: &redsys.VerificationError{Kind: redsys.SignatureMismatch}})

	_, err := srv.HandleProviderCallback(context.Background(), &types.HandleProviderCallbackRequest{
		RequestId:    "req-1",
		Provider:     "redsys",
		CallbackHash: "hash-1",
		Signature:    "sig",
		Payload:      "Ds_SignatureVersion=HMAC_SHA256_V1&Ds_MerchantParameters=e30%3D&Ds_Signature=sig",
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestHandleProviderCallbackInternalError(t *testing.T) {
	srv := newGRPCServerForTest(&grpcPaymentRepo{}, &grpcProvider{callbackErr: errors.New("secret store unavailable")})

	_, err := srv.HandleProviderCallback(context.Background(), &types.HandleProviderCallbackRequest{
		RequestId:    "req-2",
		Provider:     "redsys",
		CallbackHash: "hash-1",
		Signature:    "sig",
		Payload:      "Ds_MerchantParameters=e30%3D",
	})
	if status.Code(err) != codes.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}
}

func TestGetCheckoutFormSuccess(t *testing.T) {
	repo := &grpcPaymentRepo{findByCallbackHashFn: func(_ context.Context, _ int32, hash string) (*entity.Payment, error) {
		return &entity.Payment{
			ID:                   77,
			Status:               int32(types.PaymentStatus_PAYMENT_STATUS_PENDING),
			Provider:             int32(types.ProviderType_PROVIDER_TYPE_REDSYS),
			ProviderCallbackHash: hash,
			CheckoutForm: &entity.CheckoutForm{
				Endpoint:           "https://sis-t.redsys.es:25443/sis/realizarPago",
				SignatureVersion:   "HMAC_SHA256_V1",
				MerchantParameters: "e30=",
				Signature:          "c2ln",
			},
		}, nil
	}}
	srv := newGRPCServerForTest(repo, &grpcProvider{})

	resp, err := srv.GetCheckoutForm(context.Background(), &types.GetCheckoutFormRequest{Provider: "redsys", CallbackHash: "hash-1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.GetPaymentId() != 77 || resp.GetSignature() != "c2ln" || resp.GetMerchantParameters() != "e30=" {
		t.Fatalf("unexpected checkout form: %+v", resp)
	}
}

func TestGetCheckoutFormErrors(t *testing.T) {
	paid := &grpcPaymentRepo{findByCallbackHashFn: func(context.Context, int32, string) (*entity.Payment, error) {
		return &entity.Payment{ID: 1, Status: int32(types.PaymentStatus_PAYMENT_STATUS_PAID), CheckoutForm: &entity.CheckoutForm{Signature: "c2ln"}}, nil
	}}

	cases := []struct {
		name string
		repo *grpcPaymentRepo
		req  *types.GetCheckoutFormRequest
		code codes.Code
	}{
		{name: "missing hash", repo: &grpcPaymentRepo{}, req: &types.GetCheckoutFormRequest{Provider: "redsys"}, code: codes.InvalidArgument},
		{name: "unknown provider", repo: &grpcPaymentRepo{}, req: &types.GetCheckoutFormRequest{Provider: "paypal", CallbackHash: "hash-1"}, code: codes.InvalidArgument},
		{name: "not found", repo: &grpcPaymentRepo{}, req: &types.GetCheckoutFormRequest{Provider: "redsys", CallbackHash: "hash-1"}, code: codes.NotFound},
		{name: "already paid", repo: paid, req: &types.GetCheckoutFormRequest{Provider: "redsys", CallbackHash: "hash-1"}, code: codes.FailedPrecondition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newGRPCServerForTest(tc.repo, &grpcProvider{})
			_, err := srv.GetCheckoutForm(context.Background(), tc.req)
			if status.Code(err) != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestListPaymentsSuccess(t *testing.T) {
	repo := &grpcPaymentRepo{listFn: func(context.Context, repository.PaymentFilter) ([]*entity.Payment, error) {
		return []*entity.Payment{{
			ID:                   5,
			RequestID:            "req-1",
			CallerService:        "subscriptions-service",
			ResourceType:         "subscription",
			ResourceID:           "sub-1",
			AmountCents:          1000,
			Currency:             "EUR",
			Status:               int32(types.PaymentStatus_PAYMENT_STATUS_PENDING),
			PaymentMethod:        int32(types.PaymentMethod_PAYMENT_METHOD_HOSTED_CARD),
			PaymentType:          int32(types.PaymentType_PAYMENT_TYPE_ONE_TIME),
			Provider:             int32(types.ProviderType_PROVIDER_TYPE_REDSYS),
			ProviderCallbackHash: "hash-1",
			ProviderCallbackURL:  "https://gateway.example/callback/hash-1",
			StatusCallbackURL:    "https://caller.example/status",
			Metadata:             map[string]string{},
			CreatedAt:            time.Now().UTC(),
			UpdatedAt:            time.Now().UTC(),
		}}, nil
	}}
	srv := newGRPCServerForTest(repo, &grpcProvider{})

	resp, err := srv.ListPayments(context.Background(), &types.ListPaymentsRequest{Limit: 10, Offset: 0})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(resp.GetPayments()) != 1 || resp.GetPayments()[0].GetId() != 5 {
		t.Fatalf("unexpected payments response: %+v", resp)
	}
}
