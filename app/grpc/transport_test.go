package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-redsys/app/entity"
	"github.com/vibast-solutions/ms-go-redsys/app/types"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func dialTestServer(t *testing.T, srv *Server) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	grpcSrv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor(),
			RequestIDInterceptor(),
			LoggingInterceptor(),
		),
	)
	types.RegisterPaymentsServiceServer(grpcSrv, srv)
	go func() {
		_ = grpcSrv.Serve(lis)
	}()
	t.Cleanup(grpcSrv.Stop)

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func outgoingContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return metadata.AppendToOutgoingContext(ctx, requestIDHeader, "grpc-req-1")
}

func checkoutPaymentForGRPC(callbackHash string) *entity.Payment {
	return &entity.Payment{
		ID:                   12,
		Status:               int32(types.PaymentStatus_PAYMENT_STATUS_PENDING),
		Provider:             int32(types.ProviderType_PROVIDER_TYPE_REDSYS),
		ProviderCallbackHash: callbackHash,
		CheckoutForm: &entity.CheckoutForm{
			Endpoint:           "https://sis-t.redsys.es:25443/sis/realizarPago",
			SignatureVersion:   "HMAC_SHA256_V1",
			MerchantParameters: "e30=",
			Signature:          "c2ln",
		},
	}
}

func TestTransportCreatePaymentProtobuf(t *testing.T) {
	var stored *entity.Payment
	repo := &grpcPaymentRepo{
		createFn: func(_ context.Context, payment *entity.Payment) error {
			payment.ID = 88
			stored = payment
			return nil
		},
	}
	conn := dialTestServer(t, newGRPCServerForTest(repo, &grpcProvider{}))

	resp := &types.PaymentEnvelopeResponse{}
	err := conn.Invoke(outgoingContext(t), types.PaymentsService_CreatePayment_FullMethodName, &types.CreatePaymentRequest{
		RequestId:         "req-wire",
		CallerService:     "orders-service",
		ResourceType:      "order",
		ResourceId:        "ord-9",
		CustomerName:      "Jane Doe",
		AmountCents:       2550,
		Currency:          "EUR",
		PaymentMethod:     types.PaymentMethod_PAYMENT_METHOD_BIZUM,
		PaymentType:       types.PaymentType_PAYMENT_TYPE_ONE_TIME,
		StatusCallbackUrl: "https://caller.example/callback",
		Metadata:          map[string]string{"cart": "c-1"},
	}, resp)
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}

	if stored == nil || stored.AmountCents != 2550 || stored.Metadata["cart"] != "c-1" {
		t.Fatalf("request fields lost on the wire: %+v", stored)
	}
	if stored.PaymentMethod != int32(types.PaymentMethod_PAYMENT_METHOD_BIZUM) {
		t.Fatalf("unexpected payment method: %d", stored.PaymentMethod)
	}
	payment := resp.GetPayment()
	if payment.GetId() != 88 || payment.GetStatus() != types.PaymentStatus_PAYMENT_STATUS_PENDING {
		t.Fatalf("unexpected response payment: %+v", payment)
	}
	if payment.GetMetadata()["cart"] != "c-1" || payment.GetCheckoutUrl() == "" {
		t.Fatalf("response fields lost on the wire: %+v", payment)
	}
}

func TestTransportGetCheckoutFormJSONSubtype(t *testing.T) {
	repo := &grpcPaymentRepo{
		findByCallbackHashFn: func(_ context.Context, _ int32, callbackHash string) (*entity.Payment, error) {
			return checkoutPaymentForGRPC(callbackHash), nil
		},
	}
	conn := dialTestServer(t, newGRPCServerForTest(repo, &grpcProvider{}))

	resp := &types.CheckoutFormResponse{}
	err := conn.Invoke(
		outgoingContext(t),
		types.PaymentsService_GetCheckoutForm_FullMethodName,
		&types.GetCheckoutFormRequest{Provider: "redsys", CallbackHash: "hash-json"},
		resp,
		grpc.CallContentSubtype(types.CodecName),
	)
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if resp.GetPaymentId() != 12 || resp.GetMerchantParameters() != "e30=" {
		t.Fatalf("unexpected checkout form: %+v", resp)
	}
}

func TestTransportRequiresRequestID(t *testing.T) {
	conn := dialTestServer(t, newGRPCServerForTest(&grpcPaymentRepo{}, &grpcProvider{}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := conn.Invoke(ctx, types.PaymentsService_Health_FullMethodName, &types.HealthRequest{}, &types.HealthResponse{})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument without x-request-id, got %v", err)
	}

	resp := &types.HealthResponse{}
	if err := conn.Invoke(outgoingContext(t), types.PaymentsService_Health_FullMethodName, &types.HealthRequest{}, resp); err != nil {
		t.Fatalf("health failed: %v", err)
	}
	if resp.GetStatus() != "ok" {
		t.Fatalf("unexpected health status: %q", resp.GetStatus())
	}
}
