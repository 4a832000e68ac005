package types

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	PaymentsService_Health_FullMethodName                 = "/payments.PaymentsService/Health"
	PaymentsService_CreatePayment_FullMethodName          = "/payments.PaymentsService/CreatePayment"
	PaymentsService_GetPayment_FullMethodName             = "/payments.PaymentsService/GetPayment"
	PaymentsService_ListPayments_FullMethodName           = "/payments.PaymentsService/ListPayments"
	PaymentsService_CancelPayment_FullMethodName          = "/payments.PaymentsService/CancelPayment"
	PaymentsService_GetCheckoutForm_FullMethodName        = "/payments.PaymentsService/GetCheckoutForm"
	PaymentsService_HandleProviderCallback_FullMethodName = "/payments.PaymentsService/HandleProviderCallback"
)

type PaymentsServiceServer interface {
	Health(context.Context, *HealthRequest) (*HealthResponse, error)
	CreatePayment(context.Context, *CreatePaymentRequest) (*PaymentEnvelopeResponse, error)
	GetPayment(context.Context, *GetPaymentRequest) (*PaymentEnvelopeResponse, error)
	ListPayments(context.Context, *ListPaymentsRequest) (*ListPaymentsResponse, error)
	CancelPayment(context.Context, *CancelPaymentRequest) (*PaymentEnvelopeResponse, error)
	GetCheckoutForm(context.Context, *GetCheckoutFormRequest) (*CheckoutFormResponse, error)
	HandleProviderCallback(context.Context, *HandleProviderCallbackRequest) (*MessageResponse, error)
	mustEmbedUnimplementedPaymentsServiceServer()
}

type UnimplementedPaymentsServiceServer struct{}

func (UnimplementedPaymentsServiceServer) Health(context.Context, *HealthRequest) (*HealthResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Health not implemented")
}

func (UnimplementedPaymentsServiceServer) CreatePayment(context.Context, *CreatePaymentRequest) (*PaymentEnvelopeResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreatePayment not implemented")
}

func (UnimplementedPaymentsServiceServer) GetPayment(context.Context, *GetPaymentRequest) (*PaymentEnvelopeResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetPayment not implemented")
}

func (UnimplementedPaymentsServiceServer) ListPayments(context.Context, *ListPaymentsRequest) (*ListPaymentsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListPayments not implemented")
}

func (UnimplementedPaymentsServiceServer) CancelPayment(context.Context, *CancelPaymentRequest) (*PaymentEnvelopeResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CancelPayment not implemented")
}

func (UnimplementedPaymentsServiceServer) GetCheckoutForm(context.Context, *GetCheckoutFormRequest) (*CheckoutFormResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetCheckoutForm not implemented")
}

func (UnimplementedPaymentsServiceServer) HandleProviderCallback(context.Context, *HandleProviderCallbackRequest) (*MessageResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method HandleProviderCallback not implemented")
}

func (UnimplementedPaymentsServiceServer) mustEmbedUnimplementedPaymentsServiceServer() {}

func RegisterPaymentsServiceServer(s grpc.ServiceRegistrar, srv PaymentsServiceServer) {
	s.RegisterService(&PaymentsService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to a grpc.MethodDesc handler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(PaymentsServiceServer, context.Context, *Req) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PaymentsServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PaymentsServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var PaymentsService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "payments.PaymentsService",
	HandlerType: (*PaymentsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Health",
			Handler:    unaryHandler(PaymentsService_Health_FullMethodName, PaymentsServiceServer.Health),
		},
		{
			MethodName: "CreatePayment",
			Handler:    unaryHandler(PaymentsService_CreatePayment_FullMethodName, PaymentsServiceServer.CreatePayment),
		},
		{
			MethodName: "GetPayment",
			Handler:    unaryHandler(PaymentsService_GetPayment_FullMethodName, PaymentsServiceServer.GetPayment),
		},
		{
			MethodName: "ListPayments",
			Handler:    unaryHandler(PaymentsService_ListPayments_FullMethodName, PaymentsServiceServer.ListPayments),
		},
		{
			MethodName: "CancelPayment",
			Handler:    unaryHandler(PaymentsService_CancelPayment_FullMethodName, PaymentsServiceServer.CancelPayment),
		},
		{
			MethodName: "GetCheckoutForm",
			Handler:    unaryHandler(PaymentsService_GetCheckoutForm_FullMethodName, PaymentsServiceServer.GetCheckoutForm),
		},
		{
			MethodName: "HandleProviderCallback",
			Handler:    unaryHandler(PaymentsService_HandleProviderCallback_FullMethodName, PaymentsServiceServer.HandleProviderCallback),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "payments.proto",
}
