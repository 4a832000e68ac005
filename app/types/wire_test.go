package types

import (
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestProtoCodecEncodesCreatePaymentRequest(t *testing.T) {
	data, err := ProtoCodec().Marshal(&CreatePaymentRequest{
		RequestId:     "req-1",
		AmountCents:   1999,
		PaymentMethod: PaymentMethod_PAYMENT_METHOD_BIZUM,
		Metadata:      map[string]string{"cart": "c-1"},
	})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var (
		requestID string
		amount    uint64
		method    uint64
		entry     []byte
	)
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			t.Fatalf("bad tag: %v", protowire.ParseError(n))
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			requestID, n = protowire.ConsumeString(data)
		case num == 8 && typ == protowire.VarintType:
			amount, n = protowire.ConsumeVarint(data)
		case num == 10 && typ == protowire.VarintType:
			method, n = protowire.ConsumeVarint(data)
		case num == 17 && typ == protowire.BytesType:
			entry, n = protowire.ConsumeBytes(data)
		default:
			t.Fatalf("unexpected field %d type %d", num, typ)
		}
		if n < 0 {
			t.Fatalf("bad field %d: %v", num, protowire.ParseError(n))
		}
		data = data[n:]
	}

	if requestID != "req-1" || amount != 1999 || method != uint64(PaymentMethod_PAYMENT_METHOD_BIZUM) {
		t.Fatalf("unexpected fields: request_id=%q amount=%d method=%d", requestID, amount, method)
	}
	want := protowire.AppendString(protowire.AppendTag(nil, 1, protowire.BytesType), "cart")
	want = protowire.AppendString(protowire.AppendTag(want, 2, protowire.BytesType), "c-1")
	if string(entry) != string(want) {
		t.Fatalf("unexpected metadata entry: %x", entry)
	}
}

func TestProtoCodecDecodesListPaymentsResponse(t *testing.T) {
	refund := int64(-250)
	var first, second []byte
	first = protowire.AppendVarint(protowire.AppendTag(first, 1, protowire.VarintType), 5)
	first = protowire.AppendVarint(protowire.AppendTag(first, 11, protowire.VarintType), uint64(PaymentStatus_PAYMENT_STATUS_PAID))
	first = protowire.AppendFixed32(protowire.AppendTag(first, 99, protowire.Fixed32Type), 7)
	second = protowire.AppendString(protowire.AppendTag(second, 2, protowire.BytesType), "req-2")
	second = protowire.AppendVarint(protowire.AppendTag(second, 9, protowire.VarintType), uint64(refund))

	var data []byte
	data = protowire.AppendBytes(protowire.AppendTag(data, 1, protowire.BytesType), first)
	data = protowire.AppendBytes(protowire.AppendTag(data, 1, protowire.BytesType), second)

	resp := &ListPaymentsResponse{}
	if err := ProtoCodec().Unmarshal(data, resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(resp.GetPayments()) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(resp.GetPayments()))
	}
	if resp.Payments[0].GetId() != 5 || resp.Payments[0].GetStatus() != PaymentStatus_PAYMENT_STATUS_PAID {
		t.Fatalf("unexpected first payment: %+v", resp.Payments[0])
	}
	if resp.Payments[1].RequestId != "req-2" || resp.Payments[1].AmountCents != refund {
		t.Fatalf("unexpected second payment: %+v", resp.Payments[1])
	}
}

func TestProtoCodecRoundTripNegativeEnum(t *testing.T) {
	codec := ProtoCodec()
	data, err := codec.Marshal(&ListPaymentsRequest{HasStatus: true, Status: PaymentStatus(-1), Limit: 10})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	got := &ListPaymentsRequest{RequestId: "stale"}
	if err := codec.Unmarshal(data, got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.RequestId != "" || !got.HasStatus || got.Status != PaymentStatus(-1) || got.Limit != 10 {
		t.Fatalf("unexpected request: %+v", got)
	}
}

func TestProtoCodecRejectsTruncatedInput(t *testing.T) {
	data := protowire.AppendTag(nil, 2, protowire.BytesType)
	data = protowire.AppendVarint(data, 10)
	data = append(data, "short"...)

	if err := ProtoCodec().Unmarshal(data, &Payment{}); err == nil {
		t.Fatal("expected error for truncated field")
	}
}

func TestProtoCodecDelegatesProtobufMessages(t *testing.T) {
	codec := ProtoCodec()
	data, err := codec.Marshal(wrapperspb.String("hello"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	got := &wrapperspb.StringValue{}
	if err := codec.Unmarshal(data, got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.GetValue() != "hello" {
		t.Fatalf("unexpected value: %q", got.GetValue())
	}

	if _, err := codec.Marshal(struct{}{}); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}
