package types

import (
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

// wireMessage is implemented by every service message. The encoding is the
// protobuf binary form of the messages in proto/payments.proto.
type wireMessage interface {
	marshalWire(b []byte) []byte
	unmarshalWire(b []byte) error
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// appendInt encodes int32, int64 and enum fields. Negative values take the
// ten byte sign extended form.
func appendInt(b []byte, num protowire.Number, v int64) []byte {
	return appendVarint(b, num, uint64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	return appendVarint(b, num, protowire.EncodeBool(v))
}

func appendMessage(b []byte, num protowire.Number, m wireMessage) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.marshalWire(nil))
}

// appendStringMap writes map<string, string> entries in key order.
func appendStringMap(b []byte, num protowire.Number, m map[string]string) []byte {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		entry := appendString(nil, 1, k)
		entry = appendString(entry, 2, m[k])
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	return b
}

type wireField struct {
	num    protowire.Number
	typ    protowire.Type
	varint uint64
	bytes  []byte
}

func (f wireField) asString() string {
	if f.typ != protowire.BytesType {
		return ""
	}
	return string(f.bytes)
}

func (f wireField) asUint64() uint64 {
	if f.typ != protowire.VarintType {
		return 0
	}
	return f.varint
}

func (f wireField) asInt64() int64 {
	return int64(f.asUint64())
}

func (f wireField) asInt32() int32 {
	return int32(f.asUint64())
}

func (f wireField) asBool() bool {
	return f.asUint64() != 0
}

// consumeFields walks the varint and length delimited fields of b. Fields of
// any other wire type are skipped, as are unknown field numbers in visit.
func consumeFields(b []byte, visit func(f wireField) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := wireField{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if typ != protowire.VarintType && typ != protowire.BytesType {
			continue
		}
		if err := visit(f); err != nil {
			return err
		}
	}
	return nil
}

func consumeStringMapEntry(f wireField, m map[string]string) error {
	var key, value string
	err := consumeFields(f.bytes, func(entry wireField) error {
		switch entry.num {
		case 1:
			key = entry.asString()
		case 2:
			value = entry.asString()
		}
		return nil
	})
	if err != nil {
		return err
	}
	m[key] = value
	return nil
}

func (x *Payment) marshalWire(b []byte) []byte {
	b = appendVarint(b, 1, x.Id)
	b = appendString(b, 2, x.RequestId)
	b = appendString(b, 3, x.CallerService)
	b = appendString(b, 4, x.ResourceType)
	b = appendString(b, 5, x.ResourceId)
	b = appendString(b, 6, x.CustomerRef)
	b = appendString(b, 7, x.CustomerName)
	b = appendString(b, 8, x.Description)
	b = appendInt(b, 9, x.AmountCents)
	b = appendString(b, 10, x.Currency)
	b = appendInt(b, 11, int64(x.Status))
	b = appendInt(b, 12, int64(x.PaymentMethod))
	b = appendInt(b, 13, int64(x.PaymentType))
	b = appendInt(b, 14, int64(x.Provider))
	b = appendString(b, 15, x.Language)
	b = appendString(b, 16, x.ProviderPaymentId)
	b = appendString(b, 17, x.CheckoutUrl)
	b = appendString(b, 18, x.ProviderCallbackHash)
	b = appendString(b, 19, x.ProviderCallbackUrl)
	b = appendString(b, 20, x.StatusCallbackUrl)
	b = appendString(b, 21, x.RemoteId)
	b = appendString(b, 22, x.RemoteState)
	b = appendString(b, 23, x.FailureReason)
	b = appendStringMap(b, 24, x.Metadata)
	b = appendString(b, 25, x.CreatedAt)
	b = appendString(b, 26, x.UpdatedAt)
	return b
}

func (x *Payment) unmarshalWire(b []byte) error {
	*x = Payment{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			x.Id = f.asUint64()
		case 2:
			x.RequestId = f.asString()
		case 3:
			x.CallerService = f.asString()
		case 4:
			x.ResourceType = f.asString()
		case 5:
			x.ResourceId = f.asString()
		case 6:
			x.CustomerRef = f.asString()
		case 7:
			x.CustomerName = f.asString()
		case 8:
			x.Description = f.asString()
		case 9:
			x.AmountCents = f.asInt64()
		case 10:
			x.Currency = f.asString()
		case 11:
			x.Status = PaymentStatus(f.asInt32())
		case 12:
			x.PaymentMethod = PaymentMethod(f.asInt32())
		case 13:
			x.PaymentType = PaymentType(f.asInt32())
		case 14:
			x.Provider = ProviderType(f.asInt32())
		case 15:
			x.Language = f.asString()
		case 16:
			x.ProviderPaymentId = f.asString()
		case 17:
			x.CheckoutUrl = f.asString()
		case 18:
			x.ProviderCallbackHash = f.asString()
		case 19:
			x.ProviderCallbackUrl = f.asString()
		case 20:
			x.StatusCallbackUrl = f.asString()
		case 21:
			x.RemoteId = f.asString()
		case 22:
			x.RemoteState = f.asString()
		case 23:
			x.FailureReason = f.asString()
		case 24:
			if x.Metadata == nil {
				x.Metadata = map[string]string{}
			}
			return consumeStringMapEntry(f, x.Metadata)
		case 25:
			x.CreatedAt = f.asString()
		case 26:
			x.UpdatedAt = f.asString()
		}
		return nil
	})
}

func (x *CreatePaymentRequest) marshalWire(b []byte) []byte {
	b = appendString(b, 1, x.RequestId)
	b = appendString(b, 2, x.CallerService)
	b = appendString(b, 3, x.ResourceType)
	b = appendString(b, 4, x.ResourceId)
	b = appendString(b, 5, x.CustomerRef)
	b = appendString(b, 6, x.CustomerName)
	b = appendString(b, 7, x.Description)
	b = appendInt(b, 8, x.AmountCents)
	b = appendString(b, 9, x.Currency)
	b = appendInt(b, 10, int64(x.PaymentMethod))
	b = appendInt(b, 11, int64(x.PaymentType))
	b = appendInt(b, 12, int64(x.Provider))
	b = appendString(b, 13, x.Language)
	b = appendString(b, 14, x.StatusCallbackUrl)
	b = appendString(b, 15, x.SuccessUrl)
	b = appendString(b, 16, x.CancelUrl)
	b = appendStringMap(b, 17, x.Metadata)
	return b
}

func (x *CreatePaymentRequest) unmarshalWire(b []byte) error {
	*x = CreatePaymentRequest{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			x.RequestId = f.asString()
		case 2:
			x.CallerService = f.asString()
		case 3:
			x.ResourceType = f.asString()
		case 4:
			x.ResourceId = f.asString()
		case 5:
			x.CustomerRef = f.asString()
		case 6:
			x.CustomerName = f.asString()
		case 7:
			x.Description = f.asString()
		case 8:
			x.AmountCents = f.asInt64()
		case 9:
			x.Currency = f.asString()
		case 10:
			x.PaymentMethod = PaymentMethod(f.asInt32())
		case 11:
			x.PaymentType = PaymentType(f.asInt32())
		case 12:
			x.Provider = ProviderType(f.asInt32())
		case 13:
			x.Language = f.asString()
		case 14:
			x.StatusCallbackUrl = f.asString()
		case 15:
			x.SuccessUrl = f.asString()
		case 16:
			x.CancelUrl = f.asString()
		case 17:
			if x.Metadata == nil {
				x.Metadata = map[string]string{}
			}
			return consumeStringMapEntry(f, x.Metadata)
		}
		return nil
	})
}

func (x *GetPaymentRequest) marshalWire(b []byte) []byte {
	return appendVarint(b, 1, x.Id)
}

func (x *GetPaymentRequest) unmarshalWire(b []byte) error {
	*x = GetPaymentRequest{}
	return consumeFields(b, func(f wireField) error {
		if f.num == 1 {
			x.Id = f.asUint64()
		}
		return nil
	})
}

func (x *ListPaymentsRequest) marshalWire(b []byte) []byte {
	b = appendString(b, 1, x.RequestId)
	b = appendString(b, 2, x.CallerService)
	b = appendString(b, 3, x.ResourceType)
	b = appendString(b, 4, x.ResourceId)
	b = appendBool(b, 5, x.HasStatus)
	b = appendInt(b, 6, int64(x.Status))
	b = appendInt(b, 7, int64(x.Provider))
	b = appendInt(b, 8, int64(x.Limit))
	b = appendInt(b, 9, int64(x.Offset))
	return b
}

func (x *ListPaymentsRequest) unmarshalWire(b []byte) error {
	*x = ListPaymentsRequest{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			x.RequestId = f.asString()
		case 2:
			x.CallerService = f.asString()
		case 3:
			x.ResourceType = f.asString()
		case 4:
			x.ResourceId = f.asString()
		case 5:
			x.HasStatus = f.asBool()
		case 6:
			x.Status = PaymentStatus(f.asInt32())
		case 7:
			x.Provider = ProviderType(f.asInt32())
		case 8:
			x.Limit = f.asInt32()
		case 9:
			x.Offset = f.asInt32()
		}
		return nil
	})
}

func (x *CancelPaymentRequest) marshalWire(b []byte) []byte {
	b = appendVarint(b, 1, x.Id)
	return appendString(b, 2, x.Reason)
}

func (x *CancelPaymentRequest) unmarshalWire(b []byte) error {
	*x = CancelPaymentRequest{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			x.Id = f.asUint64()
		case 2:
			x.Reason = f.asString()
		}
		return nil
	})
}

func (x *HandleProviderCallbackRequest) marshalWire(b []byte) []byte {
	b = appendString(b, 1, x.RequestId)
	b = appendString(b, 2, x.Provider)
	b = appendString(b, 3, x.CallbackHash)
	b = appendString(b, 4, x.Signature)
	return appendString(b, 5, x.Payload)
}

func (x *HandleProviderCallbackRequest) unmarshalWire(b []byte) error {
	*x = HandleProviderCallbackRequest{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			x.RequestId = f.asString()
		case 2:
			x.Provider = f.asString()
		case 3:
			x.CallbackHash = f.asString()
		case 4:
			x.Signature = f.asString()
		case 5:
			x.Payload = f.asString()
		}
		return nil
	})
}

func (x *GetCheckoutFormRequest) marshalWire(b []byte) []byte {
	b = appendString(b, 1, x.Provider)
	return appendString(b, 2, x.CallbackHash)
}

func (x *GetCheckoutFormRequest) unmarshalWire(b []byte) error {
	*x = GetCheckoutFormRequest{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			x.Provider = f.asString()
		case 2:
			x.CallbackHash = f.asString()
		}
		return nil
	})
}

func (x *CheckoutFormResponse) marshalWire(b []byte) []byte {
	b = appendVarint(b, 1, x.PaymentId)
	b = appendString(b, 2, x.Endpoint)
	b = appendString(b, 3, x.SignatureVersion)
	b = appendString(b, 4, x.MerchantParameters)
	return appendString(b, 5, x.Signature)
}

func (x *CheckoutFormResponse) unmarshalWire(b []byte) error {
	*x = CheckoutFormResponse{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			x.PaymentId = f.asUint64()
		case 2:
			x.Endpoint = f.asString()
		case 3:
			x.SignatureVersion = f.asString()
		case 4:
			x.MerchantParameters = f.asString()
		case 5:
			x.Signature = f.asString()
		}
		return nil
	})
}

func (x *PaymentEnvelopeResponse) marshalWire(b []byte) []byte {
	if x.Payment == nil {
		return b
	}
	return appendMessage(b, 1, x.Payment)
}

func (x *PaymentEnvelopeResponse) unmarshalWire(b []byte) error {
	*x = PaymentEnvelopeResponse{}
	return consumeFields(b, func(f wireField) error {
		if f.num != 1 || f.typ != protowire.BytesType {
			return nil
		}
		x.Payment = &Payment{}
		return x.Payment.unmarshalWire(f.bytes)
	})
}

func (x *ListPaymentsResponse) marshalWire(b []byte) []byte {
	for _, payment := range x.Payments {
		if payment == nil {
			continue
		}
		b = appendMessage(b, 1, payment)
	}
	return b
}

func (x *ListPaymentsResponse) unmarshalWire(b []byte) error {
	*x = ListPaymentsResponse{}
	return consumeFields(b, func(f wireField) error {
		if f.num != 1 || f.typ != protowire.BytesType {
			return nil
		}
		payment := &Payment{}
		if err := payment.unmarshalWire(f.bytes); err != nil {
			return err
		}
		x.Payments = append(x.Payments, payment)
		return nil
	})
}

func (x *MessageResponse) marshalWire(b []byte) []byte {
	return appendString(b, 1, x.Message)
}

func (x *MessageResponse) unmarshalWire(b []byte) error {
	*x = MessageResponse{}
	return consumeFields(b, func(f wireField) error {
		if f.num == 1 {
			x.Message = f.asString()
		}
		return nil
	})
}

func (x *ErrorResponse) marshalWire(b []byte) []byte {
	return appendString(b, 1, x.Error)
}

func (x *ErrorResponse) unmarshalWire(b []byte) error {
	*x = ErrorResponse{}
	return consumeFields(b, func(f wireField) error {
		if f.num == 1 {
			x.Error = f.asString()
		}
		return nil
	})
}

func (x *HealthRequest) marshalWire(b []byte) []byte {
	return b
}

func (x *HealthRequest) unmarshalWire(b []byte) error {
	return consumeFields(b, func(wireField) error { return nil })
}

func (x *HealthResponse) marshalWire(b []byte) []byte {
	return appendString(b, 1, x.Status)
}

func (x *HealthResponse) unmarshalWire(b []byte) error {
	*x = HealthResponse{}
	return consumeFields(b, func(f wireField) error {
		if f.num == 1 {
			x.Status = f.asString()
		}
		return nil
	})
}
