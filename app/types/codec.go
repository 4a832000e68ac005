package types

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/proto"
)

const (
	// CodecName is the content subtype of JSON encoded calls
	// (application/grpc+json).
	CodecName = "json"
	// ProtoCodecName replaces the default codec used for application/grpc
	// and application/grpc+proto.
	ProtoCodecName = "proto"
)

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func JSONCodec() encoding.Codec {
	return jsonCodec{}
}

// protoCodec encodes the service messages in protobuf binary form. Generated
// protobuf messages go to the protobuf runtime.
type protoCodec struct{}

func (protoCodec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case wireMessage:
		return m.marshalWire(nil), nil
	case proto.Message:
		return proto.Marshal(m)
	}
	return nil, fmt.Errorf("proto codec: cannot marshal %T", v)
}

func (protoCodec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case wireMessage:
		return m.unmarshalWire(data)
	case proto.Message:
		return proto.Unmarshal(data, m)
	}
	return fmt.Errorf("proto codec: cannot unmarshal into %T", v)
}

func (protoCodec) Name() string {
	return ProtoCodecName
}

func ProtoCodec() encoding.Codec {
	return protoCodec{}
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
	encoding.RegisterCodec(protoCodec{})
}
