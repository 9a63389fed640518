package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtobufCodec encodes bodies as Protocol Buffers.
//
// Generated messages are marshaled as they are. Any other value, such as the
// maps and lists decoded from a response script, is carried as a
// google.protobuf.Value, so a client can read it back without a schema.
type ProtobufCodec struct{}

var marshalOptions = proto.MarshalOptions{Deterministic: true}

func (c *ProtobufCodec) Encode(v any) ([]byte, error) {
	if msg, ok := v.(proto.Message); ok {
		return marshalOptions.Marshal(msg)
	}

	dynamic, err := structpb.NewValue(v)
	if err != nil {
		return nil, fmt.Errorf("cannot encode %T as protobuf: %w", v, err)
	}
	return marshalOptions.Marshal(dynamic)
}

// Decode unmarshals into a proto.Message, or into *any by way of
// google.protobuf.Value
func (c *ProtobufCodec) Decode(data []byte, v any) error {
	switch dst := v.(type) {
	case proto.Message:
		return proto.Unmarshal(data, dst)
	case *any:
		var dynamic structpb.Value
		if err := proto.Unmarshal(data, &dynamic); err != nil {
			return err
		}
		*dst = dynamic.AsInterface()
		return nil
	default:
		return fmt.Errorf("cannot decode protobuf into %T", v)
	}
}

func (c *ProtobufCodec) Name() string {
	return "protobuf"
}

func (c *ProtobufCodec) ContentType() string {
	return "application/x-protobuf"
}
