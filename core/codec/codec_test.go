package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestJSONCodec(t *testing.T) {
	type payload struct {
		Random int `json:"random"`
	}

	data, err := JSON.Encode(payload{Random: 42})
	require.NoError(t, err)
	assert.JSONEq(t, `{"random":42}`, string(data))

	var decoded payload
	require.NoError(t, JSON.Decode(data, &decoded))
	assert.Equal(t, 42, decoded.Random)
	assert.Equal(t, "application/json", JSON.ContentType())
}

func TestProtobufCodec(t *testing.T) {
	data, err := Protobuf.Encode(wrapperspb.String("hello"))
	require.NoError(t, err)

	decoded := &wrapperspb.StringValue{}
	require.NoError(t, Protobuf.Decode(data, decoded))
	assert.Equal(t, "hello", decoded.GetValue())
}

func TestProtobufCodec_DynamicValues(t *testing.T) {
	in := map[string]any{
		"ok":    true,
		"count": 3,
		"tags":  []any{"a", "b"},
	}

	data, err := Protobuf.Encode(in)
	require.NoError(t, err)

	// The wire form is a google.protobuf.Value
	var msg structpb.Value
	require.NoError(t, Protobuf.Decode(data, &msg))
	assert.True(t, msg.GetStructValue().GetFields()["ok"].GetBoolValue())

	var out any
	require.NoError(t, Protobuf.Decode(data, &out))
	assert.Equal(t, map[string]any{
		"ok":    true,
		"count": float64(3),
		"tags":  []any{"a", "b"},
	}, out)
}

func TestProtobufCodec_Errors(t *testing.T) {
	_, err := Protobuf.Encode(struct{ A int }{A: 1})
	assert.Error(t, err)

	err = Protobuf.Decode(nil, &struct{}{})
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	c, err := Lookup("json")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())

	c, err = Lookup("proto")
	require.NoError(t, err)
	assert.Equal(t, "protobuf", c.Name())

	c, err = Lookup(" Protobuf ")
	require.NoError(t, err)
	assert.Equal(t, "protobuf", c.Name())

	c, err = Lookup("")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())

	_, err = Lookup("msgpack")
	assert.ErrorIs(t, err, ErrUnsupportedCodec)
}
