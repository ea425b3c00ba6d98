// Package msgpack provides a MessagePack codec for rendering decorators.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/dryer"
)

// msgpackCodec implements dryer.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() dryer.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack with sorted map keys and compact
// integers, so equal values always produce equal bytes.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
