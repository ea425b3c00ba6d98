// Package json provides a JSON codec for rendering decorators.
package json

import (
	"bytes"
	"encoding/json"

	"github.com/zoobzio/dryer"
)

// jsonCodec implements dryer.Codec for JSON.
type jsonCodec struct {
	indent string
}

// New returns a compact JSON codec.
func New() dryer.Codec {
	return &jsonCodec{}
}

// NewIndent returns a JSON codec that indents nested values with indent.
func NewIndent(indent string) dryer.Codec {
	return &jsonCodec{indent: indent}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON. HTML characters are left unescaped so attachment
// URLs keep their query strings readable.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if c.indent != "" {
		enc.SetIndent("", c.indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Unmarshal decodes JSON data into v. Numbers decode as json.Number.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
