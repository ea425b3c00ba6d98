// Package bson provides a BSON codec for rendering decorators.
package bson

import (
	"fmt"
	"sort"

	"github.com/zoobzio/dryer"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements dryer.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() dryer.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as a BSON document. String-keyed maps are written as
// ordered documents with sorted keys.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case nil:
		return nil, fmt.Errorf("bson: cannot marshal nil document")
	case map[string]any:
		return bson.Marshal(sortedDocument(m))
	}
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}

func sortedDocument(m map[string]any) bson.D {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc := make(bson.D, 0, len(keys))
	for _, k := range keys {
		v := m[k]
		if nested, ok := v.(map[string]any); ok {
			v = sortedDocument(nested)
		}
		doc = append(doc, bson.E{Key: k, Value: v})
	}
	return doc
}
