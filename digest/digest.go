// Package digest provides fingerprint accessors for dryer.
//
// Digest accessors are named attr_digest and return the hex-encoded hash of
// the attribute. They identify values without exposing them, for example to
// compare emails across exports. They are not suitable for passwords.
package digest

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"reflect"

	"github.com/zoobzio/dryer"
)

// Algo names a hash algorithm.
type Algo string

const (
	SHA256 Algo = "sha256"
	SHA512 Algo = "sha512"
)

// Hasher performs one-way hashing.
type Hasher interface {
	// Hash returns the hex-encoded hash of plaintext.
	Hash(plaintext []byte) (string, error)
}

type plainHasher struct {
	new func() hash.Hash
}

func (h plainHasher) Hash(plaintext []byte) (string, error) {
	sum := h.new()
	sum.Write(plaintext)
	return hex.EncodeToString(sum.Sum(nil)), nil
}

type keyedHasher struct {
	new func() hash.Hash
	key []byte
}

func (h keyedHasher) Hash(plaintext []byte) (string, error) {
	mac := hmac.New(h.new, h.key)
	mac.Write(plaintext)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// SHA256Hasher returns a SHA-256 hasher producing 64 hex characters.
func SHA256Hasher() Hasher {
	return plainHasher{new: sha256.New}
}

// SHA512Hasher returns a SHA-512 hasher producing 128 hex characters.
func SHA512Hasher() Hasher {
	return plainHasher{new: sha512.New}
}

// Keyed returns an HMAC hasher for algo. Keyed digests cannot be reversed by
// hashing candidate values without the key.
func Keyed(algo Algo, key []byte) (Hasher, error) {
	switch algo {
	case SHA256:
		return keyedHasher{new: sha256.New, key: key}, nil
	case SHA512:
		return keyedHasher{new: sha512.New, key: key}, nil
	}
	return nil, fmt.Errorf("unknown digest algorithm %q", algo)
}

// Builtin returns a new map of the shipped hashers.
func Builtin() map[Algo]Hasher {
	return map[Algo]Hasher{
		SHA256: SHA256Hasher(),
		SHA512: SHA512Hasher(),
	}
}

// Rule digests a set of attributes with one algorithm.
type Rule struct {
	Algo       Algo
	Attributes []string
}

// Field returns a Rule for attrs.
func Field(algo Algo, attrs ...string) Rule {
	return Rule{Algo: algo, Attributes: attrs}
}

// Extension returns a dryer.Extension that declares the digest accessors of
// every rule.
func Extension(rules ...Rule) dryer.Extension {
	return dryer.ExtensionFunc(func(s *dryer.Shortcuts) error {
		b := Shortcuts(s)
		for _, r := range rules {
			if err := b.toDigest(r.Algo, r.Attributes); err != nil {
				return err
			}
		}
		return nil
	})
}

// Builder declares digest accessors on a Shortcuts table.
type Builder struct {
	s       *dryer.Shortcuts
	hashers map[Algo]Hasher
}

// Shortcuts returns a Builder for s using the builtin hashers.
func Shortcuts(s *dryer.Shortcuts) *Builder {
	return &Builder{s: s, hashers: Builtin()}
}

// WithHasher registers or replaces the hasher for algo.
func (b *Builder) WithHasher(algo Algo, h Hasher) *Builder {
	b.hashers[algo] = h
	return b
}

// ToDigest defines attr_digest accessors. An unknown algorithm is reported by
// Shortcuts.Validate.
func (b *Builder) ToDigest(algo Algo, attrs ...string) *Builder {
	if err := b.toDigest(algo, attrs); err != nil {
		b.s.Extend(dryer.ExtensionFunc(func(*dryer.Shortcuts) error {
			return err
		}))
	}
	return b
}

// Done returns the underlying Shortcuts for further chaining.
func (b *Builder) Done() *dryer.Shortcuts {
	return b.s
}

func (b *Builder) toDigest(algo Algo, attrs []string) error {
	h, ok := b.hashers[algo]
	if !ok {
		return fmt.Errorf("missing hasher for %q", algo)
	}
	for _, attr := range attrs {
		b.s.DefineFor(attr, attr+"_digest", func(_ context.Context, d *dryer.Decorator) (any, error) {
			v, err := d.Attribute(attr)
			if err != nil {
				return nil, err
			}
			data, ok := bytesOf(v)
			if !ok {
				return nil, nil
			}
			return h.Hash(data)
		})
	}
	return nil
}

// bytesOf returns the bytes to hash. Nil values are absent.
func bytesOf(v any) ([]byte, bool) {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil, false
	}
	switch t := v.(type) {
	case nil:
		return nil, false
	case string:
		return []byte(t), true
	case *string:
		if t == nil {
			return nil, false
		}
		return []byte(*t), true
	case []byte:
		return t, t != nil
	case fmt.Stringer:
		return []byte(t.String()), true
	}
	return []byte(fmt.Sprint(v)), true
}
