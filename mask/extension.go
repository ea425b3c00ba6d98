package mask

import (
	"context"
	"fmt"
	"reflect"

	"github.com/zoobzio/dryer"
)

// Rule masks a set of attributes with one kind.
type Rule struct {
	Kind       Kind
	Attributes []string
}

// Field returns a Rule for attrs.
func Field(kind Kind, attrs ...string) Rule {
	return Rule{Kind: kind, Attributes: attrs}
}

// Extension returns a dryer.Extension that declares the masked accessors of
// every rule.
func Extension(rules ...Rule) dryer.Extension {
	return dryer.ExtensionFunc(func(s *dryer.Shortcuts) error {
		b := Shortcuts(s)
		for _, r := range rules {
			if err := b.toMasked(r.Kind, r.Attributes); err != nil {
				return err
			}
		}
		return nil
	})
}

// Builder declares masked accessors on a Shortcuts table.
type Builder struct {
	s       *dryer.Shortcuts
	maskers map[Kind]Masker
}

// Shortcuts returns a Builder for s using the builtin maskers.
func Shortcuts(s *dryer.Shortcuts) *Builder {
	return &Builder{s: s, maskers: Builtin()}
}

// WithMasker registers or replaces the masker for kind.
func (b *Builder) WithMasker(kind Kind, m Masker) *Builder {
	b.maskers[kind] = m
	return b
}

// ToMasked defines attr_masked accessors. An unknown kind is reported by
// Shortcuts.Validate.
func (b *Builder) ToMasked(kind Kind, attrs ...string) *Builder {
	if err := b.toMasked(kind, attrs); err != nil {
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

func (b *Builder) toMasked(kind Kind, attrs []string) error {
	m, ok := b.maskers[kind]
	if !ok {
		return fmt.Errorf("missing masker for %q", kind)
	}
	for _, attr := range attrs {
		b.s.DefineFor(attr, attr+"_masked", func(_ context.Context, d *dryer.Decorator) (any, error) {
			v, err := d.Attribute(attr)
			if err != nil {
				return nil, err
			}
			text, ok := textOf(v)
			if !ok {
				return nil, nil
			}
			return m.Mask(text), nil
		})
	}
	return nil
}

// textOf converts an attribute to the text to mask. Nil and empty values are
// absent.
func textOf(v any) (string, bool) {
	if isNilPointer(v) {
		return "", false
	}
	var text string
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		text = t
	case *string:
		if t == nil {
			return "", false
		}
		text = *t
	case []byte:
		text = string(t)
	case fmt.Stringer:
		text = t.String()
	default:
		text = fmt.Sprint(t)
	}
	return text, text != ""
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
