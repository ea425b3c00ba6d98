package dryer

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Context carries presentation flags for a decorator.
type Context struct {
	// Humanize selects the humanized date and datetime patterns.
	Humanize bool
}

// Decorator wraps one record and exposes the accessors of its Shortcuts.
type Decorator struct {
	object    any
	context   Context
	shortcuts *Shortcuts
}

// Object returns the wrapped record.
func (d *Decorator) Object() any {
	return d.object
}

// Context returns the presentation flags.
func (d *Decorator) Context() Context {
	return d.context
}

// Shortcuts returns the accessor table the decorator was built from.
func (d *Decorator) Shortcuts() *Shortcuts {
	return d.shortcuts
}

func (d *Decorator) config() *Config {
	return d.shortcuts.cfg
}

// Attribute reads an attribute of the wrapped record.
func (d *Decorator) Attribute(name string) (any, error) {
	return readAttribute(d.object, name)
}

// Get evaluates the named accessor. Failures are returned as *AccessorError.
func (d *Decorator) Get(ctx context.Context, name string) (any, error) {
	entry, err := d.shortcuts.lookup(name)
	if err != nil {
		return nil, err
	}
	return d.call(ctx, entry)
}

// Text evaluates the named accessor and formats it for display.
// Absent values are the empty string.
func (d *Decorator) Text(ctx context.Context, name string) (string, error) {
	v, err := d.Get(ctx, name)
	if err != nil || v == nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

// Values evaluates every accessor. Decimals are converted to exact strings.
func (d *Decorator) Values(ctx context.Context) (map[string]any, error) {
	entries := d.shortcuts.entries()
	values := make(map[string]any, len(entries))
	for _, entry := range entries {
		v, err := d.call(ctx, entry)
		if err != nil {
			return nil, err
		}
		values[entry.name] = renderable(v)
	}
	return values, nil
}

// Render evaluates every accessor and marshals the result with codec.
func (d *Decorator) Render(ctx context.Context, codec Codec) ([]byte, error) {
	start := time.Now()
	typeName := d.shortcuts.TypeName()

	values, err := d.Values(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrRender, err)
		emitRenderComplete(ctx, codec.ContentType(), typeName, 0, 0, time.Since(start), err)
		return nil, err
	}

	data, err := codec.Marshal(values)
	if err != nil {
		err = newCodecError(codec.ContentType(), err)
		emitRenderComplete(ctx, codec.ContentType(), typeName, 0, len(values), time.Since(start), err)
		return nil, err
	}

	emitRenderComplete(ctx, codec.ContentType(), typeName, len(data), len(values), time.Since(start), nil)
	return data, nil
}

func (d *Decorator) call(ctx context.Context, entry *accessorEntry) (any, error) {
	v, err := entry.fn(ctx, d)
	if err != nil {
		err = newAccessorError(entry.name, entry.attribute, err)
		emitAccessorFailed(ctx, d.shortcuts.TypeName(), entry.name, entry.attribute, err)
		return nil, err
	}
	return v, nil
}

// renderable converts values codecs cannot marshal faithfully.
func renderable(v any) any {
	switch t := v.(type) {
	case decimal.Decimal:
		return t.String()
	case *decimal.Decimal:
		if t == nil {
			return nil
		}
		return t.String()
	}
	return v
}
