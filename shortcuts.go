package dryer

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Accessor computes one display value for a decorator.
// A nil value means absent.
type Accessor func(ctx context.Context, d *Decorator) (any, error)

// accessorEntry is a named accessor and the rule it was generated from.
type accessorEntry struct {
	name      string
	kind      Kind
	attribute string
	fn        Accessor
}

// Shortcuts is the accessor table for one record type.
//
// Declarations are chainable and are expected to run once at startup, before
// any decorator is used. Declaring an accessor name twice replaces the first
// definition.
//
// Declarations never fail immediately. Problems such as attachment shortcuts
// without a backend are collected and reported by Validate.
type Shortcuts struct {
	cfg         *Config
	plan        *recordPlan
	attachments URLGenerator
	disabledErr error

	mu        sync.RWMutex
	accessors map[string]*accessorEntry
	order     []string
	errs      []error
}

// Option configures a Shortcuts table.
type Option func(*options)

type options struct {
	config      *Config
	attachments URLGenerator
	extensions  []Extension
}

// WithConfig uses cfg instead of the process-wide Configuration.
func WithConfig(cfg *Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithAttachments enables attachment shortcuts backed by backend.
func WithAttachments(backend URLGenerator) Option {
	return func(o *options) {
		o.attachments = backend
	}
}

// WithExtensions applies extensions after those from the config.
func WithExtensions(exts ...Extension) Option {
	return func(o *options) {
		o.extensions = append(o.extensions, exts...)
	}
}

// New creates the Shortcuts table for record type T.
//
// Formatters and the core shortcuts are always available. Attachment
// shortcuts are available when a backend is supplied. Extensions from the
// config and then from WithExtensions are applied in order.
func New[T any](opts ...Option) *Shortcuts {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	cfg := o.config
	if cfg == nil {
		cfg = Configuration()
	}

	s := &Shortcuts{
		cfg:       cfg,
		plan:      planFor[T](),
		accessors: make(map[string]*accessorEntry),
	}

	if o.attachments != nil {
		s.attachments = o.attachments
	} else {
		s.attachments, s.disabledErr = cfg.attachmentBackend()
	}

	extensions := make([]Extension, 0, len(cfg.Extensions)+len(o.extensions))
	extensions = append(extensions, cfg.Extensions...)
	extensions = append(extensions, o.extensions...)

	emitShortcutsCreated(context.Background(), s.plan.typeName, len(extensions))

	s.Extend(extensions...)
	return s
}

// Config returns the config the table was built with.
func (s *Shortcuts) Config() *Config {
	return s.cfg
}

// TypeName returns the record type name.
func (s *Shortcuts) TypeName() string {
	return s.plan.typeName
}

// AttachmentsEnabled reports whether attachment shortcuts can be declared.
func (s *Shortcuts) AttachmentsEnabled() bool {
	return s.attachments != nil
}

// Accessors returns the declared accessor names in declaration order.
func (s *Shortcuts) Accessors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Has reports whether name is declared.
func (s *Shortcuts) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accessors[name]
	return ok
}

// Kind returns the rule that produced the named accessor.
func (s *Shortcuts) Kind(name string) (Kind, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.accessors[name]
	if !ok {
		return "", false
	}
	return e.kind, true
}

// Validate returns every problem recorded while declaring accessors.
func (s *Shortcuts) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return errors.Join(s.errs...)
}

// Decorate wraps object. The object is borrowed and read on every access.
func (s *Shortcuts) Decorate(object any, c Context) *Decorator {
	return &Decorator{
		object:    object,
		context:   c,
		shortcuts: s,
	}
}

// ToDateFormat defines an accessor per attribute, named after the attribute,
// returning the attribute formatted as a date.
func (s *Shortcuts) ToDateFormat(attrs ...string) *Shortcuts {
	for _, attr := range attrs {
		s.define(attr, KindDate, attr, func(_ context.Context, d *Decorator) (any, error) {
			v, err := d.Attribute(attr)
			if err != nil {
				return nil, err
			}
			return d.FormatDate(v)
		})
	}
	return s
}

// ToTimeFormat defines an accessor per attribute, named after the attribute,
// returning the attribute formatted as a time of day.
func (s *Shortcuts) ToTimeFormat(attrs ...string) *Shortcuts {
	for _, attr := range attrs {
		s.define(attr, KindTime, attr, func(_ context.Context, d *Decorator) (any, error) {
			v, err := d.Attribute(attr)
			if err != nil {
				return nil, err
			}
			return d.FormatTime(v)
		})
	}
	return s
}

// ToDatetimeFormat defines an accessor per attribute, named after the
// attribute, returning the attribute formatted as a datetime.
func (s *Shortcuts) ToDatetimeFormat(attrs ...string) *Shortcuts {
	for _, attr := range attrs {
		s.define(attr, KindDatetime, attr, func(_ context.Context, d *Decorator) (any, error) {
			v, err := d.Attribute(attr)
			if err != nil {
				return nil, err
			}
			return d.FormatDatetime(v)
		})
	}
	return s
}

// ToPrecisionNumber defines an accessor per attribute, named after the
// attribute, returning the attribute with precision fractional digits.
func (s *Shortcuts) ToPrecisionNumber(precision int, attrs ...string) *Shortcuts {
	for _, attr := range attrs {
		s.define(attr, KindPrecisionNumber, attr, func(_ context.Context, d *Decorator) (any, error) {
			v, err := d.Attribute(attr)
			if err != nil {
				return nil, err
			}
			return d.FormatPrecisionNumber(v, precision)
		})
	}
	return s
}

// ToName defines attr_name accessors returning the name of the associated
// value.
func (s *Shortcuts) ToName(attrs ...string) *Shortcuts {
	return s.ToNameWithSuffix("name", attrs...)
}

// ToNameWithSuffix defines attr_<suffix> accessors returning the name of the
// associated value.
func (s *Shortcuts) ToNameWithSuffix(suffix string, attrs ...string) *Shortcuts {
	for _, attr := range attrs {
		s.define(attr+"_"+suffix, KindName, attr, func(_ context.Context, d *Decorator) (any, error) {
			v, err := d.Attribute(attr)
			if err != nil {
				return nil, err
			}
			return d.ToName(v)
		})
	}
	return s
}

// Define registers a custom accessor.
func (s *Shortcuts) Define(name string, fn Accessor) *Shortcuts {
	return s.DefineFor("", name, fn)
}

// DefineFor registers a custom accessor that reads attribute. The attribute
// is only used for error reporting.
func (s *Shortcuts) DefineFor(attribute, name string, fn Accessor) *Shortcuts {
	if name == "" || fn == nil {
		s.record(newDefinitionError(ErrUnknownAccessor, name, "empty name or nil accessor", nil))
		return s
	}
	s.define(name, KindCustom, attribute, fn)
	return s
}

// define stores an accessor, replacing any previous accessor with that name.
func (s *Shortcuts) define(name string, kind Kind, attribute string, fn Accessor) {
	s.mu.Lock()
	_, exists := s.accessors[name]
	if !exists {
		s.order = append(s.order, name)
	}
	s.accessors[name] = &accessorEntry{
		name:      name,
		kind:      kind,
		attribute: attribute,
		fn:        fn,
	}
	s.mu.Unlock()

	emitAccessorDefined(context.Background(), s.plan.typeName, name, kind, exists)
}

func (s *Shortcuts) record(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *Shortcuts) lookup(name string) (*accessorEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.accessors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s", ErrUnknownAccessor, name, s.plan.typeName)
	}
	return e, nil
}

func (s *Shortcuts) entries() []*accessorEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*accessorEntry, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.accessors[name])
	}
	return out
}
