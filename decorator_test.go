package dryer_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zoobzio/dryer"
	dryertest "github.com/zoobzio/dryer/testing"
)

// stubCodec records what it was asked to marshal.
type stubCodec struct {
	got any
	err error
}

func (c *stubCodec) ContentType() string { return "application/x-stub" }

func (c *stubCodec) Marshal(v any) ([]byte, error) {
	c.got = v
	if c.err != nil {
		return nil, c.err
	}
	return []byte("ok"), nil
}

func (c *stubCodec) Unmarshal(_ []byte, _ any) error { return nil }

func TestDecorator_Values(t *testing.T) {
	s := dryer.New[dryertest.Record](dryer.WithConfig(dryer.DefaultConfig())).
		ToDateFormat("date1", "date2").
		ToPrecisionNumber(2, "number1").
		ToPrecisionNumber(0, "number2")

	record := dryertest.SampleRecord()
	record.Date2 = nil

	values, err := s.Decorate(record, dryer.Context{}).Values(context.Background())
	if err != nil {
		t.Fatalf("Values() error: %v", err)
	}

	want := map[string]any{
		"date1":   "2023-11-01",
		"date2":   nil,
		"number1": "5.32",
		"number2": "77.888888",
	}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("Values() = %v, want %v", values, want)
	}
}

func TestDecorator_ValuesStopsOnFailure(t *testing.T) {
	s := dryer.New[dryertest.Record](dryer.WithConfig(dryer.DefaultConfig())).
		ToDateFormat("date1").
		ToDateFormat("missing")

	_, err := s.Decorate(dryertest.SampleRecord(), dryer.Context{}).Values(context.Background())
	if !errors.Is(err, dryer.ErrUnknownAttribute) {
		t.Errorf("Values() error = %v, want ErrUnknownAttribute", err)
	}
}

func TestDecorator_Render(t *testing.T) {
	s := dryer.New[dryertest.Record](dryer.WithConfig(dryer.DefaultConfig())).ToPrecisionNumber(0, "number1")
	codec := &stubCodec{}

	data, err := s.Decorate(dryertest.SampleRecord(), dryer.Context{}).Render(context.Background(), codec)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if string(data) != "ok" {
		t.Errorf("Render() = %q, want ok", data)
	}

	// Decimals reach the codec as exact strings.
	values, _ := codec.got.(map[string]any)
	if _, isDecimal := values["number1"].(decimal.Decimal); isDecimal || values["number1"] != "5.321" {
		t.Errorf("codec received number1 = %#v, want \"5.321\"", values["number1"])
	}
}

func TestDecorator_RenderCodecFailure(t *testing.T) {
	s := dryer.New[dryertest.Record](dryer.WithConfig(dryer.DefaultConfig())).ToDateFormat("date1")
	cause := errors.New("unsupported")

	_, err := s.Decorate(dryertest.SampleRecord(), dryer.Context{}).Render(context.Background(), &stubCodec{err: cause})
	if !errors.Is(err, dryer.ErrRender) || !errors.Is(err, cause) {
		t.Fatalf("Render() error = %v, want ErrRender wrapping cause", err)
	}

	var ce *dryer.CodecError
	if !errors.As(err, &ce) || ce.ContentType != "application/x-stub" {
		t.Errorf("Render() error = %#v, want *CodecError for application/x-stub", err)
	}
}

func TestDecorator_RenderAccessorFailure(t *testing.T) {
	s := dryer.New[dryertest.Record](dryer.WithConfig(dryer.DefaultConfig())).ToDateFormat("missing")
	codec := &stubCodec{}

	_, err := s.Decorate(dryertest.SampleRecord(), dryer.Context{}).Render(context.Background(), codec)
	if !errors.Is(err, dryer.ErrRender) || !errors.Is(err, dryer.ErrUnknownAttribute) {
		t.Fatalf("Render() error = %v, want ErrRender wrapping ErrUnknownAttribute", err)
	}

	var ae *dryer.AccessorError
	if !errors.As(err, &ae) || ae.Accessor != "missing" {
		t.Errorf("Render() error = %#v, want *AccessorError for missing", err)
	}
	if codec.got != nil {
		t.Error("codec should not be called when an accessor fails")
	}
}

func TestDecorator_CustomAccessorFailure(t *testing.T) {
	cause := errors.New("boom")
	s := dryer.New[dryertest.Record](dryer.WithConfig(dryer.DefaultConfig())).
		Define("broken", func(context.Context, *dryer.Decorator) (any, error) {
			return nil, cause
		})

	_, err := s.Decorate(dryertest.SampleRecord(), dryer.Context{}).Get(context.Background(), "broken")
	if !errors.Is(err, dryer.ErrAccessor) || !errors.Is(err, cause) {
		t.Errorf("Get(broken) error = %v, want ErrAccessor wrapping cause", err)
	}
}

func TestDecorator_Accessors(t *testing.T) {
	s := dryer.New[dryertest.Record](dryer.WithConfig(dryer.DefaultConfig()))
	record := dryertest.SampleRecord()
	d := s.Decorate(record, dryer.Context{Humanize: true})

	if d.Object() != record {
		t.Error("Object() should return the wrapped record")
	}
	if !d.Context().Humanize {
		t.Error("Context().Humanize = false, want true")
	}
	if d.Shortcuts() != s {
		t.Error("Shortcuts() should return the table")
	}
	if got, _ := d.Attribute("number1"); got != 5.321 {
		t.Errorf("Attribute(number1) = %v, want 5.321", got)
	}
}

// --- extensions ---

func TestExtensions_Order(t *testing.T) {
	var calls []string
	ext := func(name string) dryer.Extension {
		return dryer.ExtensionFunc(func(s *dryer.Shortcuts) error {
			calls = append(calls, name)
			s.Define(name, func(context.Context, *dryer.Decorator) (any, error) { return name, nil })
			return nil
		})
	}

	cfg := dryer.DefaultConfig()
	cfg.Extensions = []dryer.Extension{ext("config")}

	s := dryer.New[dryertest.Record](dryer.WithConfig(cfg), dryer.WithExtensions(ext("option"), nil))
	s.Extend(ext("later"))

	want := []string{"config", "option", "later"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("extension calls = %v, want %v", calls, want)
	}
	if !reflect.DeepEqual(s.Accessors(), want) {
		t.Errorf("Accessors() = %v, want %v", s.Accessors(), want)
	}
}

func TestExtensions_Failure(t *testing.T) {
	cause := errors.New("cannot install")
	s := dryer.New[dryertest.Record](
		dryer.WithConfig(dryer.DefaultConfig()),
		dryer.WithExtensions(dryer.ExtensionFunc(func(*dryer.Shortcuts) error { return cause })),
	)

	err := s.Validate()
	if !errors.Is(err, dryer.ErrExtension) || !errors.Is(err, cause) {
		t.Errorf("Validate() = %v, want ErrExtension wrapping cause", err)
	}
}
