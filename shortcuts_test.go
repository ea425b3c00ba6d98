package dryer_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/zoobzio/dryer"
	dryertest "github.com/zoobzio/dryer/testing"
)

func recordShortcuts() *dryer.Shortcuts {
	return dryer.New[dryertest.Record](dryer.WithConfig(dryer.DefaultConfig())).
		ToDateFormat("date1", "date2").
		ToTimeFormat("time1", "time2").
		ToDatetimeFormat("datetime1", "datetime2").
		ToPrecisionNumber(2, "number1", "number2").
		ToName("association1", "association2")
}

func TestShortcuts_GeneratedAccessors(t *testing.T) {
	ctx := context.Background()
	record := dryertest.SampleRecord()

	tests := []struct {
		accessor string
		humanize bool
		want     any
	}{
		{"date1", false, "2023-11-01"},
		{"date2", false, "2023-11-02"},
		{"date1", true, "01/11/2023"},
		{"date2", true, "02/11/2023"},
		{"time1", false, "11:30"},
		{"time2", true, "12:59"},
		{"datetime1", false, "2023-11-01 13:49"},
		{"datetime2", false, "2023-11-01 15:23"},
		{"datetime1", true, "13:49 01/11/2023"},
		{"datetime2", true, "15:23 01/11/2023"},
		{"number1", false, "5.32"},
		{"number2", false, "77.89"},
		{"association1_name", false, "John Smith"},
		{"association2_name", false, "Joe Bloggs"},
	}

	s := recordShortcuts()
	for _, tt := range tests {
		d := s.Decorate(record, dryer.Context{Humanize: tt.humanize})
		got, err := d.Get(ctx, tt.accessor)
		if err != nil {
			t.Fatalf("Get(%q) error: %v", tt.accessor, err)
		}
		if got != tt.want {
			t.Errorf("Get(%q, humanize=%v) = %v, want %v", tt.accessor, tt.humanize, got, tt.want)
		}
	}
}

func TestShortcuts_AbsentValues(t *testing.T) {
	ctx := context.Background()
	d := recordShortcuts().Decorate(&dryertest.Record{}, dryer.Context{})

	tests := []struct {
		accessor string
		want     any
	}{
		{"date2", nil},
		{"number2", float64(0)},
		{"association1_name", nil},
	}
	for _, tt := range tests {
		got, err := d.Get(ctx, tt.accessor)
		if err != nil {
			t.Fatalf("Get(%q) error: %v", tt.accessor, err)
		}
		if got != tt.want {
			t.Errorf("Get(%q) = %#v, want %#v", tt.accessor, got, tt.want)
		}
	}
}

func TestShortcuts_ReadsLiveValues(t *testing.T) {
	record := dryertest.SampleRecord()
	d := recordShortcuts().Decorate(record, dryer.Context{})

	first, _ := d.Get(context.Background(), "association1_name")
	record.Association1.Name = "Jane Doe"
	second, _ := d.Get(context.Background(), "association1_name")

	if first != "John Smith" || second != "Jane Doe" {
		t.Errorf("Get() = %v then %v, want John Smith then Jane Doe", first, second)
	}
}

func TestShortcuts_ReadsLiveDates(t *testing.T) {
	record := dryertest.SampleRecord()
	d := recordShortcuts().Decorate(record, dryer.Context{})
	ctx := context.Background()

	first, _ := d.Get(ctx, "date1")
	record.Date1 = time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	second, _ := d.Get(ctx, "date1")
	record.Date2 = nil
	third, _ := d.Get(ctx, "date2")

	if first != "2023-11-01" || second != "2024-02-29" {
		t.Errorf("Get(date1) = %v then %v, want 2023-11-01 then 2024-02-29", first, second)
	}
	if third != nil {
		t.Errorf("Get(date2) = %v after clearing, want nil", third)
	}
}

func TestShortcuts_ConfigChangesAreVisible(t *testing.T) {
	cfg := dryer.DefaultConfig()
	s := dryer.New[dryertest.Record](dryer.WithConfig(cfg)).ToDateFormat("date1")
	d := s.Decorate(dryertest.SampleRecord(), dryer.Context{})

	cfg.DateFormat = "%Y"
	got, _ := d.Get(context.Background(), "date1")
	if got != "2023" {
		t.Errorf("Get() = %v, want 2023", got)
	}
}

func TestShortcuts_ProcessWideConfig(t *testing.T) {
	dryer.ResetConfiguration()
	defer dryer.ResetConfiguration()

	dryer.Configure(func(c *dryer.Config) {
		c.HumanizedDateFormat = "%m/%d/%Y"
	})

	s := dryer.New[dryertest.Record]().ToDateFormat("date1")
	got, _ := s.Decorate(dryertest.SampleRecord(), dryer.Context{Humanize: true}).Get(context.Background(), "date1")
	if got != "11/01/2023" {
		t.Errorf("Get() = %v, want 11/01/2023", got)
	}
}

func TestShortcuts_NameWithSuffix(t *testing.T) {
	s := dryer.New[dryertest.Record](dryer.WithConfig(dryer.DefaultConfig())).
		ToNameWithSuffix("label", "association1")

	got, err := s.Decorate(dryertest.SampleRecord(), dryer.Context{}).Get(context.Background(), "association1_label")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != "John Smith" {
		t.Errorf("Get() = %v, want John Smith", got)
	}
}

func TestShortcuts_Accessors(t *testing.T) {
	s := recordShortcuts()

	want := []string{
		"date1", "date2", "time1", "time2", "datetime1", "datetime2",
		"number1", "number2", "association1_name", "association2_name",
	}
	if got := s.Accessors(); !reflect.DeepEqual(got, want) {
		t.Errorf("Accessors() = %v, want %v", got, want)
	}

	if !s.Has("date1") || s.Has("date3") {
		t.Error("Has() should report declared accessors only")
	}

	kinds := map[string]dryer.Kind{
		"date1":             dryer.KindDate,
		"time1":             dryer.KindTime,
		"datetime1":         dryer.KindDatetime,
		"number1":           dryer.KindPrecisionNumber,
		"association1_name": dryer.KindName,
	}
	for name, want := range kinds {
		if got, ok := s.Kind(name); !ok || got != want {
			t.Errorf("Kind(%q) = %q, %v, want %q", name, got, ok, want)
		}
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestShortcuts_Redefinition(t *testing.T) {
	s := dryer.New[dryertest.Record](dryer.WithConfig(dryer.DefaultConfig())).
		ToDateFormat("date1").
		ToTimeFormat("date1")

	if got := s.Accessors(); len(got) != 1 {
		t.Fatalf("Accessors() = %v, want one accessor", got)
	}
	if kind, _ := s.Kind("date1"); kind != dryer.KindTime {
		t.Errorf("Kind(date1) = %q, want %q", kind, dryer.KindTime)
	}

	got, _ := s.Decorate(dryertest.SampleRecord(), dryer.Context{}).Get(context.Background(), "date1")
	if got != "00:00" {
		t.Errorf("Get(date1) = %v, want 00:00", got)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestShortcuts_Define(t *testing.T) {
	s := dryer.New[dryertest.Record](dryer.WithConfig(dryer.DefaultConfig())).
		Define("summary", func(_ context.Context, d *dryer.Decorator) (any, error) {
			r := d.Object().(*dryertest.Record)
			return r.Association1.Name + " on " + r.Date1.Format(time.DateOnly), nil
		})

	got, err := s.Decorate(dryertest.SampleRecord(), dryer.Context{}).Get(context.Background(), "summary")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != "John Smith on 2023-11-01" {
		t.Errorf("Get() = %v, want %q", got, "John Smith on 2023-11-01")
	}
	if kind, _ := s.Kind("summary"); kind != dryer.KindCustom {
		t.Errorf("Kind(summary) = %q, want custom", kind)
	}
}

func TestShortcuts_DefineInvalid(t *testing.T) {
	s := dryer.New[dryertest.Record](dryer.WithConfig(dryer.DefaultConfig())).Define("", nil)
	if err := s.Validate(); err == nil {
		t.Error("Validate() should report an empty definition")
	}
}

func TestDecorator_UnknownAccessor(t *testing.T) {
	d := recordShortcuts().Decorate(dryertest.SampleRecord(), dryer.Context{})

	_, err := d.Get(context.Background(), "missing")
	if !errors.Is(err, dryer.ErrUnknownAccessor) {
		t.Errorf("Get(missing) error = %v, want ErrUnknownAccessor", err)
	}
}

func TestDecorator_UnknownAttribute(t *testing.T) {
	s := dryer.New[dryertest.Record](dryer.WithConfig(dryer.DefaultConfig())).ToDateFormat("date9")
	d := s.Decorate(dryertest.SampleRecord(), dryer.Context{})

	_, err := d.Get(context.Background(), "date9")
	if !errors.Is(err, dryer.ErrUnknownAttribute) {
		t.Fatalf("Get(date9) error = %v, want ErrUnknownAttribute", err)
	}

	var ae *dryer.AccessorError
	if !errors.As(err, &ae) {
		t.Fatalf("Get(date9) error = %T, want *AccessorError", err)
	}
	if ae.Accessor != "date9" || ae.Attribute != "date9" {
		t.Errorf("AccessorError = %+v, want accessor and attribute date9", ae)
	}
}

func TestDecorator_FormatFailure(t *testing.T) {
	s := dryer.New[dryertest.Record](dryer.WithConfig(dryer.DefaultConfig())).ToPrecisionNumber(2, "number2")
	record := dryertest.SampleRecord()
	record.Number2 = "not a number"

	_, err := s.Decorate(record, dryer.Context{}).Get(context.Background(), "number2")
	if !errors.Is(err, dryer.ErrFormat) {
		t.Errorf("Get(number2) error = %v, want ErrFormat", err)
	}
}

func TestDecorator_Text(t *testing.T) {
	d := recordShortcuts().Decorate(&dryertest.Record{Number1: 5}, dryer.Context{})
	ctx := context.Background()

	if got, _ := d.Text(ctx, "number1"); got != "5.00" {
		t.Errorf("Text(number1) = %q, want %q", got, "5.00")
	}
	if got, _ := d.Text(ctx, "date2"); got != "" {
		t.Errorf("Text(date2) = %q, want empty", got)
	}
}
