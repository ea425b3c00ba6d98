package mask

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/zoobzio/dryer"
)

func TestMaskers(t *testing.T) {
	maskers := Builtin()

	tests := []struct {
		kind     Kind
		input    string
		expected string
	}{
		{SSN, "123-45-6789", "***-**-6789"},
		{SSN, "123456789", "***-**-6789"},
		{SSN, "123", "***"},
		{Email, "alice@example.com", "a***@example.com"},
		{Email, "a@b.com", "a***@b.com"},
		{Email, "noatsign", "********"},
		{Phone, "(555) 123-4567", "(***) ***-4567"},
		{Phone, "555-123-4567", "***-***-4567"},
		{Phone, "123-4567", "***-4567"},
		{Phone, "123", "***"},
		{Card, "4111111111111111", "************1111"},
		{Card, "4111 1111 1111 1111", "**** **** **** 1111"},
		{Card, "4111-1111-1111-1111", "****-****-****-1111"},
		{Card, "123", "***"},
		{IP, "192.168.1.100", "192.168.xxx.xxx"},
		{IP, "10.0.0.1", "10.0.xxx.xxx"},
		{IP, "2001:0db8:85a3:0000:0000:8a2e:0370:7334", "2001:0db8:85a3:0000:xxxx:xxxx:xxxx:xxxx"},
		{IP, "2001:db8:85a3::8a2e:370:7334", "2001:0db8:85a3:0000:xxxx:xxxx:xxxx:xxxx"},
		{IP, "::1", "0000:0000:0000:0000:xxxx:xxxx:xxxx:xxxx"},
		{IP, "invalid", "*******"},
		{UUID, "550e8400-e29b-41d4-a716-446655440000", "550e8400-****-****-****-************"},
		{UUID, "invalid", "*******"},
		{IBAN, "GB82WEST12345698765432", "GB82**************5432"},
		{IBAN, "SHORT", "*****"},
		{Name, "John Smith", "J*** S****"},
		{Name, "Bob Jones Jr", "B** J**** J*"},
	}

	for _, tt := range tests {
		got := maskers[tt.kind].Mask(tt.input)
		if got != tt.expected {
			t.Errorf("%s.Mask(%q) = %q, want %q", tt.kind, tt.input, got, tt.expected)
		}
	}
}

type customer struct {
	Email string `json:"email"`
	Phone *string
	Card  string `dryer:"card_number"`
}

func TestToMasked(t *testing.T) {
	phone := "(555) 123-4567"
	s := dryer.New[customer](dryer.WithConfig(dryer.DefaultConfig()))
	Shortcuts(s).
		ToMasked(Email, "email").
		ToMasked(Phone, "phone").
		ToMasked(Card, "card_number")

	d := s.Decorate(&customer{Email: "alice@example.com", Phone: &phone, Card: "4111111111111111"}, dryer.Context{})
	ctx := context.Background()

	tests := []struct {
		accessor string
		expected string
	}{
		{"email_masked", "a***@example.com"},
		{"phone_masked", "(***) ***-4567"},
		{"card_number_masked", "************1111"},
	}
	for _, tt := range tests {
		got, err := d.Get(ctx, tt.accessor)
		if err != nil {
			t.Fatalf("Get(%q) error: %v", tt.accessor, err)
		}
		if got != tt.expected {
			t.Errorf("Get(%q) = %v, want %q", tt.accessor, got, tt.expected)
		}
	}
}

func TestToMasked_AbsentValues(t *testing.T) {
	s := dryer.New[customer](dryer.WithConfig(dryer.DefaultConfig()))
	Shortcuts(s).ToMasked(Email, "email").ToMasked(Phone, "phone")

	d := s.Decorate(customer{}, dryer.Context{})
	for _, name := range []string{"email_masked", "phone_masked"} {
		got, err := d.Get(context.Background(), name)
		if err != nil {
			t.Fatalf("Get(%q) error: %v", name, err)
		}
		if got != nil {
			t.Errorf("Get(%q) = %v, want nil", name, got)
		}
	}
}

type ticket struct {
	Ref *uuid.UUID
}

func TestToMasked_NilStringerPointer(t *testing.T) {
	s := dryer.New[ticket](dryer.WithConfig(dryer.DefaultConfig()))
	Shortcuts(s).ToMasked(UUID, "ref")
	ctx := context.Background()

	got, err := s.Decorate(&ticket{}, dryer.Context{}).Get(ctx, "ref_masked")
	if err != nil || got != nil {
		t.Errorf("Get(ref_masked) = %v, %v, want nil, nil", got, err)
	}

	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	got, err = s.Decorate(&ticket{Ref: &id}, dryer.Context{}).Get(ctx, "ref_masked")
	if err != nil {
		t.Fatalf("Get(ref_masked) error: %v", err)
	}
	if got != "550e8400-****-****-****-************" {
		t.Errorf("Get(ref_masked) = %v", got)
	}
}

func TestToMasked_UnknownKind(t *testing.T) {
	s := dryer.New[customer](dryer.WithConfig(dryer.DefaultConfig()))
	Shortcuts(s).ToMasked(Kind("passport"), "email")

	if s.Has("email_masked") {
		t.Error("unknown kind should not define an accessor")
	}
	err := s.Validate()
	if !errors.Is(err, dryer.ErrExtension) {
		t.Fatalf("Validate() = %v, want ErrExtension", err)
	}
	if !strings.Contains(err.Error(), "passport") {
		t.Errorf("Validate() = %q, want mention of the kind", err)
	}
}

func TestWithMasker(t *testing.T) {
	s := dryer.New[customer](dryer.WithConfig(dryer.DefaultConfig()))
	Shortcuts(s).
		WithMasker(Email, MaskerFunc(func(string) string { return "[hidden]" })).
		ToMasked(Email, "email")

	got, err := s.Decorate(customer{Email: "alice@example.com"}, dryer.Context{}).Get(context.Background(), "email_masked")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != "[hidden]" {
		t.Errorf("Get() = %v, want [hidden]", got)
	}
}

func TestExtension_FromConfig(t *testing.T) {
	cfg := dryer.DefaultConfig()
	cfg.Extensions = []dryer.Extension{Extension(Field(Email, "email"))}

	s := dryer.New[customer](dryer.WithConfig(cfg))
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	kind, ok := s.Kind("email_masked")
	if !ok || kind != dryer.KindCustom {
		t.Errorf("Kind(email_masked) = %q, %v, want custom", kind, ok)
	}
}
