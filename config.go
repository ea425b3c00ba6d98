package dryer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lestrrat-go/strftime"
	"golang.org/x/text/language"
)

// Default strftime patterns.
const (
	DefaultDateFormat              = "%Y-%m-%d"
	DefaultHumanizedDateFormat     = "%d/%m/%Y"
	DefaultDatetimeFormat          = "%Y-%m-%d %H:%M"
	DefaultHumanizedDatetimeFormat = "%H:%M %d/%m/%Y"
	DefaultTimeFormat              = "%H:%M"
)

// Config holds formatting patterns, attachment settings and extensions.
//
// Config is not validated when set. A broken pattern fails when a formatter
// uses it, and an unknown attachment mode behaves as AttachmentNone. Call
// Validate to fail early.
type Config struct {
	DateFormat              string `koanf:"date_format"`
	HumanizedDateFormat     string `koanf:"humanized_date_format"`
	DatetimeFormat          string `koanf:"datetime_format"`
	HumanizedDatetimeFormat string `koanf:"humanized_datetime_format"`
	TimeFormat              string `koanf:"time_format"`

	// NumberLocale groups precision numbers by locale (for example "en" or
	// "de"). Empty disables grouping.
	NumberLocale string `koanf:"number_locale"`

	Attachments AttachmentConfig `koanf:"attachments"`

	// Extensions are applied in order to every Shortcuts built with this
	// config.
	Extensions []Extension `koanf:"-"`
}

// AttachmentConfig configures attachment shortcuts.
type AttachmentConfig struct {
	Mode                    AttachmentMode `koanf:"mode"`
	DefaultPreviewTransform Transform      `koanf:"default_preview_transform"`

	// Backend generates attachment URLs when Mode is AttachmentStorage.
	Backend URLGenerator `koanf:"-"`
}

// DefaultConfig returns a Config populated with the default patterns and
// attachments disabled.
func DefaultConfig() *Config {
	return &Config{
		DateFormat:              DefaultDateFormat,
		HumanizedDateFormat:     DefaultHumanizedDateFormat,
		DatetimeFormat:          DefaultDatetimeFormat,
		HumanizedDatetimeFormat: DefaultHumanizedDatetimeFormat,
		TimeFormat:              DefaultTimeFormat,
		Attachments: AttachmentConfig{
			Mode:                    AttachmentNone,
			DefaultPreviewTransform: TransformNone,
		},
	}
}

// Validate checks every pattern, the attachment mode and the number locale.
func (c *Config) Validate() error {
	var errs []error
	patterns := []struct {
		name, pattern string
	}{
		{"date_format", c.DateFormat},
		{"humanized_date_format", c.HumanizedDateFormat},
		{"datetime_format", c.DatetimeFormat},
		{"humanized_datetime_format", c.HumanizedDatetimeFormat},
		{"time_format", c.TimeFormat},
	}
	for _, p := range patterns {
		if _, err := strftime.New(p.pattern); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s %q: %v", ErrFormat, p.name, p.pattern, err))
		}
	}
	if !IsValidAttachmentMode(c.Attachments.Mode) {
		errs = append(errs, fmt.Errorf("invalid attachment mode %q", c.Attachments.Mode))
	}
	if c.Attachments.Mode == AttachmentStorage && c.Attachments.Backend == nil {
		errs = append(errs, ErrNoBackend)
	}
	if c.NumberLocale != "" {
		if _, err := language.Parse(c.NumberLocale); err != nil {
			errs = append(errs, fmt.Errorf("%w: number_locale %q: %v", ErrFormat, c.NumberLocale, err))
		}
	}
	return errors.Join(errs...)
}

// attachmentBackend returns the configured backend when the mode enables it.
func (c *Config) attachmentBackend() (URLGenerator, error) {
	if c.Attachments.Mode != AttachmentStorage {
		return nil, ErrAttachmentsDisabled
	}
	if c.Attachments.Backend == nil {
		return nil, ErrNoBackend
	}
	return c.Attachments.Backend, nil
}

var (
	configuration   *Config
	configurationMu sync.Mutex
)

// Configuration returns the process-wide Config, creating it with
// DefaultConfig on first use.
func Configuration() *Config {
	configurationMu.Lock()
	defer configurationMu.Unlock()
	if configuration == nil {
		configuration = DefaultConfig()
	}
	return configuration
}

// Configure mutates the process-wide Config in place. Configure before
// declaring shortcuts; later changes are still visible to existing
// accessors.
func Configure(fn func(*Config)) {
	fn(Configuration())
}

// ResetConfiguration drops the process-wide Config.
// This is primarily useful for test isolation.
func ResetConfiguration() {
	configurationMu.Lock()
	defer configurationMu.Unlock()
	configuration = nil
}
