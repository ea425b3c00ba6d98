// Package config loads dryer configuration from defaults, files and the
// environment.
//
// Sources are merged in order: defaults, then the config file, then
// environment variables. Environment variables use the DRYER_ prefix by
// default and a double underscore for nesting:
//
//	DRYER_DATE_FORMAT=%d.%m.%Y
//	DRYER_ATTACHMENTS__MODE=active_storage
//	DRYER_ATTACHMENTS__DEFAULT_PREVIEW_TRANSFORM=thumb
package config

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/zoobzio/dryer"
)

// DefaultEnvPrefix is the environment variable prefix used by Load.
const DefaultEnvPrefix = "DRYER_"

const delim = "."

// FileType is a supported config file format.
type FileType string

const (
	FileTypeJSON FileType = "json"
	FileTypeYAML FileType = "yaml"
	FileTypeTOML FileType = "toml"
)

// Parser returns the koanf parser for the file type.
func (t FileType) Parser() (koanf.Parser, error) {
	switch t {
	case FileTypeJSON:
		return json.Parser(), nil
	case FileTypeYAML:
		return yaml.Parser(), nil
	case FileTypeTOML:
		return toml.Parser(), nil
	}
	return nil, errors.New("invalid config file type", errors.CategoryValidation).
		WithTextCode("INVALID_FILE_TYPE").
		WithMetadata(map[string]any{
			"file_type":   string(t),
			"valid_types": []string{string(FileTypeJSON), string(FileTypeYAML), string(FileTypeTOML)},
		})
}

// FileTypeOf infers the file type from the path extension.
func FileTypeOf(path string) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FileTypeYAML
	case ".toml":
		return FileTypeTOML
	case ".json":
		return FileTypeJSON
	}
	return FileType(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	path      string
	optional  bool
	envPrefix string
	noEnv     bool
	validate  bool
	base      *dryer.Config
}

// WithFile reads path. A missing file is an error.
func WithFile(path string) Option {
	return func(l *loader) {
		l.path = path
		l.optional = false
	}
}

// WithOptionalFile reads path when it exists.
func WithOptionalFile(path string) Option {
	return func(l *loader) {
		l.path = path
		l.optional = true
	}
}

// WithEnvPrefix changes the environment variable prefix. An empty prefix
// disables the environment source.
func WithEnvPrefix(prefix string) Option {
	return func(l *loader) {
		l.envPrefix = prefix
		l.noEnv = prefix == ""
	}
}

// WithValidation runs Config.Validate on the loaded config.
func WithValidation() Option {
	return func(l *loader) {
		l.validate = true
	}
}

// WithBase starts from base instead of dryer.DefaultConfig. The backend and
// extensions of base are kept.
func WithBase(base *dryer.Config) Option {
	return func(l *loader) {
		l.base = base
	}
}

// Load builds a Config from defaults, the config file and the environment.
func Load(ctx context.Context, opts ...Option) (*dryer.Config, error) {
	l := &loader{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(l)
	}
	base := l.base
	if base == nil {
		base = dryer.DefaultConfig()
	}

	k := koanf.New(delim)

	if err := k.Load(confmap.Provider(defaults(base), delim), nil); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to load default configuration").
			WithTextCode("CONFIG_DEFAULTS_FAILED")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if l.path != "" {
		if err := l.loadFile(k); err != nil {
			return nil, err
		}
	}

	if !l.noEnv {
		if err := k.Load(env.Provider(l.envPrefix, delim, envKey(l.envPrefix)), nil); err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from environment").
				WithTextCode("CONFIG_LOAD_FAILED").
				WithMetadata(map[string]any{"source_type": "env", "prefix": l.envPrefix})
		}
	}

	cfg := &dryer.Config{
		Attachments: dryer.AttachmentConfig{Backend: base.Attachments.Backend},
		Extensions:  base.Extensions,
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       decodeHooks(),
		Result:           cfg,
		TagName:          "koanf",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to create configuration decoder").
			WithTextCode("CONFIG_UNMARSHAL_FAILED")
	}
	if err := decoder.Decode(k.Raw()); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to unmarshal configuration data").
			WithTextCode("CONFIG_UNMARSHAL_FAILED")
	}

	if l.validate {
		if err := cfg.Validate(); err != nil {
			return nil, errors.Wrap(err, errors.CategoryValidation, "configuration validation failed").
				WithTextCode("CONFIG_VALIDATION_FAILED")
		}
	}
	return cfg, nil
}

// Apply loads configuration into the process-wide dryer.Configuration.
func Apply(ctx context.Context, opts ...Option) error {
	current := dryer.Configuration()
	cfg, err := Load(ctx, append([]Option{WithBase(current)}, opts...)...)
	if err != nil {
		return err
	}
	dryer.Configure(func(c *dryer.Config) {
		*c = *cfg
	})
	return nil
}

func (l *loader) loadFile(k *koanf.Koanf) error {
	if _, err := os.Stat(l.path); err != nil {
		if l.optional && stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Wrap(err, errors.CategoryOperation, "failed to read configuration file").
			WithTextCode("CONFIG_FILE_NOT_FOUND").
			WithMetadata(map[string]any{"config_path": l.path})
	}

	parser, err := FileTypeOf(l.path).Parser()
	if err != nil {
		return err
	}
	if err := k.Load(file.Provider(l.path), parser); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from source").
			WithTextCode("CONFIG_LOAD_FAILED").
			WithMetadata(map[string]any{"source_type": "file", "config_path": l.path})
	}
	return nil
}

// envKey maps DRYER_ATTACHMENTS__MODE to attachments.mode.
func envKey(prefix string) func(string) string {
	return func(s string) string {
		s = strings.TrimPrefix(s, prefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", delim)
	}
}

// defaults flattens the loadable fields of cfg for the confmap provider.
func defaults(cfg *dryer.Config) map[string]any {
	return map[string]any{
		"date_format":                           cfg.DateFormat,
		"humanized_date_format":                 cfg.HumanizedDateFormat,
		"datetime_format":                       cfg.DatetimeFormat,
		"humanized_datetime_format":             cfg.HumanizedDatetimeFormat,
		"time_format":                           cfg.TimeFormat,
		"number_locale":                         cfg.NumberLocale,
		"attachments.mode":                      string(cfg.Attachments.Mode),
		"attachments.default_preview_transform": transformValue(cfg.Attachments.DefaultPreviewTransform),
	}
}

// transformValue is the inverse of dryer.ParseTransform.
func transformValue(t dryer.Transform) any {
	if params, ok := t.Parameters(); ok {
		return params
	}
	if t.IsZero() {
		return nil
	}
	return t.String()
}
