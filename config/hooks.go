package config

import (
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/zoobzio/dryer"
)

var (
	attachmentModeType = reflect.TypeOf(dryer.AttachmentMode(""))
	transformType      = reflect.TypeOf(dryer.Transform{})
)

// attachmentModeDecodeHook resolves mode aliases such as "active_storage".
// Unknown names are kept so Validate can report them.
func attachmentModeDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != attachmentModeType || from.Kind() != reflect.String {
			return data, nil
		}
		raw := reflect.ValueOf(data).String()
		if mode, ok := dryer.ParseAttachmentMode(raw); ok {
			return mode, nil
		}
		return dryer.AttachmentMode(strings.ToLower(strings.TrimSpace(raw))), nil
	}
}

// transformDecodeHook converts variant names and param maps to dryer.Transform.
func transformDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != transformType {
			return data, nil
		}
		return dryer.ParseTransform(data)
	}
}

func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		attachmentModeDecodeHook(),
		transformDecodeHook(),
	)
}
