package dryer

import (
	"fmt"
	"sort"
	"strings"
)

// Transform selects how an attachment preview is produced.
//
// The zero value is unset and falls back to
// Config.Attachments.DefaultPreviewTransform. TransformNone disables previews.
// Variant names a pre-defined variant; Params describes an ad-hoc
// representation.
type Transform struct {
	variant string
	params  map[string]any
	none    bool
}

// TransformNone disables previews even for attached files.
var TransformNone = Transform{none: true}

// Variant returns a transform for a named variant. The name "none" is
// TransformNone and the empty name is the unset transform.
func Variant(name string) Transform {
	switch name {
	case "":
		return Transform{}
	case "none":
		return TransformNone
	}
	return Transform{variant: name}
}

// Params returns a transform for a representation built from params.
// Empty params disable previews.
func Params(params map[string]any) Transform {
	if len(params) == 0 {
		return TransformNone
	}
	cp := make(map[string]any, len(params))
	for k, v := range params {
		cp[k] = v
	}
	return Transform{params: cp}
}

// ParseTransform converts a configuration value into a Transform.
// Strings become variants, maps become params and nil stays unset.
func ParseTransform(v any) (Transform, error) {
	switch t := v.(type) {
	case nil:
		return Transform{}, nil
	case Transform:
		return t, nil
	case string:
		return Variant(strings.TrimSpace(t)), nil
	case map[string]any:
		return Params(t), nil
	case map[any]any:
		params := make(map[string]any, len(t))
		for k, val := range t {
			params[fmt.Sprint(k)] = val
		}
		return Params(params), nil
	default:
		return Transform{}, fmt.Errorf("unsupported transform %T", v)
	}
}

// IsZero reports whether the transform is unset.
func (t Transform) IsZero() bool {
	return !t.none && t.variant == "" && t.params == nil
}

// IsNone reports whether the transform disables previews.
func (t Transform) IsNone() bool {
	return t.none
}

// VariantName returns the variant name for variant transforms.
func (t Transform) VariantName() (string, bool) {
	return t.variant, t.variant != ""
}

// Parameters returns a copy of the representation params for param transforms.
func (t Transform) Parameters() (map[string]any, bool) {
	if t.params == nil {
		return nil, false
	}
	cp := make(map[string]any, len(t.params))
	for k, v := range t.params {
		cp[k] = v
	}
	return cp, true
}

// Or returns t, or fallback when t is unset.
func (t Transform) Or(fallback Transform) Transform {
	if t.IsZero() {
		return fallback
	}
	return t
}

func (t Transform) String() string {
	switch {
	case t.none:
		return "none"
	case t.variant != "":
		return t.variant
	case t.params != nil:
		keys := make([]string, 0, len(t.params))
		for k := range t.params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, t.params[k]))
		}
		return "{" + strings.Join(parts, ",") + "}"
	}
	return ""
}
