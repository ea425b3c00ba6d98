package dryer

import "fmt"

// Extension adds accessors to a Shortcuts table.
type Extension interface {
	Extend(s *Shortcuts) error
}

// ExtensionFunc adapts a function to Extension.
type ExtensionFunc func(s *Shortcuts) error

// Extend calls fn(s).
func (fn ExtensionFunc) Extend(s *Shortcuts) error {
	return fn(s)
}

// Extend applies extensions in order. Failures are reported by Validate.
func (s *Shortcuts) Extend(exts ...Extension) *Shortcuts {
	for _, ext := range exts {
		if ext == nil {
			continue
		}
		if err := ext.Extend(s); err != nil {
			s.record(newDefinitionError(ErrExtension, fmt.Sprintf("%T", ext), "", err))
		}
	}
	return s
}
