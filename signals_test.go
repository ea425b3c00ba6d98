package dryer

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitShortcutsCreated(_ *testing.T) {
	// Should not panic
	emitShortcutsCreated(context.Background(), "Record", 2)
}

func TestEmitAccessorDefined(_ *testing.T) {
	emitAccessorDefined(context.Background(), "Record", "date1", KindDate, false)
}

func TestEmitAccessorDefined_Redefined(_ *testing.T) {
	emitAccessorDefined(context.Background(), "Record", "date1", KindTime, true)
}

func TestEmitAccessorFailed(_ *testing.T) {
	emitAccessorFailed(context.Background(), "Record", "number2", "number2", errors.New("test error"))
}

func TestEmitRenderComplete_Success(_ *testing.T) {
	emitRenderComplete(context.Background(), "application/json", "Record", 128, 10, 100*time.Millisecond, nil)
}

func TestEmitRenderComplete_Error(_ *testing.T) {
	emitRenderComplete(context.Background(), "application/json", "Record", 0, 0, 100*time.Millisecond, errors.New("test error"))
}

func TestSignalVariables(t *testing.T) {
	signals := []struct {
		name   string
		signal interface{}
	}{
		{"SignalShortcutsCreated", SignalShortcutsCreated},
		{"SignalAccessorDefined", SignalAccessorDefined},
		{"SignalAccessorRedefined", SignalAccessorRedefined},
		{"SignalAccessorFailed", SignalAccessorFailed},
		{"SignalRenderComplete", SignalRenderComplete},
	}

	for _, s := range signals {
		if s.signal == nil {
			t.Errorf("%s is nil", s.name)
		}
	}
}

func TestKeyVariables(t *testing.T) {
	keys := []struct {
		name string
		key  interface{}
	}{
		{"KeyTypeName", KeyTypeName},
		{"KeyAccessor", KeyAccessor},
		{"KeyKind", KeyKind},
		{"KeyAttribute", KeyAttribute},
		{"KeyContentType", KeyContentType},
		{"KeyCount", KeyCount},
		{"KeySize", KeySize},
		{"KeyDuration", KeyDuration},
		{"KeyError", KeyError},
	}

	for _, k := range keys {
		if k.key == nil {
			t.Errorf("%s is nil", k.name)
		}
	}
}
