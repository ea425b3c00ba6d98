package dryer

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for shortcut and decorator events.
var (
	SignalShortcutsCreated  = capitan.NewSignal("dryer.shortcuts.created", "Shortcuts table instantiated")
	SignalAccessorDefined   = capitan.NewSignal("dryer.accessor.defined", "Accessor declared")
	SignalAccessorRedefined = capitan.NewSignal("dryer.accessor.redefined", "Accessor declared again, previous definition replaced")
	SignalAccessorFailed    = capitan.NewSignal("dryer.accessor.failed", "Accessor evaluation failed")
	SignalRenderComplete    = capitan.NewSignal("dryer.render.complete", "Render operation finished")
)

// Keys for typed event data.
var (
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeyAccessor    = capitan.NewStringKey("accessor")
	KeyKind        = capitan.NewStringKey("kind")
	KeyAttribute   = capitan.NewStringKey("attribute")
	KeyContentType = capitan.NewStringKey("content_type")
	KeyCount       = capitan.NewIntKey("count")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

func emitShortcutsCreated(ctx context.Context, typeName string, extensions int) {
	capitan.Emit(ctx, SignalShortcutsCreated,
		KeyTypeName.Field(typeName),
		KeyCount.Field(extensions),
	)
}

func emitAccessorDefined(ctx context.Context, typeName, accessor string, kind Kind, redefined bool) {
	signal := SignalAccessorDefined
	if redefined {
		signal = SignalAccessorRedefined
	}
	capitan.Emit(ctx, signal,
		KeyTypeName.Field(typeName),
		KeyAccessor.Field(accessor),
		KeyKind.Field(string(kind)),
	)
}

func emitAccessorFailed(ctx context.Context, typeName, accessor, attribute string, err error) {
	capitan.Error(ctx, SignalAccessorFailed,
		KeyTypeName.Field(typeName),
		KeyAccessor.Field(accessor),
		KeyAttribute.Field(attribute),
		KeyError.Field(err),
	)
}

// emitRenderComplete emits an event when render finishes.
func emitRenderComplete(ctx context.Context, contentType, typeName string, size, count int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyCount.Field(count),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalRenderComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalRenderComplete, fields...)
	}
}
