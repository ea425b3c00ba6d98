package storage

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/dryer"
)

// Signals for storage events.
var (
	SignalUploaded  = capitan.NewSignal("dryer.storage.uploaded", "Blob uploaded to a storage service")
	SignalProcessed = capitan.NewSignal("dryer.storage.processed", "Variant derived from a blob")
)

// Keys for typed event data.
var (
	KeyService   = capitan.NewStringKey("service")
	KeyBlob      = capitan.NewStringKey("blob")
	KeyVariation = capitan.NewStringKey("variation")
)

func emitUploaded(ctx context.Context, blob *Blob, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyService.Field(blob.Service),
		KeyBlob.Field(blob.Key),
		dryer.KeyContentType.Field(blob.ContentType),
		dryer.KeySize.Field(int(blob.ByteSize)),
		dryer.KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, dryer.KeyError.Field(err))
		capitan.Error(ctx, SignalUploaded, fields...)
		return
	}
	capitan.Emit(ctx, SignalUploaded, fields...)
}

func emitProcessed(ctx context.Context, service, blobKey, variation string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyService.Field(service),
		KeyBlob.Field(blobKey),
		KeyVariation.Field(variation),
		dryer.KeySize.Field(size),
		dryer.KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, dryer.KeyError.Field(err))
		capitan.Error(ctx, SignalProcessed, fields...)
		return
	}
	capitan.Emit(ctx, SignalProcessed, fields...)
}
