// Package storage is a blob-backed attachment backend for dryer.
//
// A Manager uploads files to a Service and returns Attachments that satisfy
// dryer.Attachment. Its Routes satisfy dryer.URLGenerator and produce signed
// redirect URLs that Handler resolves:
//
//	m := storage.NewManager(memory.New(), storage.NewVerifier(secret, salt))
//	m.DefineVariant("thumb", storage.Transformation{Resize: storage.ResizeLimit, Width: 100, Height: 100})
//
//	s := dryer.New[User](dryer.WithAttachments(m.Routes())).
//		ToAttachment(dryer.Variant("thumb"), "avatar")
//
//	router.Mount(m.Routes().Prefix(), storage.Handler(m))
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Sentinel errors for programmatic error handling.
var (
	// ErrNotFound indicates the service has no object for a key.
	ErrNotFound = errors.New("blob not found")

	// ErrInvalidSignature indicates a signed id or URL was tampered with.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrExpired indicates a signed URL is past its expiry.
	ErrExpired = errors.New("signed url expired")

	// ErrUnknownVariant indicates a variant name was never defined.
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrNotRepresentable indicates the blob cannot be transformed.
	ErrNotRepresentable = errors.New("blob not representable")

	// ErrInvalidTransformation indicates representation params could not be
	// parsed.
	ErrInvalidTransformation = errors.New("invalid transformation")

	// ErrNoManager indicates an Attachment was not created by a Manager.
	ErrNoManager = errors.New("attachment has no manager")
)

// Service stores blob bytes under opaque keys.
type Service interface {
	// Name identifies the service in blobs and signals.
	Name() string

	// Upload stores r under key.
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error

	// Download opens the object stored under key.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns a URL the client can fetch the object from.
	URL(ctx context.Context, key string, opts URLOptions) (string, error)
}

// URLOptions describes how a service URL should be served.
type URLOptions struct {
	Filename    string
	ContentType string

	// Disposition is "inline" or "attachment". Empty means inline.
	Disposition string

	// ExpiresIn bounds signed URLs. Zero uses the service default.
	ExpiresIn time.Duration
}

// DefaultURLExpiry is used when URLOptions.ExpiresIn is zero.
const DefaultURLExpiry = 5 * time.Minute
