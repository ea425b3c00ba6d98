// Package memory is an in-memory storage.Service for tests and development.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/zoobzio/dryer/storage"
)

type object struct {
	data        []byte
	contentType string
}

// Service keeps objects in a map.
type Service struct {
	baseURL string

	mu      sync.RWMutex
	objects map[string]object
}

// Option configures a Service.
type Option func(*Service)

// WithBaseURL changes the URL prefix returned by URL. Default "memory://".
func WithBaseURL(base string) Option {
	return func(s *Service) {
		s.baseURL = base
	}
}

// New creates an empty in-memory service.
func New(opts ...Option) *Service {
	s := &Service{
		baseURL: "memory://",
		objects: make(map[string]object),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns "memory".
func (s *Service) Name() string {
	return "memory"
}

// Upload stores the contents of r.
func (s *Service) Upload(_ context.Context, key string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = object{data: data, contentType: contentType}
	return nil
}

// Download returns a reader over the stored bytes.
func (s *Service) Download(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Delete removes the object.
func (s *Service) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	delete(s.objects, key)
	return nil
}

// Exists reports whether key is stored.
func (s *Service) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// URL returns {base}{key} with the disposition and filename as query
// parameters.
func (s *Service) URL(ctx context.Context, key string, opts storage.URLOptions) (string, error) {
	if ok, _ := s.Exists(ctx, key); !ok {
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	q := url.Values{}
	if opts.Disposition != "" {
		q.Set("disposition", opts.Disposition)
	}
	if opts.Filename != "" {
		q.Set("filename", opts.Filename)
	}
	if len(q) == 0 {
		return s.baseURL + key, nil
	}
	return s.baseURL + key + "?" + q.Encode(), nil
}

// ContentType returns the stored content type of key.
func (s *Service) ContentType(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj.contentType, ok
}

// Len returns the number of stored objects.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

var _ storage.Service = (*Service)(nil)
