package storage

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager uploads blobs to a Service and tracks their variants.
type Manager struct {
	service  Service
	verifier *Verifier
	routes   *Routes
	now      func() time.Time

	mu        sync.RWMutex
	blobs     map[string]*Blob
	variants  map[string]Transformation
	processed map[string]*Blob
	locks     map[string]*sync.Mutex
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithRoutePrefix mounts the redirect routes under prefix. Default "/storage".
func WithRoutePrefix(prefix string) ManagerOption {
	return func(m *Manager) {
		m.routes.prefix = prefix
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager storing blobs in service.
func NewManager(service Service, verifier *Verifier, opts ...ManagerOption) *Manager {
	m := &Manager{
		service:   service,
		verifier:  verifier,
		now:       time.Now,
		blobs:     make(map[string]*Blob),
		variants:  make(map[string]Transformation),
		processed: make(map[string]*Blob),
		locks:     make(map[string]*sync.Mutex),
	}
	m.routes = &Routes{prefix: DefaultRoutePrefix, verifier: verifier}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Service returns the storage service.
func (m *Manager) Service() Service {
	return m.service
}

// Verifier returns the signer used for ids and URLs.
func (m *Manager) Verifier() *Verifier {
	return m.verifier
}

// Routes returns the URL generator for attachments of this manager.
func (m *Manager) Routes() *Routes {
	return m.routes
}

// DefineVariant registers a named transformation.
func (m *Manager) DefineVariant(name string, t Transformation) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("variant %q: %w", name, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.variants[name] = t
	return nil
}

func (m *Manager) variant(name string) (Transformation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.variants[name]
	return t, ok
}

// Attach uploads r and returns it attached under name. An empty contentType
// is detected from the content.
func (m *Manager) Attach(ctx context.Context, name, filename, contentType string, r io.Reader) (*Attachment, error) {
	start := m.now()
	br := bufio.NewReader(r)
	if contentType == "" {
		head, _ := br.Peek(512)
		contentType = http.DetectContentType(head)
	}

	hash := sha256.New()
	var size countingWriter
	body := io.TeeReader(br, io.MultiWriter(hash, &size))

	blob := &Blob{
		Key:         uuid.NewString(),
		Filename:    filename,
		ContentType: contentType,
		Service:     m.service.Name(),
		CreatedAt:   start,
	}
	err := m.service.Upload(ctx, blob.Key, body, contentType)
	blob.ByteSize = int64(size)
	blob.Checksum = hex.EncodeToString(hash.Sum(nil))
	emitUploaded(ctx, blob, m.now().Sub(start), err)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}

	m.mu.Lock()
	m.blobs[blob.Key] = blob
	m.mu.Unlock()

	return &Attachment{Name: name, Blob: blob, manager: m}, nil
}

// Blob returns the blob stored under key.
func (m *Manager) Blob(key string) (*Blob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return blob, nil
}

// Lookup resolves a signed blob id.
func (m *Manager) Lookup(signedID string) (*Blob, error) {
	key, err := m.verifier.Verify(PurposeBlob, signedID)
	if err != nil {
		return nil, err
	}
	return m.Blob(key)
}

// Find returns the attachment for a stored blob key.
func (m *Manager) Find(name, key string) (*Attachment, error) {
	blob, err := m.Blob(key)
	if err != nil {
		return nil, err
	}
	return &Attachment{Name: name, Blob: blob, manager: m}, nil
}

// Purge deletes the blob and its processed variants.
func (m *Manager) Purge(ctx context.Context, a *Attachment) error {
	if !a.Attached() {
		return nil
	}
	m.mu.Lock()
	var keys []string
	for key := range m.processed {
		if variationOwner(key) == a.Blob.Key {
			keys = append(keys, key)
			delete(m.processed, key)
		}
	}
	delete(m.blobs, a.Blob.Key)
	m.mu.Unlock()

	for _, key := range keys {
		if err := m.service.Delete(ctx, key); err != nil {
			return fmt.Errorf("purge variant %s: %w", key, err)
		}
	}
	if err := m.service.Delete(ctx, a.Blob.Key); err != nil {
		return fmt.Errorf("purge %s: %w", a.Blob.Key, err)
	}
	return nil
}

// process derives the variation once and returns the derived blob.
func (m *Manager) process(ctx context.Context, v *Variation) (*Blob, error) {
	key := v.Key()

	m.mu.Lock()
	if derived, ok := m.processed[key]; ok {
		m.mu.Unlock()
		return derived, nil
	}
	lock, ok := m.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[key] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	m.mu.RLock()
	derived, ok := m.processed[key]
	m.mu.RUnlock()
	if ok {
		return derived, nil
	}

	start := m.now()
	derived, err := m.derive(ctx, v, key)
	size := 0
	if derived != nil {
		size = int(derived.ByteSize)
	}
	emitProcessed(ctx, m.service.Name(), v.Blob.Key, v.Transformation.Key(), size, m.now().Sub(start), err)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.processed[key] = derived
	delete(m.locks, key)
	m.mu.Unlock()
	return derived, nil
}

func (m *Manager) derive(ctx context.Context, v *Variation, key string) (*Blob, error) {
	if !v.Blob.Image() {
		return nil, fmt.Errorf("%w: %s", ErrNotRepresentable, v.Blob.ContentType)
	}
	src, err := m.service.Download(ctx, v.Blob.Key)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", v.Blob.Key, err)
	}
	defer src.Close()

	data, contentType, err := v.Transformation.Process(src)
	if err != nil {
		return nil, err
	}
	if err := m.service.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return nil, fmt.Errorf("upload variant %s: %w", key, err)
	}

	sum := sha256.Sum256(data)
	return &Blob{
		Key:         key,
		Filename:    v.Blob.Filename,
		ContentType: contentType,
		ByteSize:    int64(len(data)),
		Checksum:    hex.EncodeToString(sum[:]),
		Service:     m.service.Name(),
		CreatedAt:   m.now(),
	}, nil
}

type countingWriter int64

func (c *countingWriter) Write(p []byte) (int, error) {
	*c += countingWriter(len(p))
	return len(p), nil
}
