// Package disk is a filesystem storage.Service that serves its own signed
// URLs.
package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zoobzio/dryer/storage"
)

// Config options for the disk service.
type Config struct {
	Root    string // Directory holding the objects
	BaseURL string // Mount point of Handler, e.g. "/storage/disk"
}

// Service stores objects as files under Root.
type Service struct {
	root     string
	baseURL  string
	verifier *storage.Verifier
	now      func() time.Time
}

// New creates the root directory if needed.
func New(cfg Config, verifier *storage.Verifier) (*Service, error) {
	if cfg.Root == "" {
		return nil, errors.New("root directory is required")
	}
	if verifier == nil {
		return nil, errors.New("verifier is required")
	}
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create root directory: %w", err)
	}
	base := cfg.BaseURL
	if base == "" {
		base = "/storage/disk"
	}
	return &Service{
		root:     cfg.Root,
		baseURL:  strings.TrimRight(base, "/"),
		verifier: verifier,
		now:      time.Now,
	}, nil
}

// Name returns "disk".
func (s *Service) Name() string {
	return "disk"
}

func (s *Service) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}

// Upload writes r to the file for key.
func (s *Service) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	return f.Close()
}

// Download opens the file for key.
func (s *Service) Download(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	return f, err
}

// Delete removes the file for key.
func (s *Service) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	return err
}

// Exists reports whether the file for key exists.
func (s *Service) Exists(_ context.Context, key string) (bool, error) {
	path, err := s.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	}
	return false, err
}

// URL returns a signed URL served by Handler.
func (s *Service) URL(_ context.Context, key string, opts storage.URLOptions) (string, error) {
	if _, err := s.path(key); err != nil {
		return "", err
	}
	expires := opts.ExpiresIn
	if expires == 0 {
		expires = storage.DefaultURLExpiry
	}
	params := url.Values{}
	disposition := opts.Disposition
	if disposition == "" {
		disposition = "inline"
	}
	params.Set("disposition", disposition)
	if opts.Filename != "" {
		params.Set("filename", opts.Filename)
	}
	if opts.ContentType != "" {
		params.Set("content_type", opts.ContentType)
	}
	return s.verifier.SignURL(s.baseURL+"/"+key, params, s.now().Add(expires)), nil
}

// Handler serves signed URLs. Mount it at Config.BaseURL.
func Handler(s *Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "*")
		query := r.URL.Query()
		if err := s.verifier.ValidateURL(s.baseURL+"/"+key, query, s.now()); err != nil {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		f, err := s.Download(r.Context(), key)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		defer f.Close()

		contentType := query.Get("content_type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		disposition := query.Get("disposition")
		if filename := query.Get("filename"); filename != "" {
			disposition = mime.FormatMediaType(disposition, map[string]string{"filename": filename})
		}
		w.Header().Set("Content-Disposition", disposition)
		_, _ = io.Copy(w, f)
	})
	return r
}

var _ storage.Service = (*Service)(nil)
