package storage

import (
	"strings"
	"time"
)

// Blob is the metadata of an uploaded file.
type Blob struct {
	Key         string    `json:"key"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	ByteSize    int64     `json:"byte_size"`
	Checksum    string    `json:"checksum"` // hex sha256
	Service     string    `json:"service"`
	CreatedAt   time.Time `json:"created_at"`
}

// Image reports whether the blob holds an image.
func (b *Blob) Image() bool {
	return strings.HasPrefix(b.ContentType, "image/")
}

// URLOptions returns the options used to serve the blob inline.
func (b *Blob) URLOptions() URLOptions {
	return URLOptions{
		Filename:    b.Filename,
		ContentType: b.ContentType,
		Disposition: "inline",
	}
}
