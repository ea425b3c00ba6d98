package storage

import (
	"context"
	"fmt"
	"net/url"
)

// DefaultRoutePrefix is where Handler is expected to be mounted.
const DefaultRoutePrefix = "/storage"

// Routes builds signed redirect URLs for attachments, blobs and variations.
// It implements dryer.URLGenerator.
type Routes struct {
	prefix   string
	verifier *Verifier
}

// Prefix returns the mount point of Handler.
func (r *Routes) Prefix() string {
	return r.prefix
}

// URLFor returns the redirect URL for an *Attachment, *Blob or *Variation.
func (r *Routes) URLFor(_ context.Context, target any) (string, error) {
	switch t := target.(type) {
	case *Attachment:
		if !t.Attached() {
			return "", fmt.Errorf("%w: nothing attached", ErrNotFound)
		}
		return r.BlobURL(t.Blob), nil
	case *Blob:
		return r.BlobURL(t), nil
	case *Variation:
		return r.RepresentationURL(t), nil
	}
	return "", fmt.Errorf("unsupported url target %T", target)
}

// BlobURL returns {prefix}/blobs/redirect/{signed_id}/{filename}.
func (r *Routes) BlobURL(blob *Blob) string {
	return fmt.Sprintf("%s/blobs/redirect/%s/%s",
		r.prefix,
		r.verifier.Generate(PurposeBlob, blob.Key),
		url.PathEscape(blob.Filename),
	)
}

// RepresentationURL returns
// {prefix}/representations/redirect/{signed_id}/{variation}/{filename}.
func (r *Routes) RepresentationURL(v *Variation) string {
	return fmt.Sprintf("%s/representations/redirect/%s/%s/%s",
		r.prefix,
		r.verifier.Generate(PurposeBlob, v.Blob.Key),
		r.verifier.Generate(PurposeVariation, v.Transformation.encode()),
		url.PathEscape(v.Blob.Filename),
	)
}
