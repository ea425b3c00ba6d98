package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/zoobzio/dryer"
)

// Attachment is a blob attached to a record under a name.
type Attachment struct {
	Name string
	Blob *Blob

	manager *Manager
}

// Attached reports whether a blob is set.
func (a *Attachment) Attached() bool {
	return a != nil && a.Blob != nil
}

// Filename returns the blob filename.
func (a *Attachment) Filename() string {
	if !a.Attached() {
		return ""
	}
	return a.Blob.Filename
}

// SignedID returns the signed blob key.
func (a *Attachment) SignedID() (string, error) {
	if !a.Attached() {
		return "", fmt.Errorf("%w: nothing attached", ErrNotFound)
	}
	if a.manager == nil || a.manager.verifier == nil {
		return "", fmt.Errorf("%w: %s", ErrNoManager, a.Name)
	}
	return a.manager.verifier.Generate(PurposeBlob, a.Blob.Key), nil
}

// Variant returns the unprocessed variation for a defined variant name.
// Processing happens when the representation route is requested.
func (a *Attachment) Variant(name string) (any, error) {
	if a == nil || a.manager == nil {
		return nil, fmt.Errorf("%w: variant %q", ErrNoManager, name)
	}
	t, ok := a.manager.variant(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return &Variation{Blob: a.Blob, Transformation: t, manager: a.manager}, nil
}

// Representable reports whether the blob is an image.
func (a *Attachment) Representable() bool {
	return a.Attached() && a.Blob.Image()
}

// Representation returns a variation built from params.
func (a *Attachment) Representation(params map[string]any) (dryer.Representation, error) {
	if !a.Representable() {
		return nil, ErrNotRepresentable
	}
	if a.manager == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoManager, a.Name)
	}
	t, err := ParseTransformation(params)
	if err != nil {
		return nil, err
	}
	return &Variation{Blob: a.Blob, Transformation: t, manager: a.manager}, nil
}

// Variation is a blob with a transformation applied.
type Variation struct {
	Blob           *Blob
	Transformation Transformation

	manager *Manager
}

// Key returns the service key of the derived blob.
func (v *Variation) Key() string {
	return v.Blob.Key + variantSeparator + v.Transformation.Key()
}

// Processed derives the variant if it has not been derived yet and returns
// the variation.
func (v *Variation) Processed(ctx context.Context) (any, error) {
	if _, err := v.manager.process(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

const variantSeparator = "/variants/"

// variationOwner returns the blob key a variation key belongs to.
func variationOwner(key string) string {
	owner, _, _ := strings.Cut(key, variantSeparator)
	return owner
}
