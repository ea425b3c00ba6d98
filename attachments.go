package dryer

import (
	"context"
	"fmt"
)

// ToAttachment defines the url, name, preview and signed id accessors for
// each attachment attribute.
func (s *Shortcuts) ToAttachment(preview Transform, attrs ...string) *Shortcuts {
	return s.ToAttachmentURL(attrs...).
		ToAttachmentName(attrs...).
		ToAttachmentPreview(preview, attrs...).
		ToAttachmentSignedID(attrs...)
}

// ToAttachmentURL defines attr_url accessors returning the URL of the
// attached file.
func (s *Shortcuts) ToAttachmentURL(attrs ...string) *Shortcuts {
	backend, ok := s.attachmentBackend("ToAttachmentURL", attrs)
	if !ok {
		return s
	}
	for _, attr := range attrs {
		s.define(attr+"_url", KindAttachmentURL, attr, func(ctx context.Context, d *Decorator) (any, error) {
			a, err := d.attachment(attr)
			if err != nil || a == nil {
				return nil, err
			}
			return urlFor(ctx, backend, a)
		})
	}
	return s
}

// ToAttachmentName defines attr_name accessors returning the filename of the
// attached file.
func (s *Shortcuts) ToAttachmentName(attrs ...string) *Shortcuts {
	if _, ok := s.attachmentBackend("ToAttachmentName", attrs); !ok {
		return s
	}
	for _, attr := range attrs {
		s.define(attr+"_name", KindAttachmentName, attr, func(_ context.Context, d *Decorator) (any, error) {
			a, err := d.attachment(attr)
			if err != nil || a == nil {
				return nil, err
			}
			return a.Filename(), nil
		})
	}
	return s
}

// ToAttachmentPreview defines attr_preview accessors returning a preview URL.
//
// The transform is resolved now: an unset transform takes
// Config.Attachments.DefaultPreviewTransform. A resolved none transform
// yields nil for every record.
func (s *Shortcuts) ToAttachmentPreview(transform Transform, attrs ...string) *Shortcuts {
	backend, ok := s.attachmentBackend("ToAttachmentPreview", attrs)
	if !ok {
		return s
	}
	resolved := transform.Or(s.cfg.Attachments.DefaultPreviewTransform)
	for _, attr := range attrs {
		s.define(attr+"_preview", KindAttachmentPreview, attr, func(ctx context.Context, d *Decorator) (any, error) {
			if resolved.IsZero() || resolved.IsNone() {
				return nil, nil
			}
			a, err := d.attachment(attr)
			if err != nil || a == nil {
				return nil, err
			}
			return previewURL(ctx, backend, a, resolved)
		})
	}
	return s
}

// ToAttachmentSignedID defines attr_signed_id accessors returning the signed
// id of the attached file.
func (s *Shortcuts) ToAttachmentSignedID(attrs ...string) *Shortcuts {
	if _, ok := s.attachmentBackend("ToAttachmentSignedID", attrs); !ok {
		return s
	}
	for _, attr := range attrs {
		s.define(attr+"_signed_id", KindAttachmentSignedID, attr, func(_ context.Context, d *Decorator) (any, error) {
			a, err := d.attachment(attr)
			if err != nil || a == nil {
				return nil, err
			}
			id, err := a.SignedID()
			if err != nil {
				return nil, fmt.Errorf("%w: signed id: %w", ErrAttachment, err)
			}
			return id, nil
		})
	}
	return s
}

// attachmentBackend returns the backend, or records why attachment
// shortcuts are unavailable.
func (s *Shortcuts) attachmentBackend(declaration string, attrs []string) (URLGenerator, bool) {
	if s.attachments != nil {
		return s.attachments, true
	}
	err := s.disabledErr
	if err == nil {
		err = ErrAttachmentsDisabled
	}
	s.record(newDefinitionError(err, declaration, fmt.Sprintf("attributes %v", attrs), nil))
	return nil, false
}

// attachment reads attr as an Attachment. Nil and unattached values return
// a nil Attachment.
func (d *Decorator) attachment(attr string) (Attachment, error) {
	v, err := d.Attribute(attr)
	if err != nil {
		return nil, err
	}
	if isNil(v) {
		return nil, nil
	}
	a, ok := v.(Attachment)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, not an attachment", ErrAttachment, attr, v)
	}
	if !a.Attached() {
		return nil, nil
	}
	return a, nil
}

func previewURL(ctx context.Context, backend URLGenerator, a Attachment, t Transform) (any, error) {
	if name, ok := t.VariantName(); ok {
		target, err := a.Variant(name)
		if err != nil {
			return nil, fmt.Errorf("%w: variant %q: %w", ErrAttachment, name, err)
		}
		return urlFor(ctx, backend, target)
	}

	params, _ := t.Parameters()
	if !a.Representable() {
		return nil, nil
	}
	rep, err := a.Representation(params)
	if err != nil {
		return nil, fmt.Errorf("%w: representation %s: %w", ErrAttachment, t, err)
	}
	target, err := rep.Processed(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: process %s: %w", ErrAttachment, t, err)
	}
	return urlFor(ctx, backend, target)
}

func urlFor(ctx context.Context, backend URLGenerator, target any) (any, error) {
	url, err := backend.URLFor(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("%w: url: %w", ErrAttachment, err)
	}
	return url, nil
}
