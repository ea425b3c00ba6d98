// Package dryer generates formatting accessors for decorators.
//
// A decorator wraps a domain record and presents display-ready values. Instead
// of hand-writing one method per field, a Shortcuts table is declared once per
// record type and every decorator built from it exposes the declared accessors
// by name.
//
// # Declaring Shortcuts
//
//	type Invoice struct {
//	    IssuedOn time.Time `json:"issued_on"`
//	    Total    float64   `json:"total"`
//	    Customer *Customer `json:"customer"`
//	}
//
//	invoices := dryer.New[Invoice]().
//	    ToDateFormat("issued_on").
//	    ToPrecisionNumber(2, "total").
//	    ToName("customer")
//
//	d := invoices.Decorate(&invoice, dryer.Context{Humanize: true})
//	issued, _ := d.Get(ctx, "issued_on")      // "01/11/2023"
//	total, _ := d.Get(ctx, "total")           // "5.32"
//	customer, _ := d.Get(ctx, "customer_name") // "John Smith"
//
// Accessors read the wrapped record every time they are called; nothing is
// cached between calls.
//
// # Attribute Names
//
// Attributes are resolved against the wrapped object in this order:
//
//   - AttributeReader implementations
//   - map keys
//   - struct fields, matched by `dryer` tag, `json` tag, field name or the
//     snake_case form of the field name
//   - exported zero-argument methods (`full_name` calls FullName)
//
// # Formatting
//
// Dates, times and datetimes are rendered with strftime patterns from Config.
// The Humanize flag of the decorator Context selects the humanized date and
// datetime patterns. Times have a single pattern.
//
// Precision numbers intentionally return three kinds of value:
//
//   - float64(0) for blank input
//   - the exact decimal.Decimal when precision is below 1
//   - a string with exactly precision fractional digits otherwise
//
// # Absence
//
// A nil result means the value is absent. Absence is never an error: nil
// dates, unattached files and associations without a name all yield nil.
//
// # Attachments
//
// Attachment shortcuts are only available when a URLGenerator backend is
// supplied with WithAttachments, or through Config.Attachments when the mode is
// AttachmentStorage. The storage subpackage provides a complete backend.
//
// # Extensions
//
// Extensions add their own accessors to every Shortcuts built with a config.
// They are applied in order after the core shortcuts. The mask and digest
// subpackages are shipped as extensions.
//
// # Rendering
//
// Decorator.Render evaluates every accessor and marshals the result with a
// Codec. The json, yaml, msgpack and bson subpackages provide codecs.
package dryer

import "context"

// AttributeReader lets a record expose attributes without reflection.
type AttributeReader interface {
	// ReadAttribute returns the named attribute and whether the record has it.
	ReadAttribute(name string) (any, bool)
}

// Named is implemented by associations rendered with ToName.
type Named interface {
	Name() string
}

// Attachment is a file associated with a record and held by a storage backend.
type Attachment interface {
	// Attached reports whether a file is currently attached.
	Attached() bool

	// Filename returns the stored filename of the attached file.
	Filename() string

	// SignedID returns a tamper-proof reference to the attached file.
	SignedID() (string, error)

	// Variant returns a URL target for a named, pre-defined variant.
	Variant(name string) (any, error)

	// Representable reports whether Representation can be used.
	Representable() bool

	// Representation returns a representation for the given transformation
	// parameters.
	Representation(params map[string]any) (Representation, error)
}

// Representation is a transformed view of an attachment.
type Representation interface {
	// Processed performs the transformation if needed and returns a URL target.
	Processed(ctx context.Context) (any, error)
}

// URLGenerator builds URLs for attachments and their derived targets.
// Supplying one enables the attachment shortcuts.
type URLGenerator interface {
	URLFor(ctx context.Context, target any) (string, error)
}
