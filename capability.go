package dryer

import "strings"

// Kind identifies the rule an accessor was generated from.
type Kind string

const (
	KindDate               Kind = "date"
	KindTime               Kind = "time"
	KindDatetime           Kind = "datetime"
	KindPrecisionNumber    Kind = "precision_number"
	KindName               Kind = "name"
	KindAttachmentURL      Kind = "attachment_url"
	KindAttachmentName     Kind = "attachment_name"
	KindAttachmentPreview  Kind = "attachment_preview"
	KindAttachmentSignedID Kind = "attachment_signed_id"

	// KindCustom marks accessors registered through Define, usually by
	// extensions.
	KindCustom Kind = "custom"
)

// AttachmentMode selects whether attachment shortcuts are available.
type AttachmentMode string

const (
	// AttachmentNone disables attachment shortcuts.
	AttachmentNone AttachmentMode = "none"

	// AttachmentStorage enables attachment shortcuts backed by
	// Config.Attachments.Backend.
	AttachmentStorage AttachmentMode = "storage_backed"
)

// validKinds contains every kind produced by this package.
var validKinds = map[Kind]bool{
	KindDate:               true,
	KindTime:               true,
	KindDatetime:           true,
	KindPrecisionNumber:    true,
	KindName:               true,
	KindAttachmentURL:      true,
	KindAttachmentName:     true,
	KindAttachmentPreview:  true,
	KindAttachmentSignedID: true,
	KindCustom:             true,
}

// attachmentModeAliases maps accepted spellings to modes.
var attachmentModeAliases = map[string]AttachmentMode{
	"":               AttachmentNone,
	"none":           AttachmentNone,
	"storage_backed": AttachmentStorage,
	"storage":        AttachmentStorage,
	"active_storage": AttachmentStorage,
}

// IsValidKind returns true if k is a known accessor kind.
func IsValidKind(k Kind) bool {
	return validKinds[k]
}

// IsValidAttachmentMode returns true if m is AttachmentNone or AttachmentStorage.
func IsValidAttachmentMode(m AttachmentMode) bool {
	return m == AttachmentNone || m == AttachmentStorage
}

// ParseAttachmentMode resolves a configured mode name. The empty string is
// AttachmentNone; "storage" and "active_storage" are accepted for
// AttachmentStorage.
func ParseAttachmentMode(s string) (AttachmentMode, bool) {
	m, ok := attachmentModeAliases[strings.ToLower(strings.TrimSpace(s))]
	return m, ok
}
