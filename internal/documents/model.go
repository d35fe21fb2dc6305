package documents

import (
	"time"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/storage/object"
)

// Document is one uploaded medical document together with its processed text.
// OwnerID is set at creation and never changes. SharedWith holds the id of
// the single doctor currently granted read/annotate access, empty when the
// document is not shared.
type Document struct {
	ID           string
	OwnerID      string
	StoredName   string
	OriginalName string
	Kind         object.Kind
	SizeBytes    int64
	OCRText      string
	Summary      string
	SharedWith   string
	CreatedAt    time.Time
}

// SharedDocument pairs a document with its owner's display name for the
// doctor-facing shared list.
type SharedDocument struct {
	Document
	OwnerName string
}
