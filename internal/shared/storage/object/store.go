package object

import (
	"context"
	"errors"
	"io"
	"strings"
)

// Kind identifies how a stored file's text gets extracted.
type Kind string

const (
	KindPDF   Kind = "pdf"
	KindImage Kind = "image"
)

var (
	// ErrUnsupportedType is returned for files outside the allowed extensions.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrEmptyUpload is returned for uploads with no name or no content.
	ErrEmptyUpload = errors.New("empty upload")
)

// allowedExtensions maps an accepted lowercase extension to its file kind.
var allowedExtensions = map[string]Kind{
	"pdf":  KindPDF,
	"png":  KindImage,
	"jpg":  KindImage,
	"jpeg": KindImage,
}

// StoredFile describes a successfully stored upload. Kind is resolved once
// from the validated extension and travels with the file from here on.
type StoredFile struct {
	Name string
	Size int64
	Kind Kind
}

// ObjectStore defines the contract for saving and retrieving uploads.
// Save validates the upload before writing anything: a rejected upload
// leaves no object behind. Stored names are generated, unique within the
// owner's namespace, and never reused for different content.
type ObjectStore interface {
	Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (StoredFile, error)
	Open(ctx context.Context, ownerID string, storedName string) (io.ReadCloser, error)
}

// ValidateUpload checks a client-supplied filename against the accepted
// extensions. It returns the file kind and the normalized extension.
func ValidateUpload(fileName string) (Kind, string, error) {
	name := strings.TrimSpace(fileName)
	if name == "" {
		return "", "", ErrEmptyUpload
	}
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 || idx == len(name)-1 {
		return "", "", ErrUnsupportedType
	}
	ext := strings.ToLower(name[idx+1:])
	kind, ok := allowedExtensions[ext]
	if !ok {
		return "", "", ErrUnsupportedType
	}
	return kind, ext, nil
}
