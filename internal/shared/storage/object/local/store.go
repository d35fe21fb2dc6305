package local

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/storage/object"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/util"
)

// Store implements ObjectStore using the local filesystem.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) object.ObjectStore {
	return &Store{baseDir: baseDir}
}

// Save validates the upload and writes it under the owner's namespace
// with a generated name. Validation failures happen before any file is
// created; a failed write leaves no partial file behind.
func (s *Store) Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (object.StoredFile, error) {
	kind, ext, err := object.ValidateUpload(fileName)
	if err != nil {
		return object.StoredFile{}, err
	}
	if err := ctx.Err(); err != nil {
		return object.StoredFile{}, err
	}

	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return object.StoredFile{}, fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return object.StoredFile{}, object.ErrEmptyUpload
	}

	dir := filepath.Join(s.baseDir, util.OwnerNamespace(ownerID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return object.StoredFile{}, fmt.Errorf("mkdir: %w", err)
	}

	storedName := newStoredName(ext)
	fullPath := filepath.Join(dir, storedName)
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return object.StoredFile{}, fmt.Errorf("create file: %w", err)
	}

	size, err := io.Copy(f, io.MultiReader(bytes.NewReader(head[:n]), r))
	if err != nil {
		f.Close()
		os.Remove(fullPath)
		return object.StoredFile{}, fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(fullPath)
		return object.StoredFile{}, fmt.Errorf("close upload: %w", err)
	}

	return object.StoredFile{Name: storedName, Size: size, Kind: kind}, nil
}

// Open opens a stored object under the owner's namespace for reading.
func (s *Store) Open(ctx context.Context, ownerID string, storedName string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validStoredName(storedName) {
		return nil, fmt.Errorf("invalid stored name")
	}
	return os.Open(filepath.Join(s.baseDir, util.OwnerNamespace(ownerID), storedName))
}

// validStoredName accepts only the flat generated names Save produces.
func validStoredName(name string) bool {
	return name != "" &&
		!strings.ContainsAny(name, `/\`) &&
		!strings.Contains(name, "..") &&
		filepath.Clean(name) == name
}

func newStoredName(ext string) string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d.%s", time.Now().UnixNano(), ext)
	}
	return hex.EncodeToString(b[:]) + "." + ext
}

var _ object.ObjectStore = (*Store)(nil)
