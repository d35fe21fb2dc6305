package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/storage/object"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/util"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	payload := []byte("%PDF-1.4 fake report body")

	stored, err := store.Save(context.Background(), "owner-1", "report.pdf", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if stored.Kind != object.KindPDF {
		t.Fatalf("expected kind pdf, got %s", stored.Kind)
	}
	if stored.Size != int64(len(payload)) {
		t.Fatalf("expected size %d, got %d", len(payload), stored.Size)
	}
	if !strings.HasSuffix(stored.Name, ".pdf") {
		t.Fatalf("expected stored name with .pdf suffix, got %s", stored.Name)
	}
	if strings.Contains(stored.Name, "report") {
		t.Fatalf("stored name must not leak the original name, got %s", stored.Name)
	}

	rc, err := store.Open(context.Background(), "owner-1", stored.Name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch")
	}
}

func TestSaveStoresUnderOwnerNamespace(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	stored, err := store.Save(context.Background(), "owner-1", "scan.png", bytes.NewReader([]byte{0x89, 'P', 'N', 'G'}))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	wantPath := filepath.Join(dir, util.OwnerNamespace("owner-1"), stored.Name)
	if _, err := os.Stat(wantPath); err != nil {
		t.Fatalf("expected file under owner namespace: %v", err)
	}

	// A different owner cannot open it through their own namespace.
	if _, err := store.Open(context.Background(), "owner-2", stored.Name); err == nil {
		t.Fatalf("expected open under wrong namespace to fail")
	}
}

func TestSaveRejectsUnsupportedTypeBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	_, err := store.Save(context.Background(), "owner-1", "notes.txt", bytes.NewReader([]byte("plain text")))
	if !errors.Is(err, object.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}

	assertNoFiles(t, dir)
}

func TestSaveRejectsEmptyUploadBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	_, err := store.Save(context.Background(), "owner-1", "report.pdf", bytes.NewReader(nil))
	if !errors.Is(err, object.ErrEmptyUpload) {
		t.Fatalf("expected ErrEmptyUpload for empty body, got %v", err)
	}

	_, err = store.Save(context.Background(), "owner-1", "", bytes.NewReader([]byte("data")))
	if !errors.Is(err, object.ErrEmptyUpload) {
		t.Fatalf("expected ErrEmptyUpload for empty name, got %v", err)
	}

	assertNoFiles(t, dir)
}

func TestSaveGeneratesDistinctNames(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	a, err := store.Save(context.Background(), "owner-1", "report.pdf", bytes.NewReader([]byte("one")))
	if err != nil {
		t.Fatalf("save a: %v", err)
	}
	b, err := store.Save(context.Background(), "owner-1", "report.pdf", bytes.NewReader([]byte("two")))
	if err != nil {
		t.Fatalf("save b: %v", err)
	}
	if a.Name == b.Name {
		t.Fatalf("expected distinct stored names for repeated uploads")
	}
}

func TestOpenRejectsTraversalNames(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	for _, name := range []string{"../secret.pdf", "..", "a/b.pdf", `a\b.pdf`} {
		if _, err := store.Open(context.Background(), "owner-1", name); err == nil {
			t.Fatalf("expected traversal name %q to be rejected", name)
		}
	}
}

func assertNoFiles(t *testing.T, dir string) {
	t.Helper()
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			t.Fatalf("unexpected file left behind: %s", path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
}
