package documents

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of DocumentsRepo used in dev mode
// and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID: make(map[string]Document),
	}
}

// Create registers a document. Stored-file references are unique across the
// registry.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[doc.ID]; ok {
		return fmt.Errorf("duplicate document id %s", doc.ID)
	}
	for _, existing := range r.byID {
		if existing.StoredName == doc.StoredName {
			return fmt.Errorf("duplicate stored name %s", doc.StoredName)
		}
	}
	r.byID[doc.ID] = doc
	return nil
}

// GetByID returns a document by id.
func (r *MemoryRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.byID[documentID]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// GetByStoredName returns a document by its stored-file reference.
func (r *MemoryRepo) GetByStoredName(ctx context.Context, storedName string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, doc := range r.byID {
		if doc.StoredName == storedName {
			return doc, nil
		}
	}
	return Document{}, ErrNotFound
}

// ListByOwner returns a user's documents, newest first.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]Document, error) {
	return r.list(ctx, func(doc Document) bool { return doc.OwnerID == ownerID })
}

// ListSharedWith returns documents currently shared with a doctor, newest first.
func (r *MemoryRepo) ListSharedWith(ctx context.Context, doctorID string) ([]Document, error) {
	if doctorID == "" {
		return []Document{}, nil
	}
	return r.list(ctx, func(doc Document) bool { return doc.SharedWith == doctorID })
}

// SetSharedWith grants the doctor access, owner-checked under the lock.
func (r *MemoryRepo) SetSharedWith(ctx context.Context, documentID, ownerID, doctorID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.byID[documentID]
	if !ok {
		return ErrNotFound
	}
	if doc.OwnerID != ownerID {
		return ErrNotOwner
	}
	doc.SharedWith = doctorID
	r.byID[documentID] = doc
	return nil
}

// AppendSummary appends the note, recipient-checked under the lock.
func (r *MemoryRepo) AppendSummary(ctx context.Context, documentID, doctorID, note string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.byID[documentID]
	if !ok {
		return ErrNotFound
	}
	if doc.SharedWith == "" || doc.SharedWith != doctorID {
		return ErrForbidden
	}
	doc.Summary += note
	r.byID[documentID] = doc
	return nil
}

func (r *MemoryRepo) list(ctx context.Context, keep func(Document) bool) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Document, 0)
	for _, doc := range r.byID {
		if keep(doc) {
			out = append(out, doc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

var _ DocumentsRepo = (*MemoryRepo)(nil)
