package documents

import "context"

// DocumentsRepo defines persistence operations for the document registry.
// SetSharedWith and AppendSummary apply their permission check and mutation
// atomically per document.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	GetByStoredName(ctx context.Context, storedName string) (Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Document, error)
	ListSharedWith(ctx context.Context, doctorID string) ([]Document, error)

	// SetSharedWith sets shared_with to doctorID on the document owned by
	// ownerID, overwriting any prior recipient. Returns ErrNotFound when the
	// document does not exist and ErrNotOwner when ownerID does not own it.
	SetSharedWith(ctx context.Context, documentID, ownerID, doctorID string) error

	// AppendSummary appends note to the summary of the document currently
	// shared with doctorID. Returns ErrNotFound when the document does not
	// exist and ErrForbidden when doctorID is not the shared recipient.
	AppendSummary(ctx context.Context, documentID, doctorID, note string) error
}
