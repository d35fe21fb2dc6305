package documents

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/extract"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/queue"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/auth"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/metrics"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/storage/object"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/telemetry"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/summarize"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/users"
)

const notePrefix = "\n\nDoctor note: "

// TextExtractor pulls text out of a stored file, dispatching on its kind.
// extract.Engine is the production implementation.
type TextExtractor interface {
	TextFromStore(ctx context.Context, store object.ObjectStore, ownerID string, storedName string, kind object.Kind) (string, error)
}

var _ TextExtractor = (*extract.Engine)(nil)

// Service runs the ingestion pipeline and enforces the registry's
// access-control rules. Queue is optional: when set, uploads are stored and
// completed asynchronously by a worker.
type Service struct {
	Store      object.ObjectStore
	Extractor  TextExtractor
	Summarizer summarize.Summarizer
	Repo       DocumentsRepo
	Users      users.Repo
	Queue      queue.Client
}

// Ingest validates and stores an upload, then either completes processing
// inline or hands it to the queue. The second return value reports whether
// completion was deferred; a deferred result carries no document id yet.
func (s *Service) Ingest(ctx context.Context, owner auth.Principal, fileName string, r io.Reader) (Document, bool, error) {
	if s.Store == nil || s.Repo == nil {
		return Document{}, false, errors.New("document service not configured")
	}
	if owner.UserID == "" {
		return Document{}, false, ErrInvalidInput
	}
	if owner.Role != users.RolePatient {
		return Document{}, false, ErrForbidden
	}

	metrics.IncIngestStarted()
	stored, err := s.Store.Save(ctx, owner.UserID, fileName, r)
	if err != nil {
		metrics.IncIngestRejected()
		return Document{}, false, err
	}
	telemetry.Info("ingest.status", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"user_id":     owner.UserID,
		"stored_name": stored.Name,
		"kind":        string(stored.Kind),
		"size_bytes":  stored.Size,
		"status":      "stored",
	})

	if s.Queue != nil {
		if err := s.enqueue(ctx, owner.UserID, stored, fileName); err == nil {
			return Document{
				OwnerID:      owner.UserID,
				StoredName:   stored.Name,
				OriginalName: fileName,
				Kind:         stored.Kind,
				SizeBytes:    stored.Size,
			}, true, nil
		}
		// Queue trouble must not lose the upload; finish inline instead.
	}

	doc, err := s.Complete(ctx, owner.UserID, stored, fileName)
	if err != nil {
		return Document{}, false, err
	}
	return doc, false, nil
}

func (s *Service) enqueue(ctx context.Context, ownerID string, stored object.StoredFile, originalName string) error {
	task := queue.IngestTask{
		OwnerID:      ownerID,
		StoredName:   stored.Name,
		OriginalName: originalName,
		Kind:         string(stored.Kind),
		SizeBytes:    stored.Size,
		RequestID:    requestIDFromContext(ctx),
		EnqueuedAt:   time.Now().UTC().Format(time.RFC3339),
		Version:      queue.TaskVersion,
	}
	if err := s.Queue.Send(ctx, task); err != nil {
		telemetry.Error("ingest.enqueue_failed", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"user_id":     ownerID,
			"stored_name": stored.Name,
			"error":       err.Error(),
		})
		return err
	}
	telemetry.Info("ingest.status", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"user_id":     ownerID,
		"stored_name": stored.Name,
		"status":      "queued",
	})
	return nil
}

// Complete runs extraction and summarization for a stored upload and
// registers the document. Extraction and summarization never fail the
// pipeline: a document is registered fully processed or not at all.
func (s *Service) Complete(ctx context.Context, ownerID string, stored object.StoredFile, originalName string) (Document, error) {
	startedAt := time.Now().UTC()

	// Queue redeliveries must not register twice; the stored name is the
	// idempotency key.
	existing, err := s.Repo.GetByStoredName(ctx, stored.Name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Document{}, err
	}

	text := s.extractText(ctx, ownerID, stored)
	if strings.TrimSpace(text) == "" {
		metrics.IncExtractionEmpty()
	}
	summary := s.summarizeText(ctx, text)

	doc := Document{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		StoredName:   stored.Name,
		OriginalName: originalName,
		Kind:         stored.Kind,
		SizeBytes:    stored.Size,
		OCRText:      text,
		Summary:      summary,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	durationMs := time.Since(startedAt).Milliseconds()
	metrics.IncIngestCompleted()
	metrics.ObserveIngestDurationMs(float64(durationMs))
	telemetry.Info("ingest.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           ownerID,
		"document_id":       doc.ID,
		"stored_name":       stored.Name,
		"status":            "completed",
		"status_transition": "stored->completed",
		"duration_ms":       durationMs,
	})
	return doc, nil
}

func (s *Service) extractText(ctx context.Context, ownerID string, stored object.StoredFile) string {
	if s.Extractor == nil {
		return ""
	}
	text, err := s.Extractor.TextFromStore(ctx, s.Store, ownerID, stored.Name, stored.Kind)
	if err != nil {
		telemetry.Info("ingest.extract_failed", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"stored_name": stored.Name,
			"kind":        string(stored.Kind),
			"error":       err.Error(),
		})
		return ""
	}
	return text
}

func (s *Service) summarizeText(ctx context.Context, text string) string {
	if s.Summarizer != nil {
		out, err := s.Summarizer.Summarize(ctx, text)
		if err == nil && strings.TrimSpace(out) != "" {
			return out
		}
		if err != nil {
			telemetry.Info("ingest.summary_failed", map[string]any{
				"request_id": requestIDFromContext(ctx),
				"error":      err.Error(),
			})
		}
	}
	return summarize.Fallback(text)
}

// Get returns a document record to its owner or the currently shared doctor.
func (s *Service) Get(ctx context.Context, documentID, requesterID string) (Document, error) {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	if !authorized(doc, requesterID) {
		return Document{}, ErrForbidden
	}
	return doc, nil
}

// ListOwned returns a user's own documents, newest first.
func (s *Service) ListOwned(ctx context.Context, ownerID string) ([]Document, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByOwner(ctx, ownerID)
}

// ListSharedWith returns the documents currently shared with a doctor along
// with each owner's display name.
func (s *Service) ListSharedWith(ctx context.Context, doctorID string) ([]SharedDocument, error) {
	if doctorID == "" {
		return nil, ErrInvalidInput
	}
	docs, err := s.Repo.ListSharedWith(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(docs))
	out := make([]SharedDocument, 0, len(docs))
	for _, doc := range docs {
		name, ok := names[doc.OwnerID]
		if !ok {
			name = s.ownerName(ctx, doc.OwnerID)
			names[doc.OwnerID] = name
		}
		out = append(out, SharedDocument{Document: doc, OwnerName: name})
	}
	return out, nil
}

func (s *Service) ownerName(ctx context.Context, ownerID string) string {
	if s.Users == nil {
		return ""
	}
	owner, err := s.Users.GetByID(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, users.ErrNotFound) {
			telemetry.Error("documents.owner_lookup_failed", map[string]any{
				"owner_id": ownerID,
				"error":    err.Error(),
			})
		}
		return ""
	}
	return owner.Username
}

// Share grants read/annotate access to the doctor with the given username,
// overwriting any prior recipient. Only the owner may share.
func (s *Service) Share(ctx context.Context, documentID, requesterID, doctorUsername string) (Document, error) {
	doctorUsername = strings.TrimSpace(doctorUsername)
	if documentID == "" || requesterID == "" || doctorUsername == "" {
		return Document{}, ErrInvalidInput
	}

	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	if doc.OwnerID != requesterID {
		return Document{}, ErrNotOwner
	}

	recipient, err := s.Users.GetByUsername(ctx, doctorUsername)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Document{}, ErrRecipientNotFound
		}
		return Document{}, err
	}
	if recipient.Role != users.RoleDoctor {
		return Document{}, ErrRecipientNotFound
	}

	if err := s.Repo.SetSharedWith(ctx, documentID, requesterID, recipient.ID); err != nil {
		return Document{}, err
	}

	telemetry.Info("document.shared", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"document_id": documentID,
		"owner_id":    requesterID,
		"doctor_id":   recipient.ID,
	})
	doc.SharedWith = recipient.ID
	return doc, nil
}

// AppendNote appends a doctor note to the summary. Only the currently shared
// doctor may annotate.
func (s *Service) AppendNote(ctx context.Context, documentID, requesterID, noteText string) (Document, error) {
	if documentID == "" || requesterID == "" || strings.TrimSpace(noteText) == "" {
		return Document{}, ErrInvalidInput
	}

	if err := s.Repo.AppendSummary(ctx, documentID, requesterID, notePrefix+noteText); err != nil {
		return Document{}, err
	}

	telemetry.Info("document.annotated", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"document_id": documentID,
		"doctor_id":   requesterID,
	})
	return s.Repo.GetByID(ctx, documentID)
}

// OpenFile returns the stored bytes for a file reference after authorization.
// A reference that does not match an owned record reads as not found; access
// denial is reported only for files that do exist.
func (s *Service) OpenFile(ctx context.Context, ownerID, storedName, requesterID string) (io.ReadCloser, Document, error) {
	doc, err := s.Repo.GetByStoredName(ctx, storedName)
	if err != nil {
		return nil, Document{}, err
	}
	if doc.OwnerID != ownerID {
		return nil, Document{}, ErrNotFound
	}
	if !authorized(doc, requesterID) {
		return nil, Document{}, ErrForbidden
	}

	body, err := s.Store.Open(ctx, ownerID, storedName)
	if err != nil {
		return nil, Document{}, err
	}
	return body, doc, nil
}

func authorized(doc Document, requesterID string) bool {
	if requesterID == "" {
		return false
	}
	if doc.OwnerID == requesterID {
		return true
	}
	return doc.SharedWith != "" && doc.SharedWith == requesterID
}
