package documents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/queue"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/auth"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/storage/object"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/storage/object/local"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/summarize"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/users"
)

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) TextFromStore(context.Context, object.ObjectStore, string, string, object.Kind) (string, error) {
	return s.text, s.err
}

type stubQueue struct {
	tasks []queue.IngestTask
	err   error
}

func (q *stubQueue) Send(_ context.Context, task queue.IngestTask) error {
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, task)
	return nil
}

var (
	patientAsha  = auth.Principal{UserID: "patient-1", Username: "asha", Role: users.RolePatient}
	patientMeera = auth.Principal{UserID: "patient-2", Username: "meera", Role: users.RolePatient}
	doctorOne    = auth.Principal{UserID: "doctor-1", Username: "doc1", Role: users.RoleDoctor}
)

func newTestService(t *testing.T, extractor TextExtractor) *Service {
	t.Helper()

	usersRepo := users.NewMemoryRepo()
	seed := []users.User{
		{ID: "patient-1", Username: "asha", Role: users.RolePatient},
		{ID: "patient-2", Username: "meera", Role: users.RolePatient},
		{ID: "doctor-1", Username: "doc1", Role: users.RoleDoctor},
		{ID: "doctor-2", Username: "doc2", Role: users.RoleDoctor},
	}
	for _, u := range seed {
		if err := usersRepo.Create(context.Background(), u); err != nil {
			t.Fatalf("seed user %s: %v", u.Username, err)
		}
	}

	return &Service{
		Store:      local.New(t.TempDir()),
		Extractor:  extractor,
		Summarizer: summarize.New(nil),
		Repo:       NewMemoryRepo(),
		Users:      usersRepo,
	}
}

func mustIngest(t *testing.T, svc *Service, owner auth.Principal, fileName, payload string) Document {
	t.Helper()
	doc, queued, err := svc.Ingest(context.Background(), owner, fileName, strings.NewReader(payload))
	if err != nil {
		t.Fatalf("ingest %s: %v", fileName, err)
	}
	if queued {
		t.Fatalf("expected inline completion for %s", fileName)
	}
	return doc
}

func TestIngestProducesFallbackSummary(t *testing.T) {
	svc := newTestService(t, stubExtractor{text: "BP: 140/90\nHR: 72"})

	doc := mustIngest(t, svc, patientAsha, "vitals.pdf", "%PDF-1.4 payload")

	if doc.ID == "" {
		t.Fatalf("expected document id")
	}
	if doc.Kind != object.KindPDF {
		t.Fatalf("expected kind pdf, got %s", doc.Kind)
	}
	if doc.OCRText != "BP: 140/90\nHR: 72" {
		t.Fatalf("unexpected extracted text: %q", doc.OCRText)
	}
	want := "BP: 140/90 (please consult a doctor). HR: 72 (please consult a doctor)."
	if doc.Summary != want {
		t.Fatalf("unexpected summary: %q", doc.Summary)
	}

	owned, err := svc.ListOwned(context.Background(), patientAsha.UserID)
	if err != nil {
		t.Fatalf("list owned: %v", err)
	}
	if len(owned) != 1 || owned[0].ID != doc.ID {
		t.Fatalf("expected created document in owned list, got %+v", owned)
	}
}

func TestIngestSurvivesExtractionFailure(t *testing.T) {
	tests := []struct {
		name      string
		extractor TextExtractor
	}{
		{name: "extractor error", extractor: stubExtractor{err: errors.New("ocr offline")}},
		{name: "empty text", extractor: stubExtractor{text: "   "}},
		{name: "no extractor wired", extractor: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.extractor)

			doc := mustIngest(t, svc, patientAsha, "scan.png", "\x89PNG fake bytes")
			if doc.Summary != "No readable text found." {
				t.Fatalf("unexpected summary: %q", doc.Summary)
			}
		})
	}
}

func TestIngestRejectsBeforeRegistering(t *testing.T) {
	svc := newTestService(t, stubExtractor{})

	_, _, err := svc.Ingest(context.Background(), patientAsha, "notes.docx", strings.NewReader("word doc"))
	if !errors.Is(err, object.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}

	_, _, err = svc.Ingest(context.Background(), patientAsha, "empty.pdf", strings.NewReader(""))
	if !errors.Is(err, object.ErrEmptyUpload) {
		t.Fatalf("expected ErrEmptyUpload, got %v", err)
	}

	owned, err := svc.ListOwned(context.Background(), patientAsha.UserID)
	if err != nil {
		t.Fatalf("list owned: %v", err)
	}
	if len(owned) != 0 {
		t.Fatalf("rejected uploads must not be registered, got %+v", owned)
	}
}

func TestIngestRejectsNonPatients(t *testing.T) {
	svc := newTestService(t, stubExtractor{})

	if _, _, err := svc.Ingest(context.Background(), doctorOne, "report.pdf", strings.NewReader("data")); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for doctor upload, got %v", err)
	}
}

func TestShare(t *testing.T) {
	svc := newTestService(t, stubExtractor{text: "HR: 72"})
	doc := mustIngest(t, svc, patientAsha, "report.pdf", "pdf body")

	t.Run("owner shares with doctor", func(t *testing.T) {
		shared, err := svc.Share(context.Background(), doc.ID, patientAsha.UserID, "doc1")
		if err != nil {
			t.Fatalf("share: %v", err)
		}
		if shared.SharedWith != "doctor-1" {
			t.Fatalf("expected shared_with doctor-1, got %q", shared.SharedWith)
		}
	})

	t.Run("re-share overwrites recipient", func(t *testing.T) {
		shared, err := svc.Share(context.Background(), doc.ID, patientAsha.UserID, "doc2")
		if err != nil {
			t.Fatalf("share: %v", err)
		}
		if shared.SharedWith != "doctor-2" {
			t.Fatalf("expected shared_with doctor-2, got %q", shared.SharedWith)
		}
	})

	t.Run("unknown username leaves document unchanged", func(t *testing.T) {
		if _, err := svc.Share(context.Background(), doc.ID, patientAsha.UserID, "nope"); !errors.Is(err, ErrRecipientNotFound) {
			t.Fatalf("expected ErrRecipientNotFound, got %v", err)
		}
		got, err := svc.Repo.GetByID(context.Background(), doc.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.SharedWith != "doctor-2" {
			t.Fatalf("failed share must not mutate, got %q", got.SharedWith)
		}
	})

	t.Run("patient recipient rejected", func(t *testing.T) {
		if _, err := svc.Share(context.Background(), doc.ID, patientAsha.UserID, "meera"); !errors.Is(err, ErrRecipientNotFound) {
			t.Fatalf("expected ErrRecipientNotFound for non-doctor, got %v", err)
		}
	})

	t.Run("non-owner cannot share", func(t *testing.T) {
		if _, err := svc.Share(context.Background(), doc.ID, doctorOne.UserID, "doc1"); !errors.Is(err, ErrNotOwner) {
			t.Fatalf("expected ErrNotOwner, got %v", err)
		}
	})

	t.Run("missing document", func(t *testing.T) {
		if _, err := svc.Share(context.Background(), "missing", patientAsha.UserID, "doc1"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestAppendNote(t *testing.T) {
	svc := newTestService(t, stubExtractor{text: "BP: 150/95"})
	doc := mustIngest(t, svc, patientAsha, "report.pdf", "pdf body")
	if _, err := svc.Share(context.Background(), doc.ID, patientAsha.UserID, "doc1"); err != nil {
		t.Fatalf("share: %v", err)
	}

	t.Run("shared doctor appends", func(t *testing.T) {
		before, _ := svc.Repo.GetByID(context.Background(), doc.ID)
		updated, err := svc.AppendNote(context.Background(), doc.ID, "doctor-1", "Monitor blood pressure daily.")
		if err != nil {
			t.Fatalf("append note: %v", err)
		}
		want := before.Summary + "\n\nDoctor note: Monitor blood pressure daily."
		if updated.Summary != want {
			t.Fatalf("unexpected summary:\n got %q\nwant %q", updated.Summary, want)
		}
		if !strings.HasPrefix(updated.Summary, before.Summary) {
			t.Fatalf("append must preserve the prior summary as prefix")
		}
	})

	t.Run("unshared doctor is forbidden", func(t *testing.T) {
		before, _ := svc.Repo.GetByID(context.Background(), doc.ID)
		if _, err := svc.AppendNote(context.Background(), doc.ID, "doctor-2", "note"); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		after, _ := svc.Repo.GetByID(context.Background(), doc.ID)
		if after.Summary != before.Summary {
			t.Fatalf("forbidden note must not mutate summary")
		}
	})

	t.Run("owner cannot annotate", func(t *testing.T) {
		if _, err := svc.AppendNote(context.Background(), doc.ID, patientAsha.UserID, "note"); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden for owner note, got %v", err)
		}
	})

	t.Run("re-share revokes the previous annotator", func(t *testing.T) {
		if _, err := svc.Share(context.Background(), doc.ID, patientAsha.UserID, "doc2"); err != nil {
			t.Fatalf("re-share: %v", err)
		}
		if _, err := svc.AppendNote(context.Background(), doc.ID, "doctor-1", "still here?"); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden after re-share, got %v", err)
		}
		if _, err := svc.AppendNote(context.Background(), doc.ID, "doctor-2", "taking over."); err != nil {
			t.Fatalf("new recipient must be able to annotate: %v", err)
		}
	})
}

func TestGetAuthorization(t *testing.T) {
	svc := newTestService(t, stubExtractor{text: "HR: 72"})
	doc := mustIngest(t, svc, patientAsha, "report.pdf", "pdf body")

	if _, err := svc.Get(context.Background(), doc.ID, patientAsha.UserID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := svc.Get(context.Background(), doc.ID, "doctor-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden before share, got %v", err)
	}

	if _, err := svc.Share(context.Background(), doc.ID, patientAsha.UserID, "doc1"); err != nil {
		t.Fatalf("share: %v", err)
	}
	if _, err := svc.Get(context.Background(), doc.ID, "doctor-1"); err != nil {
		t.Fatalf("shared doctor read: %v", err)
	}
	if _, err := svc.Get(context.Background(), doc.ID, "doctor-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for unrelated doctor, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "missing", patientAsha.UserID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenFileBoundary(t *testing.T) {
	svc := newTestService(t, stubExtractor{text: "HR: 72"})
	payload := "pdf raw bytes"
	doc := mustIngest(t, svc, patientAsha, "report.pdf", payload)
	other := mustIngest(t, svc, patientMeera, "other.pdf", "other bytes")

	t.Run("owner reads own file", func(t *testing.T) {
		body, got, err := svc.OpenFile(context.Background(), patientAsha.UserID, doc.StoredName, patientAsha.UserID)
		if err != nil {
			t.Fatalf("open file: %v", err)
		}
		defer body.Close()
		data, err := io.ReadAll(body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if !bytes.Equal(data, []byte(payload)) {
			t.Fatalf("file content mismatch")
		}
		if got.ID != doc.ID {
			t.Fatalf("expected matching record")
		}
	})

	t.Run("unrelated requester on existing file is forbidden", func(t *testing.T) {
		if _, _, err := svc.OpenFile(context.Background(), patientAsha.UserID, doc.StoredName, "doctor-1"); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("missing file is not found for anyone", func(t *testing.T) {
		if _, _, err := svc.OpenFile(context.Background(), patientAsha.UserID, "nope.pdf", patientAsha.UserID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, _, err := svc.OpenFile(context.Background(), patientAsha.UserID, "nope.pdf", "stranger"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for stranger, got %v", err)
		}
	})

	t.Run("owner mismatch in reference reads as not found", func(t *testing.T) {
		if _, _, err := svc.OpenFile(context.Background(), patientAsha.UserID, other.StoredName, patientMeera.UserID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("shared doctor reads after share", func(t *testing.T) {
		if _, err := svc.Share(context.Background(), doc.ID, patientAsha.UserID, "doc1"); err != nil {
			t.Fatalf("share: %v", err)
		}
		body, _, err := svc.OpenFile(context.Background(), patientAsha.UserID, doc.StoredName, "doctor-1")
		if err != nil {
			t.Fatalf("shared doctor open: %v", err)
		}
		_ = body.Close()
	})
}

func TestListSharedWithResolvesOwnerNames(t *testing.T) {
	svc := newTestService(t, stubExtractor{text: "HR: 72"})
	doc := mustIngest(t, svc, patientAsha, "report.pdf", "pdf body")
	if _, err := svc.Share(context.Background(), doc.ID, patientAsha.UserID, "doc1"); err != nil {
		t.Fatalf("share: %v", err)
	}

	shared, err := svc.ListSharedWith(context.Background(), "doctor-1")
	if err != nil {
		t.Fatalf("list shared: %v", err)
	}
	if len(shared) != 1 {
		t.Fatalf("expected 1 shared document, got %d", len(shared))
	}
	if shared[0].OwnerName != "asha" {
		t.Fatalf("expected owner name asha, got %q", shared[0].OwnerName)
	}

	none, err := svc.ListSharedWith(context.Background(), "doctor-2")
	if err != nil {
		t.Fatalf("list shared: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected empty list for unrelated doctor, got %+v", none)
	}
}

func TestIngestDefersToQueue(t *testing.T) {
	svc := newTestService(t, stubExtractor{text: "BP: 140/90"})
	q := &stubQueue{}
	svc.Queue = q

	doc, queued, err := svc.Ingest(context.Background(), patientAsha, "report.pdf", strings.NewReader("pdf body"))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if !queued {
		t.Fatalf("expected deferred completion")
	}
	if doc.ID != "" {
		t.Fatalf("deferred ingest must not assign a document id, got %q", doc.ID)
	}
	if len(q.tasks) != 1 {
		t.Fatalf("expected 1 queued task, got %d", len(q.tasks))
	}
	task := q.tasks[0]
	if task.StoredName != doc.StoredName || task.OwnerID != patientAsha.UserID {
		t.Fatalf("task does not match stored upload: %+v", task)
	}

	// Nothing registered until a worker completes the task.
	if _, err := svc.Repo.GetByStoredName(context.Background(), doc.StoredName); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected no registered document yet, got %v", err)
	}

	completed, err := svc.Complete(context.Background(), task.OwnerID, object.StoredFile{
		Name: task.StoredName,
		Size: task.SizeBytes,
		Kind: object.Kind(task.Kind),
	}, task.OriginalName)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Summary != "BP: 140/90 (please consult a doctor)." {
		t.Fatalf("unexpected summary after completion: %q", completed.Summary)
	}
}

func TestIngestFallsBackInlineWhenQueueFails(t *testing.T) {
	svc := newTestService(t, stubExtractor{text: "HR: 72"})
	svc.Queue = &stubQueue{err: errors.New("sqs unreachable")}

	doc, queued, err := svc.Ingest(context.Background(), patientAsha, "report.pdf", strings.NewReader("pdf body"))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if queued {
		t.Fatalf("expected inline fallback when queue is down")
	}
	if doc.ID == "" || doc.Summary == "" {
		t.Fatalf("expected fully processed document, got %+v", doc)
	}
}

func TestCompleteIsIdempotentOnRedelivery(t *testing.T) {
	svc := newTestService(t, stubExtractor{text: "Hb: 10.2"})

	stored, err := svc.Store.Save(context.Background(), patientAsha.UserID, "labs.pdf", strings.NewReader("%PDF-1.4 body"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	first, err := svc.Complete(context.Background(), patientAsha.UserID, stored, "labs.pdf")
	if err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	second, err := svc.Complete(context.Background(), patientAsha.UserID, stored, "labs.pdf")
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("redelivery created a new record: %s vs %s", second.ID, first.ID)
	}
	owned, err := svc.ListOwned(context.Background(), patientAsha.UserID)
	if err != nil {
		t.Fatalf("list owned: %v", err)
	}
	if len(owned) != 1 {
		t.Fatalf("expected a single record after redelivery, got %d", len(owned))
	}
}
