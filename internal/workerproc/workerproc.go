package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/bootstrap"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/documents"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/queue"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/storage/object"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	meta := MessageMeta{BodyLen: len(body)}
	if body != "" {
		sum := sha256.Sum256([]byte(body))
		meta.BodySHA = hex.EncodeToString(sum[:])
	}
	return meta
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure or an incompatible task version.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode task"
	}
	return "decode task: " + e.Err.Error()
}

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrIncompleteTask indicates a task missing the owner or the stored file
// name, without which the upload cannot be located.
type ErrIncompleteTask struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrIncompleteTask) Error() string { return "task missing owner or stored name" }

// ErrProcess indicates ingestion failed after successful parsing.
type ErrProcess struct {
	StoredName string
	RequestID  string
	Err        error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "complete ingest"
	}
	return "complete ingest: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ParseTask validates and decodes the queue payload.
func ParseTask(body string) (queue.IngestTask, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.IngestTask{}, meta, ErrEmptyBody{Meta: meta}
	}

	task, err := queue.DecodeTask([]byte(body))
	switch {
	case err != nil:
		return queue.IngestTask{}, meta, ErrDecode{Meta: meta, Err: err}
	case task.Version > queue.TaskVersion:
		return queue.IngestTask{}, meta, ErrDecode{Meta: meta, Err: fmt.Errorf("unsupported task version %d", task.Version)}
	case !taskComplete(task):
		return task, meta, ErrIncompleteTask{Meta: meta, RequestID: task.RequestID}
	}
	return task, meta, nil
}

func taskComplete(task queue.IngestTask) bool {
	return strings.TrimSpace(task.OwnerID) != "" && strings.TrimSpace(task.StoredName) != ""
}

type parsedTaskKey struct{}

// WithParsedTask stores a decoded task in the context so HandleMessage
// skips a second parse.
func WithParsedTask(ctx context.Context, task queue.IngestTask) context.Context {
	return context.WithValue(ctx, parsedTaskKey{}, task)
}

// HandleMessage parses, validates, and processes a task payload.
func HandleMessage(ctx context.Context, app *bootstrap.App, body string) error {
	processor := ingestProcessor(app)
	if processor == nil {
		return errors.New("document service not configured")
	}

	task, ok := ctx.Value(parsedTaskKey{}).(queue.IngestTask)
	if !ok {
		var err error
		if task, _, err = ParseTask(body); err != nil {
			return err
		}
	}
	if !taskComplete(task) {
		return ErrIncompleteTask{Meta: ComputeMeta(body), RequestID: task.RequestID}
	}

	stored := object.StoredFile{
		Name: task.StoredName,
		Size: task.SizeBytes,
		Kind: object.Kind(task.Kind),
	}
	ctx = documents.WithRequestID(ctx, task.RequestID)
	if _, err := processor.Complete(ctx, task.OwnerID, stored, task.OriginalName); err != nil {
		return ErrProcess{StoredName: task.StoredName, RequestID: task.RequestID, Err: err}
	}
	return nil
}

func ingestProcessor(app *bootstrap.App) bootstrap.IngestProcessor {
	if app == nil {
		return nil
	}
	if app.IngestProcessor != nil {
		return app.IngestProcessor
	}
	if app.DocumentsService != nil {
		return app.DocumentsService
	}
	return nil
}
