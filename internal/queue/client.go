package queue

import "context"

// Client sends ingestion tasks to a queue backend.
type Client interface {
	Send(ctx context.Context, task IngestTask) error
}
