package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=amd64 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/bootstrap"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/config"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/metrics"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/workerproc"
)

// setup builds the app once per execution environment; later
// invocations reuse it.
var setup = sync.OnceValues(func() (*bootstrap.App, error) {
	return bootstrap.Build(config.Load())
})

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	app, err := setup()
	if err != nil {
		log.Printf("bootstrap error: %v", err)
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, err
	}

	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		err := workerproc.HandleMessage(ctx, app, record.Body)
		if err == nil {
			metrics.IncIngestJobsCompleted()
			continue
		}

		// Malformed payloads never become processable; letting them
		// succeed drops them instead of redelivering forever.
		var emptyErr workerproc.ErrEmptyBody
		var decodeErr workerproc.ErrDecode
		var incompleteErr workerproc.ErrIncompleteTask
		if errors.As(err, &emptyErr) || errors.As(err, &decodeErr) || errors.As(err, &incompleteErr) {
			log.Printf("dropping unrecoverable task %s: %v", record.MessageId, err)
			metrics.IncIngestJobsDeletedUnrecoverable()
			continue
		}

		metrics.IncIngestJobsFailed()
		failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
	}

	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

func main() {
	lambda.Start(handler)
}
