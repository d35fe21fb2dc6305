package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/bootstrap"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/config"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/metrics"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/telemetry"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/workerproc"
)

const (
	defaultRegion             = "us-east-1"
	defaultVisibilitySeconds  = 1200
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
	receiveRetryDelay         = 5 * time.Second
)

func main() {
	cfg := config.Load()

	queueURL := strings.TrimSpace(cfg.QueueURL)
	if queueURL == "" {
		log.Fatal("HE_SQS_QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	region := strings.TrimSpace(cfg.AWSRegion)
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	concurrency := max(1, envInt("HE_WORKER_CONCURRENCY", defaultWorkerConcurrency))
	p := &poller{
		app:        app,
		client:     sqs.NewFromConfig(awsCfg),
		queueURL:   queueURL,
		visibility: int32(envInt("HE_SQS_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)),
		sem:        make(chan struct{}, concurrency),
	}

	log.Printf("worker started queue=%s concurrency=%d visibility=%ds", queueURL, concurrency, p.visibility)
	p.run(ctx)

	shutdownTimeout := time.Duration(envInt("HE_SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second
	log.Printf("shutdown requested, waiting up to %s for in-flight jobs", shutdownTimeout)
	p.drain(shutdownTimeout)
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// poller long-polls the ingest queue and fans messages out to a bounded
// set of goroutines. sem caps concurrent handlers; wg tracks them so
// shutdown can drain in-flight work.
type poller struct {
	app        *bootstrap.App
	client     sqsAPI
	queueURL   string
	visibility int32
	sem        chan struct{}
	wg         sync.WaitGroup
}

func (p *poller) run(ctx context.Context) {
	for ctx.Err() == nil {
		p.pollOnce(ctx)
	}
}

func (p *poller) pollOnce(ctx context.Context) {
	resp, err := p.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(p.queueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20,
		VisibilityTimeout:   p.visibility,
		AttributeNames:      []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName("ApproximateReceiveCount")},
	})
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		log.Printf("receive message: %v", err)
		select {
		case <-ctx.Done():
		case <-time.After(receiveRetryDelay):
		}
		return
	}

	for _, msg := range resp.Messages {
		select {
		case <-ctx.Done():
			return
		case p.sem <- struct{}{}:
		}
		metrics.IncIngestJobsReceived()
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			defer func() { <-p.sem }()
			handleMessage(ctx, p.app, p.client, p.queueURL, msg)
		}()
	}
}

func (p *poller) drain(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		log.Printf("shutdown timeout reached; exiting with in-flight jobs")
	}
}

func handleMessage(ctx context.Context, app *bootstrap.App, client sqsAPI, queueURL string, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)

	task, meta, err := workerproc.ParseTask(body)
	if err != nil {
		dropUnrecoverable(ctx, client, queueURL, msg, meta, err)
		return
	}

	telemetry.Info("worker.ingest.received", baseFields(msg, task.StoredName, task.RequestID))

	if err := workerproc.HandleMessage(workerproc.WithParsedTask(ctx, task), app, body); err != nil {
		storedName, requestID := task.StoredName, task.RequestID
		var procErr workerproc.ErrProcess
		if errors.As(err, &procErr) {
			storedName, requestID = procErr.StoredName, procErr.RequestID
		}
		fields := baseFields(msg, storedName, requestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.ingest.failed", fields)
		metrics.IncIngestJobsFailed()
		return
	}

	if deleteMessage(ctx, client, queueURL, msg, task.StoredName, task.RequestID) {
		telemetry.Info("worker.ingest.completed", baseFields(msg, task.StoredName, task.RequestID))
		metrics.IncIngestJobsCompleted()
	}
}

// dropUnrecoverable deletes a message that can never be processed.
// Leaving it queued would only redeliver it until the retention period
// expires.
func dropUnrecoverable(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, meta workerproc.MessageMeta, err error) {
	event := "worker.ingest.decode_failed"
	requestID := ""

	var empty workerproc.ErrEmptyBody
	var incomplete workerproc.ErrIncompleteTask
	switch {
	case errors.As(err, &empty):
		event = "worker.ingest.empty_body"
	case errors.As(err, &incomplete):
		event = "worker.ingest.incomplete_task"
		requestID = incomplete.RequestID
	}

	fields := baseFields(msg, "", requestID)
	fields["body_len"] = meta.BodyLen
	if meta.BodySHA != "" {
		fields["body_sha256"] = meta.BodySHA
	}
	fields["error"] = err.Error()
	telemetry.Error(event, fields)

	if deleteMessage(ctx, client, queueURL, msg, "", requestID) {
		metrics.IncIngestJobsDeletedUnrecoverable()
	}
}

func deleteMessage(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, storedName, requestID string) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields := baseFields(msg, storedName, requestID)
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.ingest.delete_failed", fields)
		return false
	}
	if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields := baseFields(msg, storedName, requestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.ingest.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message, storedName, requestID string) map[string]any {
	fields := map[string]any{
		"stored_name":    storedName,
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if strings.TrimSpace(requestID) != "" {
		fields["request_id"] = requestID
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	n, err := strconv.Atoi(msg.Attributes["ApproximateReceiveCount"])
	if err != nil {
		return 0
	}
	return n
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil {
		return v
	}
	return def
}
