package queue

import (
	"reflect"
	"strings"
	"testing"
)

func TestTaskRoundTrip(t *testing.T) {
	task := IngestTask{
		OwnerID:      "user-123",
		StoredName:   "a1b2c3d4e5f60718293a4b5c6d7e8f90.pdf",
		OriginalName: "blood work.pdf",
		Kind:         "pdf",
		SizeBytes:    20480,
		RequestID:    "request-456",
		EnqueuedAt:   "2026-02-11T09:30:00Z",
		Version:      TaskVersion,
	}

	payload, err := EncodeTask(task)
	if err != nil {
		t.Fatalf("encode task: %v", err)
	}

	got, err := DecodeTask(payload)
	if err != nil {
		t.Fatalf("decode task: %v", err)
	}

	if !reflect.DeepEqual(got, task) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, task)
	}
}

func TestEncodeTaskUsesWireFieldNames(t *testing.T) {
	payload, err := EncodeTask(IngestTask{OwnerID: "user-123", StoredName: "abc.pdf"})
	if err != nil {
		t.Fatalf("encode task: %v", err)
	}
	for _, field := range []string{`"ownerId"`, `"storedName"`, `"requestId"`, `"enqueuedAt"`} {
		if !strings.Contains(string(payload), field) {
			t.Fatalf("payload missing %s: %s", field, payload)
		}
	}
}

func TestDecodeTaskRejectsMalformedPayload(t *testing.T) {
	if _, err := DecodeTask([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
