package queue

import "encoding/json"

// TaskVersion is stamped on every task so consumers can reject payloads from
// incompatible producers.
const TaskVersion = 1

// IngestTask asks a worker to finish processing a stored upload: extract its
// text, summarize it, and register the document.
type IngestTask struct {
	OwnerID      string `json:"ownerId"`
	StoredName   string `json:"storedName"`
	OriginalName string `json:"originalName"`
	Kind         string `json:"kind"`
	SizeBytes    int64  `json:"sizeBytes"`
	RequestID    string `json:"requestId"`
	EnqueuedAt   string `json:"enqueuedAt"`
	Version      int    `json:"version"`
}

// EncodeTask returns the JSON representation of a task.
func EncodeTask(task IngestTask) ([]byte, error) {
	return json.Marshal(task)
}

// DecodeTask parses a JSON payload into a task.
func DecodeTask(payload []byte) (IngestTask, error) {
	var task IngestTask
	if err := json.Unmarshal(payload, &task); err != nil {
		return IngestTask{}, err
	}
	return task, nil
}
