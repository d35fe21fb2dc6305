package cli

// User mirrors the API's user payloads.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResult is the response of POST /auth/login.
type LoginResult struct {
	Token    string `json:"token"`
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Document mirrors the API's document payloads. Status and OCRText are only
// present on some responses and stay empty otherwise.
type Document struct {
	DocumentID string `json:"documentId"`
	OwnerID    string `json:"ownerId"`
	OwnerName  string `json:"ownerName,omitempty"`
	FileName   string `json:"fileName"`
	StoredName string `json:"storedName"`
	Kind       string `json:"kind"`
	SizeBytes  int64  `json:"sizeBytes"`
	Summary    string `json:"summary"`
	SharedWith string `json:"sharedWith,omitempty"`
	UploadedAt string `json:"uploadedAt"`
	OCRText    string `json:"ocrText,omitempty"`
	Status     string `json:"status,omitempty"`
}

// TriageAdvice is the response of GET /triage.
type TriageAdvice struct {
	Symptom string `json:"symptom"`
	Advice  string `json:"advice"`
	Matched bool   `json:"matched"`
}
