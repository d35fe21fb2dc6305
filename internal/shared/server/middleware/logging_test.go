package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/auth"
)

// captureStdout runs fn while stdout is redirected to a pipe and returns
// everything written. Works because telemetry resolves os.Stdout at write
// time.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read captured output: %v", err)
	}
	return string(out)
}

func lastLogLine(t *testing.T, out string) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) == 0 || lines[0] == "" {
		t.Fatal("expected log output")
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &payload); err != nil {
		t.Fatalf("decode log json %q: %v", lines[len(lines)-1], err)
	}
	return payload
}

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	token, err := auth.GenerateToken("user-7", "asha", "patient")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	router := gin.New()
	router.Use(RequestID(), Auth(), Logging())
	router.GET("/api/v1/documents/doc-1", func(c *gin.Context) {
		c.Set("documentId", "doc-1")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	out := captureStdout(t, func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-1", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
	})

	payload := lastLogLine(t, out)
	for _, key := range []string{"request_id", "user_id", "document_id", "duration_ms", "status"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field %s in %v", key, payload)
		}
	}
	if payload["msg"] != "request.complete" {
		t.Fatalf("unexpected event: %v", payload["msg"])
	}
	if payload["user_id"] != "user-7" {
		t.Fatalf("unexpected user_id: %v", payload["user_id"])
	}
	if payload["document_id"] != "doc-1" {
		t.Fatalf("unexpected document_id: %v", payload["document_id"])
	}
	if payload["status"] != float64(http.StatusOK) {
		t.Fatalf("unexpected status: %v", payload["status"])
	}
}
