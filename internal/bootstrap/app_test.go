package bootstrap

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/documents"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/config"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/users"
)

func TestBuildDevFallsBackToMemory(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app, err := Build(config.Config{LocalStoreDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if app.Config.Env != "dev" || app.Config.ObjectStoreType != "local" {
		t.Fatalf("defaults not applied: env=%q store=%q", app.Config.Env, app.Config.ObjectStoreType)
	}
	if app.DB != nil {
		t.Fatal("expected no database connection")
	}
	if _, ok := app.DocumentsRepo.(*documents.MemoryRepo); !ok {
		t.Fatalf("documents repo is %T, want the in-memory repo", app.DocumentsRepo)
	}
	if _, ok := app.UsersRepo.(*users.MemoryRepo); !ok {
		t.Fatalf("users repo is %T, want the in-memory repo", app.UsersRepo)
	}
	if app.Queue != nil {
		t.Fatal("expected no queue client without QUEUE_URL")
	}
	if app.Router == nil {
		t.Fatal("expected a wired router")
	}
	if app.IngestProcessor != app.DocumentsService {
		t.Fatal("ingest processor should be the documents service")
	}
}

func TestBuildRequiresDatabaseOutsideDev(t *testing.T) {
	if _, err := Build(config.Config{Env: "production"}); err == nil {
		t.Fatal("expected an error when DATABASE_URL is unset in production")
	}
}

func TestOpenStoreRejectsS3WithoutBucket(t *testing.T) {
	if _, err := openStore(context.Background(), config.Config{ObjectStoreType: "s3"}); err == nil {
		t.Fatal("expected an error for the s3 store without a bucket")
	}
}

func TestDevEnv(t *testing.T) {
	for _, tc := range []struct {
		env  string
		want bool
	}{
		{"dev", true},
		{" Local ", true},
		{"production", false},
		{"", false},
	} {
		if got := devEnv(tc.env); got != tc.want {
			t.Errorf("devEnv(%q) = %v, want %v", tc.env, got, tc.want)
		}
	}
}
