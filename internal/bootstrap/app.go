package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/documents"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/extract"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/extract/ocr"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/queue"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/config"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/server"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/storage/db"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/storage/object"
	localstore "github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/storage/object/local"
	s3store "github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/storage/object/s3"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/summarize"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/triage"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/users"
)

// App carries everything a binary needs: configuration, infrastructure
// clients, domain services, and the wired router. The API process serves
// Router; worker processes reach the services directly.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	Queue            queue.Client
	DocumentsRepo    documents.DocumentsRepo
	UsersRepo        users.Repo
	DocumentsService *documents.Service
	UsersService     *users.Service
	TriageService    *triage.Service
	IngestProcessor  IngestProcessor
	DocumentsHandler *documents.Handler
	UsersHandler     *users.Handler
	TriageHandler    *triage.Handler
}

// IngestProcessor finalizes an ingested upload. The documents service
// implements it; worker tests swap in fakes.
type IngestProcessor interface {
	Complete(ctx context.Context, ownerID string, stored object.StoredFile, originalName string) (documents.Document, error)
}

// Build assembles the application from configuration: database, object
// store, queue client, domain services, and the HTTP router.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()
	app := &App{Config: withDefaults(cfg)}

	var err error
	if app.DB, err = openDB(ctx, app.Config); err != nil {
		return nil, err
	}
	if app.Store, err = openStore(ctx, app.Config); err != nil {
		return nil, err
	}
	if app.Queue, err = openQueue(ctx, app.Config); err != nil {
		return nil, err
	}
	if err := wireServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		UsersHandler:     app.UsersHandler,
		DocumentsHandler: app.DocumentsHandler,
		TriageHandler:    app.TriageHandler,
	})
	return app, nil
}

func withDefaults(cfg config.Config) config.Config {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	return cfg
}

// openDB connects to Postgres. Dev-like environments fall back to
// in-memory repositories when the database is absent or unreachable so
// local setups work without one; anywhere else that is a hard error.
func openDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	dsn := strings.TrimSpace(cfg.DatabaseURL)
	if dsn == "" {
		if !devEnv(cfg.Env) {
			return nil, errors.New("DATABASE_URL is required")
		}
		log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
		return nil, nil
	}

	open, pool := db.Connect, db.ServerPool()
	if db.RunningInLambda() {
		open, pool = db.Shared, db.LambdaPool()
	}
	sqlDB, err := open(ctx, dsn, pool.FromEnv())
	if err == nil {
		return sqlDB, nil
	}
	if !devEnv(cfg.Env) {
		return nil, err
	}
	log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
	return nil, nil
}

func openStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	if cfg.ObjectStoreType == "s3" {
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	}
	return localstore.New(cfg.LocalStoreDir), nil
}

func openQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.QueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.QueueURL)
}

func devEnv(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "dev" || env == "local"
}

func wireServices(app *App) error {
	app.DocumentsRepo, app.UsersRepo = repos(app.DB)

	summarizer, err := buildSummarizer(app.Config)
	if err != nil {
		return err
	}

	docSvc := &documents.Service{
		Store:      app.Store,
		Extractor:  extract.New(ocrEngine(app.Config)),
		Summarizer: summarizer,
		Repo:       app.DocumentsRepo,
		Users:      app.UsersRepo,
		Queue:      app.Queue,
	}
	userSvc := users.NewService(app.UsersRepo)
	triageSvc := triage.NewService(triage.DefaultRules)

	app.DocumentsService = docSvc
	app.UsersService = userSvc
	app.TriageService = triageSvc
	app.IngestProcessor = docSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.UsersHandler = users.NewHandler(userSvc)
	app.TriageHandler = triage.NewHandler(triageSvc)
	return nil
}

func repos(sqlDB *sql.DB) (documents.DocumentsRepo, users.Repo) {
	if sqlDB == nil {
		return documents.NewMemoryRepo(), users.NewMemoryRepo()
	}
	return &documents.PGRepo{DB: sqlDB}, &users.PGRepo{DB: sqlDB}
}

func ocrEngine(cfg config.Config) ocr.Engine {
	if cfg.OCREnabled {
		return &ocr.Tesseract{}
	}
	return nil
}

// buildSummarizer returns the summarization chain, remote-backed when an
// API key is configured and deterministic-only otherwise.
func buildSummarizer(cfg config.Config) (summarize.Summarizer, error) {
	var remote summarize.Summarizer
	if strings.TrimSpace(cfg.SummaryAPIKey) != "" {
		client, err := summarize.NewRemote(
			cfg.SummaryAPIKey,
			cfg.SummaryModel,
			time.Duration(cfg.SummaryTimeout)*time.Second,
		)
		if err != nil {
			return nil, err
		}
		remote = client
	}
	return summarize.New(remote), nil
}
