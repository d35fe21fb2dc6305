package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	QueueURL        string
	SummaryModel    string
	SummaryAPIKey   string
	SummaryTimeout  int
	OCREnabled      bool
	DatabaseURL     string
	Env             string
}

// Load reads configuration from the process environment. Missing values
// fall back to dev-friendly defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	cfg := Config{
		Port:            envOr("PORT", "8080"),
		CORSAllowOrigin: csv(envOr("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType: storeType(os.Getenv("OBJECT_STORE")),
		LocalStoreDir:   envOr("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       os.Getenv("AWS_REGION"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3Prefix:        os.Getenv("S3_PREFIX"),
		SSEKMSKeyID:     os.Getenv("SSE_KMS_KEY_ID"),
		QueueURL:        os.Getenv("HE_SQS_QUEUE_URL"),
		SummaryModel:    envOr("SUMMARY_MODEL", "gpt-4o-mini"),
		SummaryAPIKey:   os.Getenv("OPENAI_API_KEY"),
		SummaryTimeout:  envSeconds("SUMMARY_TIMEOUT_SECONDS", 30),
		OCREnabled:      envBool("OCR_ENABLED", false),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Env:             environment(os.Getenv("ENV")),
	}

	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}
	return cfg
}

// envOr returns the variable's value, or def when it is unset or empty.
func envOr(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// envSeconds parses a positive integer, falling back to def when the
// variable is unset, malformed, or non-positive.
func envSeconds(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}

// csv splits a comma-separated value, dropping blank entries.
func csv(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// environment canonicalizes ENV; unrecognized values map to dev.
func environment(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func storeType(raw string) string {
	if strings.ToLower(strings.TrimSpace(raw)) == "s3" {
		return "s3"
	}
	return "local"
}
