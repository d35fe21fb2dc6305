package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/documents"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/config"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/metrics"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/server/middleware"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/server/respond"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/triage"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/users"
)

// Throttles uploads only; each one fans out into extraction and OCR work.
var uploadRule = middleware.RateLimitRule{Rate: 0.5, Burst: 5}

// RouterDeps carries the handlers the router mounts. Nil handlers are
// skipped, which keeps partial wiring usable in tests.
type RouterDeps struct {
	Config           config.Config
	UsersHandler     *users.Handler
	DocumentsHandler *documents.Handler
	TriageHandler    *triage.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.DocumentsHandler != nil {
		limiter := middleware.NewRateLimiter(nil)
		deps.DocumentsHandler.RegisterRoutes(api, middleware.RateLimit(limiter, uploadRule))
	}
	if deps.TriageHandler != nil {
		deps.TriageHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	switch {
	case port == "":
		return ":8080"
	case strings.HasPrefix(port, ":"):
		return port
	default:
		return ":" + port
	}
}
