package triage

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/triage", h.lookup)
}

func (h *Handler) lookup(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	symptom := strings.TrimSpace(c.Query("symptom"))
	if symptom == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "missing symptom query parameter", []map[string]string{
			{"field": "symptom", "issue": "required"},
		})
		return
	}
	respond.JSON(c, http.StatusOK, h.Svc.Lookup(symptom))
}
