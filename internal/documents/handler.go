package documents

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/server/middleware"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/server/respond"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/storage/object"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/util"
)

const maxUploadSize = 20 << 20 // 20MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group. Extra
// middleware applies to the upload route only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, uploadMiddleware ...gin.HandlerFunc) {
	upload := append(append([]gin.HandlerFunc{}, uploadMiddleware...), h.upload)
	rg.POST("/documents", upload...)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.POST("/documents/:id/share", h.share)
	rg.POST("/documents/:id/notes", h.appendNote)
	rg.GET("/shared", h.listShared)
	rg.GET("/files/:owner/:name", h.file)
}

func (h *Handler) upload(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "document service unavailable", nil)
		return
	}
	principal := middleware.PrincipalFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	fileName, err := util.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	doc, queued, err := h.Svc.Ingest(ctx, principal, fileName, file)
	if err != nil {
		switch {
		case errors.Is(err, object.ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, "unsupported_type", "only pdf, png, jpg and jpeg files are accepted", nil)
		case errors.Is(err, object.ErrEmptyUpload):
			respond.Error(c, http.StatusBadRequest, "empty_upload", "uploaded file is empty", nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "only patients can upload documents", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to ingest document", nil)
		}
		return
	}

	if queued {
		respond.JSON(c, http.StatusAccepted, gin.H{
			"fileName":   doc.OriginalName,
			"storedName": doc.StoredName,
			"status":     "processing",
		})
		return
	}
	respond.JSON(c, http.StatusCreated, toDetailResponse(doc))
}

func (h *Handler) list(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "document service unavailable", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)

	docs, err := h.Svc.ListOwned(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponses(docs))
}

func (h *Handler) listShared(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "document service unavailable", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)

	docs, err := h.Svc.ListSharedWith(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list shared documents", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toSharedResponses(docs))
}

func (h *Handler) get(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "document service unavailable", nil)
		return
	}
	documentID := c.Param("id")
	userID := middleware.UserIDFromContext(c)

	doc, err := h.Svc.Get(c.Request.Context(), documentID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "you do not have access to this document", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toDetailResponse(doc))
}

type shareRequest struct {
	DoctorUsername string `json:"doctorUsername"`
}

func (h *Handler) share(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "document service unavailable", nil)
		return
	}
	documentID := c.Param("id")
	userID := middleware.UserIDFromContext(c)

	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.DoctorUsername == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "doctorUsername is required", nil)
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	doc, err := h.Svc.Share(ctx, documentID, userID, req.DoctorUsername)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrNotOwner):
			respond.Error(c, http.StatusForbidden, "not_owner", "only the owner can share a document", nil)
		case errors.Is(err, ErrRecipientNotFound):
			respond.Error(c, http.StatusNotFound, "recipient_not_found", "no doctor with that username", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to share document", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(doc))
}

type noteRequest struct {
	Note string `json:"note"`
}

func (h *Handler) appendNote(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "document service unavailable", nil)
		return
	}
	documentID := c.Param("id")
	userID := middleware.UserIDFromContext(c)

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Note == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "note is required", nil)
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	doc, err := h.Svc.AppendNote(ctx, documentID, userID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "only the shared doctor can add notes", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to append note", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(doc))
}

func (h *Handler) file(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "document service unavailable", nil)
		return
	}
	ownerID := c.Param("owner")
	storedName := c.Param("name")
	userID := middleware.UserIDFromContext(c)

	body, doc, err := h.Svc.OpenFile(c.Request.Context(), ownerID, storedName, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "you do not have access to this file", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open file", nil)
		}
		return
	}
	defer body.Close()

	contentType := mime.TypeByExtension(filepath.Ext(storedName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", doc.OriginalName),
	}
	c.DataFromReader(http.StatusOK, doc.SizeBytes, contentType, body, extraHeaders)
}
