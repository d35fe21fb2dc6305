package documents

import (
	"time"

	"github.com/samber/lo"
)

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID string    `json:"documentId"`
	OwnerID    string    `json:"ownerId"`
	FileName   string    `json:"fileName"`
	StoredName string    `json:"storedName"`
	Kind       string    `json:"kind"`
	SizeBytes  int64     `json:"sizeBytes"`
	Summary    string    `json:"summary"`
	SharedWith string    `json:"sharedWith,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// DocumentDetailResponse adds the extracted text to the single-document view.
type DocumentDetailResponse struct {
	DocumentResponse
	OCRText string `json:"ocrText"`
}

// SharedDocumentResponse is a shared-list entry with the owner's display name.
type SharedDocumentResponse struct {
	DocumentResponse
	OwnerName string `json:"ownerName"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID: doc.ID,
		OwnerID:    doc.OwnerID,
		FileName:   doc.OriginalName,
		StoredName: doc.StoredName,
		Kind:       string(doc.Kind),
		SizeBytes:  doc.SizeBytes,
		Summary:    doc.Summary,
		SharedWith: doc.SharedWith,
		UploadedAt: doc.CreatedAt,
	}
}

func toDetailResponse(doc Document) DocumentDetailResponse {
	return DocumentDetailResponse{
		DocumentResponse: toResponse(doc),
		OCRText:          doc.OCRText,
	}
}

func toResponses(docs []Document) []DocumentResponse {
	return lo.Map(docs, func(doc Document, _ int) DocumentResponse {
		return toResponse(doc)
	})
}

func toSharedResponses(docs []SharedDocument) []SharedDocumentResponse {
	return lo.Map(docs, func(sd SharedDocument, _ int) SharedDocumentResponse {
		return SharedDocumentResponse{
			DocumentResponse: toResponse(sd.Document),
			OwnerName:        sd.OwnerName,
		}
	})
}
