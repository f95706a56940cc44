package handler

import (
	"net/http"
	"time"

	"github.com/clubsure/platform/internal/auth"
	"github.com/clubsure/platform/internal/domain"
	"github.com/clubsure/platform/internal/lifecycle"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// DocumentHandler handles document upload, review and retrieval endpoints.
type DocumentHandler struct {
	engine          *lifecycle.Engine
	maxUploadBytes  int64
	signedURLExpiry time.Duration
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(engine *lifecycle.Engine, maxUploadBytes int64, signedURLExpiry time.Duration) *DocumentHandler {
	return &DocumentHandler{engine: engine, maxUploadBytes: maxUploadBytes, signedURLExpiry: signedURLExpiry}
}

// Upload handles POST /clubs/{clubID}/documents as a multipart form with
// a "file" part plus "type" and optional "expiry_date" fields.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	clubID, err := uuidParam(r, "clubID")
	if err != nil {
		RespondError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		RespondError(w, domain.ErrValidation("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		RespondError(w, domain.ErrValidation("missing file part"))
		return
	}
	defer file.Close()

	var expiry *time.Time
	if raw := r.FormValue("expiry_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			RespondError(w, domain.ErrValidation("expiry_date must be YYYY-MM-DD"))
			return
		}
		expiry = &parsed
	}

	doc, err := h.engine.Ingest(r.Context(), principal, lifecycle.IngestParams{
		ClubID:           clubID,
		Type:             domain.DocumentType(r.FormValue("type")),
		File:             file,
		SizeBytes:        header.Size,
		ContentType:      header.Header.Get("Content-Type"),
		OriginalFilename: header.Filename,
		ExpiryDate:       expiry,
	})
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, doc)
}

// List handles GET /clubs/{clubID}/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	clubID, err := uuidParam(r, "clubID")
	if err != nil {
		RespondError(w, err)
		return
	}

	docs, err := h.engine.ListClubDocuments(r.Context(), principal, clubID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

// Get handles GET /documents/{documentID}.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	docID, err := uuidParam(r, "documentID")
	if err != nil {
		RespondError(w, err)
		return
	}

	doc, err := h.engine.GetDocument(r.Context(), principal, docID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, doc)
}

// SignedURL handles GET /documents/{documentID}/url.
func (h *DocumentHandler) SignedURL(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	docID, err := uuidParam(r, "documentID")
	if err != nil {
		RespondError(w, err)
		return
	}

	url, err := h.engine.SignedURL(r.Context(), principal, docID, h.signedURLExpiry)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"url":        url,
		"expires_in": int(h.signedURLExpiry.Seconds()),
	})
}

// decisionRequest is the body of POST /documents/{documentID}/decision.
type decisionRequest struct {
	Outcome string  `json:"outcome"`
	Notes   *string `json:"notes,omitempty"`
}

// Decide handles POST /documents/{documentID}/decision.
func (h *DocumentHandler) Decide(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	docID, err := uuidParam(r, "documentID")
	if err != nil {
		RespondError(w, err)
		return
	}

	var req decisionRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	doc, err := h.engine.Decide(r.Context(), principal, docID, domain.DocumentStatus(req.Outcome), req.Notes)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, doc)
}

// Withdraw handles DELETE /documents/{documentID}.
func (h *DocumentHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	docID, err := uuidParam(r, "documentID")
	if err != nil {
		RespondError(w, err)
		return
	}

	if err := h.engine.Withdraw(r.Context(), principal, docID); err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusNoContent, nil)
}

// principalFromRequest extracts the authenticated principal.
func principalFromRequest(r *http.Request) (domain.Principal, error) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		return domain.Principal{}, domain.ErrUnauthorized("no principal in context")
	}
	return principal, nil
}

// uuidParam parses a UUID route parameter.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, domain.ErrValidation("invalid " + name)
	}
	return id, nil
}
