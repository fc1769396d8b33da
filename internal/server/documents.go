package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/resume-layout/internal/db"
	"github.com/jonathan/resume-layout/internal/rendering"
	"github.com/jonathan/resume-layout/internal/server/middleware"
	"github.com/jonathan/resume-layout/internal/validation"
)

// DocumentStore persists rendered documents. *db.DB implements it.
type DocumentStore interface {
	Ping(ctx context.Context) error
	SaveDocument(ctx context.Context, input *db.DocumentInput) (*db.Document, error)
	GetDocument(ctx context.Context, id, owner uuid.UUID) (*db.Document, error)
	GetDocumentContent(ctx context.Context, id, owner uuid.UUID) ([]byte, string, error)
	ListDocuments(ctx context.Context, filters db.DocumentFilters) ([]db.Document, int, error)
	DeleteDocument(ctx context.Context, id, owner uuid.UUID) error
}

// owner returns the authenticated owner, or uuid.Nil when auth is off.
func (s *Server) owner(r *http.Request) (uuid.UUID, error) {
	if s.jwtService == nil {
		return uuid.Nil, nil
	}
	return middleware.GetOwnerID(r)
}

// documentRequest resolves the store, the owner and, when the route has one,
// the document ID. It writes the error response itself.
func (s *Server) documentRequest(w http.ResponseWriter, r *http.Request, withID bool) (owner, id uuid.UUID, ok bool) {
	if s.store == nil {
		s.failure(w, ErrStoreDisabled)
		return uuid.Nil, uuid.Nil, false
	}
	owner, err := s.owner(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, err.Error())
		return uuid.Nil, uuid.Nil, false
	}
	if withID {
		id, err = uuid.Parse(r.PathValue("id"))
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid document ID")
			return uuid.Nil, uuid.Nil, false
		}
	}
	return owner, id, true
}

// handleCreateDocument renders a record, checks its layout and stores the
// result together with the violations.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	owner, _, ok := s.documentRequest(w, r, false)
	if !ok {
		return
	}

	job, err := s.decodeRenderRequest(r)
	if err != nil {
		s.failure(w, err)
		return
	}

	result, err := rendering.Render(job.record, job.profile, job.format)
	if err != nil {
		s.failure(w, err)
		return
	}
	violations, err := validation.ValidateResult(r.Context(), result, validation.Options{MaxPages: job.maxPages})
	if err != nil {
		s.failure(w, err)
		return
	}

	doc, err := s.store.SaveDocument(r.Context(), &db.DocumentInput{
		OwnerID:     owner,
		Name:        job.record.Basics.Name,
		Style:       job.profile.Name,
		Format:      string(result.Format),
		ContentType: result.Format.ContentType(),
		PageCount:   result.PageCount(),
		Content:     result.Bytes,
		Record:      job.raw,
		Violations:  violations.Violations,
	})
	if err != nil {
		s.failure(w, err)
		return
	}

	w.Header().Set("Location", "/documents/"+doc.ID.String())
	s.jsonResponse(w, http.StatusCreated, doc)
}

// handleListDocuments lists the caller's documents, newest first.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	owner, _, ok := s.documentRequest(w, r, false)
	if !ok {
		return
	}

	query := r.URL.Query()
	filters := db.DocumentFilters{
		OwnerID: owner,
		Format:  query.Get("format"),
		Style:   query.Get("style"),
	}
	for name, dst := range map[string]*int{"limit": &filters.Limit, "offset": &filters.Offset} {
		if v := query.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				s.errorResponse(w, http.StatusBadRequest, name+" must be a non-negative integer")
				return
			}
			*dst = n
		}
	}

	docs, total, err := s.store.ListDocuments(r.Context(), filters)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"documents": docs,
		"total":     total,
	})
}

// handleGetDocument returns document metadata.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := s.documentRequest(w, r, true)
	if !ok {
		return
	}

	doc, err := s.store.GetDocument(r.Context(), id, owner)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

// handleGetDocumentContent returns the stored document bytes.
func (s *Server) handleGetDocumentContent(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := s.documentRequest(w, r, true)
	if !ok {
		return
	}

	doc, err := s.store.GetDocument(r.Context(), id, owner)
	if err != nil {
		s.failure(w, err)
		return
	}
	content, contentType, err := s.store.GetDocumentContent(r.Context(), id, owner)
	if err != nil {
		s.failure(w, err)
		return
	}

	writeDocument(w, contentType, rendering.FileName(doc.Name, rendering.Format(doc.Format)), content, nil)
}

// handleDeleteDocument removes a document.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := s.documentRequest(w, r, true)
	if !ok {
		return
	}

	if err := s.store.DeleteDocument(r.Context(), id, owner); err != nil {
		s.failure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
