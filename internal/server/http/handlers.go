package httpserver

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/docuvault/internal/classify"
	"github.com/and161185/docuvault/internal/model"
	"github.com/and161185/docuvault/internal/service"
)

// maxRequestBody bounds request bodies; the 1 MiB content ceiling plus
// base64 overhead and metadata fits comfortably.
const maxRequestBody = 4 << 20

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	u, err := s.registry.Register(r.Context(), req.Name, req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{UID: u.UID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	u, token, exp, err := s.registry.Authenticate(r.Context(), req.UID, remoteIP(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Token:   token,
		Expires: exp,
		User:    userDTO{UID: u.UID, Name: u.Name, Email: u.Email},
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	uid, ok := UserUIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "no auth")
		return
	}
	var req uploadRequest
	if !decodeBody(w, r, &req) {
		return
	}

	uploader, err := s.registry.Lookup(r.Context(), uid)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	in := service.UploadInput{
		Filename:     req.Filename,
		Description:  req.Description,
		Category:     req.Category,
		Tags:         req.Tags,
		FileType:     model.FileType(req.FileType),
		Mime:         req.Mime,
		ExternalLink: req.ExternalLink,
	}
	if req.Content != "" {
		raw, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationError, "content is not valid base64")
			return
		}
		in.Content = bytes.NewReader(raw)
		in.Size = int64(len(raw))
	}

	res, err := s.uploads.Run(r.Context(), uploader, in)
	if err != nil {
		uploadsTotal.WithLabelValues(req.FileType, "failed").Inc()
		writeDomainError(w, err)
		return
	}
	uploadsTotal.WithLabelValues(req.FileType, "ok").Inc()
	writeJSON(w, http.StatusCreated, toRecordDTO(res.Record))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	uid, ok := UserUIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "no auth")
		return
	}

	snap, err := s.catalog.FetchAll(r.Context(), uid)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	q := r.URL.Query()
	tf := service.TypeFilter(q.Get("type"))
	if tf == "" {
		tf = service.FilterAll
	}
	filtered := service.FilterSnapshot(snap, q.Get("category"), q.Get("tag"), tf)

	files := make([]recordDTO, 0, len(filtered.Records))
	for i := range filtered.Records {
		files = append(files, toRecordDTO(&filtered.Records[i]))
	}
	// Index sets always reflect the full snapshot of this fetch, not the
	// filtered view, so the filter UI can offer every option.
	writeJSON(w, http.StatusOK, listResponse{
		Files:      files,
		Categories: service.DeriveCategories(snap),
		Tags:       service.DeriveTags(snap),
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := s.recordScope(w, r)
	if !ok {
		return
	}
	rec, err := s.catalog.Get(r.Context(), uid, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := s.recordScope(w, r)
	if !ok {
		return
	}
	rec, err := s.catalog.Get(r.Context(), uid, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	p, err := classify.BuildPreview(rec)
	if err != nil {
		// Corrupt stored data: preview unavailable, never fatal.
		s.log.Warn("preview unavailable", zap.String("record", id.String()), zap.Error(err))
		writeDomainError(w, err)
		return
	}
	previewsTotal.WithLabelValues(string(p.Kind)).Inc()
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := s.recordScope(w, r)
	if !ok {
		return
	}
	rec, err := s.catalog.Get(r.Context(), uid, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	mime, raw, link, err := classify.Content(rec)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if link != "" {
		http.Redirect(w, r, link, http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", `attachment; filename="`+rec.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := s.recordScope(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.catalog.Update(r.Context(), uid, id, req.toModel()); err != nil {
		writeDomainError(w, err)
		return
	}
	rec, err := s.catalog.Get(r.Context(), uid, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := s.recordScope(w, r)
	if !ok {
		return
	}
	if err := s.catalog.Delete(r.Context(), uid, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCopies(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := s.recordScope(w, r)
	if !ok {
		return
	}
	var req copiesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	n, err := s.catalog.AdjustCopies(r.Context(), uid, id, req.Delta)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, copiesResponse{PhysicalCopies: n})
}

// recordScope extracts the authenticated uid and the record id route param.
func (s *Server) recordScope(w http.ResponseWriter, r *http.Request) (int64, uuid.UUID, bool) {
	uid, ok := UserUIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "no auth")
		return 0, uuid.Nil, false
	}
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationError, "bad record id")
		return 0, uuid.Nil, false
	}
	return uid, id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationError, "bad request body")
		return false
	}
	return true
}
