package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/pipeline"
)

const indexHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Family Tree</title>
  <style>
    body { margin: 0; background: #faf6ef; }
    object { display: block; width: 100vw; height: 100vh; }
  </style>
</head>
<body>
  <object type="image/svg+xml" data="/tree.svg?interactive=1&popups=1"></object>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRender runs the pipeline for one output format. Query
// parameters: viz (tree|nodelink), interactive, popups, refresh.
func (s *Server) handleRender(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		opts := pipeline.Options{
			Tree:    s.snapshot(),
			VizType: q.Get("viz"),
			Formats: []string{format},
			Style:   s.defaults.Style,
			Scale:   s.defaults.Scale,
			Metrics: s.defaults.Metrics,
			Refresh: boolParam(q.Get("refresh")),
			Logger:  s.logger,
		}
		opts.Interactive = resolveBool(q, "interactive", s.defaults.Interactive)
		opts.Popups = resolveBool(q, "popups", s.defaults.Popups)

		result, err := s.runner.Execute(r.Context(), opts)
		if err != nil {
			s.respondError(w, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(result.Artifacts[format])
	}
}

func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	records := s.tree.Records()
	s.mu.RUnlock()

	// Use the wire codec so the list carries the same fields as exports.
	data, err := family.MarshalRecords(records)
	if err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "serialize records"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleAddPerson(w http.ResponseWriter, r *http.Request) {
	var p family.Person
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode person"))
		return
	}

	s.mu.Lock()
	id := s.tree.Add(p)
	s.mu.Unlock()

	s.respondJSON(w, http.StatusCreated, map[string]int{"id": id})
}

func (s *Server) handleEditPerson(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}

	var fields family.Person
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode person"))
		return
	}

	s.mu.Lock()
	ok := s.tree.Edit(id, fields)
	s.mu.Unlock()
	if !ok {
		s.respondError(w, errors.New(errors.ErrCodePersonNotFound, "person %d not found", id))
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]int{"id": id})
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.mu.Lock()
	ok := s.tree.Delete(id)
	s.mu.Unlock()
	if !ok {
		s.respondError(w, errors.New(errors.ErrCodePersonNotFound, "person %d not found", id))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetPartner(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}
	other, err := idParam(r, "other")
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.mu.Lock()
	ok := s.tree.SetPartner(id, other)
	s.mu.Unlock()
	if !ok {
		s.respondError(w, errors.New(errors.ErrCodePersonNotFound, "person %d or %d not found", id, other))
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]bool{"paired": true})
}

func (s *Server) handleClearPartner(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.mu.Lock()
	ok := s.tree.ClearPartner(id)
	s.mu.Unlock()
	if !ok {
		s.respondError(w, errors.New(errors.ErrCodePersonNotFound, "person %d not found", id))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleImport replaces the store with the uploaded records. A parse
// failure leaves the current records untouched.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	records, err := family.ReadRecords(r.Body)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.mu.Lock()
	s.tree.Replace(records)
	count := s.tree.Len()
	s.mu.Unlock()

	s.respondJSON(w, http.StatusOK, map[string]int{"persons": count})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	records := s.tree.Records()
	s.mu.RUnlock()

	var buf bytes.Buffer
	if err := family.WriteRecords(records, &buf); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "serialize records"))
		return
	}

	filename := fmt.Sprintf("family-%s.json", uuid.NewString())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := statusFor(errors.GetCode(err))
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.respondJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidStyle, errors.ErrCodeInvalidVizType:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodePersonNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func idParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid id %q", raw)
	}
	return id, nil
}

func boolParam(v string) bool {
	switch v {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// resolveBool reads a boolean query parameter, falling back to the
// configured default when the parameter is absent.
func resolveBool(q url.Values, name string, fallback *bool) bool {
	if q.Has(name) {
		return boolParam(q.Get(name))
	}
	return fallback != nil && *fallback
}
