package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/snippet-api/internal/apperror"
	"github.com/sakif/snippet-api/internal/serializer"
	"github.com/sakif/snippet-api/internal/service"
	"github.com/sakif/snippet-api/internal/syntax"
)

// SnippetHandler manages CRUD operations for code snippets.
//
// THE HANDLER'S ONLY JOB IS HTTP:
// decode bodies, parse path/query parameters, pick status codes, encode
// responses. Field validation lives in the serializer, orchestration in the
// service. Notice that every inbound body is decoded into a map[string]any
// and handed over raw — the handler makes no judgement about field contents.
type SnippetHandler struct {
	service    *service.SnippetService
	serializer *serializer.SnippetSerializer
	languages  syntax.ChoiceSet
	styles     syntax.ChoiceSet
	logger     *slog.Logger
}

// NewSnippetHandler creates a new SnippetHandler.
// The two choice sets back the /api/languages and /api/styles listings; they
// are the same enumerations the serializer validates against.
func NewSnippetHandler(svc *service.SnippetService, s *serializer.SnippetSerializer, languages, styles syntax.ChoiceSet, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{
		service:    svc,
		serializer: s,
		languages:  languages,
		styles:     styles,
		logger:     logger,
	}
}

// snippetID parses the {id} path parameter.
//
// URL PARAMETERS:
// Chi exposes r.PathValue("id") for route patterns like /api/snippets/{id}.
// The contract fixes snippet IDs as integers, so anything unparseable is a
// client error, reported in the standard error shape.
func snippetID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, apperror.ValidationFailed("id", "snippet id must be an integer"))
		return 0, false
	}
	return id, true
}

// decodeBody reads a JSON request body into a raw mapping.
//
// WHY A MAP AND NOT A STRUCT?
// The serializer needs to know which fields the client actually sent (absent
// vs zero-valued), and a struct loses that distinction during decoding. The
// map preserves it. Type checking of individual values is the serializer's
// job, not ours — here we only reject bodies that aren't JSON objects at all.
func decodeBody(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (map[string]any, bool) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_json",
			Message: "request body must be a JSON object",
		})
		return nil, false
	}
	return raw, true
}

// HandleList returns snippets as an array of plain representations.
//
// HTTP: GET /api/snippets?limit=20&offset=0
//
// RESPONSE FORMAT:
//
//	[
//	  {"id":1,"title":"","code":"print(\"Hello World!\")","linenos":false,
//	   "language":"python","style":"friendly"},
//	  ...
//	]
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	// Atoi errors are ignored on purpose: a missing or garbled parameter
	// falls through as 0, and the service clamps 0 to its defaults.
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	snippets, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.serializer.SerializeAll(snippets))
}

// HandleGetByID returns a single snippet.
//
// HTTP: GET /api/snippets/{id}
func (h *SnippetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := snippetID(w, r)
	if !ok {
		return
	}

	snippet, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.serializer.Serialize(snippet))
}

// HandleCreate validates the request body and persists a new snippet.
//
// HTTP: POST /api/snippets
// REQUEST BODY: {"code": "print('hello')", "title": "...", ...}
//
// Only `code` is required; title, linenos, language and style default to
// "", false, "python" and "friendly". A client-supplied "id" is ignored —
// the store assigns it. On success the full plain representation comes back
// with 201 Created.
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	raw, ok := decodeBody(w, r, h.logger)
	if !ok {
		return
	}

	snippet, err := h.service.Create(r.Context(), raw)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.serializer.Serialize(snippet))
}

// HandleUpdate applies the request body's fields to an existing snippet.
//
// HTTP: PUT /api/snippets/{id}
//
// Absent fields keep their stored values; present fields are validated
// against the same constraints as on create.
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := snippetID(w, r)
	if !ok {
		return
	}

	raw, ok := decodeBody(w, r, h.logger)
	if !ok {
		return
	}

	snippet, err := h.service.Update(r.Context(), id, raw)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.serializer.Serialize(snippet))
}

// HandleDelete removes a snippet.
//
// HTTP: DELETE /api/snippets/{id}
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := snippetID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent) // 204 — successful deletion, no body
}

// HandleHighlight renders a snippet as standalone HTML.
//
// HTTP: GET /api/snippets/{id}/highlight
//
// The snippet's own language, style and linenos fields drive the rendering,
// so the response is the snippet "as it asked to be displayed".
func (h *SnippetHandler) HandleHighlight(w http.ResponseWriter, r *http.Request) {
	id, ok := snippetID(w, r)
	if !ok {
		return
	}

	snippet, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := syntax.Highlight(w, snippet); err != nil {
		// Tokenising already-validated code essentially never fails, and by
		// now part of the body may be written — log and stop.
		h.logger.Error("failed to highlight snippet",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
	}
}

// HandleLanguages lists the recognized language identifiers.
//
// HTTP: GET /api/languages
//
// This is the exact enumeration the serializer validates `language` against,
// so a client can populate a picker from it and never see a validation error.
func (h *SnippetHandler) HandleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.languages.Names())
}

// HandleStyles lists the recognized display styles.
//
// HTTP: GET /api/styles
func (h *SnippetHandler) HandleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.styles.Names())
}
