package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/snippet-api/internal/apperror"
	"github.com/sakif/snippet-api/internal/handler"
	"github.com/sakif/snippet-api/internal/model"
	"github.com/sakif/snippet-api/internal/repository"
	"github.com/sakif/snippet-api/internal/serializer"
	"github.com/sakif/snippet-api/internal/service"
	"github.com/sakif/snippet-api/internal/syntax"
)

// memRepo is an in-memory SnippetRepository for handler testing without
// SQLite overhead.
type memRepo struct {
	snippets map[int64]*model.Snippet
	nextID   int64
}

func newMemRepo() *memRepo {
	return &memRepo{snippets: make(map[int64]*model.Snippet)}
}

func (m *memRepo) Create(_ context.Context, snippet *model.Snippet) error {
	m.nextID++
	snippet.ID = m.nextID
	stored := *snippet
	m.snippets[snippet.ID] = &stored
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id int64) (*model.Snippet, error) {
	s, ok := m.snippets[id]
	if !ok {
		return nil, apperror.NotFound("snippet", id)
	}
	result := *s
	return &result, nil
}

func (m *memRepo) List(_ context.Context, _ repository.ListOptions) ([]model.Snippet, error) {
	result := make([]model.Snippet, 0, len(m.snippets))
	for id := int64(1); id <= m.nextID; id++ {
		if s, ok := m.snippets[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *memRepo) Update(_ context.Context, snippet *model.Snippet) error {
	if _, ok := m.snippets[snippet.ID]; !ok {
		return apperror.NotFound("snippet", snippet.ID)
	}
	stored := *snippet
	m.snippets[snippet.ID] = &stored
	return nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.snippets[id]; !ok {
		return apperror.NotFound("snippet", id)
	}
	delete(m.snippets, id)
	return nil
}

// newTestHandler wires a handler exactly the way the server package does,
// with the in-memory repository standing in for SQLite. The real
// chroma-backed enumerations are used so "python"/"friendly" validate.
func newTestHandler(t *testing.T) (*handler.SnippetHandler, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	languages := syntax.LanguageChoices()
	styles := syntax.StyleChoices()
	s := serializer.NewSnippetSerializer(languages, styles)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := service.NewSnippetService(repo, s, logger)
	return handler.NewSnippetHandler(svc, s, languages, styles, logger), repo
}

func idRequest(method, target, id string, body *bytes.Buffer) *http.Request {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	req.SetPathValue("id", id)
	return req
}

func TestHandleCreate(t *testing.T) {
	t.Run("minimal valid body", func(t *testing.T) {
		h, _ := newTestHandler(t)

		reqBody := `{"code":"print(\"Hello World!\")"}`
		req := httptest.NewRequest(http.MethodPost, "/api/snippets", bytes.NewBufferString(reqBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		h.HandleCreate(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var plain serializer.Plain
		err := json.NewDecoder(rr.Body).Decode(&plain)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), plain.ID)
		assert.Equal(t, `print("Hello World!")`, plain.Code)
		assert.Equal(t, "", plain.Title)
		assert.False(t, plain.Linenos)
		assert.Equal(t, "python", plain.Language)
		assert.Equal(t, "friendly", plain.Style)
	})

	t.Run("invalid JSON body", func(t *testing.T) {
		h, _ := newTestHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/snippets", bytes.NewBufferString(`{"code":`))
		rr := httptest.NewRecorder()

		h.HandleCreate(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var errResp handler.ErrorResponse
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
		assert.Equal(t, "invalid_json", errResp.Error)
	})

	t.Run("validation failure carries field messages", func(t *testing.T) {
		h, repo := newTestHandler(t)

		reqBody := `{"language":"not-a-real-language"}`
		req := httptest.NewRequest(http.MethodPost, "/api/snippets", bytes.NewBufferString(reqBody))
		rr := httptest.NewRecorder()

		h.HandleCreate(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var errResp handler.ErrorResponse
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
		assert.Equal(t, "validation_error", errResp.Error)
		assert.NotEmpty(t, errResp.Fields["code"])
		assert.NotEmpty(t, errResp.Fields["language"])

		assert.Empty(t, repo.snippets, "invalid input must not be persisted")
	})

	t.Run("client-supplied id is ignored", func(t *testing.T) {
		h, _ := newTestHandler(t)

		reqBody := `{"id":999,"code":"x"}`
		req := httptest.NewRequest(http.MethodPost, "/api/snippets", bytes.NewBufferString(reqBody))
		rr := httptest.NewRecorder()

		h.HandleCreate(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var plain serializer.Plain
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&plain))
		assert.Equal(t, int64(1), plain.ID, "store assigns the id, not the client")
	})
}

func TestHandleGetByID(t *testing.T) {
	h, repo := newTestHandler(t)
	repo.Create(context.Background(), &model.Snippet{
		Code: "x", Language: "python", Style: "friendly",
	})

	t.Run("found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleGetByID(rr, idRequest(http.MethodGet, "/api/snippets/1", "1", nil))

		assert.Equal(t, http.StatusOK, rr.Code)

		var plain serializer.Plain
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&plain))
		assert.Equal(t, int64(1), plain.ID)
	})

	t.Run("not found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleGetByID(rr, idRequest(http.MethodGet, "/api/snippets/999", "999", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)

		var errResp handler.ErrorResponse
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
		assert.Equal(t, "not_found", errResp.Error)
	})

	t.Run("non-integer id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleGetByID(rr, idRequest(http.MethodGet, "/api/snippets/abc", "abc", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandleUpdate(t *testing.T) {
	h, repo := newTestHandler(t)
	repo.Create(context.Background(), &model.Snippet{
		Title: "old", Code: "old code", Language: "go", Style: "monokai",
	})

	reqBody := bytes.NewBufferString(`{"title":"new"}`)
	rr := httptest.NewRecorder()
	h.HandleUpdate(rr, idRequest(http.MethodPut, "/api/snippets/1", "1", reqBody))

	assert.Equal(t, http.StatusOK, rr.Code)

	var plain serializer.Plain
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&plain))
	assert.Equal(t, "new", plain.Title)
	assert.Equal(t, "old code", plain.Code, "absent fields keep their values")
	assert.Equal(t, "go", plain.Language)
	assert.Equal(t, "monokai", plain.Style)
}

func TestHandleDelete(t *testing.T) {
	h, repo := newTestHandler(t)
	repo.Create(context.Background(), &model.Snippet{Code: "x"})

	rr := httptest.NewRecorder()
	h.HandleDelete(rr, idRequest(http.MethodDelete, "/api/snippets/1", "1", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, repo.snippets)

	rr = httptest.NewRecorder()
	h.HandleDelete(rr, idRequest(http.MethodDelete, "/api/snippets/1", "1", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleList(t *testing.T) {
	h, repo := newTestHandler(t)
	for i := 0; i < 3; i++ {
		repo.Create(context.Background(), &model.Snippet{
			Code: "code " + strconv.Itoa(i), Language: "python", Style: "friendly",
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/snippets", nil)
	rr := httptest.NewRecorder()

	h.HandleList(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var plains []serializer.Plain
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&plains))
	assert.Len(t, plains, 3)
	assert.Equal(t, int64(1), plains[0].ID)
}

func TestHandleChoices(t *testing.T) {
	h, _ := newTestHandler(t)

	t.Run("languages", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleLanguages(rr, httptest.NewRequest(http.MethodGet, "/api/languages", nil))

		assert.Equal(t, http.StatusOK, rr.Code)

		var names []string
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&names))
		assert.Contains(t, names, "python")
	})

	t.Run("styles", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleStyles(rr, httptest.NewRequest(http.MethodGet, "/api/styles", nil))

		assert.Equal(t, http.StatusOK, rr.Code)

		var names []string
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&names))
		assert.Contains(t, names, "friendly")
	})
}

func TestHandleHighlight(t *testing.T) {
	h, repo := newTestHandler(t)
	repo.Create(context.Background(), &model.Snippet{
		Code: `print("Hello World!")`, Language: "python", Style: "friendly",
	})

	rr := httptest.NewRecorder()
	h.HandleHighlight(rr, idRequest(http.MethodGet, "/api/snippets/1/highlight", "1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "print")
}
