package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteapp/internal/config"
	"noteapp/internal/notes"
)

func newTestApp(t *testing.T) (*App, *httptest.Server) {
	t.Helper()
	cfg := &config.Config{
		Mode:      config.ModeTesting,
		Port:      config.DefaultPort,
		SecretKey: "test-secret",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return a, srv
}

func listNotes(t *testing.T, base, path string) []notes.Note {
	t.Helper()
	resp, err := http.Get(base + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []notes.Note
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func postJSON(t *testing.T, base, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(base+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRoutes_BothNotePathsShareState(t *testing.T) {
	_, srv := newTestApp(t)

	resp := postJSON(t, srv.URL, "/api/notes", `{"content":"via api"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = postJSON(t, srv.URL, "/notes", `{"content":"via legacy"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	canonical := listNotes(t, srv.URL, "/api/notes")
	legacy := listNotes(t, srv.URL, "/notes")
	require.Len(t, canonical, 2)
	assert.Equal(t, canonical, legacy)
	assert.Equal(t, "via legacy", canonical[0].Content)
}

func TestRoutes_CreateThenListRoundTrip(t *testing.T) {
	_, srv := newTestApp(t)

	before := listNotes(t, srv.URL, "/api/notes")

	resp := postJSON(t, srv.URL, "/api/notes", `{"content":"  round trip  "}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	after := listNotes(t, srv.URL, "/api/notes")
	require.Len(t, after, len(before)+1)

	matches := 0
	for _, n := range after {
		if n.Content == "round trip" {
			matches++
		}
	}
	assert.Equal(t, 1, matches)
}

func TestRoutes_CreateRejectsBlank(t *testing.T) {
	_, srv := newTestApp(t)

	resp := postJSON(t, srv.URL, "/notes", `{"content":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Content is required", body["error"])
	assert.Empty(t, listNotes(t, srv.URL, "/notes"))
}

func TestRoutes_FormPostRedirects(t *testing.T) {
	_, srv := newTestApp(t)

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
	resp, err := client.PostForm(srv.URL+"/", url.Values{"content": {"from form"}})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	list := listNotes(t, srv.URL, "/api/notes")
	require.Len(t, list, 1)
	assert.Equal(t, "from form", list[0].Content)
}

func TestRoutes_HomePage(t *testing.T) {
	_, srv := newTestApp(t)
	postJSON(t, srv.URL, "/api/notes", `{"content":"shown on page"}`)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "shown on page")
}

func TestRoutes_GetNote(t *testing.T) {
	_, srv := newTestApp(t)
	postJSON(t, srv.URL, "/api/notes", `{"content":"single"}`)

	resp, err := http.Get(srv.URL + "/api/notes/1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var n notes.Note
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&n))
	assert.Equal(t, "single", n.Content)

	resp2, err := http.Get(srv.URL + "/api/notes/abc")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestRoutes_Health(t *testing.T) {
	a, srv := newTestApp(t)

	for _, path := range []string{"/healthz", "/health"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "healthy", body["status"])
	}

	require.NoError(t, a.DB.Migrator().DropTable(&notes.Note{}))

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "unhealthy", body["status"])
	assert.NotEmpty(t, body["error"])

	// The server keeps serving after storage failures.
	resp2, err := http.Get(srv.URL + "/api/notes")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp2.StatusCode)
}

func TestRoutes_RequestID(t *testing.T) {
	_, srv := newTestApp(t)

	resp, err := http.Get(srv.URL + "/api/notes")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/notes", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestRoutes_UnknownPath(t *testing.T) {
	_, srv := newTestApp(t)

	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecoverer(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), requestID, requestLogger(log), recoverer(log))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
