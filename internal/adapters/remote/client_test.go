package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memendex/mx/internal/core/domain"
)

// newTestClient starts a server running handler and returns a client pointed at it
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewClient_RejectsInvalidURL(t *testing.T) {
	_, err := NewClient("not a url", nil)
	assert.Error(t, err)

	_, err = NewClient("localhost", nil)
	assert.Error(t, err)
}

func TestList_SendsPageAndSize(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/memes/list", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("size"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		writeJSON(t, w, domain.ItemPage{
			Data:       []domain.Item{{ID: 41, Kind: domain.KindFile, Extension: "png", Tags: []string{"#a"}}},
			Count:      1,
			TotalCount: 41,
			PageSize:   20,
			Page:       3,
			HasNext:    false,
		})
	})

	env, err := c.List(context.Background(), 3, 20)
	require.NoError(t, err)

	assert.Equal(t, 3, env.Page)
	assert.Equal(t, 1, env.Count)
	require.Len(t, env.Data, 1)
	assert.Equal(t, int64(41), env.Data[0].ID)
	assert.Equal(t, []string{"#a"}, env.Data[0].Tags)
}

func TestList_InvalidPageSendsNothing(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.List(context.Background(), 0, 20)
	assert.ErrorIs(t, err, domain.ErrInvalidPage)

	_, err = c.List(context.Background(), 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPage)

	assert.False(t, called, "no request expected for invalid pagination")
}

func TestSearch_SendsOnlyQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/memes/search", r.URL.Path)
		assert.Equal(t, "cats and dogs", r.URL.Query().Get("query"))
		assert.False(t, r.URL.Query().Has("page"))
		assert.False(t, r.URL.Query().Has("size"))

		writeJSON(t, w, domain.ItemPage{Data: nil, Count: 0, TotalCount: -1, PageSize: 100, Page: 1})
	})

	env, err := c.Search(context.Background(), "cats and dogs")
	require.NoError(t, err)

	assert.NotNil(t, env.Data)
	assert.Equal(t, 100, env.PageSize)
	assert.Equal(t, -1, env.TotalCount)
}

func TestList_RejectionCarriesBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
	})

	_, err := c.List(context.Background(), 1, 20)
	require.Error(t, err)

	var rejection *domain.RemoteRejection
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, http.StatusServiceUnavailable, rejection.Status)
	assert.Equal(t, "database unavailable", domain.RemoteBody(err))
	assert.True(t, domain.IsRemote(err))
}

func TestList_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c, err := NewClient(srv.URL, nil)
	require.NoError(t, err)
	srv.Close()

	_, err = c.List(context.Background(), 1, 20)
	require.Error(t, err)

	var transport *domain.TransportError
	assert.True(t, errors.As(err, &transport))
	assert.True(t, domain.IsRemote(err))
}

func TestList_UndecodableBodyIsTransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>proxy error</html>")
	})

	_, err := c.List(context.Background(), 1, 20)

	var transport *domain.TransportError
	assert.True(t, errors.As(err, &transport))
}

func TestUpload_FileMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/memes/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "file", r.FormValue("type"))
		assert.Equal(t, "a cat", r.FormValue("description"))
		assert.Empty(t, r.FormValue("title"))
		assert.Empty(t, r.FormValue("link"))

		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "cat.png", header.Filename)
		assert.Equal(t, "PNGDATA", string(data))

		writeJSON(t, w, domain.Item{ID: 9, Kind: domain.KindFile, FileName: "cat.png", Extension: "png", Description: "a cat", Tags: []string{}})
	})

	item, err := c.Upload(context.Background(), domain.UploadPayload{
		Kind:        domain.KindFile,
		Description: "a cat",
		FileName:    "cat.png",
		File:        strings.NewReader("PNGDATA"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), item.ID)
	assert.Equal(t, domain.KindFile, item.Kind)
}

func TestUpload_LinkOmitsEmptyDescription(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "link", r.FormValue("type"))
		assert.Equal(t, "https://example.com/x", r.FormValue("link"))
		_, hasDescription := r.MultipartForm.Value["description"]
		assert.False(t, hasDescription)

		writeJSON(t, w, domain.Item{ID: 2, Kind: domain.KindLink})
	})

	_, err := c.Upload(context.Background(), domain.UploadPayload{Kind: domain.KindLink, Link: "https://example.com/x"})
	require.NoError(t, err)
}

func TestUpload_NonOKStatusIsRejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		writeJSON(t, w, domain.Item{ID: 2})
	})

	_, err := c.Upload(context.Background(), domain.UploadPayload{Kind: domain.KindNote, Title: "t"})

	var rejection *domain.RemoteRejection
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, http.StatusCreated, rejection.Status)
}

func TestUpload_FileKindWithoutReaderFailsLocally(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.Upload(context.Background(), domain.UploadPayload{Kind: domain.KindFile, FileName: "x.png"})

	var verr *domain.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.False(t, called)
}

func TestEdit_SendsOnlyChangedFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/memes/edit", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"id":7,"description":"b"}`, string(body))

		writeJSON(t, w, domain.Item{ID: 7, Kind: domain.KindNote, Description: "b", Tags: []string{"#x"}})
	})

	patch := domain.EditPatch{ID: 7}
	patch.SetDescription("b")

	item, err := c.Edit(context.Background(), patch)
	require.NoError(t, err)
	assert.Equal(t, "b", item.Description)
	assert.Equal(t, []string{"#x"}, item.Tags)
}

func TestKnownExtensions_ObjectShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/mime/known", r.URL.Path)
		io.WriteString(w, `[{"mimeType":"image/png","extension":"png"},{"mimeType":"image/webp","extension":"WEBP"}]`)
	})

	exts, err := c.KnownExtensions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"png", "webp"}, exts)
}

func TestKnownExtensions_LegacyStringShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `["jpeg", ".gif"]`)
	})

	exts, err := c.KnownExtensions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"jpeg", "gif"}, exts)
}

func TestTagSuggestions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags/suggestions", r.URL.Path)
		assert.Equal(t, "ca", r.URL.Query().Get("q"))
		writeJSON(t, w, []domain.TagUsage{{Tag: "#cats", Count: 12}})
	})

	usages, err := c.TagSuggestions(context.Background(), "ca")
	require.NoError(t, err)
	assert.Equal(t, []domain.TagUsage{{Tag: "#cats", Count: 12}}, usages)
}

func TestGetAndDownload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/memes/5":
			writeJSON(t, w, domain.Item{ID: 5, FileName: "doc.pdf"})
		case "/api/memes/5/download":
			io.WriteString(w, "%PDF-1.7")
		case "/api/memes/5/preview":
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, "Cannot preview pdf files\n")
		default:
			http.NotFound(w, r)
		}
	})

	item, err := c.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "doc.pdf", item.FileName)

	var buf bytes.Buffer
	n, err := c.Download(context.Background(), 5, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
	assert.Equal(t, "%PDF-1.7", buf.String())

	_, err = c.Thumbnail(context.Background(), 5, &buf)
	var rejection *domain.RemoteRejection
	assert.True(t, errors.As(err, &rejection))

	_, err = c.Preview(context.Background(), 5, &buf)
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, http.StatusBadRequest, rejection.Status)
	assert.Contains(t, rejection.Body, "Cannot preview pdf")
}
