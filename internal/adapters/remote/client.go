package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/pkg/logger"
)

// maxErrorBody caps how much of a rejection body is kept for display
const maxErrorBody = 64 << 10

// Client talks to the memendex HTTP API.
// It never retries and sets no timeout of its own; the caller's context bounds each call.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// NewClient creates a client for the server at baseURL.
// A nil httpClient uses a plain http.Client without a timeout.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: u, http: httpClient, userAgent: "mx"}, nil
}

// SetUserAgent overrides the User-Agent header
func (c *Client) SetUserAgent(ua string) {
	c.userAgent = ua
}

// BaseURL returns the server the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(p string, query url.Values) string {
	u := *c.baseURL
	u.Path = path.Join(c.baseURL.Path, p)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	// accept reports whether a status counts as success; defaults to any 2xx
	accept func(status int) bool
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}

// do performs a single request. The response body must be closed by the caller.
func (c *Client) do(ctx context.Context, r request) (*http.Response, error) {
	requestID := uuid.NewString()
	ctx = logger.WithRequestID(ctx, requestID)

	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), r.body)
	if err != nil {
		return nil, &domain.TransportError{Op: r.op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	logger.Debug(ctx, "remote request", logger.Fields{"op": r.op, "method": r.method, "url": req.URL.String()})

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error(ctx, "remote request failed", err, logger.Fields{"op": r.op})
		return nil, &domain.TransportError{Op: r.op, Err: err}
	}

	accept := r.accept
	if accept == nil {
		accept = is2xx
	}
	if !accept(resp.StatusCode) {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		rejection := &domain.RemoteRejection{Op: r.op, Status: resp.StatusCode, Body: string(body)}
		logger.Error(ctx, "remote request rejected", rejection, logger.Fields{"op": r.op, "status": resp.StatusCode})
		return nil, rejection
	}

	logger.Debug(ctx, "remote response", logger.Fields{"op": r.op, "status": resp.StatusCode})
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	resp, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.TransportError{Op: r.op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// List returns one page of the unfiltered catalog
func (c *Client) List(ctx context.Context, page, pageSize int) (*domain.ItemPage, error) {
	if page < 1 || pageSize < 1 {
		return nil, domain.ErrInvalidPage
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(pageSize))

	var env domain.ItemPage
	if err := c.doJSON(ctx, request{op: "list", method: http.MethodGet, path: "/api/memes/list", query: q}, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		env.Data = []domain.Item{}
	}
	return &env, nil
}

// Search returns the server's results for query. Pagination is left to the server.
func (c *Client) Search(ctx context.Context, query string) (*domain.ItemPage, error) {
	q := url.Values{}
	q.Set("query", query)

	var env domain.ItemPage
	if err := c.doJSON(ctx, request{op: "search", method: http.MethodGet, path: "/api/memes/search", query: q}, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		env.Data = []domain.Item{}
	}
	return &env, nil
}

// Upload posts a multipart form. Only status 200 counts as success.
func (c *Client) Upload(ctx context.Context, payload domain.UploadPayload) (*domain.Item, error) {
	if payload.Kind == domain.KindFile && payload.File == nil {
		return nil, &domain.ValidationError{Kind: payload.Kind, Field: domain.FieldFile, Message: "Please select a file"}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeUploadForm(mw, payload))
	}()

	var item domain.Item
	err := c.doJSON(ctx, request{
		op:          "upload",
		method:      http.MethodPost,
		path:        "/api/memes/upload",
		body:        pr,
		contentType: mw.FormDataContentType(),
		accept:      func(status int) bool { return status == http.StatusOK },
	}, &item)
	// Unblock the writer goroutine if the request ended before the body was consumed
	pr.CloseWithError(io.ErrClosedPipe)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func writeUploadForm(mw *multipart.Writer, payload domain.UploadPayload) error {
	for _, field := range payload.Fields() {
		if err := mw.WriteField(field[0], field[1]); err != nil {
			return err
		}
	}

	if payload.Kind == domain.KindFile {
		name := payload.FileName
		if name == "" {
			name = "upload"
		}
		part, err := mw.CreateFormFile("file", name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, payload.File); err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
	}

	return mw.Close()
}

// Edit sends a JSON patch and returns the full updated item
func (c *Client) Edit(ctx context.Context, patch domain.EditPatch) (*domain.Item, error) {
	body, err := json.Marshal(patch)
	if err != nil {
		return nil, &domain.TransportError{Op: "edit", Err: err}
	}

	var item domain.Item
	if err := c.doJSON(ctx, request{
		op:          "edit",
		method:      http.MethodPatch,
		path:        "/api/memes/edit",
		body:        bytes.NewReader(body),
		contentType: "application/json",
	}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Get retrieves a single item
func (c *Client) Get(ctx context.Context, id int64) (*domain.Item, error) {
	var item domain.Item
	p := "/api/memes/" + strconv.FormatInt(id, 10)
	if err := c.doJSON(ctx, request{op: "get", method: http.MethodGet, path: p}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// TagSuggestions returns tag usage counts for q
func (c *Client) TagSuggestions(ctx context.Context, q string) ([]domain.TagUsage, error) {
	query := url.Values{}
	query.Set("q", q)

	var usages []domain.TagUsage
	if err := c.doJSON(ctx, request{op: "tag suggestions", method: http.MethodGet, path: "/api/tags/suggestions", query: query}, &usages); err != nil {
		return nil, err
	}
	if usages == nil {
		usages = []domain.TagUsage{}
	}
	return usages, nil
}

// KnownExtensions returns the extensions the server can thumbnail.
// Accepts both the current [{mimeType, extension}] shape and a bare list of strings.
func (c *Client) KnownExtensions(ctx context.Context) ([]string, error) {
	var raw []json.RawMessage
	if err := c.doJSON(ctx, request{op: "known extensions", method: http.MethodGet, path: "/api/mime/known"}, &raw); err != nil {
		return nil, err
	}

	exts := make([]string, 0, len(raw))
	for _, entry := range raw {
		var ext string
		trimmed := bytes.TrimSpace(entry)
		if len(trimmed) > 0 && trimmed[0] == '"' {
			if err := json.Unmarshal(trimmed, &ext); err != nil {
				return nil, &domain.TransportError{Op: "known extensions", Err: err}
			}
		} else {
			var m domain.MimeExtension
			if err := json.Unmarshal(trimmed, &m); err != nil {
				return nil, &domain.TransportError{Op: "known extensions", Err: err}
			}
			ext = m.Extension
		}
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	return exts, nil
}

// Download streams an item's original content into w
func (c *Client) Download(ctx context.Context, id int64, w io.Writer) (int64, error) {
	return c.stream(ctx, "download", "/api/memes/"+strconv.FormatInt(id, 10)+"/download", w)
}

// Thumbnail streams an item's thumbnail into w
func (c *Client) Thumbnail(ctx context.Context, id int64, w io.Writer) (int64, error) {
	return c.stream(ctx, "thumbnail", "/api/memes/"+strconv.FormatInt(id, 10)+"/thumbnail", w)
}

// Preview streams the server-rendered image of an item into w
func (c *Client) Preview(ctx context.Context, id int64, w io.Writer) (int64, error) {
	return c.stream(ctx, "preview", "/api/memes/"+strconv.FormatInt(id, 10)+"/preview", w)
}

func (c *Client) stream(ctx context.Context, op, p string, w io.Writer) (int64, error) {
	resp, err := c.do(ctx, request{op: op, method: http.MethodGet, path: p})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &domain.TransportError{Op: op, Err: err}
	}
	return n, nil
}
