package ports

import (
	"context"
	"io"

	"github.com/memendex/mx/internal/core/domain"
)

// Catalog defines the port for the remote meme catalog.
// Every call issues a single request and is never retried.
type Catalog interface {
	// List returns one page of the unfiltered catalog
	List(ctx context.Context, page, pageSize int) (*domain.ItemPage, error)

	// Search returns the server's page of results for query.
	// No pagination parameters are sent.
	Search(ctx context.Context, query string) (*domain.ItemPage, error)

	// Upload creates a new item
	Upload(ctx context.Context, payload domain.UploadPayload) (*domain.Item, error)

	// Edit applies a partial update and returns the full updated item
	Edit(ctx context.Context, patch domain.EditPatch) (*domain.Item, error)

	// Get retrieves a single item by id
	Get(ctx context.Context, id int64) (*domain.Item, error)

	// TagSuggestions returns tag usage counts matching q (top tags when q is empty)
	TagSuggestions(ctx context.Context, q string) ([]domain.TagUsage, error)

	// KnownExtensions returns the extensions the server can thumbnail
	KnownExtensions(ctx context.Context) ([]string, error)
}

// Downloader defines the port for fetching item content
type Downloader interface {
	// Download streams the original content of an item into w
	Download(ctx context.Context, id int64, w io.Writer) (int64, error)

	// Thumbnail streams the server-rendered thumbnail of an item into w
	Thumbnail(ctx context.Context, id int64, w io.Writer) (int64, error)

	// Preview streams the full-size rendered image of an item into w.
	// The server rejects extensions it cannot render.
	Preview(ctx context.Context, id int64, w io.Writer) (int64, error)
}
