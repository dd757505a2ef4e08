package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/internal/core/ports"
	"github.com/memendex/mx/pkg/logger"
)

// CollectionService owns the page of items currently on display and
// reconciles it with the remote catalog.
//
// Every trigger replaces the whole envelope, except ApplyEdit which patches a
// single item in place. Overlapping requests are not sequenced: whichever
// response arrives last is the one displayed.
type CollectionService struct {
	catalog  ports.Catalog
	pageSize int

	mu       sync.RWMutex
	envelope *domain.ItemPage
	query    string
	loaded   bool
}

// NewCollectionService creates a collection bound to catalog.
// pageSize is the default used for list requests.
func NewCollectionService(catalog ports.Catalog, pageSize int) *CollectionService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &CollectionService{
		catalog:  catalog,
		pageSize: pageSize,
		envelope: domain.NewItemPage(pageSize),
	}
}

// PageSize returns the default page size used for list requests
func (s *CollectionService) PageSize() int {
	return s.pageSize
}

// Load fetches page 1 of the unfiltered list and replaces the envelope
func (s *CollectionService) Load(ctx context.Context) error {
	return s.fetchPage(ctx, 1, "load")
}

// GoToPage fetches page n of the unfiltered list.
// The server decides whether n is in range.
func (s *CollectionService) GoToPage(ctx context.Context, n int) error {
	if n < 1 {
		return fmt.Errorf("page %d: %w", n, domain.ErrInvalidPage)
	}
	return s.fetchPage(ctx, n, "page")
}

// NextPage moves forward when the server reported another page
func (s *CollectionService) NextPage(ctx context.Context) (bool, error) {
	s.mu.RLock()
	hasNext, page, searching := s.envelope.HasNext, s.envelope.DisplayPage(), s.query != ""
	s.mu.RUnlock()

	if !hasNext || searching {
		return false, nil
	}
	return true, s.GoToPage(ctx, page+1)
}

// PrevPage moves back unless already on page 1
func (s *CollectionService) PrevPage(ctx context.Context) (bool, error) {
	s.mu.RLock()
	page, searching := s.envelope.Page, s.query != ""
	s.mu.RUnlock()

	if page <= 1 || searching {
		return false, nil
	}
	return true, s.GoToPage(ctx, page-1)
}

// Search replaces the envelope with the server's results for query.
// Queries shorter than domain.MinQueryLength are never sent.
func (s *CollectionService) Search(ctx context.Context, query string) error {
	if len([]rune(query)) < domain.MinQueryLength {
		return fmt.Errorf("%q: %w (minimum %d characters)", query, domain.ErrQueryTooShort, domain.MinQueryLength)
	}

	env, err := s.catalog.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to search for %q: %w", query, err)
	}

	s.replace(ctx, env, query, "search")
	return nil
}

// ResetSearch discards the search context and reloads page 1
func (s *CollectionService) ResetSearch(ctx context.Context) error {
	return s.fetchPage(ctx, 1, "reset")
}

// AfterUpload reloads page 1 instead of splicing the new item locally,
// so the server's ordering and filtering stay authoritative.
func (s *CollectionService) AfterUpload(ctx context.Context) error {
	return s.fetchPage(ctx, 1, "upload")
}

// ApplyEdit replaces the displayed item whose id matches updated.
// It reports false when the item is not on the current page; the edit is then
// dropped from the view since the server already holds it.
func (s *CollectionService) ApplyEdit(updated domain.Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.envelope.Data {
		if s.envelope.Data[i].ID == updated.ID {
			s.envelope.Data[i] = updated.Clone()
			return true
		}
	}
	return false
}

func (s *CollectionService) fetchPage(ctx context.Context, page int, trigger string) error {
	env, err := s.catalog.List(ctx, page, s.pageSize)
	if err != nil {
		return fmt.Errorf("failed to load page %d: %w", page, err)
	}
	s.replace(ctx, env, "", trigger)
	return nil
}

func (s *CollectionService) replace(ctx context.Context, env *domain.ItemPage, query, trigger string) {
	if env == nil {
		env = domain.NewItemPage(s.pageSize)
	}
	if env.Data == nil {
		env.Data = []domain.Item{}
	}

	fields := logger.Fields{
		"trigger":  trigger,
		"page":     env.Page,
		"count":    len(env.Data),
		"has_next": env.HasNext,
	}
	if query != "" {
		fields["query"] = query
	}
	if !env.Consistent() {
		logger.Warn(ctx, "server envelope violates pagination contract", fields)
	} else {
		logger.Debug(ctx, "collection replaced", fields)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.envelope = domain.ClonePage(env)
	s.query = query
	s.loaded = true
}

// Envelope returns a copy of the displayed page
func (s *CollectionService) Envelope() *domain.ItemPage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ClonePage(s.envelope)
}

// Items returns a copy of the displayed items
func (s *CollectionService) Items() []domain.Item {
	return s.Envelope().Data
}

// Find returns the displayed item with id
func (s *CollectionService) Find(id int64) (domain.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.envelope.Data {
		if item.ID == id {
			return item.Clone(), true
		}
	}
	return domain.Item{}, false
}

// Query returns the active search query, empty when browsing the plain list
func (s *CollectionService) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// HasNext reports whether the server announced a following page
func (s *CollectionService) HasNext() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.envelope.HasNext && s.query == ""
}

// HasPrev reports whether a previous page can be requested
func (s *CollectionService) HasPrev() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.envelope.HasPrev() && s.query == ""
}

// Loaded reports whether any envelope has been received yet
func (s *CollectionService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// IsSearchReset reports whether a key press on the search input clears the
// last remaining character, which resets the search.
func IsSearchReset(valueBefore string, key string) bool {
	return key == "backspace" && len([]rune(valueBefore)) == 1
}
