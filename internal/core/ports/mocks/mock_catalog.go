package mocks

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/memendex/mx/internal/core/domain"
)

// ListCall records the arguments of a List call
type ListCall struct {
	Page     int
	PageSize int
}

// MockCatalog is an in-memory implementation of the Catalog port for testing.
// Items are kept in id order; List paginates them like the real server.
type MockCatalog struct {
	mu     sync.RWMutex
	items  []domain.Item
	nextID int64

	// Optional overrides, consulted before the in-memory behaviour
	ListErr       error
	SearchErr     error
	UploadErr     error
	EditErr       error
	ExtensionsErr error
	Extensions    []string
	SearchResult  *domain.ItemPage
	Suggestions   []domain.TagUsage

	// Recorded calls
	ListCalls       []ListCall
	SearchCalls     []string
	Uploads         []domain.UploadPayload
	UploadBodies    []string
	Edits           []domain.EditPatch
	SuggestionCalls []string
	ExtensionCalls  int
}

// NewMockCatalog creates a new mock catalog
func NewMockCatalog() *MockCatalog {
	return &MockCatalog{nextID: 1}
}

// Add seeds an item, assigning an id when it has none
func (m *MockCatalog) Add(item domain.Item) domain.Item {
	m.mu.Lock()
	defer m.mu.Unlock()

	if item.ID == 0 {
		item.ID = m.nextID
	}
	if item.ID >= m.nextID {
		m.nextID = item.ID + 1
	}
	m.items = append(m.items, item.Clone())
	sort.Slice(m.items, func(i, j int) bool { return m.items[i].ID < m.items[j].ID })
	return item
}

// Seed adds n file items named item-1..item-n
func (m *MockCatalog) Seed(n int) {
	for i := 1; i <= n; i++ {
		m.Add(domain.Item{
			Kind:        domain.KindFile,
			FileName:    fmt.Sprintf("item-%d.png", i),
			Extension:   "png",
			Description: fmt.Sprintf("item %d", i),
			Tags:        []string{"#seed"},
		})
	}
}

// List returns one page of the stored items
func (m *MockCatalog) List(ctx context.Context, page, pageSize int) (*domain.ItemPage, error) {
	m.mu.Lock()
	m.ListCalls = append(m.ListCalls, ListCall{Page: page, PageSize: pageSize})
	m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	start := (page - 1) * pageSize
	if start > len(m.items) {
		start = len(m.items)
	}
	end := start + pageSize
	if end > len(m.items) {
		end = len(m.items)
	}

	data := make([]domain.Item, 0, end-start)
	for _, item := range m.items[start:end] {
		data = append(data, item.Clone())
	}

	return &domain.ItemPage{
		Data:       data,
		Count:      len(data),
		TotalCount: len(m.items),
		PageSize:   pageSize,
		Page:       page,
		HasNext:    page*pageSize < len(m.items),
	}, nil
}

// Search matches the query against descriptions, file names and tags
func (m *MockCatalog) Search(ctx context.Context, query string) (*domain.ItemPage, error) {
	m.mu.Lock()
	m.SearchCalls = append(m.SearchCalls, query)
	m.mu.Unlock()

	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if m.SearchResult != nil {
		return domain.ClonePage(m.SearchResult), nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	q := strings.ToLower(query)
	data := []domain.Item{}
	for _, item := range m.items {
		haystack := strings.ToLower(item.Description + " " + item.FileName + " " + strings.Join(item.Tags, " "))
		if strings.Contains(haystack, q) {
			data = append(data, item.Clone())
		}
	}

	return &domain.ItemPage{
		Data:       data,
		Count:      len(data),
		TotalCount: -1,
		PageSize:   100,
		Page:       1,
	}, nil
}

// Upload stores a new item built from the payload
func (m *MockCatalog) Upload(ctx context.Context, payload domain.UploadPayload) (*domain.Item, error) {
	var body string
	if payload.File != nil {
		data, err := io.ReadAll(payload.File)
		if err != nil {
			return nil, err
		}
		body = string(data)
	}

	m.mu.Lock()
	m.Uploads = append(m.Uploads, payload)
	m.UploadBodies = append(m.UploadBodies, body)
	m.mu.Unlock()

	if m.UploadErr != nil {
		return nil, m.UploadErr
	}

	item := domain.Item{Kind: payload.Kind, Description: payload.Description, Tags: []string{}}
	switch payload.Kind {
	case domain.KindFile:
		item.FileName = payload.FileName
		if idx := strings.LastIndexByte(payload.FileName, '.'); idx >= 0 {
			item.Extension = strings.ToLower(payload.FileName[idx+1:])
		}
	case domain.KindLink:
		item.FileName = payload.Link
	case domain.KindNote:
		item.FileName = payload.Title
	}

	created := m.Add(item)
	return &created, nil
}

// Edit applies the patch to the stored item
func (m *MockCatalog) Edit(ctx context.Context, patch domain.EditPatch) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Edits = append(m.Edits, patch)
	if m.EditErr != nil {
		return nil, m.EditErr
	}

	for i := range m.items {
		if m.items[i].ID != patch.ID {
			continue
		}
		if patch.Description != nil {
			m.items[i].Description = *patch.Description
		}
		if patch.HasTags {
			m.items[i].Tags = append([]string{}, patch.Tags...)
		}
		updated := m.items[i].Clone()
		return &updated, nil
	}
	return nil, &domain.RemoteRejection{Op: "edit", Status: 404, Body: "no such meme"}
}

// Get retrieves a stored item by id
func (m *MockCatalog) Get(ctx context.Context, id int64) (*domain.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, item := range m.items {
		if item.ID == id {
			c := item.Clone()
			return &c, nil
		}
	}
	return nil, &domain.RemoteRejection{Op: "get", Status: 404, Body: "no such meme"}
}

// TagSuggestions returns the configured suggestions
func (m *MockCatalog) TagSuggestions(ctx context.Context, q string) ([]domain.TagUsage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SuggestionCalls = append(m.SuggestionCalls, q)
	out := make([]domain.TagUsage, len(m.Suggestions))
	copy(out, m.Suggestions)
	return out, nil
}

// KnownExtensions returns the configured extensions
func (m *MockCatalog) KnownExtensions(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ExtensionCalls++
	if m.ExtensionsErr != nil {
		return nil, m.ExtensionsErr
	}
	return append([]string{}, m.Extensions...), nil
}

// ListCallCount returns how many List calls were made
func (m *MockCatalog) ListCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ListCalls)
}

// LastListCall returns the most recent List arguments
func (m *MockCatalog) LastListCall() (ListCall, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.ListCalls) == 0 {
		return ListCall{}, false
	}
	return m.ListCalls[len(m.ListCalls)-1], true
}
