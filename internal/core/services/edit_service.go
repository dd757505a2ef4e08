package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/internal/core/ports"
	"github.com/memendex/mx/pkg/logger"
)

// ErrNothingToEdit is returned when neither description nor tags changed
var ErrNothingToEdit = errors.New("nothing changed")

// EditService sends partial updates and reconciles the displayed page
type EditService struct {
	catalog    ports.Catalog
	collection *CollectionService
}

// NewEditService creates a new edit service.
// collection may be nil for one-shot commands that display nothing.
func NewEditService(catalog ports.Catalog, collection *CollectionService) *EditService {
	return &EditService{
		catalog:    catalog,
		collection: collection,
	}
}

// BuildPatch compares the edited values against current and keeps only what changed
func BuildPatch(current domain.Item, description string, tags []string) domain.EditPatch {
	patch := domain.EditPatch{ID: current.ID}
	if description != current.Description {
		patch.SetDescription(description)
	}
	if !domain.TagsEqual(current.Tags, tags) {
		patch.SetTags(tags)
	}
	return patch
}

// Submit sends the changes and replaces the item in the displayed page.
// The bool reports whether the item was on the page.
func (s *EditService) Submit(ctx context.Context, current domain.Item, description string, tags []string) (*domain.Item, bool, error) {
	patch := BuildPatch(current, description, tags)
	if patch.Empty() {
		return nil, false, ErrNothingToEdit
	}

	updated, err := s.catalog.Edit(ctx, patch)
	if err != nil {
		return nil, false, fmt.Errorf("failed to edit item %d: %w", current.ID, err)
	}

	onPage := false
	if s.collection != nil {
		onPage = s.collection.ApplyEdit(*updated)
	}

	logger.Info(ctx, "item edited", logger.Fields{
		"id":          updated.ID,
		"description": patch.Description != nil,
		"tags":        patch.HasTags,
		"on_page":     onPage,
	})
	return updated, onPage, nil
}
