package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/internal/core/ports"
)

// TagService provides tag completion for the editors
type TagService struct {
	catalog ports.Catalog
	group   singleflight.Group
}

// NewTagService creates a new tag service
func NewTagService(catalog ports.Catalog) *TagService {
	return &TagService{catalog: catalog}
}

// Suggest returns tags matching q, most used first, minus those in current.
// Identical queries issued while one is in flight share its result.
func (s *TagService) Suggest(ctx context.Context, q string, current []string) ([]domain.TagUsage, error) {
	q = strings.TrimPrefix(strings.TrimSpace(q), "#")

	v, err, _ := s.group.Do(q, func() (interface{}, error) {
		return s.catalog.TagSuggestions(ctx, q)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tag suggestions: %w", err)
	}

	all := v.([]domain.TagUsage)
	out := make([]domain.TagUsage, 0, len(all))
	for _, usage := range all {
		if containsTag(current, usage.Tag) {
			continue
		}
		out = append(out, usage)
	}
	return out, nil
}

func containsTag(tags []string, tag string) bool {
	tag = domain.NormalizeTag(tag)
	for _, t := range tags {
		if strings.EqualFold(domain.NormalizeTag(t), tag) {
			return true
		}
	}
	return false
}
