package services

import (
	"context"
	"testing"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/internal/core/ports/mocks"
)

func TestTagService_Suggest(t *testing.T) {
	catalog := mocks.NewMockCatalog()
	catalog.Suggestions = []domain.TagUsage{
		{Tag: "#cat", Count: 12},
		{Tag: "#cats", Count: 4},
		{Tag: "#catalog", Count: 1},
	}
	svc := NewTagService(catalog)

	tests := []struct {
		name     string
		current  []string
		expected []string
	}{
		{"no tags yet", nil, []string{"#cat", "#cats", "#catalog"}},
		{"already tagged", []string{"#cats"}, []string{"#cat", "#catalog"}},
		{"case and prefix insensitive", []string{"CAT"}, []string{"#cats", "#catalog"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Suggest(context.Background(), "#cat", tt.current)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d suggestions, got %d: %v", len(tt.expected), len(got), got)
			}
			for i, usage := range got {
				if usage.Tag != tt.expected[i] {
					t.Errorf("Suggestion %d: expected %s, got %s", i, tt.expected[i], usage.Tag)
				}
			}
		})
	}

	if catalog.SuggestionCalls[0] != "cat" {
		t.Errorf("Expected query without '#', got %q", catalog.SuggestionCalls[0])
	}
}
