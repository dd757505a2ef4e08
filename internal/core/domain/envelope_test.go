package domain

import "testing"

func TestEnvelopeTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		env      ItemPage
		expected int
	}{
		{"exact", ItemPage{TotalCount: 100, PageSize: 20}, 5},
		{"remainder", ItemPage{TotalCount: 101, PageSize: 20}, 6},
		{"empty", ItemPage{TotalCount: 0, PageSize: 20}, 1},
		{"search total unknown", ItemPage{TotalCount: -1, PageSize: 100}, 0},
		{"zero page size", ItemPage{TotalCount: 10, PageSize: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.env.TotalPages(); got != tt.expected {
				t.Errorf("TotalPages() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestEnvelopeDisplayPageClampsServerZero(t *testing.T) {
	env := &ItemPage{}
	if env.DisplayPage() != 1 {
		t.Errorf("expected page 0 to display as 1, got %d", env.DisplayPage())
	}
	if env.HasPrev() {
		t.Error("expected no previous page for page 0")
	}
}

func TestEnvelopeConsistent(t *testing.T) {
	ok := &ItemPage{Data: make([]Item, 2), Count: 2, TotalCount: 12, PageSize: 5, Page: 2, HasNext: true}
	if !ok.Consistent() {
		t.Error("expected envelope to be consistent")
	}

	lying := &ItemPage{Data: make([]Item, 1), Count: 3, TotalCount: 3, PageSize: 5, Page: 1}
	if lying.Consistent() {
		t.Error("expected count mismatch to be reported")
	}
	if lying.Len() != 1 {
		t.Errorf("Len must follow data, got %d", lying.Len())
	}
}

func TestClonePage(t *testing.T) {
	orig := &ItemPage{Data: []Item{{ID: 1, Tags: []string{"#a"}}}, Count: 1, Page: 1, PageSize: 1}
	c := ClonePage(orig)
	c.Data[0].Description = "changed"
	c.Data[0].Tags[0] = "#b"

	if orig.Data[0].Description != "" || orig.Data[0].Tags[0] != "#a" {
		t.Error("ClonePage shares state with the original")
	}
}
