package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/internal/core/ports/mocks"
)

func TestFetchAllItems(t *testing.T) {
	catalog := mocks.NewMockCatalog()
	catalog.Seed(23)

	items, err := fetchAllItems(context.Background(), catalog, 5)
	if err != nil {
		t.Fatalf("fetchAllItems() failed: %v", err)
	}
	if len(items) != 23 {
		t.Fatalf("Expected 23 items, got %d", len(items))
	}
	for i, item := range items {
		if item.ID != int64(i+1) {
			t.Fatalf("Expected items in page order, got id %d at %d", item.ID, i)
		}
	}
	if catalog.ListCallCount() != 5 {
		t.Errorf("Expected 5 list requests, got %d", catalog.ListCallCount())
	}
}

func TestFetchAllItemsSinglePage(t *testing.T) {
	catalog := mocks.NewMockCatalog()
	catalog.Seed(3)

	items, err := fetchAllItems(context.Background(), catalog, 10)
	if err != nil {
		t.Fatalf("fetchAllItems() failed: %v", err)
	}
	if len(items) != 3 || catalog.ListCallCount() != 1 {
		t.Errorf("Expected 3 items from 1 request, got %d from %d", len(items), catalog.ListCallCount())
	}
}

func TestFetchAllItemsError(t *testing.T) {
	catalog := mocks.NewMockCatalog()
	catalog.ListErr = errors.New("offline")

	if _, err := fetchAllItems(context.Background(), catalog, 10); err == nil {
		t.Error("Expected an error")
	}
}

func TestCollectStats(t *testing.T) {
	items := []domain.Item{
		{ID: 1, Kind: domain.KindFile, Extension: "PNG", Description: "a", Tags: []string{"#cat"}},
		{ID: 2, Kind: domain.KindFile, Extension: "png", Tags: []string{"#cat", "#dog"}},
		{ID: 3, Kind: domain.KindFile, Extension: "gif", Description: "c"},
		{ID: 4, Kind: domain.KindLink, FileName: "https://x.test", Description: "d"},
		{ID: 5, Kind: domain.KindNote, FileName: "todo", Description: "e", Tags: []string{"#dog"}},
	}

	stats := collectStats(items)

	if stats.Total != 5 {
		t.Errorf("Expected total 5, got %d", stats.Total)
	}
	if stats.Kinds[domain.KindFile] != 3 || stats.Kinds[domain.KindLink] != 1 || stats.Kinds[domain.KindNote] != 1 {
		t.Errorf("Unexpected kind counts %v", stats.Kinds)
	}
	if stats.Extensions["png"] != 2 || stats.Extensions["gif"] != 1 {
		t.Errorf("Unexpected extension counts %v", stats.Extensions)
	}
	if stats.Untagged != 2 {
		t.Errorf("Expected 2 untagged, got %d", stats.Untagged)
	}
	if stats.NoDesc != 1 {
		t.Errorf("Expected 1 without description, got %d", stats.NoDesc)
	}
	if stats.Tags["#cat"] != 2 || stats.Tags["#dog"] != 2 {
		t.Errorf("Unexpected tag counts %v", stats.Tags)
	}
}

func TestTopCounts(t *testing.T) {
	counts := map[string]int{"b": 3, "a": 3, "c": 5, "d": 1}

	top := topCounts(counts, 3)
	want := []string{"c", "a", "b"}
	if len(top) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(top))
	}
	for i, name := range want {
		if top[i].Name != name {
			t.Errorf("Expected %s at %d, got %s", name, i, top[i].Name)
		}
	}
}
