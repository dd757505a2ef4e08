package domain

import (
	"encoding/json"
	"testing"
)

func TestIconExtension(t *testing.T) {
	tests := []struct {
		item     Item
		expected string
	}{
		{Item{Kind: KindFile, Extension: "png"}, "png"},
		{Item{Kind: KindFile, Extension: "PDF"}, "pdf"},
		{Item{Kind: KindLink, Extension: "html"}, "lnk"},
		{Item{Kind: KindNote, Extension: "txt"}, "md"},
	}

	for _, tt := range tests {
		got := IconExtension(tt.item)
		if got != tt.expected {
			t.Errorf("IconExtension(%+v) = %q, want %q", tt.item, got, tt.expected)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, raw := range []string{"file", "LINK", " note "} {
		if _, err := ParseKind(raw); err != nil {
			t.Errorf("ParseKind(%q) unexpected error: %v", raw, err)
		}
	}
	if _, err := ParseKind("image"); err == nil {
		t.Error("ParseKind(\"image\") expected error")
	}
}

func TestItemDecodesServerJSON(t *testing.T) {
	raw := `{"id":7,"type":"note","fileName":"todo.md","description":"a","extension":"md","tags":["#x","#y"]}`

	var item Item
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if item.ID != 7 || item.Kind != KindNote || item.FileName != "todo.md" {
		t.Errorf("unexpected item: %+v", item)
	}
	if !TagsEqual(item.Tags, []string{"#x", "#y"}) {
		t.Errorf("tags not preserved in order: %v", item.Tags)
	}
}

func TestItemTitle(t *testing.T) {
	tests := []struct {
		item     Item
		expected string
	}{
		{Item{ID: 1, Description: "first line\nsecond"}, "first line"},
		{Item{ID: 2, FileName: "cat.png"}, "cat.png"},
		{Item{ID: 3}, "#3"},
	}

	for _, tt := range tests {
		if got := tt.item.Title(); got != tt.expected {
			t.Errorf("Title() = %q, want %q", got, tt.expected)
		}
	}
}

func TestItemClone(t *testing.T) {
	orig := Item{ID: 1, Tags: []string{"#a"}}
	c := orig.Clone()
	c.Tags[0] = "#b"

	if orig.Tags[0] != "#a" {
		t.Error("Clone shares the tag slice with the original")
	}
}

func TestItemHasTag(t *testing.T) {
	item := Item{Tags: []string{"#Cats", "#dogs"}}

	if !item.HasTag("cats") {
		t.Error("expected HasTag to match without '#' and ignoring case")
	}
	if item.HasTag("#birds") {
		t.Error("unexpected tag match")
	}
}
