package domain

import (
	"encoding/json"
	"testing"
)

func TestEditPatchMarshalOmitsAbsentFields(t *testing.T) {
	p := EditPatch{ID: 7}
	p.SetDescription("b")

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(data) != `{"id":7,"description":"b"}` {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestEditPatchMarshalKeepsExplicitEmptyValues(t *testing.T) {
	p := EditPatch{ID: 3}
	p.SetDescription("")
	p.SetTags(nil)

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(data) != `{"id":3,"description":"","tags":[]}` {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestEditPatchEmpty(t *testing.T) {
	p := EditPatch{ID: 1}
	if !p.Empty() {
		t.Error("expected patch with only an id to be empty")
	}
	p.SetTags([]string{"#a"})
	if p.Empty() {
		t.Error("expected patch with tags not to be empty")
	}
}
