package domain

import (
	"fmt"
	"io"
	"strings"
)

// UploadField names one of the discriminating inputs of the upload form
type UploadField string

const (
	FieldLink  UploadField = "link"
	FieldTitle UploadField = "title"
	FieldFile  UploadField = "file"
)

// UploadForm holds the raw upload inputs. Exactly one of Link, Title or
// FilePath must be filled for the form to be classifiable.
type UploadForm struct {
	Link        string
	Title       string
	FilePath    string
	Description string
}

// Present reports which discriminating fields are filled
func (f UploadForm) Present() []UploadField {
	var present []UploadField
	if strings.TrimSpace(f.Link) != "" {
		present = append(present, FieldLink)
	}
	if strings.TrimSpace(f.Title) != "" {
		present = append(present, FieldTitle)
	}
	if strings.TrimSpace(f.FilePath) != "" {
		present = append(present, FieldFile)
	}
	return present
}

// Classify resolves the item kind from which fields are filled.
// Zero or several filled fields is a usage error wrapping ErrAmbiguousKind.
func Classify(f UploadForm) (Kind, error) {
	present := f.Present()
	if len(present) != 1 {
		names := make([]string, len(present))
		for i, p := range present {
			names[i] = string(p)
		}
		if len(names) == 0 {
			names = append(names, "none")
		}
		return "", fmt.Errorf("%w: filled fields: %s", ErrAmbiguousKind, strings.Join(names, ", "))
	}

	switch present[0] {
	case FieldLink:
		return KindLink, nil
	case FieldTitle:
		return KindNote, nil
	default:
		return KindFile, nil
	}
}

// UploadPayload is the multipart body for one upload.
// Only the field matching Kind is sent.
type UploadPayload struct {
	Kind        Kind
	Description string
	Link        string
	Title       string
	FileName    string
	File        io.Reader
}

// Fields returns the plain form fields of the payload in send order
func (p UploadPayload) Fields() [][2]string {
	fields := [][2]string{{"type", string(p.Kind)}}
	if p.Description != "" {
		fields = append(fields, [2]string{"description", p.Description})
	}
	switch p.Kind {
	case KindLink:
		fields = append(fields, [2]string{"link", p.Link})
	case KindNote:
		fields = append(fields, [2]string{"title", p.Title})
	}
	return fields
}
