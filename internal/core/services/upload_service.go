package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/internal/core/ports"
	"github.com/memendex/mx/pkg/logger"
)

// UploadFormState tracks the upload inputs and which of them are editable.
// Filling one discriminating field disables the other two.
type UploadFormState struct {
	form domain.UploadForm
}

// NewUploadFormState creates an empty form with every field enabled
func NewUploadFormState() *UploadFormState {
	return &UploadFormState{}
}

// Form returns a copy of the current inputs
func (f *UploadFormState) Form() domain.UploadForm {
	return f.form
}

// SetFile selects a file and fills an empty description with its name
func (f *UploadFormState) SetFile(path string) {
	f.form.FilePath = strings.TrimSpace(path)
	f.AutoFillDescription(false)
}

// SetLink sets the bookmark url
func (f *UploadFormState) SetLink(v string) {
	f.form.Link = v
}

// SetTitle sets the note title
func (f *UploadFormState) SetTitle(v string) {
	f.form.Title = v
}

// SetDescription sets the free text description
func (f *UploadFormState) SetDescription(v string) {
	f.form.Description = v
}

// AutoFillDescription copies the selected file's name into the description.
// An existing description is kept unless overwrite is set.
func (f *UploadFormState) AutoFillDescription(overwrite bool) {
	if f.form.FilePath == "" {
		return
	}
	if overwrite || f.form.Description == "" {
		f.form.Description = filepath.Base(f.form.FilePath)
	}
}

// Enabled reports whether field may be edited
func (f *UploadFormState) Enabled(field domain.UploadField) bool {
	for _, p := range f.form.Present() {
		if p != field {
			return false
		}
	}
	return true
}

// Reset clears every input and re-enables all fields
func (f *UploadFormState) Reset() {
	f.form = domain.UploadForm{}
}

// UploadService classifies, validates and sends uploads
type UploadService struct {
	catalog    ports.Catalog
	collection *CollectionService
}

// NewUploadService creates a new upload service.
// collection may be nil when no page is displayed.
func NewUploadService(catalog ports.Catalog, collection *CollectionService) *UploadService {
	return &UploadService{
		catalog:    catalog,
		collection: collection,
	}
}

// Validate checks the field required by kind
func Validate(kind domain.Kind, form domain.UploadForm) error {
	switch kind {
	case domain.KindFile:
		if strings.TrimSpace(form.FilePath) == "" {
			return &domain.ValidationError{Kind: kind, Field: domain.FieldFile, Message: "Please fill the file input"}
		}
		info, err := os.Stat(form.FilePath)
		if err != nil {
			return &domain.ValidationError{Kind: kind, Field: domain.FieldFile, Message: fmt.Sprintf("Cannot read file %s", form.FilePath)}
		}
		if !info.Mode().IsRegular() {
			return &domain.ValidationError{Kind: kind, Field: domain.FieldFile, Message: fmt.Sprintf("%s is not a regular file", form.FilePath)}
		}
		if info.Size() == 0 {
			return &domain.ValidationError{Kind: kind, Field: domain.FieldFile, Message: fmt.Sprintf("%s is empty", form.FilePath)}
		}
	case domain.KindNote:
		if strings.TrimSpace(form.Title) == "" {
			return &domain.ValidationError{Kind: kind, Field: domain.FieldTitle, Message: "Please fill the title input"}
		}
	case domain.KindLink:
		if strings.TrimSpace(form.Link) == "" {
			return &domain.ValidationError{Kind: kind, Field: domain.FieldLink, Message: "Please fill the link input"}
		}
	default:
		return fmt.Errorf("unknown item kind %q", kind)
	}
	return nil
}

// Upload classifies and validates form, then sends it.
// Nothing reaches the network when classification or validation fails.
func (s *UploadService) Upload(ctx context.Context, form domain.UploadForm) (*domain.Item, error) {
	kind, err := domain.Classify(form)
	if err != nil {
		return nil, err
	}
	if err := Validate(kind, form); err != nil {
		return nil, err
	}

	payload := domain.UploadPayload{
		Kind:        kind,
		Description: form.Description,
	}

	switch kind {
	case domain.KindFile:
		file, err := os.Open(form.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", form.FilePath, err)
		}
		defer file.Close()
		payload.File = file
		payload.FileName = filepath.Base(form.FilePath)
	case domain.KindNote:
		payload.Title = strings.TrimSpace(form.Title)
	case domain.KindLink:
		payload.Link = strings.TrimSpace(form.Link)
	}

	item, err := s.catalog.Upload(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", kind, err)
	}

	logger.Info(ctx, "item uploaded", logger.Fields{"id": item.ID, "type": string(item.Kind)})
	return item, nil
}

// Submit uploads the form and, on success, clears it and reloads page 1.
// On failure the form keeps its inputs.
func (s *UploadService) Submit(ctx context.Context, state *UploadFormState) (*domain.Item, error) {
	item, err := s.Upload(ctx, state.Form())
	if err != nil {
		return nil, err
	}

	state.Reset()

	if s.collection != nil {
		if err := s.collection.AfterUpload(ctx); err != nil {
			return item, err
		}
	}
	return item, nil
}
