package domain

import "encoding/json"

// EditPatch is a partial update of an item. Only changed fields are sent.
type EditPatch struct {
	ID          int64
	Description *string
	Tags        []string
	HasTags     bool
}

// SetDescription marks the description as changed
func (p *EditPatch) SetDescription(description string) {
	p.Description = &description
}

// SetTags marks the tag sequence as changed
func (p *EditPatch) SetTags(tags []string) {
	p.Tags = append([]string{}, tags...)
	p.HasTags = true
}

// Empty reports whether the patch carries nothing but the id
func (p EditPatch) Empty() bool {
	return p.Description == nil && !p.HasTags
}

// MarshalJSON omits absent fields. An empty description or tag list is
// still sent when it was set explicitly.
func (p EditPatch) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID          int64     `json:"id"`
		Description *string   `json:"description,omitempty"`
		Tags        *[]string `json:"tags,omitempty"`
	}
	w := wire{ID: p.ID, Description: p.Description}
	if p.HasTags {
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		w.Tags = &tags
	}
	return json.Marshal(w)
}
