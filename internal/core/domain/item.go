package domain

import (
	"fmt"
	"strings"
)

// Kind is the fixed category of an item
type Kind string

const (
	KindFile Kind = "file"
	KindLink Kind = "link"
	KindNote Kind = "note"
)

// Icon extensions used for non-file kinds. Presentation only, never sent to the server.
const (
	LinkIconExtension = "lnk"
	NoteIconExtension = "md"
)

// ParseKind converts a raw string into a Kind
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindFile:
		return KindFile, nil
	case KindLink:
		return KindLink, nil
	case KindNote:
		return KindNote, nil
	}
	return "", fmt.Errorf("unknown item kind %q", s)
}

// Item represents a catalogued file, link or note.
// ID and Kind are assigned by the server and never change.
type Item struct {
	ID          int64    `json:"id"`
	Kind        Kind     `json:"type"`
	FileName    string   `json:"fileName"`
	Extension   string   `json:"extension"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Clone returns a copy that shares no slices with the receiver
func (i Item) Clone() Item {
	c := i
	if i.Tags != nil {
		c.Tags = append([]string(nil), i.Tags...)
	}
	return c
}

// IconExtension returns the extension used to pick a thumbnail or icon.
// Links map to "lnk" and notes to "md"; files use their own extension.
func IconExtension(item Item) string {
	switch item.Kind {
	case KindLink:
		return LinkIconExtension
	case KindNote:
		return NoteIconExtension
	default:
		return strings.ToLower(item.Extension)
	}
}

// Title returns a single-line label for the item
func (i Item) Title() string {
	line := strings.TrimSpace(i.Description)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	if line == "" {
		line = i.FileName
	}
	if line == "" {
		line = fmt.Sprintf("#%d", i.ID)
	}
	return line
}

// GetTagsString returns tags as a space-separated string
func (i Item) GetTagsString() string {
	if len(i.Tags) == 0 {
		return "-"
	}
	return strings.Join(i.Tags, " ")
}

// HasTag checks if the item carries a specific tag
func (i Item) HasTag(tag string) bool {
	tag = NormalizeTag(tag)
	for _, t := range i.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
