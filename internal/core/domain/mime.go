package domain

import "strings"

// MimeExtension maps a mime type the server can thumbnail to its file extension
type MimeExtension struct {
	MimeType  string `json:"mimeType"`
	Extension string `json:"extension"`
}

// DefaultThumbnailExtensions is used when the server cannot be asked
var DefaultThumbnailExtensions = []string{"jpeg", "png", "gif"}

// ExtensionSet is an immutable set of lowercase extensions
type ExtensionSet struct {
	exts map[string]struct{}
}

// NewExtensionSet builds a set, normalizing case and leading dots
func NewExtensionSet(exts ...string) ExtensionSet {
	m := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			m[e] = struct{}{}
		}
	}
	return ExtensionSet{exts: m}
}

// Contains reports whether ext is in the set
func (s ExtensionSet) Contains(ext string) bool {
	_, ok := s.exts[strings.ToLower(ext)]
	return ok
}

// Len returns the number of extensions
func (s ExtensionSet) Len() int {
	return len(s.exts)
}

// List returns the extensions in no particular order
func (s ExtensionSet) List() []string {
	out := make([]string, 0, len(s.exts))
	for e := range s.exts {
		out = append(out, e)
	}
	return out
}
