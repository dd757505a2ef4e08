package domain

import "strings"

// TagUsage is a tag together with the number of items carrying it
type TagUsage struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// NormalizeTag trims whitespace and ensures the leading '#'
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}
	return tag
}

// ParseTags splits a comma or whitespace separated list into normalized tags.
// Order is kept and duplicates are not removed.
func ParseTags(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := NormalizeTag(f); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// TagsEqual reports whether two tag sequences have the same length and
// identical elements at every index. Order matters.
func TagsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// RemoveTag drops the first occurrence of tag (case-insensitive)
func RemoveTag(tags []string, tag string) []string {
	tag = NormalizeTag(tag)
	out := make([]string, 0, len(tags))
	removed := false
	for _, t := range tags {
		if !removed && strings.EqualFold(t, tag) {
			removed = true
			continue
		}
		out = append(out, t)
	}
	return out
}
