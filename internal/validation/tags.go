package validation

import (
	"strings"
	"unicode"
)

// NormalizeTag normalizes a single tag for storage and comparison
func NormalizeTag(tag string) string {
	// Convert to lowercase
	tag = strings.ToLower(tag)

	// Drop a leading hash so "#go" and "go" are the same tag
	tag = strings.TrimLeft(tag, "#")

	// Remove control characters
	var result strings.Builder
	for _, r := range tag {
		if !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}

	// Trim spaces and normalize internal spaces
	return strings.Join(strings.Fields(result.String()), " ")
}

// NormalizeTags normalizes every tag, dropping empties and duplicates while keeping
// the first occurrence order. A nil slice stays nil so "no tags" survives.
func NormalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}

	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized := NormalizeTag(tag)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		result = append(result, normalized)
	}
	return result
}
