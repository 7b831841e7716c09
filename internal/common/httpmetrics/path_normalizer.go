package httpmetrics

import (
	"regexp"
	"strings"
)

var uuidPattern = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// NormalizePath collapses resource identifiers so metric label
// cardinality stays bounded: /api/customers/<uuid> and /api/customers/7
// both become /api/customers/{id}.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}

	parts := strings.Split(uuidPattern.ReplaceAllString(path, "{id}"), "/")
	for i, part := range parts {
		if isNumeric(part) {
			parts[i] = "{id}"
		}
	}

	if result := strings.Join(parts, "/"); result != "" {
		return result
	}
	return "/"
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
