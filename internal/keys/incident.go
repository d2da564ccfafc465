package keys

import (
	"fmt"
	"net/url"
	"strings"

	"incidentmap/internal/models"
)

// sanitizeKey lowercases s and replaces characters that are awkward in object
// keys with hyphens.
func sanitizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '-'
		}
	}, s)
}

// Incident returns the canonical object key for a stored Incident. URL ids
// are reduced to host and path so the same page always maps to one key.
func Incident(i models.Incident) string {
	id := i.ID
	if u, err := url.Parse(id); err == nil && u.Host != "" {
		id = u.Host + strings.TrimSuffix(u.Path, "/")
		if u.RawQuery != "" {
			id += "-" + u.RawQuery
		}
	}
	return fmt.Sprintf("incidents/%s/%s.json", sanitizeKey(i.Source), sanitizeKey(id))
}
