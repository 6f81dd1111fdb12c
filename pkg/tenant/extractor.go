package tenant

import "strings"

// Decoration patterns recognized on tenant slugs. Preview and staging
// deployments prefix or suffix the production slug so that they can reuse
// production tenant configuration without duplicating it.
var (
	decorationPrefixes = []string{"preview-", "test-", "mock-"}
	decorationSuffixes = []string{"-preview", "-test", "-mock"}
)

// reservedSegments are first path segments that can never be tenant slugs
// because they belong to the application's own routing surface.
var reservedSegments = map[string]struct{}{
	"login":       {},
	"register":    {},
	"dashboard":   {},
	"api":         {},
	"static":      {},
	"assets":      {},
	"health":      {},
	"favicon.ico": {},
}

// ExtractSlug parses a URL path and returns the canonical tenant slug from
// its first segment, or "" when the segment is absent, reserved, or not a
// valid slug. It is a pure function with no side effects.
func ExtractSlug(path string) string {
	seg := firstSegment(path)
	if seg == "" {
		return ""
	}

	seg = strings.ToLower(seg)
	if _, reserved := reservedSegments[seg]; reserved {
		return ""
	}

	slug := CleanSlug(seg)
	if !ValidSlug(slug) {
		return ""
	}
	return slug
}

// CleanSlug lowercases a candidate slug and strips recognized decoration
// prefixes and suffixes until none remain, recovering the canonical slug.
// Cleaning an already-clean slug returns it unchanged.
func CleanSlug(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for {
		before := slug
		for _, p := range decorationPrefixes {
			if strings.HasPrefix(slug, p) && len(slug) > len(p) {
				slug = slug[len(p):]
			}
		}
		for _, s := range decorationSuffixes {
			if strings.HasSuffix(slug, s) && len(slug) > len(s) {
				slug = slug[:len(slug)-len(s)]
			}
		}
		if slug == before {
			return slug
		}
	}
}

// ValidSlug reports whether the slug consists of lowercase alphanumerics
// and hyphens only, and is non-empty.
func ValidSlug(slug string) bool {
	if slug == "" {
		return false
	}
	for i := 0; i < len(slug); i++ {
		c := slug[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}

// IsReservedSegment reports whether the given path segment belongs to the
// application's own routing surface rather than a tenant.
func IsReservedSegment(seg string) bool {
	_, ok := reservedSegments[strings.ToLower(seg)]
	return ok
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if idx := strings.IndexByte(path, '/'); idx >= 0 {
		path = path[:idx]
	}
	return path
}
