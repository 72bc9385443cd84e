package catalog

import "strings"

// ResolveImage turns a stored image value into a displayable URL using the
// default placeholder and no base URL.
func ResolveImage(path string) string {
	return resolveImage("", DefaultPlaceholderImage, path)
}

// resolveImage is idempotent: absolute URLs, the placeholder and paths that
// already carry the base prefix come back unchanged.
func resolveImage(base, placeholder, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == placeholder {
		return placeholder
	}
	if isAbsoluteURL(path) {
		return path
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	rel := strings.TrimLeft(path, "/")
	if b := strings.TrimLeft(base, "/"); b != "" && !isAbsoluteURL(base) {
		rel = strings.TrimPrefix(rel, b+"/")
	}
	return base + "/" + rel
}

func isAbsoluteURL(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
