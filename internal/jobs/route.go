package jobs

import "strings"

// ParseRoute extracts the generation ID and action from a URL path like
// /api/generations/{id}/{action}. apiPrefix should be like "/api/generations/",
// idPrefix like "gen-". A bare ID is normalized to carry the prefix; a path
// without an action yields an empty action.
func ParseRoute(path, apiPrefix, idPrefix string) (id, action string, ok bool) {
	rest, found := strings.CutPrefix(path, apiPrefix)
	if !found || rest == "" {
		return "", "", false
	}
	id, action, _ = strings.Cut(rest, "/")
	if id == "" {
		return "", "", false
	}
	if !strings.HasPrefix(id, idPrefix) {
		id = idPrefix + id
	}
	return id, action, true
}
