package jobs

import (
	"strings"

	"github.com/google/uuid"
)

// Generation ID prefixes.
const (
	GenerationPrefix = "gen-"
	LambdaPrefix     = "lgen-"
)

// NewID creates a random generation ID with the given prefix.
// The prefix should include a trailing dash, e.g. "gen-".
func NewID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Valid reports whether id has the prefix followed by a UUID.
func Valid(id, prefix string) bool {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}
