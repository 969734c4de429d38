package matcher

import (
	"strings"

	"github.com/desertthunder/vgx/internal/models"
)

// Filter decides whether a candidate's genre tags disqualify it as a match.
//
// The denylist rejects coincidental hits (a holiday pop track sharing a title
// with a game theme); the allowlist overrides the denylist so legitimate
// VGM-adjacent genres survive partial overlaps with deny tokens.
type Filter struct {
	Allow []string
	Deny  []string
}

// NewFilter creates a Filter with the given allow and deny vocabularies.
func NewFilter(allow, deny []string) *Filter {
	return &Filter{Allow: allow, Deny: deny}
}

// Acceptable reports whether the candidate passes the genre filter. When it
// does not, the second return value names the denylist token that rejected it.
//
// Candidates without genre metadata are accepted: absence of data must not
// become a false rejection.
func (f *Filter) Acceptable(c models.Candidate) (bool, string) {
	if f == nil || len(c.Genres) == 0 {
		return true, ""
	}

	for _, genre := range c.Genres {
		if matchesAny(genre, f.Allow) {
			return true, ""
		}
	}

	for _, genre := range c.Genres {
		if token := matchingToken(genre, f.Deny); token != "" {
			return false, token
		}
	}

	return true, ""
}

// matchesAny reports whether the genre matches any vocabulary token,
// case-insensitively and substring-aware in both directions.
func matchesAny(genre string, vocabulary []string) bool {
	return matchingToken(genre, vocabulary) != ""
}

// matchingToken returns the first vocabulary token matching the genre, or "".
func matchingToken(genre string, vocabulary []string) string {
	g := strings.ToLower(strings.TrimSpace(genre))
	if g == "" {
		return ""
	}
	for _, token := range vocabulary {
		t := strings.ToLower(strings.TrimSpace(token))
		if t == "" {
			continue
		}
		if strings.Contains(g, t) || strings.Contains(t, g) {
			return token
		}
	}
	return ""
}
