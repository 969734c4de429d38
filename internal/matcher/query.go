package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/vgx/internal/models"
)

var (
	parentheticalRe = regexp.MustCompile(`\(.*?\)`)
	bracketedRe     = regexp.MustCompile(`\[.*?\]`)
	dashSuffixRe    = regexp.MustCompile(`\s*-\s*.*$`)
)

// noiseTokens are dropped from cleaned variants. Titles that genuinely
// contain them still match through the literal fallback variant.
var noiseTokens = map[string]struct{}{
	"ost":        {},
	"soundtrack": {},
}

// BuildVariants derives the ordered search queries for a descriptor, most
// specific first. The result is deterministic, deduplicated, contains no
// empty strings, and always includes the literal title as a final fallback.
func BuildVariants(d models.Descriptor) []string {
	var variants []string

	if d.Artist != "" {
		variants = append(variants, fmt.Sprintf("track:%q artist:%q", d.Title, d.Artist))
	}
	if d.Game != "" {
		variants = append(variants, fmt.Sprintf("track:%q album:%q", d.Title, d.Game))
		variants = append(variants, fmt.Sprintf("%q %q soundtrack", d.Title, d.Game))
	}

	cleaned := CleanTitle(d.Title)
	if cleaned != "" && cleaned != d.Title {
		if d.Artist != "" {
			variants = append(variants, fmt.Sprintf("%q %q", cleaned, d.Artist))
		}
		variants = append(variants, cleaned)
	}

	variants = append(variants, d.Title)

	return dedupe(variants)
}

// CleanTitle strips parenthetical and bracketed annotations, drops everything
// after a dash separator, removes noise tokens, and collapses whitespace.
// Returns an empty string when nothing survives cleaning.
func CleanTitle(title string) string {
	cleaned := parentheticalRe.ReplaceAllString(title, "")
	cleaned = bracketedRe.ReplaceAllString(cleaned, "")
	cleaned = dashSuffixRe.ReplaceAllString(cleaned, "")

	fields := strings.Fields(cleaned)
	kept := fields[:0]
	for _, f := range fields {
		if _, noise := noiseTokens[strings.ToLower(f)]; !noise {
			kept = append(kept, f)
		}
	}

	return strings.Join(kept, " ")
}

// dedupe removes duplicates and empty strings preserving first-seen order.
func dedupe(variants []string) []string {
	seen := make(map[string]struct{}, len(variants))
	out := variants[:0]
	for _, v := range variants {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
