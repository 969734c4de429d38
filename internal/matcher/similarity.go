package matcher

import (
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/desertthunder/vgx/internal/models"
)

const (
	titleWeight  = 0.7
	artistWeight = 0.3
)

// featuringMarkers introduce featured-artist noise that should not count
// against a title comparison.
// Punctuation is stripped before the comparison, so dotted forms like
// "feat." normalize onto these.
var featuringMarkers = map[string]struct{}{
	"feat":      {},
	"featuring": {},
	"ft":        {},
}

// Score computes the similarity between a descriptor and a candidate as a
// weighted blend of title and best-artist similarity. The result is in [0, 1].
//
// When the descriptor carries no artist, the title similarity stands alone so
// sparse source metadata is not penalized.
func Score(d models.Descriptor, c models.Candidate) float64 {
	title := stringSimilarity(d.Title, c.Title)

	if d.Artist == "" {
		return title
	}

	var artist float64
	for _, name := range c.Artists {
		if s := stringSimilarity(d.Artist, name); s > artist {
			artist = s
		}
	}

	return title*titleWeight + artist*artistWeight
}

// stringSimilarity blends a token-overlap ratio with Jaro-Winkler over
// normalized inputs, taking the higher of the two. Token overlap tolerates
// reordered words; Jaro-Winkler tolerates small edits.
func stringSimilarity(a, b string) float64 {
	at, bt := Tokenize(a), Tokenize(b)

	overlap := tokenOverlap(at, bt)
	jw := strutil.Similarity(strings.Join(at, " "), strings.Join(bt, " "), metrics.NewJaroWinkler())

	if overlap > jw {
		return overlap
	}
	return jw
}

// Tokenize normalizes a string into comparison tokens: lowercase, punctuation
// stripped, whitespace split, featuring-markers dropped.
func Tokenize(s string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := fields[:0]
	for _, f := range fields {
		if _, noise := featuringMarkers[f]; noise {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// tokenOverlap returns the ratio of shared tokens to the larger token set.
func tokenOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}

	shared := 0
	seen := make(map[string]struct{}, len(b))
	for _, t := range b {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			shared++
		}
	}

	larger := len(set)
	if len(seen) > larger {
		larger = len(seen)
	}
	return float64(shared) / float64(larger)
}
