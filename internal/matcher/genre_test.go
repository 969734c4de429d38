package matcher

import (
	"testing"

	"github.com/desertthunder/vgx/internal/models"
)

func TestFilter(t *testing.T) {
	filter := NewFilter(
		[]string{"video game music", "soundtrack"},
		[]string{"christmas", "children's music", "comedy"},
	)

	t.Run("No Genres Accepts", func(t *testing.T) {
		ok, reason := filter.Acceptable(models.Candidate{Title: "Theme"})
		if !ok {
			t.Errorf("expected accept for missing genres, rejected by %q", reason)
		}
	})

	t.Run("Neutral Genres Accept", func(t *testing.T) {
		ok, _ := filter.Acceptable(models.Candidate{Genres: []string{"orchestral", "ambient"}})
		if !ok {
			t.Error("expected accept for neutral genres")
		}
	})

	t.Run("Denylist Rejects", func(t *testing.T) {
		ok, reason := filter.Acceptable(models.Candidate{Genres: []string{"christmas"}})
		if ok {
			t.Error("expected rejection for denied genre")
		}
		if reason != "christmas" {
			t.Errorf("expected rejecting token 'christmas', got %q", reason)
		}
	})

	t.Run("Substring Match Both Directions", func(t *testing.T) {
		// Genre contains the deny token.
		if ok, _ := filter.Acceptable(models.Candidate{Genres: []string{"indie christmas pop"}}); ok {
			t.Error("expected rejection when genre contains deny token")
		}
		// Deny token contains the genre.
		if ok, _ := filter.Acceptable(models.Candidate{Genres: []string{"comed"}}); ok {
			t.Error("expected rejection when deny token contains genre")
		}
	})

	t.Run("Case Insensitive", func(t *testing.T) {
		if ok, _ := filter.Acceptable(models.Candidate{Genres: []string{"Christmas"}}); ok {
			t.Error("expected case-insensitive rejection")
		}
	})

	t.Run("Allowlist Overrides Denylist", func(t *testing.T) {
		ok, _ := filter.Acceptable(models.Candidate{
			Genres: []string{"video game music", "christmas"},
		})
		if !ok {
			t.Error("expected allowlist to override denylist")
		}
	})

	t.Run("Nil Filter Accepts Everything", func(t *testing.T) {
		var f *Filter
		ok, _ := f.Acceptable(models.Candidate{Genres: []string{"christmas"}})
		if !ok {
			t.Error("expected nil filter to accept")
		}
	})

	t.Run("Empty Vocabularies Accept Everything", func(t *testing.T) {
		f := NewFilter(nil, nil)
		ok, _ := f.Acceptable(models.Candidate{Genres: []string{"anything"}})
		if !ok {
			t.Error("expected accept with empty vocabularies")
		}
	})
}
