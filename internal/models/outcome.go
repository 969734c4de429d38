package models

import (
	"fmt"
	"time"
)

// Status enumerates the final classification of a descriptor's resolution attempt.
type Status int

const (
	StatusUnresolved Status = iota // Zero value: no resolution was attempted
	StatusMatched                  // An acceptable candidate was found
	StatusFiltered                 // A candidate passed similarity but was rejected by genre
	StatusNotFound                 // No variant yielded an acceptable candidate
	StatusError                    // Transport failures exhausted the retry budget
)

func (s Status) String() string {
	switch s {
	case StatusUnresolved:
		return "unresolved"
	case StatusMatched:
		return "matched"
	case StatusFiltered:
		return "filtered"
	case StatusNotFound:
		return "not_found"
	case StatusError:
		return "error"
	default:
		return ""
	}
}

// ParseStatus converts a stored status string back to its enum value.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "unresolved":
		return StatusUnresolved, nil
	case "matched":
		return StatusMatched, nil
	case "filtered":
		return StatusFiltered, nil
	case "not_found":
		return StatusNotFound, nil
	case "error":
		return StatusError, nil
	default:
		return 0, fmt.Errorf("unknown status: %q", s)
	}
}

// MatchOutcome is the final classification of a descriptor's resolution.
//
// Created exactly once per descriptor by the coordinator. Outcomes are
// replaced, never mutated, so slots can be written without locking.
type MatchOutcome struct {
	Descriptor Descriptor // The source track this outcome belongs to
	Status     Status     // Final classification
	Chosen     *Candidate // Accepted candidate, nil unless Status == StatusMatched
	Score      float64    // Similarity score of the chosen candidate
	Attempts   int        // Search attempts spent on the winning (or last) variant
	Reason     string     // Rejecting genre token, or last failure message
}

// RunReport aggregates all outcomes of a single bridge run.
//
// Built incrementally by the coordinator and finalized once after all workers
// join. Outcomes are ordered by original descriptor index regardless of
// completion order.
type RunReport struct {
	Outcomes   []MatchOutcome
	Total      int
	Matched    int
	Filtered   int
	NotFound   int
	Errored    int
	Workers    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Finalize tallies status counts and timing. It returns an error if the
// outcome slots do not cover every input descriptor exactly once.
func (r *RunReport) Finalize() error {
	r.Matched, r.Filtered, r.NotFound, r.Errored = 0, 0, 0, 0

	for _, outcome := range r.Outcomes {
		switch outcome.Status {
		case StatusMatched:
			r.Matched++
		case StatusFiltered:
			r.Filtered++
		case StatusNotFound:
			r.NotFound++
		case StatusError:
			r.Errored++
		}
	}

	if sum := r.Matched + r.Filtered + r.NotFound + r.Errored; sum != r.Total {
		return fmt.Errorf("report covers %d outcomes for %d descriptors", sum, r.Total)
	}

	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	return nil
}

// Elapsed returns the wall-clock duration of the run.
func (r *RunReport) Elapsed() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// SuccessRate returns the matched percentage over all descriptors.
func (r *RunReport) SuccessRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Matched) / float64(r.Total) * 100
}

// MatchedURIs returns the Spotify URIs of all matched outcomes in report order.
func (r *RunReport) MatchedURIs() []string {
	uris := make([]string, 0, r.Matched)
	for _, outcome := range r.Outcomes {
		if outcome.Status == StatusMatched && outcome.Chosen != nil {
			uris = append(uris, outcome.Chosen.URI)
		}
	}
	return uris
}
