// Package service implements catalog search over the in-memory product index.
package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"fixfurn_backend/internal/catalog/repository"
	"fixfurn_backend/platform/logger"
)

// DefaultLimit caps result sets when the caller does not ask for a limit.
const DefaultLimit = 8

// DefaultToleranceCM is the window applied around a dimension constraint
// when the caller does not state one.
const DefaultToleranceCM = 15.0

// Query describes one catalog search. Terms is free text; the remaining
// fields are optional constraints that narrow the candidate set.
type Query struct {
	Terms       string
	Material    string
	Color       string
	DimensionCM float64
	ToleranceCM float64
	Limit       int
}

// Match is one search hit with its resolved product.
type Match struct {
	Product repository.Product
	// Score is the text relevance; DimensionGap the closest distance in cm
	// to the requested dimension, or -1 when no dimension was requested.
	Score        int
	DimensionGap float64
}

type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

func NewService(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ProductCount reports the size of the loaded index.
func (s *Service) ProductCount() int {
	return s.repo.Len()
}

// Search scans the index and returns matches ordered by relevance: closer
// dimension matches first when a dimension constraint is set, otherwise
// higher text score first; ties go to house-brand items before partner-line
// items, then to ingestion order. A miss is an empty slice, never an error.
func (s *Service) Search(ctx context.Context, q Query) []Match {
	terms := strings.ToLower(strings.TrimSpace(q.Terms))
	words := strings.Fields(terms)
	material := strings.ToLower(strings.TrimSpace(q.Material))
	color := strings.ToLower(strings.TrimSpace(q.Color))

	tolerance := q.ToleranceCM
	if tolerance <= 0 {
		tolerance = DefaultToleranceCM
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	type candidate struct {
		Match
		order int
	}
	var candidates []candidate

	for i, p := range s.repo.All() {
		if material != "" && !matchesAny(p.Materials, material) {
			continue
		}
		if color != "" && !matchesAny(p.Colors, color) {
			continue
		}

		gap := -1.0
		if q.DimensionCM > 0 {
			gap = dimensionGap(p.Dimensions, q.DimensionCM)
			if gap < 0 || gap > tolerance {
				continue
			}
		}

		score := textScore(p, terms, words)
		if terms != "" && score == 0 {
			continue
		}

		candidates = append(candidates, candidate{
			Match: Match{Product: p, Score: score, DimensionGap: gap},
			order: i,
		})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if q.DimensionCM > 0 && ca.DimensionGap != cb.DimensionGap {
			return ca.DimensionGap < cb.DimensionGap
		}
		if ca.Score != cb.Score {
			return ca.Score > cb.Score
		}
		if ca.Product.Source != cb.Product.Source {
			return ca.Product.Source == repository.SourceHouseBrand
		}
		return ca.order < cb.order
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	matches := make([]Match, len(candidates))
	for i, c := range candidates {
		matches[i] = c.Match
	}

	s.log.Debug("catalog search",
		"terms", terms,
		"material", material,
		"color", color,
		"dimension", q.DimensionCM,
		"hits", len(matches))
	return matches
}

// textScore ranks a product against the query text: an exact ID match
// dominates, a whole-phrase hit outranks scattered word hits, and every
// matching word adds one.
func textScore(p repository.Product, phrase string, words []string) int {
	if phrase == "" {
		return 0
	}
	score := 0
	if strings.EqualFold(p.ID, phrase) {
		score += 10
	}
	if strings.Contains(p.SearchText, phrase) {
		score += 3
	}
	for _, w := range words {
		if strings.Contains(p.SearchText, w) {
			score++
		}
	}
	return score
}

// dimensionGap returns the closest distance from any stated dimension to the
// target, or -1 when the product states no dimensions.
func dimensionGap(d repository.Dimensions, target float64) float64 {
	if !d.Known() {
		return -1
	}
	gap := -1.0
	for _, v := range []float64{d.Width, d.Height, d.Depth} {
		if v <= 0 {
			continue
		}
		g := math.Abs(v - target)
		if gap < 0 || g < gap {
			gap = g
		}
	}
	return gap
}

func matchesAny(values []string, want string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), want) {
			return true
		}
	}
	return false
}
