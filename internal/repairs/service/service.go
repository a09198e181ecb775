// Package service implements rule-based repair estimation with deterministic
// fallback resolution.
package service

import (
	"context"
	"fmt"
	"strings"

	"fixfurn_backend/internal/events"
	"fixfurn_backend/internal/repairs/repository"
	"fixfurn_backend/platform/apperr"
	"fixfurn_backend/platform/logger"
)

// Size classes form a total order; nearest-size fallback measures distance
// on this scale and prefers the smaller class on ties.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

var sizeOrdinal = map[string]int{
	SizeSmall:  0,
	SizeMedium: 1,
	SizeLarge:  2,
}

// Resolution names how a rule key was matched.
const (
	ResolutionExact            = "exact"
	ResolutionNearestSize      = "nearest_size"
	ResolutionMaterialFallback = "material_fallback"
)

// Tier is one priced service level. Tiers always come back in the fixed
// budget, standard, rush order regardless of their numeric contents.
type Tier struct {
	Name        string
	MinPriceUSD float64
	MaxPriceUSD float64
	MinDays     int
	MaxDays     int
	// Consistent is false when the band's intervals are inverted. The band
	// is still served verbatim; the caller decides how to phrase it.
	Consistent bool
}

// Estimate is a resolved repair quote across all three tiers.
type Estimate struct {
	Issue      string
	Material   string
	SizeClass  string
	Resolution string
	Tiers      []Tier
}

type Service struct {
	repo *repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

func NewService(repo *repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Estimate resolves (issue, material, size) against the rule table:
//
//  1. exact key
//  2. same issue and material, nearest size class (smaller wins ties)
//  3. same issue, wildcard material, exact size class
//  4. no coverage: the gap is surfaced as not-found and published so it
//     lands in the owner's feedback log. Never silently defaulted.
func (s *Service) Estimate(ctx context.Context, issue, material, size string) (*Estimate, error) {
	issue = normalizeKey(issue)
	if issue == "" {
		return nil, apperr.Validation("issue is required")
	}

	material = normalizeKey(material)
	if material == "" {
		material = repository.Wildcard
	}

	size = normalizeKey(size)
	if size == "" {
		size = SizeMedium
	}
	if _, ok := sizeOrdinal[size]; !ok {
		return nil, apperr.Validation(fmt.Sprintf("unsupported size class %q, expected one of %s, %s, %s", size, SizeSmall, SizeMedium, SizeLarge))
	}

	if !s.repo.HasIssue(issue) {
		return nil, s.gap(ctx, issue, material, size)
	}

	if s.repo.HasMaterial(issue, material) {
		if set, ok := s.repo.Lookup(issue, material, size); ok {
			return s.estimate(issue, material, size, ResolutionExact, set), nil
		}
		if nearest, ok := nearestSize(size, s.repo.SizesFor(issue, material)); ok {
			set, _ := s.repo.Lookup(issue, material, nearest)
			return s.estimate(issue, material, nearest, ResolutionNearestSize, set), nil
		}
		return nil, s.gap(ctx, issue, material, size)
	}

	if bucket, ok := s.fallbackMaterial(issue); ok {
		if set, ok := s.repo.Lookup(issue, bucket, size); ok {
			return s.estimate(issue, bucket, size, ResolutionMaterialFallback, set), nil
		}
	}

	return nil, s.gap(ctx, issue, material, size)
}

// Issues lists the issue types the rule table covers, for prompting.
func (s *Service) Issues() []string {
	return s.repo.Issues()
}

func (s *Service) estimate(issue, material, size, resolution string, set repository.TierSet) *Estimate {
	est := &Estimate{
		Issue:      issue,
		Material:   material,
		SizeClass:  size,
		Resolution: resolution,
		Tiers: []Tier{
			toTier("budget", set.Budget),
			toTier("standard", set.Standard),
			toTier("rush", set.Rush),
		},
	}
	for _, tier := range est.Tiers {
		if !tier.Consistent {
			s.log.Warn("inconsistent tier band served",
				"issue", issue, "material", material, "size", size, "tier", tier.Name)
		}
	}
	return est
}

// gap records the uncovered request and returns the not-found error. The
// event lands in the feedback log so the owner sees what the rule table
// is missing.
func (s *Service) gap(ctx context.Context, issue, material, size string) error {
	question := fmt.Sprintf("no repair pricing rule for issue=%q material=%q size=%q", issue, material, size)
	s.bus.Publish(ctx, events.QuestionUnresolved{
		BaseEvent: events.NewBaseEvent(),
		Question:  question,
		Source:    "estimate_gap",
	})
	return apperr.NotFound(question)
}

func (s *Service) fallbackMaterial(issue string) (string, bool) {
	if s.repo.HasMaterial(issue, repository.Wildcard) {
		return repository.Wildcard, true
	}
	materials := s.repo.MaterialsFor(issue)
	if len(materials) == 0 {
		return "", false
	}
	return materials[0], true
}

func toTier(name string, band repository.TierBand) Tier {
	return Tier{
		Name:        name,
		MinPriceUSD: band.MinPriceUSD,
		MaxPriceUSD: band.MaxPriceUSD,
		MinDays:     band.MinDays,
		MaxDays:     band.MaxDays,
		Consistent:  band.Consistent(),
	}
}

// nearestSize picks the listed size class closest to the requested one on
// the small < medium < large scale; the smaller class wins a tie.
func nearestSize(want string, listed []string) (string, bool) {
	wantOrd := sizeOrdinal[want]
	best := ""
	bestDist := -1
	for _, candidate := range listed {
		ord, ok := sizeOrdinal[candidate]
		if !ok {
			continue
		}
		dist := ord - wantOrd
		if dist < 0 {
			dist = -dist
		}
		if best == "" || dist < bestDist || (dist == bestDist && ord < sizeOrdinal[best]) {
			best = candidate
			bestDist = dist
		}
	}
	return best, best != ""
}

func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "_")
}
