// Package repository loads and serves the rule table that drives repair
// estimation: issue -> material -> size class -> tier set.
package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Wildcard is the material key matching any material in the rule table.
const Wildcard = "any"

// TierBand is one closed price and duration interval.
type TierBand struct {
	MinPriceUSD float64
	MaxPriceUSD float64
	MinDays     int
	MaxDays     int
}

// Consistent reports whether the band's intervals are well ordered. Loaded
// rules are served verbatim either way; callers surface violations.
func (b TierBand) Consistent() bool {
	return b.MinPriceUSD <= b.MaxPriceUSD && b.MinDays <= b.MaxDays
}

// UnmarshalJSON reads the compact on-disk quadruple
// [minPrice, maxPrice, minDays, maxDays].
func (b *TierBand) UnmarshalJSON(data []byte) error {
	var quad []float64
	if err := json.Unmarshal(data, &quad); err != nil {
		return err
	}
	if len(quad) != 4 {
		return fmt.Errorf("tier band must have 4 elements, got %d", len(quad))
	}
	b.MinPriceUSD = quad[0]
	b.MaxPriceUSD = quad[1]
	b.MinDays = int(quad[2])
	b.MaxDays = int(quad[3])
	return nil
}

// TierSet groups the three service tiers for one rule key.
type TierSet struct {
	Budget   TierBand `json:"budget"`
	Standard TierBand `json:"standard"`
	Rush     TierBand `json:"rush"`
}

type ruleTable map[string]map[string]map[string]TierSet

// Repository is the immutable in-memory rule table.
type Repository struct {
	rules ruleTable
}

// Load reads the rule table from disk. Any error is startup-fatal for the
// caller: the estimator cannot run without its rules.
func Load(path string) (*Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read price rules: %w", err)
	}
	return Parse(data)
}

// Parse builds a repository from raw rule JSON.
func Parse(data []byte) (*Repository, error) {
	var rules ruleTable
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse price rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("price rules table is empty")
	}
	return &Repository{rules: rules}, nil
}

// Lookup returns the tier set for an exact (issue, material, size) key.
func (r *Repository) Lookup(issue, material, size string) (TierSet, bool) {
	materials, ok := r.rules[issue]
	if !ok {
		return TierSet{}, false
	}
	sizes, ok := materials[material]
	if !ok {
		return TierSet{}, false
	}
	set, ok := sizes[size]
	return set, ok
}

// HasIssue reports whether the table covers the issue at all.
func (r *Repository) HasIssue(issue string) bool {
	_, ok := r.rules[issue]
	return ok
}

// HasMaterial reports whether the issue has a bucket for the material.
func (r *Repository) HasMaterial(issue, material string) bool {
	materials, ok := r.rules[issue]
	if !ok {
		return false
	}
	_, ok = materials[material]
	return ok
}

// MaterialsFor lists the issue's material buckets in sorted order.
func (r *Repository) MaterialsFor(issue string) []string {
	materials, ok := r.rules[issue]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(materials))
	for name := range materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SizesFor lists the size classes present for an (issue, material) bucket
// in sorted order.
func (r *Repository) SizesFor(issue, material string) []string {
	materials, ok := r.rules[issue]
	if !ok {
		return nil
	}
	sizes, ok := materials[material]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(sizes))
	for name := range sizes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Issues lists all covered issues in sorted order.
func (r *Repository) Issues() []string {
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
