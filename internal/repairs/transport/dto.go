// Package transport defines the repairs module's request and response DTOs.
package transport

import "fixfurn_backend/internal/repairs/service"

// EstimateRequest is the body of POST /repairs/estimate.
type EstimateRequest struct {
	Issue        string `json:"issue" validate:"required,max=100"`
	Material     string `json:"material" validate:"omitempty,max=60"`
	SizeCategory string `json:"sizeCategory" validate:"omitempty,max=20"`
}

// TierResponse is one service level on the wire.
type TierResponse struct {
	Name        string  `json:"name"`
	MinPriceUSD float64 `json:"minPriceUsd"`
	MaxPriceUSD float64 `json:"maxPriceUsd"`
	MinDays     int     `json:"minDays"`
	MaxDays     int     `json:"maxDays"`
	Consistent  bool    `json:"consistent"`
}

// EstimateResponse is the body of a successful estimate.
type EstimateResponse struct {
	Issue      string         `json:"issue"`
	Material   string         `json:"material"`
	SizeClass  string         `json:"sizeClass"`
	Resolution string         `json:"resolution"`
	Tiers      []TierResponse `json:"tiers"`
}

// ToEstimateResponse maps the service estimate onto the wire shape,
// preserving the fixed tier order.
func ToEstimateResponse(est *service.Estimate) EstimateResponse {
	tiers := make([]TierResponse, 0, len(est.Tiers))
	for _, t := range est.Tiers {
		tiers = append(tiers, TierResponse{
			Name:        t.Name,
			MinPriceUSD: t.MinPriceUSD,
			MaxPriceUSD: t.MaxPriceUSD,
			MinDays:     t.MinDays,
			MaxDays:     t.MaxDays,
			Consistent:  t.Consistent,
		})
	}
	return EstimateResponse{
		Issue:      est.Issue,
		Material:   est.Material,
		SizeClass:  est.SizeClass,
		Resolution: est.Resolution,
		Tiers:      tiers,
	}
}
