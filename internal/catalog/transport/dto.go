// Package transport defines the catalog module's request and response DTOs.
package transport

import (
	"fixfurn_backend/internal/catalog/repository"
	"fixfurn_backend/internal/catalog/service"
)

// SearchRequest is bound from the query string of GET /catalog/search.
type SearchRequest struct {
	Query       string  `form:"q" validate:"omitempty,max=200"`
	Material    string  `form:"material" validate:"omitempty,max=60"`
	Color       string  `form:"color" validate:"omitempty,max=60"`
	DimensionCM float64 `form:"dimension" validate:"omitempty,gt=0,lte=10000"`
	ToleranceCM float64 `form:"tolerance" validate:"omitempty,gt=0,lte=1000"`
	Limit       int     `form:"limit" validate:"omitempty,min=1,max=50"`
}

// ProductResponse is one search hit on the wire.
type ProductResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Category    string                 `json:"category,omitempty"`
	Source      string                 `json:"source"`
	PriceUSD    *float64               `json:"priceUsd,omitempty"`
	Dimensions  *repository.Dimensions `json:"dimensionsCm,omitempty"`
	Materials   []string               `json:"materials,omitempty"`
	Colors      []string               `json:"colors,omitempty"`
	Available   bool                   `json:"available"`
	Link        string                 `json:"link,omitempty"`
	Description string                 `json:"description,omitempty"`
}

// SearchResponse is the body of GET /catalog/search.
type SearchResponse struct {
	Query    string            `json:"query"`
	Count    int               `json:"count"`
	Products []ProductResponse `json:"products"`
}

// ToSearchResponse maps service matches onto the wire shape.
func ToSearchResponse(query string, matches []service.Match) SearchResponse {
	products := make([]ProductResponse, 0, len(matches))
	for _, m := range matches {
		products = append(products, toProductResponse(m.Product))
	}
	return SearchResponse{Query: query, Count: len(products), Products: products}
}

func toProductResponse(p repository.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Source:      string(p.Source),
		Materials:   p.Materials,
		Colors:      p.Colors,
		Available:   p.Available,
		Link:        p.Link,
		Description: p.Description,
	}
	if p.HasPrice {
		price := p.PriceUSD
		resp.PriceUSD = &price
	}
	if p.Dimensions.Known() {
		dims := p.Dimensions
		resp.Dimensions = &dims
	}
	return resp
}
