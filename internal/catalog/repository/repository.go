// Package repository holds the immutable in-memory product index built once
// at startup from the ingested catalog sources.
package repository

// Source tags which catalog a product was ingested from.
type Source string

const (
	SourceHouseBrand  Source = "house-brand"
	SourcePartnerLine Source = "partner-line"
)

// Dimensions in centimeters. Zero means the source did not state the value.
type Dimensions struct {
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Depth  float64 `json:"depth,omitempty"`
}

// Known reports whether at least one dimension was stated.
func (d Dimensions) Known() bool {
	return d.Width > 0 || d.Height > 0 || d.Depth > 0
}

// Product is the uniform shape both catalog sources are normalized into.
// Prices are always USD after ingestion.
type Product struct {
	ID          string
	Name        string
	Category    string
	Source      Source
	PriceUSD    float64
	HasPrice    bool
	Dimensions  Dimensions
	Materials   []string
	Colors      []string
	Available   bool
	Link        string
	Designer    string
	Description string

	// SearchText is the precomputed lowercase match blob, built by ingest
	// from the name, category, materials, colors and description.
	SearchText string
}

// Repository is the process-lifetime product index. It is never mutated
// after construction, so reads need no locking.
type Repository struct {
	products []Product
}

func New(products []Product) *Repository {
	return &Repository{products: products}
}

// All returns the indexed products in ingestion order. Callers must not
// mutate the returned slice.
func (r *Repository) All() []Product {
	return r.products
}

func (r *Repository) Len() int {
	return len(r.products)
}
