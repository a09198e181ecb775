// Package ingest parses the two heterogeneous catalog sources into the
// uniform product shape: the curated house-brand JSON file and the partner
// furniture line CSV export.
package ingest

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"fixfurn_backend/internal/catalog/repository"
	"fixfurn_backend/platform/logger"
)

// SARToUSD is the fixed conversion rate applied to partner-line prices,
// which the export quotes in Saudi riyal.
const SARToUSD = 0.2667

// Load reads both sources concurrently and returns the merged product list,
// curated items first. A missing partner file is tolerated with a warning;
// a missing or malformed curated file is an error.
func Load(ctx context.Context, curatedPath, partnerPath string, log *logger.Logger) ([]repository.Product, error) {
	var curated, partner []repository.Product

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := LoadCurated(curatedPath)
		if err != nil {
			return fmt.Errorf("curated catalog: %w", err)
		}
		curated = items
		return nil
	})
	g.Go(func() error {
		items, err := LoadPartner(partnerPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Warn("partner catalog not found, continuing with curated set only", "path", partnerPath)
				return nil
			}
			return fmt.Errorf("partner catalog: %w", err)
		}
		partner = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	products := make([]repository.Product, 0, len(curated)+len(partner))
	products = append(products, curated...)
	products = append(products, partner...)

	log.Info("catalog loaded",
		"curated", len(curated),
		"partner", len(partner),
		"total", len(products))
	return products, nil
}

// curatedItem is the on-disk shape of one house-brand product.
type curatedItem struct {
	SKU          string   `json:"sku"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	PriceUSD     float64  `json:"price_usd"`
	Materials    []string `json:"materials"`
	ColorOptions []string `json:"color_options"`
	Dimensions   struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
		Depth  float64 `json:"depth"`
	} `json:"dimensions_cm"`
	InStock     bool   `json:"in_stock"`
	Link        string `json:"link"`
	Designer    string `json:"designer"`
	Description string `json:"description"`
}

// LoadCurated parses the house-brand JSON catalog. Prices are already USD.
func LoadCurated(path string) ([]repository.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var items []curatedItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	products := make([]repository.Product, 0, len(items))
	for i, item := range items {
		if item.SKU == "" || item.Name == "" {
			return nil, fmt.Errorf("parse %s: item %d missing sku or name", path, i)
		}
		p := repository.Product{
			ID:       item.SKU,
			Name:     item.Name,
			Category: item.Category,
			Source:   repository.SourceHouseBrand,
			PriceUSD: round2(item.PriceUSD),
			HasPrice: item.PriceUSD > 0,
			Dimensions: repository.Dimensions{
				Width:  item.Dimensions.Width,
				Height: item.Dimensions.Height,
				Depth:  item.Dimensions.Depth,
			},
			Materials:   item.Materials,
			Colors:      item.ColorOptions,
			Available:   item.InStock,
			Link:        item.Link,
			Designer:    item.Designer,
			Description: item.Description,
		}
		p.SearchText = buildSearchText(p)
		products = append(products, p)
	}
	return products, nil
}

// LoadPartner parses the partner furniture line CSV export. The export
// quotes prices in SAR; they are converted to USD at the fixed rate.
func LoadPartner(path string) ([]repository.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"item_id", "name", "price"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("parse %s: missing column %q", path, required)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var products []repository.Product
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s line %d: %w", path, line, err)
		}

		id := field(row, "item_id")
		name := field(row, "name")
		if id == "" || name == "" {
			continue
		}

		priceSAR, hasPrice := parsePrice(field(row, "price"))
		p := repository.Product{
			ID:       id,
			Name:     name,
			Category: field(row, "category"),
			Source:   repository.SourcePartnerLine,
			PriceUSD: round2(priceSAR * SARToUSD),
			HasPrice: hasPrice,
			Dimensions: repository.Dimensions{
				Width:  parseDimension(field(row, "width")),
				Height: parseDimension(field(row, "height")),
				Depth:  parseDimension(field(row, "depth")),
			},
			Colors:      parseColorList(field(row, "other_colors")),
			Available:   strings.EqualFold(field(row, "sellable_online"), "true"),
			Link:        field(row, "link"),
			Designer:    field(row, "designer"),
			Description: field(row, "short_description"),
		}
		p.SearchText = buildSearchText(p)
		products = append(products, p)
	}
	return products, nil
}

func parsePrice(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func parseDimension(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0
	}
	return v
}

func parseColorList(s string) []string {
	switch strings.ToLower(s) {
	case "", "no", "n/a":
		return nil
	}
	parts := strings.Split(s, ",")
	colors := make([]string, 0, len(parts))
	for _, part := range parts {
		if c := strings.TrimSpace(part); c != "" {
			colors = append(colors, c)
		}
	}
	return colors
}

// buildSearchText concatenates every text field a query may match against
// into one lowercase blob, computed once at ingestion.
func buildSearchText(p repository.Product) string {
	parts := []string{p.ID, p.Name, p.Category, p.Designer, p.Description}
	parts = append(parts, p.Materials...)
	parts = append(parts, p.Colors...)
	return strings.ToLower(strings.Join(parts, " "))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
