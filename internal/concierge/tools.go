package concierge

import (
	"context"
	"fmt"

	catalogsvc "fixfurn_backend/internal/catalog/service"
	"fixfurn_backend/internal/concierge/domain"
	interactionsvc "fixfurn_backend/internal/interactions/service"
)

// NewToolset declares the five concierge tools and binds them to the
// domain services. The declarations here are the single source of truth
// for what the reasoning backend is allowed to call.
func NewToolset(deps ToolDependencies) *Registry {
	registry := NewRegistry()

	registry.Register(Tool{
		Schema: domain.ToolSchema{
			Name:        "lookup_product",
			Description: "Search the furniture catalog by free text with optional material, color and dimension constraints. Prices are USD.",
			Args: []domain.ArgSpec{
				{Name: "query", Type: domain.ArgString, Description: "Free-text search terms, e.g. 'oak dining table'.", Required: true},
				{Name: "material", Type: domain.ArgString, Description: "Restrict results to a material, e.g. 'oak'."},
				{Name: "color", Type: domain.ArgString, Description: "Restrict results to a color, e.g. 'walnut'."},
				{Name: "dimension", Type: domain.ArgNumber, Description: "Target dimension in centimeters; any of width, height or depth may match."},
				{Name: "limit", Type: domain.ArgNumber, Description: "Maximum number of results."},
			},
		},
		Handler: lookupProductHandler(deps.Catalog),
	})

	registry.Register(Tool{
		Schema: domain.ToolSchema{
			Name:        "estimate_repair",
			Description: "Estimate a furniture repair across budget, standard and rush tiers. Use when the customer describes damage.",
			Args: []domain.ArgSpec{
				{Name: "issue", Type: domain.ArgString, Description: "The damage type, e.g. 'scratch', 'broken glass', 'wobble'.", Required: true},
				{Name: "material", Type: domain.ArgString, Description: "The item's material, e.g. 'wood', 'glass', 'metal'."},
				{Name: "size_category", Type: domain.ArgString, Description: "Item size class: small, medium or large."},
			},
		},
		Handler: estimateRepairHandler(deps.Repairs),
	})

	registry.Register(Tool{
		Schema: domain.ToolSchema{
			Name:        "record_customer_interest",
			Description: "Record a sales lead once the customer has shared their name, email and what they want.",
			Args: []domain.ArgSpec{
				{Name: "name", Type: domain.ArgString, Description: "The customer's name.", Required: true},
				{Name: "email", Type: domain.ArgString, Description: "The customer's email address.", Required: true},
				{Name: "message", Type: domain.ArgString, Description: "What the customer wants, e.g. 'buy a dining table'.", Required: true},
				{Name: "note", Type: domain.ArgString, Description: "Any extra context worth keeping with the lead."},
				{Name: "phone", Type: domain.ArgString, Description: "The customer's phone number, if offered."},
			},
		},
		Handler: recordInterestHandler(deps.Interactions),
	})

	registry.Register(Tool{
		Schema: domain.ToolSchema{
			Name:        "record_feedback",
			Description: "Record a question you could not answer so the owner can follow up. Always use this instead of guessing.",
			Args: []domain.ArgSpec{
				{Name: "question", Type: domain.ArgString, Description: "The question or request that could not be answered.", Required: true},
			},
		},
		Handler: recordFeedbackHandler(deps.Interactions),
	})

	registry.Register(Tool{
		Schema: domain.ToolSchema{
			Name:        "record_service_feedback",
			Description: "Record post-service feedback after a purchase or repair.",
			Args: []domain.ArgSpec{
				{Name: "email", Type: domain.ArgString, Description: "The customer's email address.", Required: true},
				{Name: "name", Type: domain.ArgString, Description: "The customer's name.", Required: true},
				{Name: "service_type", Type: domain.ArgString, Description: "Which service the feedback is about, e.g. 'purchase' or 'repair'.", Required: true},
				{Name: "satisfaction", Type: domain.ArgString, Description: "How satisfied the customer is, in their own words.", Required: true},
				{Name: "comments", Type: domain.ArgString, Description: "Free-form comments."},
			},
		},
		Handler: recordServiceFeedbackHandler(deps.Interactions),
	})

	return registry
}

func lookupProductHandler(catalog ProductFinder) ToolHandler {
	return func(ctx context.Context, args map[string]any) (map[string]any, error) {
		query := catalogsvc.Query{
			Terms:       stringArg(args, "query"),
			Material:    stringArg(args, "material"),
			Color:       stringArg(args, "color"),
			DimensionCM: numberArg(args, "dimension"),
			Limit:       int(numberArg(args, "limit")),
		}

		matches := catalog.Search(ctx, query)
		if len(matches) == 0 {
			return map[string]any{
				"ok":  false,
				"msg": fmt.Sprintf("No products found for %q. Offer to record the request for the owner.", query.Terms),
			}, nil
		}

		results := make([]map[string]any, 0, len(matches))
		for _, m := range matches {
			p := m.Product
			result := map[string]any{
				"id":        p.ID,
				"name":      p.Name,
				"category":  p.Category,
				"source":    string(p.Source),
				"available": p.Available,
			}
			if p.HasPrice {
				result["price_usd"] = p.PriceUSD
			}
			if p.Dimensions.Known() {
				result["dimensions_cm"] = map[string]any{
					"width":  p.Dimensions.Width,
					"height": p.Dimensions.Height,
					"depth":  p.Dimensions.Depth,
				}
			}
			if len(p.Materials) > 0 {
				result["materials"] = p.Materials
			}
			if p.Link != "" {
				result["link"] = p.Link
			}
			results = append(results, result)
		}

		return map[string]any{
			"ok":      true,
			"query":   query.Terms,
			"count":   len(results),
			"results": results,
		}, nil
	}
}

func estimateRepairHandler(repairs RepairEstimator) ToolHandler {
	return func(ctx context.Context, args map[string]any) (map[string]any, error) {
		est, err := repairs.Estimate(ctx,
			stringArg(args, "issue"),
			stringArg(args, "material"),
			stringArg(args, "size_category"))
		if err != nil {
			return nil, err
		}

		tiers := make(map[string]any, len(est.Tiers))
		for _, tier := range est.Tiers {
			tiers[tier.Name] = map[string]any{
				"price_usd":  []float64{tier.MinPriceUSD, tier.MaxPriceUSD},
				"days":       []int{tier.MinDays, tier.MaxDays},
				"consistent": tier.Consistent,
			}
		}

		return map[string]any{
			"ok":         true,
			"issue":      est.Issue,
			"material":   est.Material,
			"size":       est.SizeClass,
			"resolution": est.Resolution,
			"tiers":      tiers,
		}, nil
	}
}

func recordInterestHandler(interactions InteractionRecorder) ToolHandler {
	return func(ctx context.Context, args map[string]any) (map[string]any, error) {
		lead, err := interactions.RecordLead(ctx, interactionsvc.LeadParams{
			Name:   stringArg(args, "name"),
			Email:  stringArg(args, "email"),
			Intent: stringArg(args, "message"),
			Note:   stringArg(args, "note"),
			Phone:  stringArg(args, "phone"),
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"ok":  true,
			"msg": fmt.Sprintf("Lead for %s recorded. The owner will follow up at %s.", lead.Name, lead.Email),
		}, nil
	}
}

func recordFeedbackHandler(interactions InteractionRecorder) ToolHandler {
	return func(ctx context.Context, args map[string]any) (map[string]any, error) {
		if _, err := interactions.RecordQuestion(ctx, stringArg(args, "question"), "assistant"); err != nil {
			return nil, err
		}
		return map[string]any{
			"ok":  true,
			"msg": "Question recorded for the owner.",
		}, nil
	}
}

func recordServiceFeedbackHandler(interactions InteractionRecorder) ToolHandler {
	return func(ctx context.Context, args map[string]any) (map[string]any, error) {
		if _, err := interactions.RecordServiceFeedback(ctx, interactionsvc.ServiceFeedbackParams{
			Name:         stringArg(args, "name"),
			Email:        stringArg(args, "email"),
			ServiceType:  stringArg(args, "service_type"),
			Satisfaction: stringArg(args, "satisfaction"),
			Comments:     stringArg(args, "comments"),
		}); err != nil {
			return nil, err
		}
		return map[string]any{
			"ok":  true,
			"msg": "Thanks, the feedback has been recorded.",
		}, nil
	}
}

func stringArg(args map[string]any, name string) string {
	v, _ := args[name].(string)
	return v
}

// numberArg tolerates the numeric types JSON decoding may produce.
func numberArg(args map[string]any, name string) float64 {
	switch v := args[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}
