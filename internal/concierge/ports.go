// Package concierge drives the conversation: it owns the tool registry,
// the dispatch boundary and the reasoning loop between the customer and
// the reasoning backend.
package concierge

import (
	"context"

	catalogsvc "fixfurn_backend/internal/catalog/service"
	interactionsvc "fixfurn_backend/internal/interactions/service"
	repairsvc "fixfurn_backend/internal/repairs/service"
)

// ProductFinder is the catalog capability the tools need.
type ProductFinder interface {
	Search(ctx context.Context, q catalogsvc.Query) []catalogsvc.Match
}

// RepairEstimator is the repairs capability the tools need.
type RepairEstimator interface {
	Estimate(ctx context.Context, issue, material, size string) (*repairsvc.Estimate, error)
}

// InteractionRecorder is the interaction-log capability the tools need.
type InteractionRecorder interface {
	RecordLead(ctx context.Context, p interactionsvc.LeadParams) (interactionsvc.Lead, error)
	RecordQuestion(ctx context.Context, question, source string) (interactionsvc.FeedbackQuestion, error)
	RecordServiceFeedback(ctx context.Context, p interactionsvc.ServiceFeedbackParams) (interactionsvc.ServiceFeedback, error)
}

// ToolDependencies bundles the domain services the tool handlers close over.
type ToolDependencies struct {
	Catalog      ProductFinder
	Repairs      RepairEstimator
	Interactions InteractionRecorder
}
