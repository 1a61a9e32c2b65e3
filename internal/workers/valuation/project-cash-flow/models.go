// internal/workers/valuation/project-cash-flow/models.go
package projectcashflow

import "artvaluation-workers/internal/valuation"

type Input struct {
	ArtistID    string                         `json:"artistId,omitempty"`
	Assumptions *valuation.AssumptionOverrides `json:"assumptions,omitempty"`
}

// ProjectionResult is the projection plus its display label for payback.
type ProjectionResult struct {
	*valuation.Projection
	PaybackLabel string `json:"paybackLabel"`
}

type Output struct {
	Projection      ProjectionResult      `json:"projection"`
	AssumptionsUsed valuation.Assumptions `json:"assumptionsUsed"`
	Cached          bool                  `json:"-"`
}
