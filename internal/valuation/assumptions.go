package valuation

import "math"

// MaxHorizonYears caps the projection length.
const MaxHorizonYears = 50

// Assumptions holds the financial constants of a projection. Monetary values
// are in the dashboard's currency unit; rates are fractions.
type Assumptions struct {
	BasePrice             float64 `mapstructure:"base_price" json:"basePrice"`
	AnnualGrowth          float64 `mapstructure:"annual_growth" json:"annualGrowth"`
	Penetration           float64 `mapstructure:"penetration" json:"penetration"`
	HorizonYears          int     `mapstructure:"horizon_years" json:"horizonYears"`
	FixedCosts            float64 `mapstructure:"fixed_costs" json:"fixedCosts"`
	VariableCostRatio     float64 `mapstructure:"variable_cost_ratio" json:"variableCostRatio"`
	AestheticDepreciation float64 `mapstructure:"aesthetic_depreciation" json:"aestheticDepreciation"`
}

// DefaultAssumptions returns the reference model.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		BasePrice:             30,
		AnnualGrowth:          0.12,
		Penetration:           0.6,
		HorizonYears:          5,
		FixedCosts:            10,
		VariableCostRatio:     0.4,
		AestheticDepreciation: -0.03,
	}
}

// AssumptionOverrides carries optional per-request replacements. Nil fields
// keep the base value.
type AssumptionOverrides struct {
	BasePrice             *float64 `json:"basePrice,omitempty"`
	AnnualGrowth          *float64 `json:"annualGrowth,omitempty"`
	Penetration           *float64 `json:"penetration,omitempty"`
	HorizonYears          *int     `json:"horizonYears,omitempty"`
	FixedCosts            *float64 `json:"fixedCosts,omitempty"`
	VariableCostRatio     *float64 `json:"variableCostRatio,omitempty"`
	AestheticDepreciation *float64 `json:"aestheticDepreciation,omitempty"`
}

// Apply returns a copy of a with the non-nil overrides merged in.
func (o *AssumptionOverrides) Apply(a Assumptions) Assumptions {
	if o == nil {
		return a
	}
	if o.BasePrice != nil {
		a.BasePrice = *o.BasePrice
	}
	if o.AnnualGrowth != nil {
		a.AnnualGrowth = *o.AnnualGrowth
	}
	if o.Penetration != nil {
		a.Penetration = *o.Penetration
	}
	if o.HorizonYears != nil {
		a.HorizonYears = *o.HorizonYears
	}
	if o.FixedCosts != nil {
		a.FixedCosts = *o.FixedCosts
	}
	if o.VariableCostRatio != nil {
		a.VariableCostRatio = *o.VariableCostRatio
	}
	if o.AestheticDepreciation != nil {
		a.AestheticDepreciation = *o.AestheticDepreciation
	}
	return a
}

// Validate rejects assumption sets that would produce meaningless output.
func (a Assumptions) Validate() error {
	for field, v := range map[string]float64{
		"base_price":             a.BasePrice,
		"annual_growth":          a.AnnualGrowth,
		"penetration":            a.Penetration,
		"fixed_costs":            a.FixedCosts,
		"variable_cost_ratio":    a.VariableCostRatio,
		"aesthetic_depreciation": a.AestheticDepreciation,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid(field, "must be a finite number")
		}
	}

	if a.BasePrice <= 0 {
		return invalid("base_price", "must be positive, got %g", a.BasePrice)
	}
	if a.AnnualGrowth <= -1 {
		return invalid("annual_growth", "must be greater than -1, got %g", a.AnnualGrowth)
	}
	if a.Penetration < 0 || a.Penetration > 1 {
		return invalid("penetration", "must be within [0,1], got %g", a.Penetration)
	}
	if a.HorizonYears <= 0 || a.HorizonYears > MaxHorizonYears {
		return invalid("horizon_years", "must be within [1,%d], got %d", MaxHorizonYears, a.HorizonYears)
	}
	if a.FixedCosts < 0 {
		return invalid("fixed_costs", "must not be negative, got %g", a.FixedCosts)
	}
	if a.VariableCostRatio < 0 || a.VariableCostRatio > 1 {
		return invalid("variable_cost_ratio", "must be within [0,1], got %g", a.VariableCostRatio)
	}
	if a.AestheticDepreciation <= -1 {
		return invalid("aesthetic_depreciation", "must be greater than -1, got %g", a.AestheticDepreciation)
	}
	return nil
}
