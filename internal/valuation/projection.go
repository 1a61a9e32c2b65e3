package valuation

import (
	"encoding/json"
	"math"
	"strconv"
)

// NoPaybackLabel is shown when cumulative cash flow never turns non-negative.
const NoPaybackLabel = "no payback within horizon"

// YearlyProjection is one row of the cash-flow table.
type YearlyProjection struct {
	Year       int     `json:"year"`
	Label      string  `json:"label"`
	RawRevenue float64 `json:"rawRevenue"`
	Revenue    float64 `json:"revenue"`
	Cost       float64 `json:"cost"`
	NetProfit  float64 `json:"netProfit"`
	Cumulative float64 `json:"cumulativeCashFlow"`
}

// Payback is the first year with non-negative cumulative cash flow. When
// Reached is false, Year carries no meaning.
type Payback struct {
	Year    int
	Reached bool
}

func (p Payback) String() string {
	if !p.Reached {
		return NoPaybackLabel
	}
	return strconv.Itoa(p.Year)
}

// Label renders the payback year for display, e.g. "Year 4".
func (p Payback) Label() string {
	if !p.Reached {
		return NoPaybackLabel
	}
	return YearLabel(p.Year)
}

// MarshalJSON emits the year, or null when payback is not reached.
func (p Payback) MarshalJSON() ([]byte, error) {
	if !p.Reached {
		return []byte("null"), nil
	}
	return json.Marshal(p.Year)
}

func (p *Payback) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Payback{}
		return nil
	}
	var year int
	if err := json.Unmarshal(data, &year); err != nil {
		return err
	}
	*p = Payback{Year: year, Reached: true}
	return nil
}

// Projection is the full cash-flow model for one assumption set.
type Projection struct {
	Years          []YearlyProjection `json:"years"`
	Payback        Payback            `json:"paybackYear"`
	TotalRevenue   float64            `json:"totalRevenue"`
	TotalCost      float64            `json:"totalCost"`
	TotalNetProfit float64            `json:"totalNetProfit"`
}

// YearLabel is the display label for a 1-based year.
func YearLabel(year int) string {
	return "Year " + strconv.Itoa(year)
}

// rawRevenue grows basePrice by factor^year and scales by penetration.
func rawRevenue(a Assumptions, factor float64, year int) float64 {
	return a.BasePrice * math.Pow(factor, float64(year)) * a.Penetration
}

// AnnualCost is the same every year: variable share of the base price plus fixed costs.
func AnnualCost(a Assumptions) float64 {
	return a.BasePrice*a.VariableCostRatio + a.FixedCosts
}

// ProjectCashFlow builds the per-year table and payback year.
//
// Growth compounds on the 1-based year while depreciation compounds on the
// 0-based position, so year 1 carries a full year of growth and no
// depreciation. Existing dashboards depend on this exact series.
func ProjectCashFlow(a Assumptions) (*Projection, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	growth := 1 + a.AnnualGrowth
	depreciation := 1 + a.AestheticDepreciation
	cost := AnnualCost(a)

	p := &Projection{Years: make([]YearlyProjection, a.HorizonYears)}
	cumulative := 0.0
	for i := 0; i < a.HorizonYears; i++ {
		year := i + 1
		raw := rawRevenue(a, growth, year)
		revenue := raw * math.Pow(depreciation, float64(i))
		net := revenue - cost
		cumulative += net

		p.Years[i] = YearlyProjection{
			Year:       year,
			Label:      YearLabel(year),
			RawRevenue: raw,
			Revenue:    revenue,
			Cost:       cost,
			NetProfit:  net,
			Cumulative: cumulative,
		}
		if !p.Payback.Reached && cumulative >= 0 {
			p.Payback = Payback{Year: year, Reached: true}
		}

		p.TotalRevenue += revenue
		p.TotalCost += cost
	}
	p.TotalNetProfit = cumulative

	return p, nil
}

// NetProfits returns the net-profit column in year order.
func (p *Projection) NetProfits() []float64 {
	out := make([]float64, len(p.Years))
	for i, y := range p.Years {
		out[i] = y.NetProfit
	}
	return out
}

// RawRevenues returns the undepreciated revenue column in year order.
func (p *Projection) RawRevenues() []float64 {
	out := make([]float64, len(p.Years))
	for i, y := range p.Years {
		out[i] = y.RawRevenue
	}
	return out
}
