package valuation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestProjectCashFlow_Defaults(t *testing.T) {
	p, err := ProjectCashFlow(DefaultAssumptions())
	require.NoError(t, err)
	require.Len(t, p.Years, 5)

	expected := []struct {
		raw, revenue, net, cumulative float64
	}{
		{20.16, 20.16, -1.84, -1.84},
		{22.5792, 21.901824, -0.098176, -1.938176},
		{25.288704, 23.7941415936, 1.7941415936, -0.1440344064},
		{28.32334848, 25.849955427287, 3.849955427287, 3.705921020887},
		{31.7221502976, 28.083391576205, 6.083391576205, 9.789312597092},
	}

	for i, e := range expected {
		y := p.Years[i]
		assert.Equal(t, i+1, y.Year)
		assert.Equal(t, YearLabel(i+1), y.Label)
		assert.InDelta(t, e.raw, y.RawRevenue, tolerance, "raw revenue year %d", i+1)
		assert.InDelta(t, e.revenue, y.Revenue, 1e-9, "revenue year %d", i+1)
		assert.InDelta(t, 22.0, y.Cost, tolerance, "cost year %d", i+1)
		assert.InDelta(t, e.net, y.NetProfit, 1e-9, "net profit year %d", i+1)
		assert.InDelta(t, e.cumulative, y.Cumulative, 1e-9, "cumulative year %d", i+1)
	}

	assert.True(t, p.Payback.Reached)
	assert.Equal(t, 4, p.Payback.Year)
	assert.Equal(t, "4", p.Payback.String())
	assert.Equal(t, "Year 4", p.Payback.Label())
	assert.InDelta(t, 110.0, p.TotalCost, tolerance)
	assert.InDelta(t, 9.789312597092, p.TotalNetProfit, 1e-9)
}

func TestProjectCashFlow_YearOneHasNoDepreciation(t *testing.T) {
	a := DefaultAssumptions()
	a.AestheticDepreciation = -0.5

	p, err := ProjectCashFlow(a)
	require.NoError(t, err)

	assert.Equal(t, p.Years[0].RawRevenue, p.Years[0].Revenue)
	assert.InDelta(t, p.Years[1].RawRevenue*0.5, p.Years[1].Revenue, tolerance)
}

func TestProjectCashFlow_CumulativeIsRunningSum(t *testing.T) {
	a := DefaultAssumptions()
	a.HorizonYears = 12

	p, err := ProjectCashFlow(a)
	require.NoError(t, err)

	sum := 0.0
	for i, net := range p.NetProfits() {
		sum += net
		assert.Equal(t, sum, p.Years[i].Cumulative)
	}
}

func TestProjectCashFlow_Payback(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(a *Assumptions)
		reached     bool
		paybackYear int
	}{
		{
			name:        "profitable from year one",
			mutate:      func(a *Assumptions) { a.FixedCosts = 0 },
			reached:     true,
			paybackYear: 1,
		},
		{
			name:   "never pays back",
			mutate: func(a *Assumptions) { a.FixedCosts = 100 },
		},
		{
			name:   "horizon too short",
			mutate: func(a *Assumptions) { a.HorizonYears = 3 },
		},
		{
			name: "break even exactly counts",
			mutate: func(a *Assumptions) {
				a.BasePrice = 10
				a.AnnualGrowth = 0
				a.Penetration = 1
				a.AestheticDepreciation = 0
				a.VariableCostRatio = 0.5
				a.FixedCosts = 5
			},
			reached:     true,
			paybackYear: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := DefaultAssumptions()
			tt.mutate(&a)

			p, err := ProjectCashFlow(a)
			require.NoError(t, err)
			assert.Equal(t, tt.reached, p.Payback.Reached)
			if tt.reached {
				assert.Equal(t, tt.paybackYear, p.Payback.Year)
			} else {
				assert.Equal(t, NoPaybackLabel, p.Payback.String())
				assert.Equal(t, NoPaybackLabel, p.Payback.Label())
			}
		})
	}
}

func TestProjectCashFlow_InvalidAssumptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *Assumptions)
		field  string
	}{
		{"zero horizon", func(a *Assumptions) { a.HorizonYears = 0 }, "horizon_years"},
		{"negative horizon", func(a *Assumptions) { a.HorizonYears = -2 }, "horizon_years"},
		{"zero base price", func(a *Assumptions) { a.BasePrice = 0 }, "base_price"},
		{"penetration above one", func(a *Assumptions) { a.Penetration = 1.2 }, "penetration"},
		{"negative penetration", func(a *Assumptions) { a.Penetration = -0.1 }, "penetration"},
		{"negative fixed costs", func(a *Assumptions) { a.FixedCosts = -1 }, "fixed_costs"},
		{"variable ratio above one", func(a *Assumptions) { a.VariableCostRatio = 1.5 }, "variable_cost_ratio"},
		{"growth wipes out value", func(a *Assumptions) { a.AnnualGrowth = -1 }, "annual_growth"},
		{"depreciation wipes out value", func(a *Assumptions) { a.AestheticDepreciation = -1 }, "aesthetic_depreciation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := DefaultAssumptions()
			tt.mutate(&a)

			p, err := ProjectCashFlow(a)
			assert.Nil(t, p)
			require.ErrorIs(t, err, ErrInvalidInput)

			var inputErr *InputError
			require.ErrorAs(t, err, &inputErr)
			assert.Equal(t, tt.field, inputErr.Field)
		})
	}
}

func TestProjectCashFlow_Idempotent(t *testing.T) {
	first, err := ProjectCashFlow(DefaultAssumptions())
	require.NoError(t, err)
	second, err := ProjectCashFlow(DefaultAssumptions())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPayback_JSON(t *testing.T) {
	data, err := json.Marshal(Payback{Year: 3, Reached: true})
	require.NoError(t, err)
	assert.Equal(t, "3", string(data))

	data, err = json.Marshal(Payback{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	var p Payback
	require.NoError(t, json.Unmarshal([]byte("4"), &p))
	assert.Equal(t, Payback{Year: 4, Reached: true}, p)
	require.NoError(t, json.Unmarshal([]byte("null"), &p))
	assert.False(t, p.Reached)
}

func TestAssumptionOverrides_Apply(t *testing.T) {
	growth := 0.2
	horizon := 8

	merged := (&AssumptionOverrides{AnnualGrowth: &growth, HorizonYears: &horizon}).Apply(DefaultAssumptions())

	expected := DefaultAssumptions()
	expected.AnnualGrowth = 0.2
	expected.HorizonYears = 8
	assert.Equal(t, expected, merged)

	var none *AssumptionOverrides
	assert.Equal(t, DefaultAssumptions(), none.Apply(DefaultAssumptions()))
}
