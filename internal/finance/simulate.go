package finance

import (
	"github.com/shopspring/decimal"

	"bnpltrack/internal/models"
)

// ProfileOverrides carries the simulator slider values. A nil field keeps the
// stored profile value; the profile itself is never mutated.
type ProfileOverrides struct {
	Salary        *decimal.Decimal `json:"salary"`
	MonthlyRent   *decimal.Decimal `json:"monthly_rent"`
	OtherExpenses *decimal.Decimal `json:"other_expenses"`
}

// SimulationResult is the what-if view of a profile under overrides.
// DisposableIncome keeps its sign; ratio math always uses the raw value and
// display clamping is left to the presentation layer.
type SimulationResult struct {
	Salary            decimal.Decimal `json:"salary"`
	FixedExpenses     decimal.Decimal `json:"fixed_expenses"`
	MonthlyObligation decimal.Decimal `json:"monthly_obligation"`
	DisposableIncome  decimal.Decimal `json:"disposable_income"`

	DebtToIncomeRatio float64 `json:"debt_to_income_ratio"`
	SavingsRatio      float64 `json:"savings_ratio"`
}

// DisplayDisposableIncome is the floor-clamped variant for rendering only.
func (s SimulationResult) DisplayDisposableIncome() decimal.Decimal {
	if s.DisposableIncome.IsNegative() {
		return decimal.Zero
	}
	return s.DisposableIncome
}

// Simulate applies overrides on top of the profile and recomputes disposable
// income and the derived ratios. Identical inputs always produce identical
// outputs.
func Simulate(profile models.UserProfile, overrides ProfileOverrides, monthlyObligation decimal.Decimal) SimulationResult {
	salary := profile.Salary
	if overrides.Salary != nil {
		salary = *overrides.Salary
	}
	rent := profile.MonthlyRent
	if overrides.MonthlyRent != nil {
		rent = *overrides.MonthlyRent
	}
	other := profile.OtherExpenses
	if overrides.OtherExpenses != nil {
		other = *overrides.OtherExpenses
	}

	fixed := rent.Add(other)
	out := SimulationResult{
		Salary:            salary,
		FixedExpenses:     fixed,
		MonthlyObligation: monthlyObligation,
		DisposableIncome:  salary.Sub(fixed).Sub(monthlyObligation),
	}

	if salary.GreaterThan(decimal.Zero) {
		out.DebtToIncomeRatio = monthlyObligation.Div(salary).InexactFloat64() * 100
		out.SavingsRatio = out.DisposableIncome.Div(salary).InexactFloat64() * 100
	}
	return out
}

// Advisory classes, in rule-table order.
const (
	AdviceHighDebt   = "high_debt"
	AdviceDeficit    = "deficit"
	AdviceLowSavings = "low_savings"
	AdviceAllClear   = "all_clear"
)

type Advisory struct {
	Class   string `json:"class"`
	Message string `json:"message"`
}

// Recommend evaluates the advisory rule table in fixed order. Warning rules
// fire independently of each other; the all-clear message fires only when no
// warning did.
func Recommend(sim SimulationResult) []Advisory {
	var out []Advisory
	if sim.DebtToIncomeRatio > HighDebtRatioPct {
		out = append(out, Advisory{
			Class:   AdviceHighDebt,
			Message: "Your debt-to-income ratio is high. Consider paying off BNPL commitments faster or reducing new purchases.",
		})
	}
	if sim.DisposableIncome.IsNegative() {
		out = append(out, Advisory{
			Class:   AdviceDeficit,
			Message: "Your expenses exceed income. Reduce spending or increase income to avoid financial stress.",
		})
	}
	if sim.SavingsRatio < LowSavingsRatioPct {
		out = append(out, Advisory{
			Class:   AdviceLowSavings,
			Message: "Your savings ratio is below 10%. Aim to save at least 20% of your income for emergencies.",
		})
	}
	if len(out) == 0 {
		out = append(out, Advisory{
			Class:   AdviceAllClear,
			Message: "Your financial health looks good. Keep maintaining this balance and continue building your savings.",
		})
	}
	return out
}
