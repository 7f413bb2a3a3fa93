package finance

import (
	"github.com/shopspring/decimal"

	"bnpltrack/internal/models"
)

// AffordabilityAssessment is derived from the risk aggregates and the
// profile's fixed costs. Capacity is signed: a negative value means the EMI
// load already exceeds the safe ceiling.
type AffordabilityAssessment struct {
	DisposableIncome decimal.Decimal `json:"disposable_income"`
	MaxSafeEMI       decimal.Decimal `json:"max_safe_emi"`
	CurrentEMI       decimal.Decimal `json:"current_emi"`

	AvailableEMICapacity decimal.Decimal `json:"available_emi_capacity"`

	// SafeEMIPercentage is the EMI load as a share of the ceiling. It is not
	// clamped and exceeds 100 once the ceiling is breached.
	SafeEMIPercentage float64 `json:"safe_emi_percentage"`

	Status string `json:"status"`
}

var safeEMIShare = decimal.NewFromInt(SafeEMISharePct).Div(decimal.NewFromInt(100))

// ComputeAffordability applies the 30% debt-service ceiling to the salary and
// positions the current obligation against it.
func ComputeAffordability(profile models.UserProfile, risk RiskAssessment) AffordabilityAssessment {
	ceiling := profile.Salary.Mul(safeEMIShare)
	obligation := risk.MonthlyObligation

	out := AffordabilityAssessment{
		DisposableIncome:     profile.Salary.Sub(profile.FixedExpenses()).Sub(obligation),
		MaxSafeEMI:           ceiling,
		CurrentEMI:           obligation,
		AvailableEMICapacity: ceiling.Sub(obligation),
	}

	switch {
	case ceiling.GreaterThan(decimal.Zero):
		out.SafeEMIPercentage = obligation.Div(ceiling).InexactFloat64() * 100
	case obligation.GreaterThan(decimal.Zero):
		// No ceiling to divide by but debt exists: fully consumed.
		out.SafeEMIPercentage = 100
	}

	switch {
	case out.AvailableEMICapacity.IsNegative():
		out.Status = AffordabilityOverleveraged
	case out.SafeEMIPercentage >= WarningEMIUsagePct:
		out.Status = AffordabilityWarning
	default:
		out.Status = AffordabilityHealthy
	}
	return out
}
