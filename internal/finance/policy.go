package finance

// Policy thresholds shared by the calculator and every consumer of its
// output (gauge coloring, KPI tiers, recommendation text). Keeping them in
// one table is the contract: the score boundaries at 20 and 50 are
// load-bearing for the whole dashboard.
const (
	// Risk score tiers: score < RiskScoreModerate is Low,
	// score < RiskScoreHigh is Moderate, everything else is High.
	RiskScoreModerate = 20
	RiskScoreHigh     = 50
	RiskScoreMax      = 100

	// UpcomingDuesWindowDays bounds the "dues soon" aggregate.
	UpcomingDuesWindowDays = 30

	// SafeEMISharePct: at most 30% of salary may go to debt service.
	SafeEMISharePct = 30

	// WarningEMIUsagePct: affordability turns Warning once the EMI load
	// consumes this share of the safe ceiling.
	WarningEMIUsagePct = 70.0

	// Advisory cutoffs for the simulator rule table.
	HighDebtRatioPct   = 40.0
	LowSavingsRatioPct = 10.0
)

// Risk tier labels. The UI maps these to colors; the core only classifies.
const (
	RiskLevelLow      = "Low"
	RiskLevelModerate = "Moderate"
	RiskLevelHigh     = "High"
)

// Affordability statuses.
const (
	AffordabilityHealthy       = "Healthy"
	AffordabilityWarning       = "Warning"
	AffordabilityOverleveraged = "Overleveraged"
)

// riskLevelForScore classifies a 0-100 score into the three tiers.
func riskLevelForScore(score int) string {
	switch {
	case score < RiskScoreModerate:
		return RiskLevelLow
	case score < RiskScoreHigh:
		return RiskLevelModerate
	default:
		return RiskLevelHigh
	}
}
