package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"bnpltrack/internal/models"
)

// RiskAssessment is derived from the active obligation set and recomputed on
// every relevant input change. It is never persisted.
type RiskAssessment struct {
	TotalOutstanding  decimal.Decimal `json:"total_outstanding"`
	MonthlyObligation decimal.Decimal `json:"monthly_obligation"`
	UpcomingDues      decimal.Decimal `json:"upcoming_dues"`

	// DebtRatio is monthly obligation / salary, 0 when salary is not positive.
	DebtRatio float64 `json:"debt_ratio"`

	RiskScore int    `json:"risk_score"`
	RiskLevel string `json:"risk_level"`

	TransactionCount int             `json:"transaction_count"`
	Salary           decimal.Decimal `json:"salary"`
}

// ComputeRisk aggregates the active records into outstanding/obligation/dues
// totals and scores the EMI-to-income ratio on a 0-100 scale.
//
// The score is linear in the ratio, floored, and saturates at 100, so the
// tier boundaries land exactly at ratio 0.20 (score 20) and 0.50 (score 50).
// A salary of zero cannot service any debt, so it scores 100 regardless of
// the record set; there is no natural ratio to scale in that case.
func ComputeRisk(profile models.UserProfile, records []models.BNPLRecord, now time.Time) RiskAssessment {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	windowEnd := now.AddDate(0, 0, UpcomingDuesWindowDays)

	out := RiskAssessment{
		TotalOutstanding:  decimal.Zero,
		MonthlyObligation: decimal.Zero,
		UpcomingDues:      decimal.Zero,
		Salary:            profile.Salary,
	}

	for _, rec := range records {
		if !rec.IsActive() {
			continue
		}
		out.TransactionCount++
		out.TotalOutstanding = out.TotalOutstanding.Add(rec.Amount)
		emi := rec.MonthlyEMI()
		out.MonthlyObligation = out.MonthlyObligation.Add(emi)
		if rec.DueDate != nil && !rec.DueDate.Before(now) && !rec.DueDate.After(windowEnd) {
			out.UpcomingDues = out.UpcomingDues.Add(emi)
		}
	}

	if profile.Salary.LessThanOrEqual(decimal.Zero) {
		out.RiskScore = RiskScoreMax
		out.RiskLevel = riskLevelForScore(out.RiskScore)
		return out
	}

	out.DebtRatio = out.MonthlyObligation.Div(profile.Salary).InexactFloat64()
	// Score in decimal space so the 20/50 boundaries stay exact; a float
	// ratio*100 can land a hair under the integer and misclassify.
	score := int(out.MonthlyObligation.Mul(decimal.NewFromInt(100)).Div(profile.Salary).IntPart())
	if score > RiskScoreMax {
		score = RiskScoreMax
	}
	if score < 0 {
		score = 0
	}
	out.RiskScore = score
	out.RiskLevel = riskLevelForScore(score)
	return out
}
