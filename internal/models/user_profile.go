package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserProfile is the user's static financial baseline. It is mutated only by
// an explicit profile edit; the computation core treats it as read-only input.
type UserProfile struct {
	ID    uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Email string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`

	FullName string `gorm:"type:varchar(255)" json:"full_name"`
	City     string `gorm:"type:varchar(100)" json:"city"`

	// Money columns are numeric to avoid float drift in aggregates.
	Salary        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"salary"`
	MonthlyRent   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"monthly_rent"`
	OtherExpenses decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"other_expenses"`
	ExistingLoans decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"existing_loans"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// FixedExpenses is rent plus other recurring costs, excluding BNPL obligations.
func (p UserProfile) FixedExpenses() decimal.Decimal {
	return p.MonthlyRent.Add(p.OtherExpenses)
}
