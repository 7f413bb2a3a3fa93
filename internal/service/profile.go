package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bnpltrack/internal/models"
	"bnpltrack/internal/repository"
)

// Validated input ranges for profile edits, matching the dashboard's slider
// and form constraints. Edits outside these bounds are rejected, not clamped,
// so a bad client cannot silently corrupt the stored baseline.
var (
	MinSalary   = decimal.NewFromInt(10000)
	MaxSalary   = decimal.NewFromInt(500000)
	MaxRent     = decimal.NewFromInt(100000)
	MaxExpenses = decimal.NewFromInt(100000)
)

type ProfileInput struct {
	FullName      string          `json:"full_name"`
	City          string          `json:"city"`
	Salary        decimal.Decimal `json:"salary"`
	MonthlyRent   decimal.Decimal `json:"monthly_rent"`
	OtherExpenses decimal.Decimal `json:"other_expenses"`
	ExistingLoans decimal.Decimal `json:"existing_loans"`
}

type ProfileService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// Get returns the stored profile, or the onboarding default when none exists.
func (s *ProfileService) Get(ctx context.Context, email string) (models.UserProfile, error) {
	if s == nil || s.Repo == nil {
		return models.UserProfile{}, nil
	}
	profile, err := s.Repo.GetProfileByEmail(ctx, email)
	if err != nil {
		return models.UserProfile{}, err
	}
	if profile == nil {
		return models.UserProfile{Email: email, Salary: DefaultSalary}, nil
	}
	return *profile, nil
}

// Update validates and upserts a profile edit. On a validation error the
// stored profile is left untouched.
func (s *ProfileService) Update(ctx context.Context, email string, input ProfileInput) (models.UserProfile, error) {
	if s == nil || s.Repo == nil {
		return models.UserProfile{}, nil
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return models.UserProfile{}, fmt.Errorf("email is required")
	}
	if err := validateProfileInput(input); err != nil {
		return models.UserProfile{}, err
	}

	item := models.UserProfile{
		Email:         email,
		FullName:      strings.TrimSpace(input.FullName),
		City:          strings.TrimSpace(input.City),
		Salary:        input.Salary,
		MonthlyRent:   input.MonthlyRent,
		OtherExpenses: input.OtherExpenses,
		ExistingLoans: input.ExistingLoans,
	}
	if err := s.Repo.UpsertProfile(ctx, &item); err != nil {
		return models.UserProfile{}, err
	}
	if s.Logger != nil {
		s.Logger.Info("profile updated",
			zap.String("user", email),
			zap.String("salary", input.Salary.StringFixed(2)),
		)
	}
	return item, nil
}

func validateProfileInput(input ProfileInput) error {
	if input.Salary.LessThan(MinSalary) || input.Salary.GreaterThan(MaxSalary) {
		return fmt.Errorf("salary must be between %s and %s", MinSalary.String(), MaxSalary.String())
	}
	if input.MonthlyRent.IsNegative() || input.MonthlyRent.GreaterThan(MaxRent) {
		return fmt.Errorf("monthly_rent must be between 0 and %s", MaxRent.String())
	}
	if input.OtherExpenses.IsNegative() || input.OtherExpenses.GreaterThan(MaxExpenses) {
		return fmt.Errorf("other_expenses must be between 0 and %s", MaxExpenses.String())
	}
	if input.ExistingLoans.IsNegative() {
		return fmt.Errorf("existing_loans must not be negative")
	}
	return nil
}
