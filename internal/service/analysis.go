package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bnpltrack/internal/finance"
	"bnpltrack/internal/models"
	"bnpltrack/internal/repository"
)

// DefaultSalary is assumed for users who have not completed onboarding,
// mirroring the profile default applied at signup.
var DefaultSalary = decimal.NewFromInt(30000)

// DashboardSnapshot bundles everything the dashboard renders in one call.
type DashboardSnapshot struct {
	Profile       models.UserProfile              `json:"profile"`
	Risk          finance.RiskAssessment          `json:"analysis"`
	Affordability finance.AffordabilityAssessment `json:"affordability"`
}

// AnalysisService loads profile + records and runs the pure computation
// core. It holds no state of its own: every call is a total function of the
// currently stored inputs.
type AnalysisService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// Snapshot recomputes risk and affordability from the latest stored inputs.
func (s *AnalysisService) Snapshot(ctx context.Context, email string) (*DashboardSnapshot, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	profile, err := s.profileOrDefault(ctx, email)
	if err != nil {
		return nil, err
	}
	recs, err := s.Repo.ListRecordsByUser(ctx, email)
	if err != nil {
		return nil, err
	}
	risk := finance.ComputeRisk(profile, recs, time.Now().UTC())
	return &DashboardSnapshot{
		Profile:       profile,
		Risk:          risk,
		Affordability: finance.ComputeAffordability(profile, risk),
	}, nil
}

// Simulate runs the what-if calculator over the stored profile and the
// current obligation load, without persisting anything.
func (s *AnalysisService) Simulate(ctx context.Context, email string, overrides finance.ProfileOverrides) (finance.SimulationResult, []finance.Advisory, error) {
	if s == nil || s.Repo == nil {
		return finance.SimulationResult{}, nil, nil
	}
	profile, err := s.profileOrDefault(ctx, email)
	if err != nil {
		return finance.SimulationResult{}, nil, err
	}
	recs, err := s.Repo.ListRecordsByUser(ctx, email)
	if err != nil {
		return finance.SimulationResult{}, nil, err
	}
	risk := finance.ComputeRisk(profile, recs, time.Now().UTC())
	sim := finance.Simulate(profile, overrides, risk.MonthlyObligation)
	return sim, finance.Recommend(sim), nil
}

func (s *AnalysisService) profileOrDefault(ctx context.Context, email string) (models.UserProfile, error) {
	profile, err := s.Repo.GetProfileByEmail(ctx, email)
	if err != nil {
		return models.UserProfile{}, err
	}
	if profile == nil {
		if s.Logger != nil {
			s.Logger.Debug("no stored profile, using defaults", zap.String("user", email))
		}
		return models.UserProfile{Email: email, Salary: DefaultSalary}, nil
	}
	return *profile, nil
}
