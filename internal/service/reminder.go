package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"bnpltrack/internal/finance"
	"bnpltrack/internal/models"
	"bnpltrack/internal/repository"
)

// ReminderService runs the scheduled upcoming-dues sweep: for every known
// user it recomputes the 30-day dues window and logs the ones carrying a
// non-zero load. The dashboard surfaces the same figure; this keeps an
// operational trail even when nobody is looking at the UI.
type ReminderService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// SweepUpcomingDues returns how many users were flagged. Users without a
// stored profile are skipped; there is no salary to assess them against.
func (s *ReminderService) SweepUpcomingDues(ctx context.Context) (int, error) {
	if s == nil || s.Repo == nil {
		return 0, nil
	}
	emails, err := s.Repo.ListUserEmails(ctx)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	flagged := 0
	for _, email := range emails {
		profile, err := s.Repo.GetProfileByEmail(ctx, email)
		if err != nil {
			return flagged, err
		}
		if profile == nil {
			continue
		}
		recs, err := s.Repo.ListRecordsByUser(ctx, email)
		if err != nil {
			return flagged, err
		}
		risk := finance.ComputeRisk(*profile, recs, now)
		if !risk.UpcomingDues.IsPositive() {
			continue
		}
		flagged++
		if s.Logger != nil {
			s.Logger.Warn("upcoming dues within window",
				zap.String("user", email),
				zap.String("upcoming_dues", risk.UpcomingDues.StringFixed(2)),
				zap.Int("active_records", risk.TransactionCount),
				zap.String("risk_level", risk.RiskLevel),
			)
		}
	}

	activeStatus := models.RecordStatusActive
	activeTotal, err := s.Repo.CountRecords(ctx, repository.ListRecordsParams{Status: &activeStatus})
	if err != nil {
		return flagged, err
	}
	if s.Logger != nil {
		s.Logger.Info("reminder sweep done",
			zap.Int("users", len(emails)),
			zap.Int("flagged", flagged),
			zap.Int64("active_records_total", activeTotal),
		)
	}
	return flagged, nil
}
