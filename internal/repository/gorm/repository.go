package gormrepository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bnpltrack/internal/models"
	"bnpltrack/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- Profiles ---------------------------------------------------------------

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.UserProfile
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.TrimSpace(email)).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpsertProfile(ctx context.Context, item *models.UserProfile) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"full_name", "city", "salary", "monthly_rent",
			"other_expenses", "existing_loans", "updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) ListUserEmails(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var emails []string
	err := s.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Order("email asc").
		Pluck("email", &emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}

// --- BNPL records -----------------------------------------------------------

// InsertRecord creates the record unless the same (user_email,
// gmail_message_id) pair already exists. Returns false when skipped.
func (s *Store) InsertRecord(ctx context.Context, item *models.BNPLRecord) (bool, error) {
	if s == nil || s.db == nil || item == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_email"}, {Name: "gmail_message_id"}},
		DoNothing: true,
	}).Create(item)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) GetRecordByID(ctx context.Context, id uint64) (*models.BNPLRecord, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.BNPLRecord
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListRecordsByUser returns the user's full record set, newest first. The
// in-memory query engine handles search/sort/pagination on top of this.
func (s *Store) ListRecordsByUser(ctx context.Context, email string) ([]models.BNPLRecord, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.BNPLRecord
	err := s.db.WithContext(ctx).
		Where("user_email = ?", strings.TrimSpace(email)).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListRecords(ctx context.Context, params repository.ListRecordsParams) ([]models.BNPLRecord, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.recordsQuery(ctx, params)
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.BNPLRecord
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountRecords(ctx context.Context, params repository.ListRecordsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.recordsQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) recordsQuery(ctx context.Context, params repository.ListRecordsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.BNPLRecord{})
	if email := strings.TrimSpace(params.UserEmail); email != "" {
		query = query.Where("user_email = ?", email)
	}
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	return query
}

func (s *Store) UpdateRecordStatus(ctx context.Context, id uint64, status string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.BNPLRecord{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (s *Store) DeleteRecordsByUser(ctx context.Context, email string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("user_email = ?", strings.TrimSpace(email)).
		Delete(&models.BNPLRecord{})
	return res.RowsAffected, res.Error
}

func normalizeLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
