package service

import (
	"context"
	"sort"
	"strings"

	"bnpltrack/internal/models"
	"bnpltrack/internal/repository"
)

// stubRepo is an in-memory Repository for service tests. It reproduces the
// store's duplicate handling (user_email + gmail_message_id) but nothing else.
type stubRepo struct {
	profiles map[string]models.UserProfile
	records  map[uint64]models.BNPLRecord
	nextID   uint64

	errGet error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		profiles: map[string]models.UserProfile{},
		records:  map[uint64]models.BNPLRecord{},
		nextID:   1,
	}
}

func (s *stubRepo) GetProfileByEmail(_ context.Context, email string) (*models.UserProfile, error) {
	if s.errGet != nil {
		return nil, s.errGet
	}
	p, ok := s.profiles[email]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *stubRepo) UpsertProfile(_ context.Context, item *models.UserProfile) error {
	s.profiles[item.Email] = *item
	return nil
}

func (s *stubRepo) ListUserEmails(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, rec := range s.records {
		if !seen[rec.UserEmail] {
			seen[rec.UserEmail] = true
			out = append(out, rec.UserEmail)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *stubRepo) InsertRecord(_ context.Context, item *models.BNPLRecord) (bool, error) {
	if item.GmailMessageID != "" {
		for _, rec := range s.records {
			if rec.UserEmail == item.UserEmail && rec.GmailMessageID == item.GmailMessageID {
				return false, nil
			}
		}
	}
	item.ID = s.nextID
	s.nextID++
	s.records[item.ID] = *item
	return true, nil
}

func (s *stubRepo) GetRecordByID(_ context.Context, id uint64) (*models.BNPLRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *stubRepo) ListRecordsByUser(_ context.Context, email string) ([]models.BNPLRecord, error) {
	var out []models.BNPLRecord
	for _, rec := range s.records {
		if rec.UserEmail == email {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) ListRecords(_ context.Context, params repository.ListRecordsParams) ([]models.BNPLRecord, error) {
	var out []models.BNPLRecord
	for _, rec := range s.records {
		if params.UserEmail != "" && rec.UserEmail != params.UserEmail {
			continue
		}
		if params.Status != nil && rec.Status != strings.TrimSpace(*params.Status) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) CountRecords(_ context.Context, params repository.ListRecordsParams) (int64, error) {
	out, err := s.ListRecords(context.Background(), params)
	return int64(len(out)), err
}

func (s *stubRepo) UpdateRecordStatus(_ context.Context, id uint64, status string) error {
	rec, ok := s.records[id]
	if !ok {
		return nil
	}
	rec.Status = status
	s.records[id] = rec
	return nil
}

func (s *stubRepo) DeleteRecordsByUser(_ context.Context, email string) (int64, error) {
	var n int64
	for id, rec := range s.records {
		if rec.UserEmail == email {
			delete(s.records, id)
			n++
		}
	}
	return n, nil
}

var _ repository.Repository = (*stubRepo)(nil)
