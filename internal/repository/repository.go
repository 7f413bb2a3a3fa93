package repository

import (
	"context"

	"bnpltrack/internal/models"
)

type ListRecordsParams struct {
	UserEmail string
	Status    *string
	Limit     int
	Offset    int
}

// Repository is the persistence boundary. The computation core never touches
// it; services load inputs here and hand them to the pure functions.
type Repository interface {
	// Profiles
	GetProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	UpsertProfile(ctx context.Context, item *models.UserProfile) error
	ListUserEmails(ctx context.Context) ([]string, error)

	// BNPL records
	InsertRecord(ctx context.Context, item *models.BNPLRecord) (bool, error)
	GetRecordByID(ctx context.Context, id uint64) (*models.BNPLRecord, error)
	ListRecordsByUser(ctx context.Context, email string) ([]models.BNPLRecord, error)
	ListRecords(ctx context.Context, params ListRecordsParams) ([]models.BNPLRecord, error)
	CountRecords(ctx context.Context, params ListRecordsParams) (int64, error)
	UpdateRecordStatus(ctx context.Context, id uint64, status string) error
	DeleteRecordsByUser(ctx context.Context, email string) (int64, error)
}
