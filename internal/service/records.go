package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"bnpltrack/internal/models"
	"bnpltrack/internal/records"
	"bnpltrack/internal/repository"
)

// RecordInput is the ingest surface for externally detected BNPL purchases.
// Detection itself (mailbox parsing) happens upstream; this service only
// stores already-validated results.
type RecordInput struct {
	GmailMessageID string          `json:"gmail_message_id"`
	Vendor         string          `json:"vendor"`
	EmailSubject   string          `json:"email_subject"`
	Amount         decimal.Decimal `json:"amount"`
	Installments   int             `json:"installments"`
	DueDate        *time.Time      `json:"due_date"`
	Detection      map[string]any  `json:"detection"`
}

type RecordService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// maxQueryRecords caps how many rows the in-memory query engine loads per
// user; it matches the store's normalizeLimit ceiling.
const maxQueryRecords = 1000

// Query loads the user's records with the status filter pushed down to the
// store, then runs the in-memory engine for search, sort, and pagination.
func (s *RecordService) Query(ctx context.Context, email string, params records.QueryParams) (records.Page, error) {
	if s == nil || s.Repo == nil {
		return records.Page{}, nil
	}
	listParams := repository.ListRecordsParams{
		UserEmail: strings.TrimSpace(email),
		Limit:     maxQueryRecords,
	}
	if status := records.NormalizeStatus(params.Status); status != records.StatusAll {
		listParams.Status = &status
	}
	recs, err := s.Repo.ListRecords(ctx, listParams)
	if err != nil {
		return records.Page{}, err
	}
	return records.Query(recs, params), nil
}

// Ingest stores a detected record. Returns created=false when the same
// mailbox message was already ingested for this user.
func (s *RecordService) Ingest(ctx context.Context, email string, input RecordInput) (*models.BNPLRecord, bool, error) {
	if s == nil || s.Repo == nil {
		return nil, false, nil
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, false, fmt.Errorf("user email is required")
	}
	if strings.TrimSpace(input.Vendor) == "" {
		return nil, false, fmt.Errorf("vendor is required")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, false, fmt.Errorf("amount must be positive")
	}
	installments := input.Installments
	if installments < 1 {
		installments = 1
	}

	item := models.BNPLRecord{
		UserEmail:      email,
		GmailMessageID: strings.TrimSpace(input.GmailMessageID),
		Vendor:         strings.TrimSpace(input.Vendor),
		EmailSubject:   strings.TrimSpace(input.EmailSubject),
		Amount:         input.Amount,
		Installments:   installments,
		DueDate:        input.DueDate,
		Status:         models.RecordStatusActive,
	}
	if len(input.Detection) > 0 {
		raw, err := json.Marshal(input.Detection)
		if err != nil {
			// The record is still worth keeping; only the audit payload is lost.
			if s.Logger != nil {
				s.Logger.Warn("detection payload not serializable, dropping it",
					zap.String("user", email),
					zap.Error(err),
				)
			}
		} else {
			item.Detection = datatypes.JSON(raw)
		}
	}

	created, err := s.Repo.InsertRecord(ctx, &item)
	if err != nil {
		return nil, false, err
	}
	if !created {
		if s.Logger != nil {
			s.Logger.Debug("skipping duplicate gmail message",
				zap.String("user", email),
				zap.String("gmail_message_id", item.GmailMessageID),
			)
		}
		return nil, false, nil
	}
	return &item, true, nil
}

// MarkPaid flips a record to paid and returns the user's refreshed record
// set. Unknown ids, records of other users, and already-paid records are
// no-ops: the current set comes back unchanged.
func (s *RecordService) MarkPaid(ctx context.Context, email string, id uint64) ([]models.BNPLRecord, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	current, err := s.Repo.ListRecordsByUser(ctx, email)
	if err != nil {
		return nil, err
	}

	rec, err := s.Repo.GetRecordByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.UserEmail != strings.TrimSpace(email) || !rec.IsActive() {
		return current, nil
	}

	if err := s.Repo.UpdateRecordStatus(ctx, id, models.RecordStatusPaid); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("record marked paid",
			zap.String("user", email),
			zap.Uint64("record_id", id),
			zap.String("vendor", rec.Vendor),
		)
	}
	return records.MarkPaid(current, id), nil
}

// Clear removes every record for a user (mailbox re-sync support).
func (s *RecordService) Clear(ctx context.Context, email string) (int64, error) {
	if s == nil || s.Repo == nil {
		return 0, nil
	}
	n, err := s.Repo.DeleteRecordsByUser(ctx, email)
	if err != nil {
		return 0, err
	}
	if s.Logger != nil && n > 0 {
		s.Logger.Info("cleared records", zap.String("user", email), zap.Int64("count", n))
	}
	return n, nil
}
