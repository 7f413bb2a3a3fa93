package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	RecordStatusActive = "active"
	// RecordStatusPaid is terminal; a paid record is never reactivated.
	RecordStatusPaid = "paid"
)

// BNPLRecord is one Buy-Now-Pay-Later purchase detected by the upstream
// ingestion pipeline. Records arrive already validated; the dashboard only
// reads them and flips status active -> paid.
type BNPLRecord struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserEmail string `gorm:"type:varchar(255);not null;index;uniqueIndex:idx_user_gmail_msg,priority:1" json:"user_email"`

	// GmailMessageID keeps ingest idempotent: re-syncing the same mailbox
	// message must not produce a duplicate obligation.
	GmailMessageID string `gorm:"type:varchar(128);uniqueIndex:idx_user_gmail_msg,priority:2" json:"gmail_message_id"`

	Vendor       string `gorm:"type:varchar(255);not null" json:"vendor"`
	EmailSubject string `gorm:"type:text" json:"email_subject"`

	Amount       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Installments int             `gorm:"not null;default:1" json:"installments"`

	DueDate *time.Time `gorm:"type:timestamptz;index" json:"due_date"`
	Status  string     `gorm:"type:varchar(20);not null;index;default:'active'" json:"status"`

	// Raw detection payload from the upstream parser, kept for audit.
	Detection datatypes.JSON `gorm:"type:jsonb" json:"detection,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (BNPLRecord) TableName() string {
	return "bnpl_records"
}

func (r BNPLRecord) IsActive() bool {
	return r.Status == RecordStatusActive
}

// MonthlyEMI is the per-installment payment, amount / installments.
// A non-positive installment count yields zero rather than a division error.
func (r BNPLRecord) MonthlyEMI() decimal.Decimal {
	if r.Installments <= 0 {
		return decimal.Zero
	}
	return r.Amount.Div(decimal.NewFromInt(int64(r.Installments)))
}
