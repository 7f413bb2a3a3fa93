package records

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bnpltrack/internal/models"
)

func rec(id uint64, vendor, subject string, amount float64, installments int, status string, created time.Time) models.BNPLRecord {
	return models.BNPLRecord{
		ID:           id,
		UserEmail:    "user@example.com",
		Vendor:       vendor,
		EmailSubject: subject,
		Amount:       decimal.NewFromFloat(amount),
		Installments: installments,
		Status:       status,
		CreatedAt:    created,
	}
}

func sampleRecords() []models.BNPLRecord {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []models.BNPLRecord{
		rec(1, "Flipkart", "Your Flipkart Pay Later purchase", 6000, 3, models.RecordStatusActive, base),
		rec(2, "Amazon", "Amazon Pay Later EMI confirmation", 2400, 6, models.RecordStatusActive, base.Add(24*time.Hour)),
		rec(3, "Simpl", "Simpl bill generated", 900, 1, models.RecordStatusPaid, base.Add(48*time.Hour)),
		rec(4, "LazyPay", "LazyPay statement", 1500, 3, models.RecordStatusActive, base.Add(72*time.Hour)),
	}
}

func pageIDs(p Page) []uint64 {
	out := make([]uint64, 0, len(p.Items))
	for _, r := range p.Items {
		out = append(out, r.ID)
	}
	return out
}

func TestQuery_StatusActiveExcludesPaid(t *testing.T) {
	page := Query(sampleRecords(), QueryParams{Status: StatusActive})
	if page.TotalItems != 3 {
		t.Fatalf("total_items=%d want=3", page.TotalItems)
	}
	for _, r := range page.Items {
		if r.Status != models.RecordStatusActive {
			t.Fatalf("record %d has status %q in an active-only page", r.ID, r.Status)
		}
	}
}

func TestQuery_UnknownStatusFallsBackToAll(t *testing.T) {
	page := Query(sampleRecords(), QueryParams{Status: "archived"})
	if page.TotalItems != 4 {
		t.Fatalf("total_items=%d want=4", page.TotalItems)
	}
}

func TestQuery_SearchMatchesSubjectCaseInsensitive(t *testing.T) {
	page := Query(sampleRecords(), QueryParams{Search: "EMI CONFIRMATION"})
	if got := pageIDs(page); len(got) != 1 || got[0] != 2 {
		t.Fatalf("ids=%v want=[2]", got)
	}

	// Vendor matches too.
	page = Query(sampleRecords(), QueryParams{Search: "lazy"})
	if got := pageIDs(page); len(got) != 1 || got[0] != 4 {
		t.Fatalf("ids=%v want=[4]", got)
	}
}

func TestQuery_SortByAmountDescending(t *testing.T) {
	page := Query(sampleRecords(), QueryParams{SortKey: SortByAmount})
	if got := pageIDs(page); fmt.Sprint(got) != "[1 2 4 3]" {
		t.Fatalf("ids=%v want=[1 2 4 3]", got)
	}
	for i := 1; i < len(page.Items); i++ {
		if page.Items[i].Amount.GreaterThan(page.Items[i-1].Amount) {
			t.Fatalf("amounts not non-increasing at index %d", i)
		}
	}
}

func TestQuery_SortTieBreaksByID(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	recs := []models.BNPLRecord{
		rec(7, "A", "a", 1000, 3, models.RecordStatusActive, base),
		rec(2, "B", "b", 1000, 3, models.RecordStatusActive, base),
		rec(5, "C", "c", 1000, 3, models.RecordStatusActive, base),
	}
	for _, key := range []string{SortByAmount, SortByInstallments, SortByDate} {
		page := Query(recs, QueryParams{SortKey: key})
		if got := pageIDs(page); fmt.Sprint(got) != "[2 5 7]" {
			t.Fatalf("sort_key=%s ids=%v want=[2 5 7]", key, got)
		}
	}
}

func TestQuery_DefaultSortIsNewestFirst(t *testing.T) {
	page := Query(sampleRecords(), QueryParams{})
	if got := pageIDs(page); fmt.Sprint(got) != "[4 3 2 1]" {
		t.Fatalf("ids=%v want=[4 3 2 1]", got)
	}
}

func TestQuery_Pagination(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	recs := make([]models.BNPLRecord, 0, 25)
	for i := 1; i <= 25; i++ {
		recs = append(recs, rec(uint64(i), "Vendor", "subject", float64(100*i), 3, models.RecordStatusActive, base.Add(time.Duration(i)*time.Hour)))
	}

	page := Query(recs, QueryParams{Page: 1})
	if page.TotalItems != 25 || page.TotalPages != 3 || page.CurrentPage != 1 || len(page.Items) != PageSize {
		t.Fatalf("page 1: %+v", page)
	}

	page = Query(recs, QueryParams{Page: 3})
	if len(page.Items) != 5 || page.CurrentPage != 3 {
		t.Fatalf("page 3: items=%d current=%d", len(page.Items), page.CurrentPage)
	}

	page = Query(recs, QueryParams{Page: 4})
	if page.Items == nil || len(page.Items) != 0 {
		t.Fatalf("page past the end must yield an empty, non-nil item list: %#v", page.Items)
	}
	if page.TotalPages != 3 {
		t.Fatalf("total_pages=%d want=3", page.TotalPages)
	}

	page = Query(recs, QueryParams{Page: -2})
	if page.CurrentPage != 1 || len(page.Items) != PageSize {
		t.Fatalf("negative page must clamp to 1: current=%d items=%d", page.CurrentPage, len(page.Items))
	}
}

func TestQuery_DoesNotMutateInput(t *testing.T) {
	recs := sampleRecords()
	Query(recs, QueryParams{SortKey: SortByAmount})
	for i, r := range recs {
		if r.ID != uint64(i+1) {
			t.Fatalf("input order changed: index %d has id %d", i, r.ID)
		}
	}
}

func TestMarkPaid(t *testing.T) {
	recs := sampleRecords()
	out := MarkPaid(recs, 1)
	if out[0].Status != models.RecordStatusPaid {
		t.Fatalf("record 1 status=%q want=paid", out[0].Status)
	}
	if recs[0].Status != models.RecordStatusActive {
		t.Fatalf("input record mutated")
	}

	// Already paid and unknown ids leave the set unchanged.
	again := MarkPaid(out, 1)
	if again[0].Status != models.RecordStatusPaid {
		t.Fatalf("mark-paid must be idempotent")
	}
	missing := MarkPaid(recs, 999)
	for i := range missing {
		if missing[i].Status != recs[i].Status {
			t.Fatalf("unknown id changed record %d", missing[i].ID)
		}
	}
}

func TestActiveOnly(t *testing.T) {
	recs := sampleRecords()
	if got := len(ActiveOnly(recs)); got != 3 {
		t.Fatalf("active=%d want=3", got)
	}
	after := MarkPaid(recs, 2)
	if got := len(ActiveOnly(after)); got != 2 {
		t.Fatalf("active after mark-paid=%d want=2", got)
	}
}
