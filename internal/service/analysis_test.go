package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bnpltrack/internal/finance"
	"bnpltrack/internal/models"
	"bnpltrack/internal/records"
)

const testUser = "user@example.com"

func seedProfile(repo *stubRepo, salary, rent, other int64) {
	repo.profiles[testUser] = models.UserProfile{
		ID:            1,
		Email:         testUser,
		Salary:        decimal.NewFromInt(salary),
		MonthlyRent:   decimal.NewFromInt(rent),
		OtherExpenses: decimal.NewFromInt(other),
	}
}

func seedRecord(t *testing.T, repo *stubRepo, msgID string, amount int64, installments int, due *time.Time) *models.BNPLRecord {
	t.Helper()
	rec := models.BNPLRecord{
		UserEmail:      testUser,
		GmailMessageID: msgID,
		Vendor:         "Flipkart",
		EmailSubject:   "Pay Later purchase",
		Amount:         decimal.NewFromInt(amount),
		Installments:   installments,
		DueDate:        due,
		Status:         models.RecordStatusActive,
	}
	created, err := repo.InsertRecord(context.Background(), &rec)
	if err != nil || !created {
		t.Fatalf("seed record: created=%v err=%v", created, err)
	}
	return &rec
}

func TestAnalysisSnapshot(t *testing.T) {
	repo := newStubRepo()
	seedProfile(repo, 30000, 5000, 3000)
	due := time.Now().UTC().Add(10 * 24 * time.Hour)
	seedRecord(t, repo, "msg-1", 6000, 3, &due)

	svc := &AnalysisService{Repo: repo}
	snap, err := svc.Snapshot(context.Background(), testUser)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Risk.TotalOutstanding.Cmp(decimal.NewFromInt(6000)) != 0 {
		t.Fatalf("total_outstanding=%s want=6000", snap.Risk.TotalOutstanding.String())
	}
	if snap.Risk.MonthlyObligation.Cmp(decimal.NewFromInt(2000)) != 0 {
		t.Fatalf("monthly_obligation=%s want=2000", snap.Risk.MonthlyObligation.String())
	}
	if snap.Risk.UpcomingDues.Cmp(decimal.NewFromInt(6000)) != 0 {
		t.Fatalf("upcoming_dues=%s want=6000", snap.Risk.UpcomingDues.String())
	}
	if snap.Risk.RiskLevel != finance.RiskLevelLow {
		t.Fatalf("risk_level=%s want=%s", snap.Risk.RiskLevel, finance.RiskLevelLow)
	}
	// 30% of 30000 minus the 2000 obligation.
	if snap.Affordability.AvailableEMICapacity.Cmp(decimal.NewFromInt(7000)) != 0 {
		t.Fatalf("available_capacity=%s want=7000", snap.Affordability.AvailableEMICapacity.String())
	}
	if snap.Affordability.Status != finance.AffordabilityHealthy {
		t.Fatalf("affordability status=%s want=%s", snap.Affordability.Status, finance.AffordabilityHealthy)
	}
}

func TestAnalysisSnapshot_DefaultProfile(t *testing.T) {
	repo := newStubRepo()
	svc := &AnalysisService{Repo: repo}

	snap, err := svc.Snapshot(context.Background(), testUser)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Profile.Salary.Cmp(DefaultSalary) != 0 {
		t.Fatalf("salary=%s want default %s", snap.Profile.Salary.String(), DefaultSalary.String())
	}
	if snap.Risk.RiskScore != 0 || snap.Risk.TransactionCount != 0 {
		t.Fatalf("empty record set must score zero: %+v", snap.Risk)
	}
}

func TestAnalysisSnapshot_RepoError(t *testing.T) {
	repo := newStubRepo()
	repo.errGet = context.DeadlineExceeded
	svc := &AnalysisService{Repo: repo}
	if _, err := svc.Snapshot(context.Background(), testUser); err == nil {
		t.Fatalf("expected the repository error to propagate")
	}
}

func TestAnalysisSimulate(t *testing.T) {
	repo := newStubRepo()
	seedProfile(repo, 30000, 5000, 3000)
	seedRecord(t, repo, "msg-1", 6000, 3, nil)

	svc := &AnalysisService{Repo: repo}
	salary := decimal.NewFromInt(10500)
	sim, advice, err := svc.Simulate(context.Background(), testUser, finance.ProfileOverrides{Salary: &salary})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	// 10500 - (5000 + 3000 + 2000)
	if sim.DisposableIncome.Cmp(decimal.NewFromInt(500)) != 0 {
		t.Fatalf("disposable=%s want=500", sim.DisposableIncome.String())
	}
	if len(advice) != 1 || advice[0].Class != finance.AdviceLowSavings {
		t.Fatalf("advice=%+v want a single low-savings warning", advice)
	}
	// Stored profile must be untouched by the what-if run.
	stored, _ := repo.GetProfileByEmail(context.Background(), testUser)
	if stored.Salary.Cmp(decimal.NewFromInt(30000)) != 0 {
		t.Fatalf("stored salary changed to %s", stored.Salary.String())
	}
}

func TestRecordMarkPaid(t *testing.T) {
	repo := newStubRepo()
	seedProfile(repo, 30000, 5000, 3000)
	rec := seedRecord(t, repo, "msg-1", 6000, 3, nil)
	seedRecord(t, repo, "msg-2", 2400, 6, nil)

	svc := &RecordService{Repo: repo}
	refreshed, err := svc.MarkPaid(context.Background(), testUser, rec.ID)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	for _, r := range refreshed {
		if r.ID == rec.ID && r.Status != models.RecordStatusPaid {
			t.Fatalf("record %d still %s", r.ID, r.Status)
		}
	}
	stored, _ := repo.GetRecordByID(context.Background(), rec.ID)
	if stored.Status != models.RecordStatusPaid {
		t.Fatalf("stored status=%s want=paid", stored.Status)
	}

	// Second call is a no-op, as is an unknown id or another user's record.
	again, err := svc.MarkPaid(context.Background(), testUser, rec.ID)
	if err != nil || len(again) != 2 {
		t.Fatalf("idempotent mark paid: len=%d err=%v", len(again), err)
	}
	missing, err := svc.MarkPaid(context.Background(), testUser, 999)
	if err != nil || len(missing) != 2 {
		t.Fatalf("unknown id: len=%d err=%v", len(missing), err)
	}
	other, err := svc.MarkPaid(context.Background(), "other@example.com", rec.ID)
	if err != nil || len(other) != 0 {
		t.Fatalf("other user must not flip the record: len=%d err=%v", len(other), err)
	}
}

func TestRecordIngest(t *testing.T) {
	repo := newStubRepo()
	svc := &RecordService{Repo: repo}

	input := RecordInput{
		GmailMessageID: "msg-1",
		Vendor:         "Amazon",
		EmailSubject:   "Pay Later EMI confirmation",
		Amount:         decimal.NewFromInt(2400),
		Installments:   0,
		Detection:      map[string]any{"confidence": 0.92},
	}
	rec, created, err := svc.Ingest(context.Background(), testUser, input)
	if err != nil || !created {
		t.Fatalf("ingest: created=%v err=%v", created, err)
	}
	if rec.Installments != 1 {
		t.Fatalf("installments=%d want=1 (non-positive input floors to one)", rec.Installments)
	}
	if len(rec.Detection) == 0 {
		t.Fatalf("detection payload not stored")
	}

	// Same mailbox message again is a duplicate.
	_, created, err = svc.Ingest(context.Background(), testUser, input)
	if err != nil || created {
		t.Fatalf("duplicate ingest: created=%v err=%v", created, err)
	}

	// An unserializable detection payload drops the audit blob, not the record.
	odd := RecordInput{
		GmailMessageID: "msg-2",
		Vendor:         "Simpl",
		Amount:         decimal.NewFromInt(900),
		Installments:   1,
		Detection:      map[string]any{"raw": make(chan int)},
	}
	rec, created, err = svc.Ingest(context.Background(), testUser, odd)
	if err != nil || !created {
		t.Fatalf("ingest with odd payload: created=%v err=%v", created, err)
	}
	if len(rec.Detection) != 0 {
		t.Fatalf("detection stored despite marshal failure: %s", rec.Detection)
	}

	if _, _, err = svc.Ingest(context.Background(), testUser, RecordInput{Vendor: "X", Amount: decimal.Zero}); err == nil {
		t.Fatalf("expected error for non-positive amount")
	}
	if _, _, err = svc.Ingest(context.Background(), testUser, RecordInput{Amount: decimal.NewFromInt(100)}); err == nil {
		t.Fatalf("expected error for missing vendor")
	}
}

func TestRecordQuery_StatusPushedToStore(t *testing.T) {
	repo := newStubRepo()
	rec := seedRecord(t, repo, "msg-1", 6000, 3, nil)
	seedRecord(t, repo, "msg-2", 2400, 6, nil)
	if err := repo.UpdateRecordStatus(context.Background(), rec.ID, models.RecordStatusPaid); err != nil {
		t.Fatalf("flip status: %v", err)
	}

	svc := &RecordService{Repo: repo}
	page, err := svc.Query(context.Background(), testUser, records.QueryParams{Status: records.StatusActive})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if page.TotalItems != 1 || len(page.Items) != 1 || page.Items[0].Status != models.RecordStatusActive {
		t.Fatalf("active query returned %+v", page)
	}

	// Unknown status loads the full set.
	page, err = svc.Query(context.Background(), testUser, records.QueryParams{Status: "archived"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if page.TotalItems != 2 {
		t.Fatalf("total_items=%d want=2", page.TotalItems)
	}
}

func TestProfileUpdateValidation(t *testing.T) {
	repo := newStubRepo()
	svc := &ProfileService{Repo: repo}

	valid := ProfileInput{
		FullName:      "A User",
		City:          "Bengaluru",
		Salary:        decimal.NewFromInt(45000),
		MonthlyRent:   decimal.NewFromInt(12000),
		OtherExpenses: decimal.NewFromInt(6000),
	}
	saved, err := svc.Update(context.Background(), testUser, valid)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if saved.Salary.Cmp(valid.Salary) != 0 {
		t.Fatalf("saved salary=%s want=%s", saved.Salary.String(), valid.Salary.String())
	}

	bad := valid
	bad.Salary = decimal.NewFromInt(9999)
	if _, err := svc.Update(context.Background(), testUser, bad); err == nil {
		t.Fatalf("expected error for salary below the floor")
	}
	bad = valid
	bad.MonthlyRent = decimal.NewFromInt(-1)
	if _, err := svc.Update(context.Background(), testUser, bad); err == nil {
		t.Fatalf("expected error for negative rent")
	}

	// Rejected edits must not touch the stored profile.
	stored, _ := svc.Get(context.Background(), testUser)
	if stored.Salary.Cmp(valid.Salary) != 0 {
		t.Fatalf("stored salary=%s want=%s", stored.Salary.String(), valid.Salary.String())
	}
}

func TestProfileGetDefault(t *testing.T) {
	svc := &ProfileService{Repo: newStubRepo()}
	p, err := svc.Get(context.Background(), testUser)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Email != testUser || p.Salary.Cmp(DefaultSalary) != 0 {
		t.Fatalf("default profile: %+v", p)
	}
}
