// Package records filters, sorts, and paginates obligation records for the
// dashboard table. Every function is pure: inputs are never mutated and the
// same query over the same records always yields the same page.
package records

import (
	"sort"
	"strings"

	"bnpltrack/internal/models"
)

// PageSize is fixed by the dashboard table layout.
const PageSize = 10

// Status filters. Anything unrecognized falls back to StatusAll so a bad
// query string can never make the table unrenderable.
const (
	StatusActive = "active"
	StatusPaid   = "paid"
	StatusAll    = "all"
)

// Sort keys; all sorts are descending (newest/highest first).
const (
	SortByDate         = "date"
	SortByAmount       = "amount"
	SortByInstallments = "installments"
)

type QueryParams struct {
	Search  string `json:"search"`
	Status  string `json:"status"`
	SortKey string `json:"sort_key"`
	Page    int    `json:"page"`
}

type Page struct {
	Items       []models.BNPLRecord `json:"items"`
	TotalItems  int                 `json:"total_items"`
	TotalPages  int                 `json:"total_pages"`
	CurrentPage int                 `json:"current_page"`
}

// Query returns one page of records matching the params. A page past the end
// yields an empty item list, never an error; clamping the page indicator is
// the caller's concern.
func Query(recs []models.BNPLRecord, params QueryParams) Page {
	matched := filter(recs, params.Search, NormalizeStatus(params.Status))
	sortRecords(matched, params.SortKey)

	page := params.Page
	if page < 1 {
		page = 1
	}
	totalPages := (len(matched) + PageSize - 1) / PageSize

	out := Page{
		Items:       []models.BNPLRecord{},
		TotalItems:  len(matched),
		TotalPages:  totalPages,
		CurrentPage: page,
	}
	start := (page - 1) * PageSize
	if start >= len(matched) {
		return out
	}
	end := start + PageSize
	if end > len(matched) {
		end = len(matched)
	}
	out.Items = matched[start:end]
	return out
}

// MarkPaid returns a new record set with the matching record flipped to paid.
// An unknown id or an already-paid record leaves the set unchanged.
func MarkPaid(recs []models.BNPLRecord, id uint64) []models.BNPLRecord {
	out := make([]models.BNPLRecord, len(recs))
	copy(out, recs)
	for i := range out {
		if out[i].ID == id {
			out[i].Status = models.RecordStatusPaid
			break
		}
	}
	return out
}

// ActiveOnly keeps records still carrying an obligation.
func ActiveOnly(recs []models.BNPLRecord) []models.BNPLRecord {
	out := make([]models.BNPLRecord, 0, len(recs))
	for _, rec := range recs {
		if rec.IsActive() {
			out = append(out, rec)
		}
	}
	return out
}

// NormalizeStatus maps a raw status string onto the known filters. Callers
// pushing the filter down to storage use it to decide whether to filter at
// all.
func NormalizeStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusActive:
		return StatusActive
	case StatusPaid:
		return StatusPaid
	default:
		return StatusAll
	}
}

func filter(recs []models.BNPLRecord, search, status string) []models.BNPLRecord {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.BNPLRecord, 0, len(recs))
	for _, rec := range recs {
		if status != StatusAll && rec.Status != status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(rec.Vendor), needle) &&
			!strings.Contains(strings.ToLower(rec.EmailSubject), needle) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// sortRecords orders descending by the chosen key with an ascending-ID
// tie-break, so equal keys still produce a deterministic page across runs.
func sortRecords(recs []models.BNPLRecord, key string) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case SortByAmount:
		sort.Slice(recs, func(i, j int) bool {
			if c := recs[i].Amount.Cmp(recs[j].Amount); c != 0 {
				return c > 0
			}
			return recs[i].ID < recs[j].ID
		})
	case SortByInstallments:
		sort.Slice(recs, func(i, j int) bool {
			if recs[i].Installments != recs[j].Installments {
				return recs[i].Installments > recs[j].Installments
			}
			return recs[i].ID < recs[j].ID
		})
	default:
		sort.Slice(recs, func(i, j int) bool {
			if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
				return recs[i].CreatedAt.After(recs[j].CreatedAt)
			}
			return recs[i].ID < recs[j].ID
		})
	}
}
