package dto

import (
	"strings"
	"time"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
)

// ListQuery is the common query string of list and export endpoints:
// ?page=&limit=&q=&status=&bidang_id=&from=YYYY-MM-DD&to=YYYY-MM-DD
type ListQuery struct {
	Page     int    `query:"page" json:"page" validate:"omitempty,gte=0"`
	Limit    int    `query:"limit" json:"limit" validate:"omitempty,gte=0,lte=200"`
	Q        string `query:"q" json:"q" validate:"max=100"`
	Status   string `query:"status" json:"status"`
	BidangID uint   `query:"bidang_id" json:"bidang_id"`
	From     string `query:"from" json:"from" validate:"date"`
	To       string `query:"to" json:"to" validate:"date"`
}

func (q *ListQuery) Validate() map[string]string {
	errs := utils.ValidateStruct(q)
	if len(errs) > 0 {
		return errs
	}
	from, to := q.Range()
	if from != nil && to != nil && to.Before(*from) {
		errs["to"] = "to must not be before from"
	}
	return errs
}

// Range returns the parsed from/to dates. Call after Validate.
func (q *ListQuery) Range() (*time.Time, *time.Time) {
	from, _ := utils.ParseDate(q.From)
	to, _ := utils.ParseDate(q.To)
	return from, to
}

// Unit returns the bidang filter, nil when absent.
func (q *ListQuery) Unit() *uint {
	if q.BidangID == 0 {
		return nil
	}
	id := q.BidangID
	return &id
}

func (q *ListQuery) IncomingFilter() services.IncomingFilter {
	from, to := q.Range()
	return services.IncomingFilter{
		Query:    strings.TrimSpace(q.Q),
		Status:   models.LetterStatus(q.Status),
		BidangID: q.Unit(),
		From:     from,
		To:       to,
		Page:     q.Page,
		Limit:    q.Limit,
	}
}

func (q *ListQuery) OutgoingFilter() services.OutgoingFilter {
	from, to := q.Range()
	return services.OutgoingFilter{
		Query:    strings.TrimSpace(q.Q),
		Status:   models.OutgoingStatus(q.Status),
		BidangID: q.Unit(),
		From:     from,
		To:       to,
		Page:     q.Page,
		Limit:    q.Limit,
	}
}

func (q *ListQuery) DispositionFilter() services.DispositionFilter {
	return services.DispositionFilter{
		Status: models.DispositionStatus(q.Status),
		Page:   q.Page,
		Limit:  q.Limit,
	}
}

// Paging returns the effective page and limit after defaults.
func (q *ListQuery) Paging() (int, int) {
	return services.NormalizePage(q.Page, q.Limit)
}
