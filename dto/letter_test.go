package dto

import (
	"testing"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQueryValidate(t *testing.T) {
	q := ListQuery{From: "2025-13-01"}
	errs := q.Validate()
	assert.Equal(t, "from must use format YYYY-MM-DD", errs["from"])

	q = ListQuery{From: "2025-03-10", To: "2025-03-01"}
	errs = q.Validate()
	assert.Contains(t, errs, "to")

	q = ListQuery{Limit: 500}
	assert.Contains(t, q.Validate(), "limit")

	q = ListQuery{From: "2025-03-01", To: "2025-03-01", Limit: 50}
	assert.Empty(t, q.Validate())
}

func TestListQueryFilters(t *testing.T) {
	q := ListQuery{Q: "  LKPD ", Status: "baru", BidangID: 3, From: "2025-01-01", To: "2025-01-31", Page: 2, Limit: 10}
	require.Empty(t, q.Validate())

	in := q.IncomingFilter()
	assert.Equal(t, "LKPD", in.Query)
	assert.Equal(t, models.LetterStatus("baru"), in.Status)
	require.NotNil(t, in.BidangID)
	assert.Equal(t, uint(3), *in.BidangID)
	require.NotNil(t, in.From)
	require.NotNil(t, in.To)
	assert.Equal(t, 31, in.To.Day())
	assert.Equal(t, 2, in.Page)

	out := q.OutgoingFilter()
	assert.Equal(t, models.OutgoingStatus("baru"), out.Status)
	assert.Equal(t, 10, out.Limit)

	assert.Nil(t, (&ListQuery{}).Unit())
	assert.Nil(t, (&ListQuery{}).IncomingFilter().From)
}

func TestListQueryPaging(t *testing.T) {
	page, limit := (&ListQuery{}).Paging()
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	page, limit = (&ListQuery{Page: 4, Limit: 200}).Paging()
	assert.Equal(t, 4, page)
	assert.Equal(t, 200, limit)
}
