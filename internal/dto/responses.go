package dto

import (
	"strconv"

	"github.com/rizanep/kamcom-bids/internal/models"
)

// BidPage — страница списка ставок с курсором продолжения.
type BidPage struct {
	Results    []models.Bid `json:"results"`
	Count      int          `json:"count"`
	NextCursor string       `json:"next,omitempty"`
}

// JobBidSummary — сводка по ставкам на заказ.
type JobBidSummary struct {
	JobID         models.ID `json:"job_id"`
	TotalBids     int       `json:"total_bids"`
	AverageAmount float64   `json:"average_amount"`
	LowestAmount  float64   `json:"lowest_amount"`
	HighestAmount float64   `json:"highest_amount"`
}

// ListBidsParams — параметры списка: фильтр, поиск и сортировка уходят
// на сервер плоскими query-параметрами.
type ListBidsParams struct {
	Status   string
	Search   string
	Ordering string
	Cursor   string
	PageSize int
}

// ToQuery сериализует параметры в плоский набор query-значений,
// пропуская пустые.
func (p ListBidsParams) ToQuery() map[string]string {
	q := make(map[string]string)
	if p.Status != "" && p.Status != "all" {
		q["status"] = p.Status
	}
	if p.Search != "" {
		q["search"] = p.Search
	}
	if p.Ordering != "" {
		q["ordering"] = p.Ordering
	}
	if p.Cursor != "" {
		q["cursor"] = p.Cursor
	}
	if p.PageSize > 0 {
		q["page_size"] = strconv.Itoa(p.PageSize)
	}
	return q
}

// BulkResult — итог массовой операции.
type BulkResult struct {
	Processed int      `json:"processed"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}
