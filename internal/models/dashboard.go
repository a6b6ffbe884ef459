package models

// DashboardSummary — агрегированные метрики по ставкам пользователя.
// Приходит целиком с сервера; локальные оптимистичные правки помечаются
// флагом устаревания в сторе и замещаются при следующей полной загрузке.
type DashboardSummary struct {
	TotalBids              int     `json:"total_bids"`
	PendingBids            int     `json:"pending_bids"`
	AcceptedBids           int     `json:"accepted_bids"`
	AcceptanceRate         float64 `json:"acceptance_rate"`
	ResponseRate           float64 `json:"response_rate"`
	TotalPotentialEarnings float64 `json:"total_potential_earnings"`
	AverageBidAmount       float64 `json:"average_bid_amount"`
	ProfileViews           int     `json:"profile_views"`
	JobViews               int     `json:"job_views"`
}

// BidAnalytics — расширенная аналитика по ставкам за период.
type BidAnalytics struct {
	Period        string         `json:"period"`
	BidsByStatus  map[string]int `json:"bids_by_status"`
	BidsByMonth   map[string]int `json:"bids_by_month"`
	TotalEarnings float64        `json:"total_earnings"`
	AverageAmount float64        `json:"average_amount"`
}
