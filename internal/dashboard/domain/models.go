package domain

import "github.com/shopspring/decimal"

// Overview aggregates a tenant's active charges. Everything here is
// recomputed from the charges table on read.
type Overview struct {
	TotalPending  decimal.Decimal `json:"total_pending"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalOverdue  decimal.Decimal `json:"total_overdue"`
	PendingCount  int64           `json:"pending_count"`
	PaidCount     int64           `json:"paid_count"`
	OverdueCount  int64           `json:"overdue_count"`
	ClientCount   int64           `json:"client_count"`
	CanceledCount int64           `json:"canceled_count"`
}

// MonthlyRevenuePoint is one month of confirmed payments.
type MonthlyRevenuePoint struct {
	Month string          `json:"month"` // YYYY-MM
	Total decimal.Decimal `json:"total"`
}

// OverviewResponse is the dashboard API response.
type OverviewResponse struct {
	Overview Overview              `json:"overview"`
	Monthly  []MonthlyRevenuePoint `json:"monthly_revenue"`
}
