package service

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	dashboarddomain "github.com/gabaoo/ping-pague-auto/internal/dashboard/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(p Params) dashboarddomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("dashboard.service"),
	}
}

type totalsRow struct {
	Status string
	Count  int64
	Total  decimal.Decimal
}

type paidRow struct {
	PaidAt time.Time
	Amount decimal.Decimal
}

func (s *Service) GetOverview(ctx context.Context, userID snowflake.ID) (dashboarddomain.OverviewResponse, error) {
	var resp dashboarddomain.OverviewResponse
	resp.Overview.TotalPending = decimal.Zero
	resp.Overview.TotalPaid = decimal.Zero
	resp.Overview.TotalOverdue = decimal.Zero

	var rows []totalsRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT status, COUNT(1) AS count, COALESCE(SUM(amount), 0) AS total
		 FROM charges
		 WHERE user_id = ? AND canceled = false
		 GROUP BY status`,
		userID,
	).Scan(&rows).Error
	if err != nil {
		return resp, err
	}

	for _, row := range rows {
		switch row.Status {
		case "pending":
			resp.Overview.PendingCount = row.Count
			resp.Overview.TotalPending = row.Total
		case "paid":
			resp.Overview.PaidCount = row.Count
			resp.Overview.TotalPaid = row.Total
		case "overdue":
			resp.Overview.OverdueCount = row.Count
			resp.Overview.TotalOverdue = row.Total
		}
	}

	if err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM charges WHERE user_id = ? AND canceled = true`,
		userID,
	).Scan(&resp.Overview.CanceledCount).Error; err != nil {
		return resp, err
	}

	if err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM clients WHERE user_id = ?`,
		userID,
	).Scan(&resp.Overview.ClientCount).Error; err != nil {
		return resp, err
	}

	monthly, err := s.monthlyRevenue(ctx, userID)
	if err != nil {
		return resp, err
	}
	resp.Monthly = monthly

	return resp, nil
}

// monthlyRevenue buckets confirmed payments from the last twelve months
// by calendar month. Bucketing happens in Go so the query stays portable
// between postgres and the sqlite used in tests.
func (s *Service) monthlyRevenue(ctx context.Context, userID snowflake.ID) ([]dashboarddomain.MonthlyRevenuePoint, error) {
	since := time.Now().UTC().AddDate(-1, 0, 0)

	var rows []paidRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT paid_at, amount
		 FROM charges
		 WHERE user_id = ? AND canceled = false AND status = 'paid' AND paid_at >= ?`,
		userID,
		since,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]decimal.Decimal)
	for _, row := range rows {
		month := row.PaidAt.UTC().Format("2006-01")
		buckets[month] = buckets[month].Add(row.Amount)
	}

	points := make([]dashboarddomain.MonthlyRevenuePoint, 0, len(buckets))
	for month, total := range buckets {
		points = append(points, dashboarddomain.MonthlyRevenuePoint{Month: month, Total: total})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })
	return points, nil
}
