package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/gabaoo/ping-pague-auto/internal/client/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repositoryImpl struct{}

// Provide builds the client repository.
func Provide() clientdomain.Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Insert(ctx context.Context, db *gorm.DB, client *clientdomain.Client) error {
	return db.WithContext(ctx).Create(client).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*clientdomain.Client, error) {
	var client clientdomain.Client
	err := db.WithContext(ctx).First(&client, "user_id = ? AND id = ?", userID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repositoryImpl) List(ctx context.Context, db *gorm.DB, filter clientdomain.ListFilter) ([]clientdomain.Client, error) {
	query := db.WithContext(ctx).Model(&clientdomain.Client{}).
		Where("user_id = ?", filter.UserID)
	if name := strings.TrimSpace(filter.Name); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}

	var clients []clientdomain.Client
	if err := query.Order("name ASC, id ASC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *repositoryImpl) Update(ctx context.Context, db *gorm.DB, client *clientdomain.Client) error {
	client.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).Save(client).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Delete(&clientdomain.Client{}, "user_id = ? AND id = ?", userID, id).Error
}

type summaryRow struct {
	ClientID      snowflake.ID
	TotalCharged  decimal.Decimal
	TotalPaid     decimal.Decimal
	TotalPending  decimal.Decimal
	OverdueCount  int64
	LastPaymentAt *time.Time
}

func (r *repositoryImpl) Summarize(ctx context.Context, db *gorm.DB, userID snowflake.ID, clientIDs []snowflake.ID) (map[snowflake.ID]clientdomain.Summary, error) {
	query := db.WithContext(ctx).Raw(
		`SELECT client_id,
		        COALESCE(SUM(amount), 0) AS total_charged,
		        COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0) AS total_paid,
		        COALESCE(SUM(CASE WHEN status IN ('pending', 'overdue') THEN amount ELSE 0 END), 0) AS total_pending,
		        COALESCE(SUM(CASE WHEN status = 'overdue' THEN 1 ELSE 0 END), 0) AS overdue_count,
		        MAX(paid_at) AS last_payment_at
		 FROM charges
		 WHERE user_id = ? AND canceled = false
		 GROUP BY client_id`,
		userID,
	)

	var rows []summaryRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	wanted := make(map[snowflake.ID]struct{}, len(clientIDs))
	for _, id := range clientIDs {
		wanted[id] = struct{}{}
	}

	summaries := make(map[snowflake.ID]clientdomain.Summary, len(rows))
	for _, row := range rows {
		if len(wanted) > 0 {
			if _, ok := wanted[row.ClientID]; !ok {
				continue
			}
		}
		summaries[row.ClientID] = clientdomain.Summary{
			ClientID:      row.ClientID,
			TotalCharged:  row.TotalCharged,
			TotalPaid:     row.TotalPaid,
			TotalPending:  row.TotalPending,
			OverdueCount:  row.OverdueCount,
			LastPaymentAt: row.LastPaymentAt,
		}
	}
	return summaries, nil
}
