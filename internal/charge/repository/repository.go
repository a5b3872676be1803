package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/gabaoo/ping-pague-auto/internal/charge/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repositoryImpl struct{}

// Provide builds the charge repository.
func Provide() chargedomain.Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Insert(ctx context.Context, db *gorm.DB, charge *chargedomain.Charge) error {
	return db.WithContext(ctx).Create(charge).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*chargedomain.Charge, error) {
	var charge chargedomain.Charge
	err := db.WithContext(ctx).First(&charge, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *repositoryImpl) FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*chargedomain.Charge, error) {
	query := db.WithContext(ctx)
	// sqlite has no row locks; its transactions serialize writers anyway.
	if db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var charge chargedomain.Charge
	err := query.First(&charge, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *repositoryImpl) List(ctx context.Context, db *gorm.DB, filter chargedomain.ListFilter) ([]chargedomain.Charge, error) {
	query := db.WithContext(ctx).Model(&chargedomain.Charge{}).
		Where("user_id = ?", filter.UserID)
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if !filter.IncludeCanceled {
		query = query.Where("canceled = ?", false)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var charges []chargedomain.Charge
	if err := query.Order("due_date ASC, id ASC").Find(&charges).Error; err != nil {
		return nil, err
	}
	return charges, nil
}

func (r *repositoryImpl) Update(ctx context.Context, db *gorm.DB, charge *chargedomain.Charge) error {
	charge.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).Save(charge).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&chargedomain.Charge{}, "id = ?", id).Error
}

func (r *repositoryImpl) HasChargesForClient(ctx context.Context, db *gorm.DB, userID, clientID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&chargedomain.Charge{}).
		Where("user_id = ? AND client_id = ?", userID, clientID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repositoryImpl) MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, paidAt, now time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE charges
		 SET status = ?, paid_at = ?, updated_at = ?
		 WHERE id = ? AND canceled = false AND status IN (?, ?)`,
		chargedomain.ChargeStatusPaid,
		paidAt,
		now,
		id,
		chargedomain.ChargeStatusPending,
		chargedomain.ChargeStatusOverdue,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) MarkCanceled(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE charges
		 SET canceled = true, updated_at = ?
		 WHERE id = ? AND canceled = false AND status IN (?, ?)`,
		now,
		id,
		chargedomain.ChargeStatusPending,
		chargedomain.ChargeStatusOverdue,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) MarkOverdue(ctx context.Context, db *gorm.DB, id snowflake.ID, today, now time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE charges
		 SET status = ?, updated_at = ?
		 WHERE id = ? AND canceled = false AND status = ? AND due_date < ?`,
		chargedomain.ChargeStatusOverdue,
		now,
		id,
		chargedomain.ChargeStatusPending,
		today,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) PromoteOverdue(ctx context.Context, db *gorm.DB, today, now time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE charges
		 SET status = ?, updated_at = ?
		 WHERE canceled = false AND status = ? AND due_date < ?`,
		chargedomain.ChargeStatusOverdue,
		now,
		chargedomain.ChargeStatusPending,
		today,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) FindReminderSet(ctx context.Context, db *gorm.DB, dueDate time.Time, limit int) ([]chargedomain.Charge, error) {
	query := db.WithContext(ctx).Model(&chargedomain.Charge{}).
		Where("canceled = ? AND status = ?", false, chargedomain.ChargeStatusPending).
		Where("due_date = ?", dueDate).
		Where("last_notification_sent_at IS NULL")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var charges []chargedomain.Charge
	if err := query.Order("id ASC").Find(&charges).Error; err != nil {
		return nil, err
	}
	return charges, nil
}

func (r *repositoryImpl) FindOverdueAlertSet(ctx context.Context, db *gorm.DB, today time.Time, limit int) ([]chargedomain.Charge, error) {
	query := db.WithContext(ctx).Model(&chargedomain.Charge{}).
		Where("canceled = ? AND status = ?", false, chargedomain.ChargeStatusOverdue).
		Where("last_overdue_alert_at IS NULL OR last_overdue_alert_at < ?", today)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var charges []chargedomain.Charge
	if err := query.Order("id ASC").Find(&charges).Error; err != nil {
		return nil, err
	}
	return charges, nil
}

func (r *repositoryImpl) StampReminderSent(ctx context.Context, db *gorm.DB, ids []snowflake.ID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`UPDATE charges
		 SET last_notification_sent_at = ?, updated_at = ?
		 WHERE id IN ? AND last_notification_sent_at IS NULL`,
		at,
		at,
		ids,
	).Error
}

func (r *repositoryImpl) StampOverdueAlert(ctx context.Context, db *gorm.DB, ids []snowflake.ID, day time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return db.WithContext(ctx).Exec(
		`UPDATE charges
		 SET last_overdue_alert_at = ?, updated_at = ?
		 WHERE id IN ?`,
		day,
		now,
		ids,
	).Error
}
