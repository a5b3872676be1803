package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/gabaoo/ping-pague-auto/internal/charge/domain"
	clientdomain "github.com/gabaoo/ping-pague-auto/internal/client/domain"
	"github.com/gabaoo/ping-pague-auto/internal/recurrence"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// DemoUserID is the fixed tenant used by local development and the
	// e2e suite. Production never seeds.
	DemoUserID        = snowflake.ID(1)
	demoClientName    = "Cliente Demo"
	demoClientPhone   = "+5511999990000"
	demoChargeAmount  = "150.50"
	demoChargeDueDays = 7
)

// EnsureDemoData seeds one demo client with a recurring charge so a
// fresh environment has something to show. Idempotent: reuses rows it
// finds.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		client, err := ensureDemoClientTx(ctx, tx, node)
		if err != nil {
			return err
		}

		var charge chargedomain.Charge
		err = tx.WithContext(ctx).
			Where("user_id = ? AND client_id = ?", DemoUserID, client.ID).
			First(&charge).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		amount, err := decimal.NewFromString(demoChargeAmount)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		dueDate := recurrence.DateOnly(now.AddDate(0, 0, demoChargeDueDays))
		nextDate, err := recurrence.NextOccurrence(dueDate, recurrence.IntervalMonthly)
		if err != nil {
			return err
		}
		day := recurrence.AnchorDay(dueDate)

		charge = chargedomain.Charge{
			ID:                 node.Generate(),
			UserID:             DemoUserID,
			ClientID:           client.ID,
			Amount:             amount,
			DueDate:            dueDate,
			Status:             chargedomain.ChargeStatusPending,
			IsRecurrent:        true,
			RecurrenceInterval: recurrence.IntervalMonthly,
			RecurrenceDay:      &day,
			NextChargeDate:     &nextDate,
			Metadata:           datatypes.JSONMap{},
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		return tx.WithContext(ctx).Create(&charge).Error
	})
}

func ensureDemoClientTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (clientdomain.Client, error) {
	var client clientdomain.Client
	err := tx.WithContext(ctx).
		Where("user_id = ? AND name = ?", DemoUserID, demoClientName).
		First(&client).Error
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return client, err
	}

	now := time.Now().UTC()
	client = clientdomain.Client{
		ID:        node.Generate(),
		UserID:    DemoUserID,
		Name:      demoClientName,
		Phone:     demoClientPhone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&client).Error; err != nil {
		return client, err
	}
	return client, nil
}
