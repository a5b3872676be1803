package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/gabaoo/ping-pague-auto/internal/charge/domain"
	chargerepository "github.com/gabaoo/ping-pague-auto/internal/charge/repository"
	clientdomain "github.com/gabaoo/ping-pague-auto/internal/client/domain"
	"github.com/gabaoo/ping-pague-auto/internal/client/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testUserID = snowflake.ID(42)

func setupClientTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&clientdomain.Client{}, &chargedomain.Charge{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) clientdomain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return NewService(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Repo:       repository.Provide(),
		ChargeRepo: chargerepository.Provide(),
	})
}

func seedCharge(t *testing.T, db *gorm.DB, id, clientID snowflake.ID, amount string, status chargedomain.ChargeStatus, canceled bool, paidAt *time.Time) {
	t.Helper()
	charge := chargedomain.Charge{
		ID:       id,
		UserID:   testUserID,
		ClientID: clientID,
		Amount:   decimal.RequireFromString(amount),
		DueDate:  time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Status:   status,
		Canceled: canceled,
		PaidAt:   paidAt,
	}
	if err := db.Create(&charge).Error; err != nil {
		t.Fatalf("seed charge: %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	db := setupClientTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, clientdomain.CreateClientRequest{UserID: testUserID, Phone: "+5511999990000"})
	if !errors.Is(err, clientdomain.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}

	_, err = svc.Create(ctx, clientdomain.CreateClientRequest{UserID: testUserID, Name: "Maria"})
	if !errors.Is(err, clientdomain.ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}

	_, err = svc.Create(ctx, clientdomain.CreateClientRequest{
		UserID: testUserID, Name: "Maria", Phone: "+5511999990000", Email: "not-an-email",
	})
	if !errors.Is(err, clientdomain.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestSummaryExcludesCanceled(t *testing.T) {
	db := setupClientTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	client, err := svc.Create(ctx, clientdomain.CreateClientRequest{
		UserID: testUserID, Name: "Maria Silva", Phone: "+5511999990000",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	paidAt := time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC)
	seedCharge(t, db, 1, client.ID, "100.00", chargedomain.ChargeStatusPaid, false, &paidAt)
	seedCharge(t, db, 2, client.ID, "50.00", chargedomain.ChargeStatusPending, false, nil)
	seedCharge(t, db, 3, client.ID, "25.00", chargedomain.ChargeStatusOverdue, false, nil)
	// Canceled charges count nowhere.
	seedCharge(t, db, 4, client.ID, "999.00", chargedomain.ChargeStatusPending, true, nil)

	got, err := svc.GetByID(ctx, testUserID, client.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	summary := got.Summary
	if want := decimal.RequireFromString("175.00"); !summary.TotalCharged.Equal(want) {
		t.Fatalf("total charged = %s, want %s", summary.TotalCharged, want)
	}
	if want := decimal.RequireFromString("100.00"); !summary.TotalPaid.Equal(want) {
		t.Fatalf("total paid = %s, want %s", summary.TotalPaid, want)
	}
	if want := decimal.RequireFromString("75.00"); !summary.TotalPending.Equal(want) {
		t.Fatalf("total pending = %s, want %s", summary.TotalPending, want)
	}
	if summary.OverdueCount != 1 {
		t.Fatalf("overdue count = %d, want 1", summary.OverdueCount)
	}
	if summary.LastPaymentAt == nil {
		t.Fatal("expected last payment timestamp")
	}
}

func TestListMergesSummaries(t *testing.T) {
	db := setupClientTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	withCharges, err := svc.Create(ctx, clientdomain.CreateClientRequest{
		UserID: testUserID, Name: "Ana", Phone: "+5511988880000",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.Create(ctx, clientdomain.CreateClientRequest{
		UserID: testUserID, Name: "Bruno", Phone: "+5511977770000",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	seedCharge(t, db, 1, withCharges.ID, "100.00", chargedomain.ChargeStatusPending, false, nil)

	resp, err := svc.List(ctx, clientdomain.ListClientRequest{UserID: testUserID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Clients) != 2 {
		t.Fatalf("clients = %d, want 2", len(resp.Clients))
	}

	for _, entry := range resp.Clients {
		switch entry.Name {
		case "Ana":
			if want := decimal.RequireFromString("100.00"); !entry.Summary.TotalCharged.Equal(want) {
				t.Fatalf("Ana total charged = %s, want %s", entry.Summary.TotalCharged, want)
			}
		case "Bruno":
			if !entry.Summary.TotalCharged.Equal(decimal.Zero) {
				t.Fatalf("Bruno total charged = %s, want 0", entry.Summary.TotalCharged)
			}
		default:
			t.Fatalf("unexpected client %q", entry.Name)
		}
	}
}

func TestDeleteClientWithCharges(t *testing.T) {
	db := setupClientTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	client, err := svc.Create(ctx, clientdomain.CreateClientRequest{
		UserID: testUserID, Name: "Maria", Phone: "+5511999990000",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	seedCharge(t, db, 1, client.ID, "100.00", chargedomain.ChargeStatusPending, false, nil)

	if err := svc.Delete(ctx, testUserID, client.ID); !errors.Is(err, clientdomain.ErrClientHasCharges) {
		t.Fatalf("expected ErrClientHasCharges, got %v", err)
	}
}

func TestDeleteClientWithoutCharges(t *testing.T) {
	db := setupClientTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	client, err := svc.Create(ctx, clientdomain.CreateClientRequest{
		UserID: testUserID, Name: "Maria", Phone: "+5511999990000",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, testUserID, client.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, testUserID, client.ID); !errors.Is(err, clientdomain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestUpdateClearsEmail(t *testing.T) {
	db := setupClientTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	client, err := svc.Create(ctx, clientdomain.CreateClientRequest{
		UserID: testUserID, Name: "Maria", Phone: "+5511999990000", Email: "maria@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	empty := ""
	updated, err := svc.Update(ctx, clientdomain.UpdateClientRequest{
		UserID: testUserID, ID: client.ID, Email: &empty,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Email != nil {
		t.Fatalf("email = %v, want nil", *updated.Email)
	}
}
