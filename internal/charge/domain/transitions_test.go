package domain

import (
	"errors"
	"testing"
	"time"
)

func TestCanConfirmPayment(t *testing.T) {
	cases := []struct {
		name    string
		charge  Charge
		wantErr bool
	}{
		{"pending", Charge{Status: ChargeStatusPending}, false},
		{"overdue", Charge{Status: ChargeStatusOverdue}, false},
		{"paid", Charge{Status: ChargeStatusPaid}, true},
		{"canceled pending", Charge{Status: ChargeStatusPending, Canceled: true}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.charge.CanConfirmPayment()
			if tc.wantErr && !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCanCancel(t *testing.T) {
	if err := (Charge{Status: ChargeStatusPaid}).CanCancel(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for paid, got %v", err)
	}
	if err := (Charge{Status: ChargeStatusOverdue}).CanCancel(); err != nil {
		t.Fatalf("unexpected error for overdue: %v", err)
	}
	if err := (Charge{Status: ChargeStatusPending, Canceled: true}).CanCancel(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for already canceled, got %v", err)
	}
}

func TestOverdueAsOf(t *testing.T) {
	today := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	pastDue := Charge{Status: ChargeStatusPending, DueDate: today.AddDate(0, 0, -1)}
	if !pastDue.OverdueAsOf(today) {
		t.Fatal("expected past-due pending charge to be overdue")
	}

	dueToday := Charge{Status: ChargeStatusPending, DueDate: today}
	if dueToday.OverdueAsOf(today) {
		t.Fatal("a charge due today is not overdue")
	}

	canceled := Charge{Status: ChargeStatusPending, Canceled: true, DueDate: today.AddDate(0, 0, -1)}
	if canceled.OverdueAsOf(today) {
		t.Fatal("canceled charges never go overdue")
	}

	paid := Charge{Status: ChargeStatusPaid, DueDate: today.AddDate(0, 0, -1)}
	if paid.OverdueAsOf(today) {
		t.Fatal("paid charges never go overdue")
	}
}
