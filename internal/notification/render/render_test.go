package render

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestReminderMessage(t *testing.T) {
	r := NewRenderer()
	due := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	msg := r.Reminder("Maria", decimal.NewFromFloat(150.5), due, 2)

	if !strings.Contains(msg, "Olá Maria!") {
		t.Fatalf("expected greeting, got %q", msg)
	}
	if !strings.Contains(msg, "150,50") {
		t.Fatalf("expected BRL decimal comma, got %q", msg)
	}
	if !strings.Contains(msg, "01/03/2024") {
		t.Fatalf("expected dd/mm/yyyy date, got %q", msg)
	}
	if !strings.Contains(msg, "em 2 dias") {
		t.Fatalf("expected lead days, got %q", msg)
	}
}

func TestOverdueMessage(t *testing.T) {
	r := NewRenderer()
	due := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	msg := r.Overdue("João", decimal.NewFromInt(99), due)

	if !strings.Contains(msg, "vencida desde 10/02/2024") {
		t.Fatalf("expected overdue date, got %q", msg)
	}
	if !strings.Contains(msg, "regularize seu pagamento") {
		t.Fatalf("expected call to action, got %q", msg)
	}
}

func TestPaymentConfirmedMessage(t *testing.T) {
	r := NewRenderer()
	msg := r.PaymentConfirmed("Ana", decimal.NewFromFloat(1234.56))

	if !strings.Contains(msg, "Obrigado, Ana!") {
		t.Fatalf("expected thanks, got %q", msg)
	}
	if !strings.Contains(msg, "1.234,56") {
		t.Fatalf("expected grouped BRL amount, got %q", msg)
	}
}

func TestEmptyClientNameFallsBack(t *testing.T) {
	r := NewRenderer()
	msg := r.PaymentConfirmed("", decimal.NewFromInt(10))
	if !strings.Contains(msg, "Obrigado, Cliente!") {
		t.Fatalf("expected fallback name, got %q", msg)
	}
}
