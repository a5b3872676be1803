// Package render produces the WhatsApp message bodies. Copy is fixed to
// Brazilian Portuguese, matching the product's audience; amounts render
// with BRL separators and dates as dd/mm/yyyy.
package render

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Renderer struct {
	printer *message.Printer
}

func NewRenderer() *Renderer {
	return &Renderer{printer: message.NewPrinter(language.BrazilianPortuguese)}
}

// Reminder renders the upcoming-due-date nudge sent leadDays before the
// due date.
func (r *Renderer) Reminder(clientName string, amount decimal.Decimal, dueDate time.Time, leadDays int) string {
	return r.printer.Sprintf("Olá %s! Lembrete: sua cobrança de R$ %.2f vence em %d dias (%s).",
		fallbackName(clientName), amountFloat(amount), leadDays, formatDate(dueDate))
}

// Overdue renders the past-due alert.
func (r *Renderer) Overdue(clientName string, amount decimal.Decimal, dueDate time.Time) string {
	return r.printer.Sprintf("Olá %s! Sua cobrança de R$ %.2f está vencida desde %s. Por favor, regularize seu pagamento.",
		fallbackName(clientName), amountFloat(amount), formatDate(dueDate))
}

// PaymentConfirmed renders the thank-you message after a payment lands.
func (r *Renderer) PaymentConfirmed(clientName string, amount decimal.Decimal) string {
	return r.printer.Sprintf("Pagamento confirmado! Obrigado, %s! Recebemos seu pagamento de R$ %.2f.",
		fallbackName(clientName), amountFloat(amount))
}

func formatDate(d time.Time) string {
	return d.Format("02/01/2006")
}

func amountFloat(amount decimal.Decimal) float64 {
	f, _ := amount.Float64()
	return f
}

func fallbackName(name string) string {
	if name == "" {
		return "Cliente"
	}
	return name
}
