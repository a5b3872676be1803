package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/gabaoo/ping-pague-auto/internal/charge/domain"
	clientdomain "github.com/gabaoo/ping-pague-auto/internal/client/domain"
	"github.com/shopspring/decimal"
)

// HistoryRow is one flattened line of the charge history export.
type HistoryRow struct {
	ChargeID   string
	ClientName string
	Amount     decimal.Decimal
	DueDate    time.Time
	Status     string
	Recurrent  bool
	PaidAt     *time.Time
	Notes      string
}

// statusLabel folds the canceled flag into a single column. A canceled
// charge exports as "canceled" regardless of the status it kept.
func statusLabel(charge chargedomain.Charge) string {
	if charge.Canceled {
		return "canceled"
	}
	return string(charge.Status)
}

// BuildHistoryRows flattens charges for export, resolving client names
// from the given lookup. Unknown clients keep an empty name column.
func BuildHistoryRows(charges []chargedomain.Charge, clients map[snowflake.ID]clientdomain.Client) []HistoryRow {
	rows := make([]HistoryRow, 0, len(charges))
	for _, charge := range charges {
		row := HistoryRow{
			ChargeID:  charge.ID.String(),
			Amount:    charge.Amount,
			DueDate:   charge.DueDate,
			Status:    statusLabel(charge),
			Recurrent: charge.IsRecurrent,
			PaidAt:    charge.PaidAt,
		}
		if client, ok := clients[charge.ClientID]; ok {
			row.ClientName = client.Name
		}
		if charge.Notes != nil {
			row.Notes = *charge.Notes
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteHistoryCSV streams the rows as CSV with a header line.
func WriteHistoryCSV(w io.Writer, rows []HistoryRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Charge ID", "Client", "Amount", "Due Date", "Status", "Recurrent", "Paid At", "Notes"}); err != nil {
		return err
	}

	for _, row := range rows {
		recurrent := "no"
		if row.Recurrent {
			recurrent = "yes"
		}
		paidAt := ""
		if row.PaidAt != nil {
			paidAt = row.PaidAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			row.ChargeID,
			row.ClientName,
			row.Amount.StringFixed(2),
			row.DueDate.Format("2006-01-02"),
			row.Status,
			recurrent,
			paidAt,
			row.Notes,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
