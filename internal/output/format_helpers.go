package output

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// formatMoney renders a dollar amount with thousands separators and cents.
func formatMoney(d decimal.Decimal) string {
	f, _ := d.Float64()
	return "$" + humanize.CommafWithDigits(f, 2)
}

// formatDate renders a date in the report-standard layout.
func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
