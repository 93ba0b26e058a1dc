package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/cfgo/coastfire-calculator/internal/domain"
)

// CSVPointsExporter writes the full trajectory, one row per projection point
// per scenario, for charting and spreadsheet use.
type CSVPointsExporter struct{}

func (c CSVPointsExporter) Name() string { return "csv" }

func (c CSVPointsExporter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"Scenario", "Month", "Date", "Age", "TotalValue", "InflationAdjusted"}
	for _, class := range domain.AllAssetClasses {
		header = append(header, string(class))
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, sc := range results.Scenarios {
		if sc.Projection == nil {
			continue
		}
		for _, p := range sc.Projection.Points {
			row := []string{
				sc.Name,
				strconv.Itoa(p.MonthIndex),
				formatDate(p.Date),
				p.Age.StringFixed(2),
				p.TotalValue.StringFixed(2),
				p.InflationAdjusted.StringFixed(2),
			}
			for _, class := range domain.AllAssetClasses {
				row = append(row, p.ByAssetClass[class].StringFixed(2))
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
