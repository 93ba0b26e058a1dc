package output

import (
	"bytes"
	"fmt"

	"github.com/cfgo/coastfire-calculator/internal/domain"
)

// ConsoleFormatter renders a plain-text summary of every scenario.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}

	fmt.Fprintln(buf, "COAST FIRE PROJECTION")
	fmt.Fprintln(buf, "=====================")
	fmt.Fprintln(buf)

	if len(results.Assumptions) > 0 {
		fmt.Fprintln(buf, "Assumptions:")
		for _, a := range results.Assumptions {
			fmt.Fprintf(buf, "  - %s\n", a)
		}
		fmt.Fprintln(buf)
	}

	for _, sc := range results.Scenarios {
		name := sc.Name
		if sc.Primary {
			name += " (primary)"
		}
		fmt.Fprintf(buf, "Scenario: %s\n", name)
		fmt.Fprintf(buf, "  Retirement target:     %s\n", formatMoney(sc.RetirementTarget))
		fmt.Fprintf(buf, "  Coast FIRE target:     %s\n", formatMoney(sc.TargetPortfolio))

		switch {
		case sc.AlreadyCoasted:
			fmt.Fprintln(buf, "  Status:                already coasting")
		case sc.CoastDate != nil:
			fmt.Fprintf(buf, "  Coast FIRE reached:    %s (%d months)\n", formatDate(*sc.CoastDate), *sc.MonthsToCoast)
		default:
			fmt.Fprintln(buf, "  Status:                not reached within horizon")
		}

		fmt.Fprintf(buf, "  Final value:           %s\n", formatMoney(sc.FinalValue))
		fmt.Fprintf(buf, "  Final value (real):    %s\n", formatMoney(sc.FinalInflationAdjusted))

		if sc.Projection != nil && len(sc.Projection.Milestones) > 0 {
			fmt.Fprintln(buf, "  Milestones:")
			for _, m := range sc.Projection.Milestones {
				fmt.Fprintf(buf, "    %s  %s (age %s)\n", formatDate(m.Date), m.Label, m.Age.StringFixed(1))
			}
		}
		fmt.Fprintln(buf)
	}

	return buf.Bytes(), nil
}
