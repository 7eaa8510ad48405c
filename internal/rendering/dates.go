package rendering

import (
	"strings"

	"github.com/jonathan/cv-builder/internal/types"
)

const (
	rangeSeparator    = " – "
	contractSeparator = " · "
)

// FormatDate converts an ISO date to a localized "Month Year". Unparseable
// or empty dates format to "".
func FormatDate(iso string, labels Labels) string {
	t, ok := types.ParseISODate(strings.TrimSpace(iso))
	if !ok {
		return ""
	}
	return labels.MonthYear(t)
}

// FormatPeriod renders "start – end", with the Present label replacing the
// end date of an entry in progress. A period with neither side known
// renders as "".
func FormatPeriod(p types.Period, labels Labels) string {
	start := FormatDate(p.StartDate, labels)
	end := FormatDate(p.EndDate, labels)
	if p.InProgress {
		end = labels.Present
	}
	if start == "" && end == "" {
		return ""
	}
	return start + rangeSeparator + end
}

// withContract appends the contract type to a date line.
func withContract(dates string, contract types.ContractType, labels Labels) string {
	if contract == types.ContractNone {
		return dates
	}
	suffix := labels.Contract + " " + string(contract)
	if dates == "" {
		return suffix
	}
	return dates + contractSeparator + suffix
}

// SplitBullets splits a description into one trimmed bullet per line. Blank
// lines are kept as empty bullets. An empty description has no bullets.
func SplitBullets(description string) []string {
	if description == "" {
		return nil
	}
	lines := strings.Split(description, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}
