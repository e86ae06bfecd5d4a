package loader

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/avelard/roadcast/core/capacity"
)

var (
	quarterRe = regexp.MustCompile(`^(\d{4})[.-]Q([1-4])$`)
	monthRe   = regexp.MustCompile(`^(\d{4})[.-](\d{1,2})$`)
)

// ParsePeriod translates an external period notation ("2025.Q1", "2025.1",
// or the internal "2025-Q1" / "2025-01" forms) into the internal period
// identifier and its period type.
func ParsePeriod(s string) (string, capacity.PeriodType, error) {
	if m := quarterRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-Q%s", m[1], m[2]), capacity.Quarterly, nil
	}
	if m := monthRe.FindStringSubmatch(s); m != nil {
		month, err := strconv.Atoi(m[2])
		if err != nil || month < 1 || month > 12 {
			return "", "", fmt.Errorf("invalid month in period %q", s)
		}
		return fmt.Sprintf("%s-%02d", m[1], month), capacity.Monthly, nil
	}
	return "", "", fmt.Errorf("unrecognized period %q, expected YYYY.QN or YYYY.MM", s)
}
