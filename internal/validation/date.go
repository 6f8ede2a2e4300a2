package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Capture dates arrive either as ISO 8601 ("1985-07-04") or in the written
// French form the legacy clients send ("4 juillet 1985"). The stored
// representation is always canonical ISO 8601.

const captureDateLayout = "2006-01-02"

var writtenDateRegex = regexp.MustCompile(`^(\d{1,2})\s+([a-zA-Zéû]{3,})\s+(\d{4})$`)

var frenchMonths = map[string]time.Month{
	"janvier":   time.January,
	"février":   time.February,
	"fevrier":   time.February,
	"mars":      time.March,
	"avril":     time.April,
	"mai":       time.May,
	"juin":      time.June,
	"juillet":   time.July,
	"août":      time.August,
	"aout":      time.August,
	"septembre": time.September,
	"octobre":   time.October,
	"novembre":  time.November,
	"décembre":  time.December,
	"decembre":  time.December,
}

// ParseCaptureDate parses a capture date in either accepted form and
// returns it in canonical ISO 8601 (YYYY-MM-DD).
func ParseCaptureDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("capture date is required")
	}

	if t, err := time.Parse(captureDateLayout, value); err == nil {
		return t.Format(captureDateLayout), nil
	}

	m := writtenDateRegex.FindStringSubmatch(value)
	if m == nil {
		return "", fmt.Errorf(`capture date must be "YYYY-MM-DD" or a written date like "4 juillet 1985"`)
	}

	month, ok := frenchMonths[strings.ToLower(m[2])]
	if !ok {
		return "", fmt.Errorf("unknown month %q in capture date", m[2])
	}

	composed := fmt.Sprintf("%s-%02d-%s", m[3], int(month), padDay(m[1]))
	t, err := time.Parse(captureDateLayout, composed)
	if err != nil {
		return "", fmt.Errorf("capture date %q is not a real date", value)
	}
	return t.Format(captureDateLayout), nil
}

func padDay(day string) string {
	if len(day) == 1 {
		return "0" + day
	}
	return day
}
