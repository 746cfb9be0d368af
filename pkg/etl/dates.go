package etl

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/appaso/pipeline/pkg/config"
)

// Stage labels derived from the agency engagement date.
const (
	StagePre = "Pre-Agencia"
	StageCon = "Con-Agencia"
)

// DateLayout is the canonical serialized date form. The historical data and
// the forecast job both use it.
const DateLayout = "02/01/2006"

// dateLayouts are the machine formats the exports use. French month-name
// dates are handled separately.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04",
}

// frenchMonths maps the month tokens of the French-locale exports, both
// abbreviated ("janv.") and full ("janvier").
var frenchMonths = map[string]time.Month{
	"janv": time.January, "janvier": time.January,
	"févr": time.February, "fevr": time.February, "février": time.February,
	"mars": time.March,
	"avr":  time.April, "avril": time.April,
	"mai":  time.May,
	"juin": time.June,
	"juil": time.July, "juillet": time.July,
	"août": time.August, "aout": time.August,
	"sept": time.September, "septembre": time.September,
	"oct": time.October, "octobre": time.October,
	"nov": time.November, "novembre": time.November,
	"déc": time.December, "dec": time.December, "décembre": time.December,
}

// ParseDate normalizes a source date value. It accepts ISO and day-first
// numeric forms plus French month-name tokens such as "1 janv. 2024".
func ParseDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}

	if t, ok := parseFrenchDate(v); ok {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unparsable date %q", value)
}

// parseFrenchDate handles "D month YYYY" with a French month token.
func parseFrenchDate(v string) (time.Time, bool) {
	fields := strings.Fields(v)
	if len(fields) != 3 {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(fields[0])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return time.Time{}, false
	}

	token := strings.TrimSuffix(strings.ToLower(fields[1]), ".")
	month, ok := frenchMonths[token]
	if !ok {
		return time.Time{}, false
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

// StageFor labels a date relative to the agency engagement date. Dates
// strictly before it are Pre-Agencia; the boundary date itself is Con-Agencia.
func StageFor(date time.Time) string {
	if date.Before(config.AgencyStartDate) {
		return StagePre
	}
	return StageCon
}
