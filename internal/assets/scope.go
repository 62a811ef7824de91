package assets

import (
	"fmt"
	"strings"
	"time"
)

// ScopeForDay expands the {dd}, {mm} and {yyyy} tokens of a root template
// with the zero-padded components of day, for example
// "date/{dd}_{mm}_{yyyy}" becomes "date/05_03_2024".
func ScopeForDay(template string, day time.Time) string {
	replacer := strings.NewReplacer(
		"{dd}", fmt.Sprintf("%02d", day.Day()),
		"{mm}", fmt.Sprintf("%02d", int(day.Month())),
		"{yyyy}", fmt.Sprintf("%04d", day.Year()),
	)
	return strings.Trim(replacer.Replace(template), "/")
}

// DayLabel returns the last segment of a scope, used as the browser heading.
func DayLabel(scope string) string {
	return baseName(scope)
}
