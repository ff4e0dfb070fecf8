package page

import "strconv"

// The in-game calendar has twelve months of 28 days. Event times are given
// in "seconds72" ticks since the start of the year.
const (
	ticksPerDay   = 1200
	daysPerMonth  = 28
	ticksPerMonth = ticksPerDay * daysPerMonth
)

var months = [...]string{
	"Granite", "Slate", "Felsite",
	"Hematite", "Malachite", "Galena",
	"Limestone", "Sandstone", "Timber",
	"Moonstone", "Opal", "Obsidian",
}

// Date converts a seconds72 value to a day of the year, e.g. "the 5th of
// Granite". Negative values are not dates.
func Date(seconds72 int) (string, bool) {
	if seconds72 < 0 {
		return "", false
	}
	month := (seconds72 / ticksPerMonth) % len(months)
	day := (seconds72%ticksPerMonth)/ticksPerDay + 1
	return "the " + ordinal(day) + " of " + months[month], true
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
