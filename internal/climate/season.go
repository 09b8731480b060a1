package climate

import (
	"fmt"
	"strings"
	"time"
)

// Season is one of the four fixed northern-hemisphere seasons.
type Season string

const (
	Winter Season = "winter"
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
)

// Seasons returns all seasons in display order.
func Seasons() []Season {
	return []Season{Winter, Spring, Summer, Autumn}
}

// SeasonOf maps a timestamp to its season using the UTC calendar month.
// Year and day of month are ignored.
func SeasonOf(t time.Time) Season {
	switch t.UTC().Month() {
	case time.December, time.January, time.February:
		return Winter
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	default:
		return Autumn
	}
}

// ParseSeason accepts one of the four season labels, case-insensitively.
func ParseSeason(s string) (Season, error) {
	switch Season(strings.ToLower(strings.TrimSpace(s))) {
	case Winter:
		return Winter, nil
	case Spring:
		return Spring, nil
	case Summer:
		return Summer, nil
	case Autumn:
		return Autumn, nil
	}
	return "", fmt.Errorf("unknown season %q", s)
}

// Valid reports whether s is one of the four known seasons.
func (s Season) Valid() bool {
	switch s {
	case Winter, Spring, Summer, Autumn:
		return true
	}
	return false
}
