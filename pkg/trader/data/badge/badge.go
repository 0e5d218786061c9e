package badge

import (
	"strconv"
)

// Sentinel badge texts set outside the counting flow. Either counts as
// zero when incremented.
const (
	TextInstalled = "I"
	TextUpdated   = "U"
)

// NextText returns the badge text after a single increment. Empty and
// sentinel texts count as zero, so the first increment yields "1".
func NextText(current string) string {
	n, err := strconv.Atoi(current)
	if err != nil {
		return "1"
	}
	return strconv.Itoa(n + 1)
}
