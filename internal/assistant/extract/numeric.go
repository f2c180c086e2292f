package extract

import (
	"regexp"
	"strconv"
)

var digitRun = regexp.MustCompile(`\d+`)

// NumericID returns the first run of digits in text.
func NumericID(text string) (int64, bool) {
	m := digitRun.FindString(text)
	if m == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
