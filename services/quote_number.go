package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FirstQuoteSequence is the sequence of the first quote of every year.
const FirstQuoteSequence = 635

// formatQuoteNumber builds "<year><sequence>", the sequence zero-padded to
// four digits.
func formatQuoteNumber(year, sequence int) string {
	return fmt.Sprintf("%04d%04d", year, sequence)
}

// quoteSequence extracts the sequence of a number issued in year. It
// reports false for numbers of other years or with a malformed suffix.
func quoteSequence(number string, year int) (int, bool) {
	prefix := strconv.Itoa(year)
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	seq, err := strconv.Atoi(number[len(prefix):])
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}

// NextQuoteNumber returns the number of the next quote issued at now, given
// the numbers already in use. Sequences restart at FirstQuoteSequence each
// year and otherwise continue from the highest one of that year.
// Format: {year}{sequence}, e.g. 20250635.
func NextQuoteNumber(existing []string, now time.Time) string {
	year := now.Year()
	next := FirstQuoteSequence
	found := false
	for _, n := range existing {
		seq, ok := quoteSequence(n, year)
		if !ok {
			continue
		}
		if !found || seq+1 > next {
			next = seq + 1
			found = true
		}
	}
	return formatQuoteNumber(year, next)
}
