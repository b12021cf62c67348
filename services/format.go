package services

import (
	"github.com/dustin/go-humanize"
)

// FormatEUR formats an amount the way quotes print it: dot thousands
// separator, comma decimal separator, two decimals and a trailing euro
// sign (e.g. 1.234,50 €).
func FormatEUR(amount float64) string {
	return humanize.FormatFloat("#.###,##", amount) + " €"
}
