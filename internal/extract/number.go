package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	currencyAndSpace = regexp.MustCompile(`[₽\s]`)
	numberRun        = regexp.MustCompile(`[\d.]+`)
)

// Number converts a Russian-locale numeric string to a non-negative float.
// Inputs look like "1 234,56 ₽", "2,50" or "150,00": the currency symbol and
// embedded whitespace are stripped, the comma decimal separator becomes a dot
// and the first run of digits and dots is parsed. Empty or non-numeric input
// yields 0; this function never fails.
func Number(value string) float64 {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0
	}

	s = currencyAndSpace.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ",", ".")

	run := numberRun.FindString(s)
	if run == "" {
		return 0
	}

	n, err := strconv.ParseFloat(run, 64)
	if err != nil {
		return 0
	}
	return n
}
