package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	totalAmountPattern = regexp.MustCompile(`Итого к оплате:\s*([\d.,]+)\s*₽`)
	vatAmountPattern   = regexp.MustCompile(`В том числе НДС:\s*([\d.,]+)\s*₽`)
	totalItemsPattern  = regexp.MustCompile(`Всего наименований\s*(\d+)\s*на сумму\s*([\d.,]+)\s*₽`)
)

// extractTotals scans the full document text for the three aggregate-amount
// markers. Each total is independent: any subset may be present, and a marked
// line whose capture fails contributes nothing.
func extractTotals(text string, result *Result) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.Contains(line, "Итого к оплате:"):
			if m := totalAmountPattern.FindStringSubmatch(line); m != nil {
				v := commaFloat(m[1])
				result.Totals.TotalAmount = &v
			}
		case strings.Contains(line, "В том числе НДС:"):
			if m := vatAmountPattern.FindStringSubmatch(line); m != nil {
				v := commaFloat(m[1])
				result.Totals.VATAmount = &v
			}
		case strings.Contains(line, "Всего наименований"):
			if m := totalItemsPattern.FindStringSubmatch(line); m != nil {
				count, err := strconv.Atoi(m[1])
				if err != nil {
					continue
				}
				sum := commaFloat(m[2])
				result.Totals.TotalItems = &count
				result.Totals.TotalSum = &sum
			}
		}
	}
}
