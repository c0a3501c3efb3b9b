package extract

import (
	"regexp"
	"strings"
)

// Header patterns. Each rule is independent: a line is checked against every
// marker, and a later line matching the same marker overwrites the earlier
// capture (the document is scanned top to bottom, so the last match wins).
var headerRules = []struct {
	marker  string
	pattern *regexp.Regexp
	apply   func(*Result, []string)
}{
	{
		marker:  "Детализация к счету №",
		pattern: regexp.MustCompile(`№\s*([\d-]+)\s*от\s*([\d.]+)`),
		apply: func(r *Result, m []string) {
			r.InvoiceInfo.Number = m[1]
			r.InvoiceInfo.Date = m[2]
		},
	},
	{
		marker:  "Исполнитель:",
		pattern: regexp.MustCompile(`Исполнитель:\s*(.+?)\s*,\s*ИНН\s*(\d+)`),
		apply: func(r *Result, m []string) {
			r.CompanyInfo.Name = strings.TrimSpace(m[1])
			r.CompanyInfo.INN = m[2]
		},
	},
	{
		marker:  "Заказчик:",
		pattern: regexp.MustCompile(`Заказчик:\s*(.+?)\s*,\s*ИНН\s*(\d+)`),
		apply: func(r *Result, m []string) {
			r.CustomerInfo.Name = strings.TrimSpace(m[1])
			r.CustomerInfo.INN = m[2]
		},
	},
	{
		// The customer line may also carry the delivery address and phone.
		marker:  "Заказчик:",
		pattern: regexp.MustCompile(`Адрес:\s*([^,]+(?:,[^,]+)*)\s*,\s*тел\.\s*([+\d\s()-]+)`),
		apply: func(r *Result, m []string) {
			r.CustomerInfo.Address = strings.TrimSpace(m[1])
			r.CustomerInfo.Phone = strings.TrimSpace(m[2])
		},
	},
}

// extractHeader scans the full document text line by line and fills in the
// invoice, company and customer fields of the result. A line carrying a
// marker whose detailed pattern does not match is skipped without error.
func extractHeader(text string, result *Result) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		for _, rule := range headerRules {
			if !strings.Contains(line, rule.marker) {
				continue
			}
			if m := rule.pattern.FindStringSubmatch(line); m != nil {
				rule.apply(result, m)
			}
		}
	}
}
