package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	storagePattern = regexp.MustCompile(
		`Хранение товаров от\s*([\d.]+)\s*до\s*([\d.]+)\s*([\d.,]+)\s*м³\s*([\d.,]+)\s*₽\s*([\d.,]+)\s*₽`)
	receptionPattern = regexp.MustCompile(
		`Приемка товара на склад и размещение\s*(\d+)\s*шт\.\s*([\d.,]+)\s*₽\s*([\d.,]+)\s*₽`)
	shipmentPattern           = regexp.MustCompile(`Отгрузка FBO\s*(\d+)\s*от\s*([\d.]+)`)
	receptionOperationMarker  = regexp.MustCompile(`^Приемка\s+\d+\s+от`)
	receptionOperationPattern = regexp.MustCompile(`Приемка\s+(\d+)\s+от\s+([\d.]+)`)
)

// Text-mode line-item rules, in precedence order. The first rule whose marker
// matches consumes the line: later rules are not tried even when the detailed
// capture fails (in which case the line yields no item at all).
var textItemRules = []struct {
	match func(string) bool
	build func(string) LineItem
}{
	{
		match: contains("Хранение товаров от"),
		build: func(line string) LineItem {
			m := storagePattern.FindStringSubmatch(line)
			if m == nil {
				return nil
			}
			return StorageItem{
				Type:         KindStorage,
				Description:  fmt.Sprintf("Хранение товаров от %s до %s", m[1], m[2]),
				FromDate:     m[1],
				ToDate:       m[2],
				Quantity:     commaFloat(m[3]),
				Unit:         "м³",
				PricePerUnit: commaFloat(m[4]),
				TotalAmount:  commaFloat(m[5]),
			}
		},
	},
	{
		match: contains("Приемка товара на склад"),
		build: func(line string) LineItem {
			m := receptionPattern.FindStringSubmatch(line)
			if m == nil {
				return nil
			}
			qty, err := strconv.Atoi(m[1])
			if err != nil {
				return nil
			}
			return ReceptionItem{
				Type:         KindReception,
				Description:  "Приемка товара на склад и размещение",
				Quantity:     qty,
				Unit:         "шт.",
				PricePerUnit: commaFloat(m[2]),
				TotalAmount:  commaFloat(m[3]),
			}
		},
	},
	{
		match: contains("Отгрузка FBO"),
		build: func(line string) LineItem {
			m := shipmentPattern.FindStringSubmatch(line)
			if m == nil {
				return nil
			}
			return ShipmentItem{
				Type:        KindShipment,
				Description: fmt.Sprintf("Отгрузка FBO %s", m[1]),
				FBONumber:   m[1],
				Date:        m[2],
				TotalAmount: 0,
			}
		},
	},
	{
		match: receptionOperationMarker.MatchString,
		build: func(line string) LineItem {
			m := receptionOperationPattern.FindStringSubmatch(line)
			if m == nil {
				return nil
			}
			return ReceptionOperationItem{
				Type:            KindReceptionOperation,
				Description:     fmt.Sprintf("Приемка %s", m[1]),
				ReceptionNumber: m[1],
				Date:            m[2],
				TotalAmount:     0,
			}
		},
	},
}

func contains(marker string) func(string) bool {
	return func(line string) bool { return strings.Contains(line, marker) }
}

// commaFloat converts a captured comma-decimal token like "2,50" to a float.
// Captures are already constrained to digits, dots and commas by the
// patterns above, so a parse failure can only come from malformed groupings
// and resolves to 0 like everywhere else in the engine.
func commaFloat(token string) float64 {
	n, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", "."), 64)
	if err != nil {
		return 0
	}
	return n
}

// extractTextItems scans the full document text for the four known free-text
// charge patterns and returns the line items found, in document order.
func extractTextItems(text string) []LineItem {
	var items []LineItem
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		for _, rule := range textItemRules {
			if !rule.match(line) {
				continue
			}
			if item := rule.build(line); item != nil {
				items = append(items, item)
			}
			break
		}
	}
	return items
}
