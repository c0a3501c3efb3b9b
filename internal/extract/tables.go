package extract

import (
	"strconv"
	"strings"
)

// Column-header markers in the first cell of a services table row.
var tableHeaderMarkers = []string{"№", "Наименование"}

// extractTableItems walks every row of every table and emits a TableItem for
// each row that looks like a data row of the services table: at least five
// cells, a purely numeric first cell (the row number), a non-empty
// description and a positive total amount. Header rows, incidental text rows
// and rows that fail to coerce are skipped without affecting their neighbors.
func extractTableItems(tables [][][]string) []LineItem {
	var items []LineItem
	for _, table := range tables {
		for _, row := range table {
			item, ok := tableRowItem(row)
			if !ok {
				continue
			}
			items = append(items, item)
		}
	}
	return items
}

func tableRowItem(row []string) (TableItem, bool) {
	if len(row) < 5 {
		return TableItem{}, false
	}

	// The row number is matched against the raw cell: a first cell with
	// stray whitespace is not a data row.
	first := row[0]
	for _, marker := range tableHeaderMarkers {
		if strings.Contains(first, marker) {
			return TableItem{}, false
		}
	}
	if !isDigits(first) {
		return TableItem{}, false
	}

	rowNumber, err := strconv.Atoi(first)
	if err != nil {
		return TableItem{}, false
	}

	item := TableItem{
		Type:         KindTableItem,
		RowNumber:    rowNumber,
		Description:  strings.TrimSpace(row[1]),
		Quantity:     Number(row[2]),
		Unit:         strings.TrimSpace(row[3]),
		PricePerUnit: Number(row[4]),
	}
	if len(row) > 5 {
		item.TotalAmount = Number(row[5])
	}

	// Rows with no description or a zero amount are not substantive charges.
	if item.Description == "" || item.TotalAmount <= 0 {
		return TableItem{}, false
	}
	return item, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
