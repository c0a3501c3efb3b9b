package extract

import (
	"encoding/json"
	"fmt"
	"time"
)

// InvoiceInfo holds the invoice identifier and its literal date token.
type InvoiceInfo struct {
	Number string `json:"number,omitempty"`
	Date   string `json:"date,omitempty"`
}

// PartyInfo identifies one party of the invoice. Address and Phone are only
// ever populated for the customer.
type PartyInfo struct {
	Name    string `json:"name,omitempty"`
	INN     string `json:"inn,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Totals holds the aggregate amounts found at the bottom of the invoice.
// Every field is independently optional; a nil pointer means the pattern
// never matched, which is distinct from a matched zero.
type Totals struct {
	TotalAmount *float64 `json:"total_amount,omitempty"`
	VATAmount   *float64 `json:"vat_amount,omitempty"`
	TotalItems  *int     `json:"total_items,omitempty"`
	TotalSum    *float64 `json:"total_sum,omitempty"`
}

// Result is the structured record extracted from one invoice document.
// A fresh Result is built per parse call and is not mutated afterwards.
type Result struct {
	InvoiceInfo  InvoiceInfo `json:"invoice_info"`
	CompanyInfo  PartyInfo   `json:"company_info"`
	CustomerInfo PartyInfo   `json:"customer_info"`
	LineItems    []LineItem  `json:"line_items"`
	Totals       Totals      `json:"totals"`
	ParsedAt     time.Time   `json:"parsed_at"`
}

// ItemKind discriminates the line-item variants.
type ItemKind string

const (
	KindStorage            ItemKind = "storage"
	KindReception          ItemKind = "reception"
	KindShipment           ItemKind = "shipment"
	KindReceptionOperation ItemKind = "reception_operation"
	KindTableItem          ItemKind = "table_item"
)

// LineItem is one billable or informational entry in the invoice body.
// The set of implementations is closed: each kind has its own struct so
// that the required fields of a kind cannot be left unpopulated.
type LineItem interface {
	Kind() ItemKind
	Total() float64
}

// StorageItem is a storage charge over a date range, billed per cubic meter.
type StorageItem struct {
	Type         ItemKind `json:"type"`
	Description  string   `json:"description"`
	FromDate     string   `json:"from_date"`
	ToDate       string   `json:"to_date"`
	Quantity     float64  `json:"quantity"`
	Unit         string   `json:"unit"`
	PricePerUnit float64  `json:"price_per_unit"`
	TotalAmount  float64  `json:"total_amount"`
}

func (i StorageItem) Kind() ItemKind { return KindStorage }
func (i StorageItem) Total() float64 { return i.TotalAmount }

// ReceptionItem is a warehouse reception charge billed per piece.
type ReceptionItem struct {
	Type         ItemKind `json:"type"`
	Description  string   `json:"description"`
	Quantity     int      `json:"quantity"`
	Unit         string   `json:"unit"`
	PricePerUnit float64  `json:"price_per_unit"`
	TotalAmount  float64  `json:"total_amount"`
}

func (i ReceptionItem) Kind() ItemKind { return KindReception }
func (i ReceptionItem) Total() float64 { return i.TotalAmount }

// ShipmentItem records an FBO shipment operation. Shipments are not billed
// in this invoice layout, so the amount is always zero.
type ShipmentItem struct {
	Type        ItemKind `json:"type"`
	Description string   `json:"description"`
	FBONumber   string   `json:"fbo_number"`
	Date        string   `json:"date"`
	TotalAmount float64  `json:"total_amount"`
}

func (i ShipmentItem) Kind() ItemKind { return KindShipment }
func (i ShipmentItem) Total() float64 { return i.TotalAmount }

// ReceptionOperationItem records a numbered reception operation without a
// charge of its own.
type ReceptionOperationItem struct {
	Type            ItemKind `json:"type"`
	Description     string   `json:"description"`
	ReceptionNumber string   `json:"reception_number"`
	Date            string   `json:"date"`
	TotalAmount     float64  `json:"total_amount"`
}

func (i ReceptionOperationItem) Kind() ItemKind { return KindReceptionOperation }
func (i ReceptionOperationItem) Total() float64 { return i.TotalAmount }

// TableItem is a line item recovered positionally from a services table row.
type TableItem struct {
	Type         ItemKind `json:"type"`
	RowNumber    int      `json:"row_number"`
	Description  string   `json:"description"`
	Quantity     float64  `json:"quantity"`
	Unit         string   `json:"unit"`
	PricePerUnit float64  `json:"price_per_unit"`
	TotalAmount  float64  `json:"total_amount"`
}

func (i TableItem) Kind() ItemKind { return KindTableItem }
func (i TableItem) Total() float64 { return i.TotalAmount }

// DecodeLineItem decodes one serialized line item back into its concrete
// variant, dispatching on the "type" discriminator.
func DecodeLineItem(data []byte) (LineItem, error) {
	var probe struct {
		Type ItemKind `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("probing line item type: %w", err)
	}

	var (
		item LineItem
		err  error
	)
	switch probe.Type {
	case KindStorage:
		var v StorageItem
		err = json.Unmarshal(data, &v)
		item = v
	case KindReception:
		var v ReceptionItem
		err = json.Unmarshal(data, &v)
		item = v
	case KindShipment:
		var v ShipmentItem
		err = json.Unmarshal(data, &v)
		item = v
	case KindReceptionOperation:
		var v ReceptionOperationItem
		err = json.Unmarshal(data, &v)
		item = v
	case KindTableItem:
		var v TableItem
		err = json.Unmarshal(data, &v)
		item = v
	default:
		return nil, fmt.Errorf("unknown line item type %q", probe.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshaling %s item: %w", probe.Type, err)
	}
	return item, nil
}
