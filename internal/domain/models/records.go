package models

import (
	"time"
)

// DateLayout is the calendar-date format used for every record date.
const DateLayout = "2006-01-02"

// RecordKind names one of the persisted collections.
type RecordKind string

const (
	KindSale     RecordKind = "sale"
	KindPurchase RecordKind = "purchase"
)

// Amounts carries the numeric fields a rollup sums.
type Amounts struct {
	Weight  float64
	Cost    float64
	Selling float64
	Profit  float64
}

// Record is the read-only view the query and aggregation layers work with.
type Record interface {
	RecordID() string
	RecordDate() string
	Product() string
	Party() string
	Created() time.Time
	Amounts() Amounts
}

// Sale captures a completed outgoing transaction. Profit is fixed at creation.
type Sale struct {
	ID           string    `json:"id" bson:"id"`
	CustomerName string    `json:"customerName" bson:"customer_name"`
	ProductName  string    `json:"productName" bson:"product_name"`
	Weight       float64   `json:"weight" bson:"weight"`
	CostPrice    float64   `json:"costPrice" bson:"cost_price"`
	SellingPrice float64   `json:"sellingPrice" bson:"selling_price"`
	Profit       float64   `json:"profit" bson:"profit"`
	SaleDate     string    `json:"saleDate" bson:"sale_date"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

func (s Sale) RecordID() string   { return s.ID }
func (s Sale) RecordDate() string { return s.SaleDate }
func (s Sale) Product() string    { return s.ProductName }
func (s Sale) Party() string      { return s.CustomerName }
func (s Sale) Created() time.Time { return s.CreatedAt }

func (s Sale) Amounts() Amounts {
	return Amounts{Weight: s.Weight, Cost: s.CostPrice, Selling: s.SellingPrice, Profit: s.Profit}
}

// Purchase captures received stock. CostPrice is the total for the whole weight.
type Purchase struct {
	ID           string    `json:"id" bson:"id"`
	SupplierName string    `json:"supplierName" bson:"supplier_name"`
	ProductName  string    `json:"productName" bson:"product_name"`
	Weight       float64   `json:"weight" bson:"weight"`
	CostPrice    float64   `json:"costPrice" bson:"cost_price"`
	ReceiveDate  string    `json:"receiveDate" bson:"receive_date"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

func (p Purchase) RecordID() string   { return p.ID }
func (p Purchase) RecordDate() string { return p.ReceiveDate }
func (p Purchase) Product() string    { return p.ProductName }
func (p Purchase) Party() string      { return p.SupplierName }
func (p Purchase) Created() time.Time { return p.CreatedAt }

func (p Purchase) Amounts() Amounts {
	return Amounts{Weight: p.Weight, Cost: p.CostPrice}
}

// CostPerUnit returns the unit cost of a purchase. ok is false when the weight is
// zero, in which case the value must be shown as UnitCostUnavailable rather than 0.
func (p Purchase) CostPerUnit() (value float64, ok bool) {
	if p.Weight <= 0 {
		return 0, false
	}
	return p.CostPrice / p.Weight, true
}

// UnitCostUnavailable is rendered in place of a cost per unit that cannot be computed.
const UnitCostUnavailable = "—"
