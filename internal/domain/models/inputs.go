package models

import "strings"

// SaleInput is the user submission for a new sale. Numeric fields are pointers so
// that a missing value can be told apart from an explicit zero.
type SaleInput struct {
	CustomerName string   `json:"customerName" validate:"required"`
	ProductName  string   `json:"productName" validate:"required"`
	Weight       *float64 `json:"weight" validate:"required,gte=0"`
	CostPrice    *float64 `json:"costPrice" validate:"required,gte=0"`
	SellingPrice *float64 `json:"sellingPrice" validate:"required,gte=0"`
	SaleDate     string   `json:"saleDate"`
}

// Normalize trims the free-text fields in place.
func (in *SaleInput) Normalize() {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.ProductName = strings.TrimSpace(in.ProductName)
	in.SaleDate = strings.TrimSpace(in.SaleDate)
}

// PurchaseInput is the user submission for received stock.
type PurchaseInput struct {
	SupplierName string   `json:"supplierName" validate:"required"`
	ProductName  string   `json:"productName" validate:"required"`
	Weight       *float64 `json:"weight" validate:"required,gte=0"`
	CostPrice    *float64 `json:"costPrice" validate:"required,gte=0"`
	ReceiveDate  string   `json:"receiveDate"`
}

// Normalize trims the free-text fields in place.
func (in *PurchaseInput) Normalize() {
	in.SupplierName = strings.TrimSpace(in.SupplierName)
	in.ProductName = strings.TrimSpace(in.ProductName)
	in.ReceiveDate = strings.TrimSpace(in.ReceiveDate)
}

// Float returns a pointer to v, handy when building inputs in code.
func Float(v float64) *float64 {
	return &v
}
