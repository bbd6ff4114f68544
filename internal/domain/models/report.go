package models

import "time"

// DailyReport is the end-of-day snapshot archived to MongoDB and pushed to chat.
type DailyReport struct {
	Date            string    `bson:"date" json:"date"`
	SalesCount      int       `bson:"sales_count" json:"salesCount"`
	SalesRevenue    float64   `bson:"sales_revenue" json:"salesRevenue"`
	SalesCost       float64   `bson:"sales_cost" json:"salesCost"`
	SalesProfit     float64   `bson:"sales_profit" json:"salesProfit"`
	MarginPercent   float64   `bson:"margin_percent" json:"marginPercent"`
	PurchasesCount  int       `bson:"purchases_count" json:"purchasesCount"`
	PurchasesCost   float64   `bson:"purchases_cost" json:"purchasesCost"`
	PurchasedWeight float64   `bson:"purchased_weight" json:"purchasedWeight"`
	TopProduct      string    `bson:"top_product,omitempty" json:"topProduct,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
}
