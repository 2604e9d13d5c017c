package domain

// DashboardAnalytics is the aggregated sales data returned by the backend
// analytics RPC. All series are computed server-side; this type only shapes
// the passthrough.
type DashboardAnalytics struct {
	TotalRevenue   int64            `json:"total_revenue"`
	TotalOrders    int              `json:"total_orders"`
	TotalCustomers int              `json:"total_customers"`
	RevenueByDay   []TimeSeriesItem `json:"revenue_by_day"`
	OrdersByStatus map[string]int   `json:"orders_by_status"`
	TopProducts    []ProductSales   `json:"top_products"`
}

// TimeSeriesItem is one point of a daily chart series.
type TimeSeriesItem struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
	Orders  int    `json:"orders"`
}

// ProductSales is a top-seller entry.
type ProductSales struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitsSold int    `json:"units_sold"`
	Revenue   int64  `json:"revenue"`
}
