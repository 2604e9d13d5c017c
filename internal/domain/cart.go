package domain

// WholesaleMinQuantity is the per-line quantity at which the wholesale
// price applies instead of the retail price.
const WholesaleMinQuantity = 4

// CartLine represents a single product variant in the cart. Prices are
// denominated in cents and captured at the moment the line is added.
type CartLine struct {
	VariantID          string   `json:"variant_id"`
	ProductID          string   `json:"product_id"`
	Name               string   `json:"name"`
	Color              string   `json:"color"`
	Description        string   `json:"description,omitempty"`
	SKU                string   `json:"sku,omitempty"`
	UnitPriceRetail    int64    `json:"unit_price_retail"`
	UnitPriceWholesale int64    `json:"unit_price_wholesale"`
	ImageURLs          []string `json:"image_urls,omitempty"`
	StockAtAdd         int      `json:"stock_at_add"`
	Quantity           int      `json:"quantity"`
}

// UnitPrice returns the effective unit price for the line. The wholesale
// price applies when this line alone reaches WholesaleMinQuantity;
// quantities across different variants never combine.
func (l CartLine) UnitPrice() int64 {
	if l.Quantity >= WholesaleMinQuantity {
		return l.UnitPriceWholesale
	}
	return l.UnitPriceRetail
}

// Subtotal returns the line subtotal at the effective unit price (in cents).
func (l CartLine) Subtotal() int64 {
	return l.UnitPrice() * int64(l.Quantity)
}

// CartTotal sums the subtotals of all lines (in cents).
func CartTotal(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// CartItemCount returns the total unit count across all lines.
func CartItemCount(lines []CartLine) int {
	var count int
	for _, l := range lines {
		count += l.Quantity
	}
	return count
}

// FindLineIndex returns the index of the line matching the given variant ID,
// or -1 if the variant is not in the cart.
func FindLineIndex(lines []CartLine, variantID string) int {
	for i := range lines {
		if lines[i].VariantID == variantID {
			return i
		}
	}
	return -1
}
