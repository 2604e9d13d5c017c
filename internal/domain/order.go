package domain

import "time"

// Order status constants.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCanceled   = "canceled"
	OrderStatusRefunded   = "refunded"
)

// Order represents a customer order as returned by the commerce backend.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Status          string      `json:"status"`
	Items           []OrderItem `json:"items"`
	TotalAmount     int64       `json:"total_amount"`
	Currency        string      `json:"currency"`
	ShippingAddress *Address    `json:"shipping_address,omitempty"`
	TrackingNumber  string      `json:"tracking_number,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem is a single line of an order, denormalized at order time.
type OrderItem struct {
	VariantID string `json:"variant_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// OrderItemCount returns the total unit count across all order items.
func OrderItemCount(items []OrderItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// ValidStatuses returns all valid order statuses.
func ValidStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCanceled,
		OrderStatusRefunded,
	}
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// AllowedTransitions defines which status transitions are valid.
func AllowedTransitions() map[string][]string {
	return map[string][]string{
		OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCanceled},
		OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCanceled},
		OrderStatusProcessing: {OrderStatusShipped, OrderStatusCanceled},
		OrderStatusShipped:    {OrderStatusDelivered},
		OrderStatusDelivered:  {OrderStatusRefunded},
		OrderStatusCanceled:   {},
		OrderStatusRefunded:   {},
	}
}

// CanTransitionTo checks if the order can transition to the target status.
func (o *Order) CanTransitionTo(target string) bool {
	allowed, ok := AllowedTransitions()[o.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}
