// Package backend is the typed client for the commerce backend's RPC
// surface. The backend owns catalog, orders, users, and analytics; this
// service never reimplements any of that, it only shapes requests and
// responses.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/httpclient"
)

// RPC method names exposed by the commerce backend.
const (
	rpcGetPublicProductList      = "get_public_product_list"
	rpcGetProductDetail          = "get_product_detail"
	rpcValidateCartItems         = "validate_cart_items"
	rpcCreateNewOrder            = "create_new_order"
	rpcGetFullDashboardAnalytics = "get_full_dashboard_analytics"
	rpcListOrders                = "list_orders"
	rpcGetOrder                  = "get_order"
	rpcUpdateOrderStatus         = "update_order_status"
	rpcListUsers                 = "list_users"
	rpcDeleteUser                = "delete_user"
	rpcGetProduct                = "get_product"
	rpcCreateProduct             = "create_product"
	rpcUpdateProduct             = "update_product"
	rpcDeleteProduct             = "delete_product"
)

// Client calls the commerce backend over its JSON RPC endpoints.
type Client struct {
	baseURL string
	http    *httpclient.CircuitBreakerClient
}

// NewClient creates a backend client rooted at baseURL.
func NewClient(baseURL string, client *httpclient.CircuitBreakerClient) *Client {
	return &Client{
		baseURL: baseURL,
		http:    client,
	}
}

// call performs one RPC: POST {base}/rpc/{method} with a JSON body, decoding
// the {data: ...} envelope into out. A nil out discards the response body.
func (c *Client) call(ctx context.Context, method string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/rpc/"+method, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("backend %s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "backend")
	}

	if out == nil {
		return nil
	}

	envelope := struct {
		Data any `json:"data"`
	}{Data: out}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}

	return nil
}

// ProductListParams filters and pages the public product list.
type ProductListParams struct {
	Search   string `json:"search,omitempty"`
	Category string `json:"category,omitempty"`
	Color    string `json:"color,omitempty"`
	Page     int    `json:"page"`
	PerPage  int    `json:"per_page"`
}

// ProductList is a page of products plus the unfiltered total.
type ProductList struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

// GetPublicProductList fetches one page of the public catalog.
func (c *Client) GetPublicProductList(ctx context.Context, params ProductListParams) (*ProductList, error) {
	var out ProductList
	if err := c.call(ctx, rpcGetPublicProductList, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProductDetail fetches a single product with all its color variants.
func (c *Client) GetProductDetail(ctx context.Context, slug string) (*domain.Product, error) {
	var out domain.Product
	in := struct {
		Slug string `json:"slug"`
	}{Slug: slug}
	if err := c.call(ctx, rpcGetProductDetail, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CartItemRef identifies one cart line by variant for validation and order
// creation.
type CartItemRef struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// ValidateCartItems asks the backend to re-check a cart against live stock
// and prices. The response is the authoritative set of lines: items may be
// missing (discontinued, out of stock) or carry reduced quantities.
func (c *Client) ValidateCartItems(ctx context.Context, items []CartItemRef) ([]domain.CartLine, error) {
	in := struct {
		Items []CartItemRef `json:"items"`
	}{Items: items}
	var out []domain.CartLine
	if err := c.call(ctx, rpcValidateCartItems, in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateOrderInput is the payload for order placement. Pricing and totals
// are computed server-side from the variant references.
type CreateOrderInput struct {
	UserID            string        `json:"user_id"`
	ShippingAddressID string        `json:"shipping_address_id"`
	Items             []CartItemRef `json:"items"`
}

// CreateOrder places an order and returns its ID. The backend validates
// stock and prices transactionally; on any error no order exists.
func (c *Client) CreateOrder(ctx context.Context, in CreateOrderInput) (string, error) {
	var out struct {
		OrderID string `json:"order_id"`
	}
	if err := c.call(ctx, rpcCreateNewOrder, in, &out); err != nil {
		return "", err
	}
	if out.OrderID == "" {
		return "", fmt.Errorf("backend returned empty order id")
	}
	return out.OrderID, nil
}

// GetDashboardAnalytics fetches the pre-aggregated dashboard series for the
// given date range.
func (c *Client) GetDashboardAnalytics(ctx context.Context, from, to time.Time) (*domain.DashboardAnalytics, error) {
	in := struct {
		From string `json:"from"`
		To   string `json:"to"`
	}{
		From: from.UTC().Format("2006-01-02"),
		To:   to.UTC().Format("2006-01-02"),
	}
	var out domain.DashboardAnalytics
	if err := c.call(ctx, rpcGetFullDashboardAnalytics, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OrderListParams filters and pages order listings. UserID empty means all
// users (admin view).
type OrderListParams struct {
	UserID  string `json:"user_id,omitempty"`
	Status  string `json:"status,omitempty"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

// OrderList is a page of orders plus the total matching the filter.
type OrderList struct {
	Orders []domain.Order `json:"orders"`
	Total  int            `json:"total"`
}

// ListOrders fetches a page of orders.
func (c *Client) ListOrders(ctx context.Context, params OrderListParams) (*OrderList, error) {
	var out OrderList
	if err := c.call(ctx, rpcListOrders, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOrder fetches a single order by ID.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	in := struct {
		OrderID string `json:"order_id"`
	}{OrderID: orderID}
	var out domain.Order
	if err := c.call(ctx, rpcGetOrder, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrderStatus moves an order to a new status, optionally attaching a
// tracking number. Transition legality is enforced by the caller before the
// RPC; the backend re-checks it as well.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status, trackingNumber string) (*domain.Order, error) {
	in := struct {
		OrderID        string `json:"order_id"`
		Status         string `json:"status"`
		TrackingNumber string `json:"tracking_number,omitempty"`
	}{OrderID: orderID, Status: status, TrackingNumber: trackingNumber}
	var out domain.Order
	if err := c.call(ctx, rpcUpdateOrderStatus, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserList is a page of user profiles plus the total.
type UserList struct {
	Users []domain.User `json:"users"`
	Total int           `json:"total"`
}

// ListUsers fetches a page of user profiles.
func (c *Client) ListUsers(ctx context.Context, page, perPage int) (*UserList, error) {
	in := struct {
		Page    int `json:"page"`
		PerPage int `json:"per_page"`
	}{Page: page, PerPage: perPage}
	var out UserList
	if err := c.call(ctx, rpcListUsers, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes a user account.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	in := struct {
		UserID string `json:"user_id"`
	}{UserID: userID}
	return c.call(ctx, rpcDeleteUser, in, nil)
}

// GetProduct fetches a single product by ID (admin view).
func (c *Client) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	in := struct {
		ProductID string `json:"product_id"`
	}{ProductID: productID}
	var out domain.Product
	if err := c.call(ctx, rpcGetProduct, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct creates a catalog product with its variants and returns the
// stored record.
func (c *Client) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	var out domain.Product
	if err := c.call(ctx, rpcCreateProduct, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct updates a catalog product and returns the stored record.
func (c *Client) UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	var out domain.Product
	if err := c.call(ctx, rpcUpdateProduct, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct removes a catalog product and all its variants.
func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	in := struct {
		ProductID string `json:"product_id"`
	}{ProductID: productID}
	return c.call(ctx, rpcDeleteProduct, in, nil)
}
