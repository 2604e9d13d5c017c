package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	apperrors "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/errors"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/httpclient"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	cfg.Timeout = 2 * time.Second
	cb := httpclient.NewCircuitBreakerClient(
		httpclient.New(cfg),
		httpclient.CircuitBreakerConfig{
			Name:         "backend-test",
			MaxRequests:  1,
			Interval:     time.Minute,
			Timeout:      time.Minute,
			FailureRatio: 0.99,
			MinRequests:  100,
		},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return NewClient(srv.URL, cb)
}

func respond(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": data}))
}

func TestGetPublicProductList(t *testing.T) {
	var gotBody ProductListParams
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rpc/get_public_product_list", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		respond(t, w, ProductList{
			Products: []domain.Product{{ID: "prod-1", Name: "Bolsa Mariana", Slug: "bolsa-mariana"}},
			Total:    37,
		})
	}))

	list, err := client.GetPublicProductList(context.Background(), ProductListParams{
		Search:  "mariana",
		Color:   "café",
		Page:    2,
		PerPage: 12,
	})
	require.NoError(t, err)

	assert.Equal(t, "mariana", gotBody.Search)
	assert.Equal(t, "café", gotBody.Color)
	assert.Equal(t, 2, gotBody.Page)
	assert.Equal(t, 37, list.Total)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "bolsa-mariana", list.Products[0].Slug)
}

func TestGetProductDetail(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rpc/get_product_detail", r.URL.Path)
		respond(t, w, domain.Product{
			ID:   "prod-1",
			Name: "Bolsa Mariana",
			Variants: []domain.Variant{
				{ID: "var-1", Color: "café", UnitPriceRetail: 10000},
				{ID: "var-2", Color: "negro", UnitPriceRetail: 10000},
			},
		})
	}))

	p, err := client.GetProductDetail(context.Background(), "bolsa-mariana")
	require.NoError(t, err)
	assert.Len(t, p.Variants, 2)
}

func TestGetProductDetail_NotFound(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"no such product"}}`))
	}))

	_, err := client.GetProductDetail(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestValidateCartItems(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rpc/validate_cart_items", r.URL.Path)

		var in struct {
			Items []CartItemRef `json:"items"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Len(t, in.Items, 2)

		// Backend drops one item and reduces the other's quantity.
		respond(t, w, []domain.CartLine{
			{VariantID: "var-1", Name: "Bolsa Mariana", Quantity: 2, UnitPriceRetail: 10000},
		})
	}))

	lines, err := client.ValidateCartItems(context.Background(), []CartItemRef{
		{VariantID: "var-1", Quantity: 5},
		{VariantID: "var-gone", Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCreateOrder(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in CreateOrderInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "user-1", in.UserID)
		assert.Equal(t, "addr-1", in.ShippingAddressID)
		respond(t, w, map[string]string{"order_id": "order-42"})
	}))

	id, err := client.CreateOrder(context.Background(), CreateOrderInput{
		UserID:            "user-1",
		ShippingAddressID: "addr-1",
		Items:             []CartItemRef{{VariantID: "var-1", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "order-42", id)
}

func TestCreateOrder_EmptyIDRejected(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, map[string]string{})
	}))

	_, err := client.CreateOrder(context.Background(), CreateOrderInput{UserID: "user-1"})
	assert.Error(t, err)
}

func TestGetDashboardAnalytics_SendsDateRange(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			From string `json:"from"`
			To   string `json:"to"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "2026-08-01", in.From)
		assert.Equal(t, "2026-08-31", in.To)
		respond(t, w, domain.DashboardAnalytics{TotalRevenue: 123400, TotalOrders: 17})
	}))

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	analytics, err := client.GetDashboardAnalytics(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(123400), analytics.TotalRevenue)
	assert.Equal(t, 17, analytics.TotalOrders)
}

func TestListOrders_UserScoped(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in OrderListParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "user-1", in.UserID)
		respond(t, w, OrderList{
			Orders: []domain.Order{{ID: "order-1", UserID: "user-1", Status: domain.OrderStatusPending}},
			Total:  1,
		})
	}))

	list, err := client.ListOrders(context.Background(), OrderListParams{UserID: "user-1", Page: 1, PerPage: 20})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, "order-1", list.Orders[0].ID)
}

func TestUpdateOrderStatus(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			OrderID        string `json:"order_id"`
			Status         string `json:"status"`
			TrackingNumber string `json:"tracking_number"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "order-1", in.OrderID)
		assert.Equal(t, domain.OrderStatusShipped, in.Status)
		assert.Equal(t, "TRK-99", in.TrackingNumber)
		respond(t, w, domain.Order{ID: "order-1", Status: domain.OrderStatusShipped, TrackingNumber: "TRK-99"})
	}))

	order, err := client.UpdateOrderStatus(context.Background(), "order-1", domain.OrderStatusShipped, "TRK-99")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, order.Status)
}

func TestDeleteUser(t *testing.T) {
	var called bool
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, "/rpc/delete_user", r.URL.Path)
		respond(t, w, map[string]any{})
	}))

	require.NoError(t, client.DeleteUser(context.Background(), "user-1"))
	assert.True(t, called)
}

func TestCall_ServerErrorMapped(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.ListUsers(context.Background(), 1, 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend")
	assert.Contains(t, err.Error(), "500")
}
