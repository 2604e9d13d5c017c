package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderPlacedData struct {
	OrderID string `json:"order_id"`
	Total   int64  `json:"total"`
}

func TestNewEvent(t *testing.T) {
	evt, err := NewEvent("order.placed", "order-1", "order", "storefront", orderPlacedData{OrderID: "order-1", Total: 32000})
	require.NoError(t, err)

	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, "order.placed", evt.EventType)
	assert.Equal(t, "order-1", evt.AggregateID)
	assert.Equal(t, "order", evt.AggregateType)
	assert.Equal(t, 1, evt.Version)
	assert.Equal(t, "storefront", evt.Source)
	assert.WithinDuration(t, time.Now().UTC(), evt.Timestamp, time.Minute)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	evt, err := NewEvent("cart.item_added", "user-7", "cart", "storefront", orderPlacedData{OrderID: "x", Total: 100})
	require.NoError(t, err)
	evt.WithCorrelationID("corr-1").WithMetadata("channel", "web")

	raw, err := evt.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)

	assert.Equal(t, evt.EventID, decoded.EventID)
	assert.Equal(t, "corr-1", decoded.CorrelationID)
	assert.Equal(t, "web", decoded.Metadata["channel"])

	var data orderPlacedData
	require.NoError(t, decoded.UnmarshalData(&data))
	assert.Equal(t, int64(100), data.Total)
}

func TestNewEvent_UnserializableData(t *testing.T) {
	_, err := NewEvent("x", "a", "b", "c", make(chan int))
	assert.Error(t, err)
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	err := PingBrokers(context.Background(), nil)
	assert.Error(t, err)
}
