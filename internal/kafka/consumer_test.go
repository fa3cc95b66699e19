package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlePurchase(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		handlerErr  error
		wantCalled  bool
		wantErr     bool
		wantOrderID int64
	}{
		{
			name:        "decodes event",
			value:       `{"event_id":"e-1","event":"purchase_confirmed","order_id":555,"value":40000,"currency":"ARS","items":[{"item_name":"Entrada + Almuerzo VIP","quantity":2,"price":20000}]}`,
			wantCalled:  true,
			wantOrderID: 555,
		},
		{
			name:  "skips invalid json",
			value: `not json`,
		},
		{
			name:  "skips missing order id",
			value: `{"event":"purchase_confirmed"}`,
		},
		{
			name:        "propagates handler error",
			value:       `{"order_id":7}`,
			handlerErr:  errors.New("db down"),
			wantCalled:  true,
			wantErr:     true,
			wantOrderID: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *domain.PurchaseEvent
			err := handlePurchase(context.Background(), kafka.Message{Value: []byte(tt.value)}, func(_ context.Context, e domain.PurchaseEvent) error {
				got = &e
				return tt.handlerErr
			})

			if tt.wantErr {
				assert.ErrorIs(t, err, tt.handlerErr)
			} else {
				assert.NoError(t, err)
			}
			if !tt.wantCalled {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantOrderID, got.OrderID)
		})
	}
}

func TestHandlePurchase_Items(t *testing.T) {
	var got domain.PurchaseEvent
	err := handlePurchase(context.Background(), kafka.Message{Value: []byte(
		`{"order_id":555,"value":40000,"items":[{"item_name":"Entrada + Almuerzo VIP","quantity":2,"price":20000}]}`,
	)}, func(_ context.Context, e domain.PurchaseEvent) error {
		got = e
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, int64(40000), got.Value)
	assert.Equal(t, []domain.LineItem{{Name: "Entrada + Almuerzo VIP", Quantity: 2, Price: 20000}}, got.Items)
}

func TestProducer_CheckConnectionWithoutBrokers(t *testing.T) {
	p := &Producer{}
	assert.Error(t, p.CheckConnection(context.Background()))
}
