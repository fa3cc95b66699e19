package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/segmentio/kafka-go"
)

// PurchaseHandler processes one decoded purchase event. A returned error
// stops consumption without committing the message.
type PurchaseHandler func(ctx context.Context, event domain.PurchaseEvent) error

type Consumer struct {
	topic  string
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		topic: topic,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// ConsumePurchases blocks until ctx is canceled or handle fails. Each message
// is committed only after handle returns nil.
func (c *Consumer) ConsumePurchases(ctx context.Context, handle PurchaseHandler) error {
	log.Printf("[kafka] consuming purchases from %s", c.topic)
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch from %s: %w", c.topic, err)
		}

		if err := handlePurchase(ctx, msg, handle); err != nil {
			return err
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}

// handlePurchase logs and skips messages that are not purchase events.
func handlePurchase(ctx context.Context, msg kafka.Message, handle PurchaseHandler) error {
	var event domain.PurchaseEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Printf("[kafka] skipping undecodable message at offset %d: %v", msg.Offset, err)
		return nil
	}
	if event.OrderID == 0 {
		log.Printf("[kafka] skipping purchase without order id at offset %d", msg.Offset)
		return nil
	}
	if err := handle(ctx, event); err != nil {
		return fmt.Errorf("handle purchase for order %d: %w", event.OrderID, err)
	}
	return nil
}
