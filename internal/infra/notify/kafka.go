package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	domorder "example.com/food-storefront/internal/domain/order"
)

const EventOrderPlaced = "order.placed"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type OrderPlacedEvent struct {
	Type            string    `json:"type"`
	OrderID         string    `json:"order_id"`
	UserID          string    `json:"user_id"`
	ItemCount       int64     `json:"item_count"`
	Subtotal        string    `json:"subtotal"`
	DeliveryFee     string    `json:"delivery_fee"`
	TotalAmount     string    `json:"total_amount"`
	DeliveryAddress string    `json:"delivery_address"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewOrderPlacedEvent(o *domorder.Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		Type:            EventOrderPlaced,
		OrderID:         o.ID.String(),
		UserID:          o.UserID.String(),
		ItemCount:       o.ItemCount(),
		Subtotal:        o.Subtotal.StringFixed(2),
		DeliveryFee:     o.DeliveryFee.StringFixed(2),
		TotalAmount:     o.TotalAmount.StringFixed(2),
		DeliveryAddress: o.DeliveryAddress,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
	}
}

// KafkaPublisher emits an order.placed event keyed by order id.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokersCSV, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(splitBrokers(brokersCSV)...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}}
}

func (p *KafkaPublisher) OrderPlaced(ctx context.Context, o *domorder.Order) error {
	data, err := json.Marshal(NewOrderPlacedEvent(o))
	if err != nil {
		return err
	}
	msg := kafka.Message{Key: []byte(o.ID.String()), Value: data, Time: time.Now().UTC()}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", EventOrderPlaced, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func splitBrokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
