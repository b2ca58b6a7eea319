package storage

import (
	"context"
	"encoding/json"
	"time"

	"warung-orders/internal/domain"

	"github.com/segmentio/kafka-go"
)

type OrderCreatedEvent struct {
	Type      string       `json:"type"`
	TenantID  int          `json:"tenant_id"`
	OrderCode string       `json:"order_code"`
	Total     domain.Money `json:"total"`
	ItemCount int          `json:"item_count"`
	Timestamp time.Time    `json:"timestamp"`
}

type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	payload, _ := json.Marshal(OrderCreatedEvent{
		Type:      "order_created",
		TenantID:  order.TenantID,
		OrderCode: order.OrderCode,
		Total:     order.Total,
		ItemCount: len(order.Items),
		Timestamp: time.Now(),
	})
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.OrderCode),
		Value: payload,
	})
}
