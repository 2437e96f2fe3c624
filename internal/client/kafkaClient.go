package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campus-merch-store/internal/config"
	"campus-merch-store/internal/model"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const EventOrderCreated = "OrderCreated"

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID              uint   `json:"id"`
	UserID          string `json:"user_id"`
	ShopID          uint   `json:"shop_id"`
	MerchID         uint   `json:"merch_id"`
	VariantID       uint   `json:"variant_id"`
	SizeID          *uint  `json:"size_id"`
	Quantity        int    `json:"quantity"`
	OnlinePayment   bool   `json:"online_payment"`
	PhysicalPayment bool   `json:"physical_payment"`
}

func NewOrderCreatedEvent(o *model.Order, now time.Time) OrderCreatedEvent {
	return OrderCreatedEvent{
		EventID:   uuid.NewString(),
		EventType: EventOrderCreated,
		Timestamp: now,
		Payload: OrderPayload{
			ID:              o.ID,
			UserID:          o.UserID,
			ShopID:          o.ShopID,
			MerchID:         o.MerchID,
			VariantID:       o.VariantID,
			SizeID:          o.SizeID,
			Quantity:        o.Quantity,
			OnlinePayment:   o.OnlinePayment,
			PhysicalPayment: o.PhysicalPayment,
		},
	}
}

type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *model.Order) error
	Close() error
}

type kafkaOrderPublisher struct {
	writer *kafka.Writer
}

// NewOrderEventPublisher writes order events to kafka, keyed by shop so one
// shop's events stay ordered. With no brokers configured it returns a
// publisher that drops events.
func NewOrderEventPublisher(cfg *config.Kafka) OrderEventPublisher {
	if len(cfg.Brokers) == 0 {
		return nopOrderPublisher{}
	}
	return &kafkaOrderPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *kafkaOrderPublisher) PublishOrderCreated(ctx context.Context, order *model.Order) error {
	value, err := json.Marshal(NewOrderCreatedEvent(order, time.Now()))
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("shop-%d", order.ShopID)),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("publish order %d: %w", order.ID, err)
	}
	return nil
}

func (p *kafkaOrderPublisher) Close() error {
	return p.writer.Close()
}

type nopOrderPublisher struct{}

func (nopOrderPublisher) PublishOrderCreated(context.Context, *model.Order) error { return nil }

func (nopOrderPublisher) Close() error { return nil }
