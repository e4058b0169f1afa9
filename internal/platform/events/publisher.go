package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const (
	TopicOrderPlaced          = "order.placed"
	TopicOrderPaymentVerified = "order.payment_verified"
	TopicOrderPaymentRejected = "order.payment_rejected"
	TopicOrderStatusChanged   = "order.status_changed"
	TopicCouponRedeemed       = "coupon.redeemed"
)

// Publisher emits domain events. Publish must not block on broker I/O.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
	Close() error
}

// KafkaPublisher sends JSON events through a sarama async producer.
type KafkaPublisher struct {
	producer sarama.AsyncProducer
	logger   *zap.Logger
}

// NewKafkaConfig returns the producer settings used for domain events.
func NewKafkaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Flush.Frequency = 500 * time.Millisecond
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Errors = true
	return cfg
}

func NewKafkaPublisher(brokers []string, logger *zap.Logger) (*KafkaPublisher, error) {
	producer, err := sarama.NewAsyncProducer(brokers, NewKafkaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to start kafka producer: %w", err)
	}
	return NewKafkaPublisherFromProducer(producer, logger), nil
}

// NewKafkaPublisherFromProducer wraps an existing producer and drains its errors.
func NewKafkaPublisherFromProducer(producer sarama.AsyncProducer, logger *zap.Logger) *KafkaPublisher {
	go func() {
		for perr := range producer.Errors() {
			logger.Error("failed to deliver kafka message",
				zap.String("topic", perr.Msg.Topic),
				zap.Error(perr.Err))
		}
	}()
	return &KafkaPublisher{producer: producer, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(body),
	}

	select {
	case p.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// LogPublisher writes events to the logger. Used when no brokers are configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, topic, key string, payload any) error {
	p.logger.Info("event", zap.String("topic", topic), zap.String("key", key), zap.Any("payload", payload))
	return nil
}

func (p *LogPublisher) Close() error { return nil }
