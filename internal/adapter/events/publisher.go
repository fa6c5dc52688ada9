package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"github.com/polkiloo/aiblend-payments/internal/domain/model"
)

// EventTypeUserUpgraded is set on every upgrade notification.
const EventTypeUserUpgraded = "user.upgraded"

// UserUpgraded is the message published after a user gains pro status.
type UserUpgraded struct {
	EventType  string              `json:"eventType"`
	UserID     string              `json:"userId"`
	PaymentID  string              `json:"paymentId"`
	OrderID    string              `json:"orderId,omitempty"`
	Source     model.UpgradeSource `json:"source"`
	UpgradedAt time.Time           `json:"upgradedAt"`
}

// Publisher announces domain events to other services.
type Publisher interface {
	PublishUpgrade(ctx context.Context, upgrade model.Upgrade) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic keyed by user id.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

var newSyncProducer = sarama.NewSyncProducer

// sendTimeout bounds every broker round trip made while publishing.
const sendTimeout = 2 * time.Second

// NewProducerConfig returns producer settings requiring acknowledgement from
// all replicas. Each send is attempted once and bounded by sendTimeout.
func NewProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 0
	config.Producer.Timeout = sendTimeout
	config.Net.DialTimeout = sendTimeout
	config.Net.ReadTimeout = sendTimeout
	config.Net.WriteTimeout = sendTimeout
	return config
}

// NewKafkaPublisher connects a synchronous producer to brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	producer, err := newSyncProducer(brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	logger.Info("kafka producer initialized", slog.String("topic", topic))
	return NewKafkaPublisherWithProducer(producer, topic, logger), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer.
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

// PublishUpgrade sends a UserUpgraded event.
func (p *KafkaPublisher) PublishUpgrade(ctx context.Context, upgrade model.Upgrade) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(UserUpgraded{
		EventType:  EventTypeUserUpgraded,
		UserID:     upgrade.UserID,
		PaymentID:  upgrade.PaymentID,
		OrderID:    upgrade.OrderID,
		Source:     upgrade.Source,
		UpgradedAt: upgrade.UpgradedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(upgrade.UserID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(EventTypeUserUpgraded)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	p.logger.Info("user upgrade published",
		slog.String("topic", p.topic),
		slog.String("user_id", upgrade.UserID),
		slog.Int("partition", int(partition)),
		slog.Int64("offset", offset),
	)
	return nil
}

// Close flushes and closes the producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishUpgrade(context.Context, model.Upgrade) error { return nil }

func (NopPublisher) Close() error { return nil }
