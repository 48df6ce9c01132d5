// Package notifier delivers emergency.created events to whoever broadcasts
// them to donors. Delivery is best effort; callers log failures and move on.
package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"bloodlink/internal/emergency/models"
)

// EventCreated is the event type header value for new emergency requests.
const EventCreated = "emergency.created"

// KafkaConfig configures the Kafka publisher.
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// KafkaNotifier publishes emergency events to a Kafka topic keyed by
// organization, so one organization's events stay ordered.
type KafkaNotifier struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

func NewKafkaNotifier(cfg KafkaConfig, logger *slog.Logger) (*KafkaNotifier, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka notifier: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka notifier: topic is required")
	}
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("kafka notifier: create client: %w", err)
	}
	return &KafkaNotifier{client: client, topic: cfg.Topic, logger: logger}, nil
}

// EnsureTopic creates the topic when it does not exist yet.
func (n *KafkaNotifier) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	adm := kadm.NewClient(n.client)
	resp, err := adm.CreateTopic(ctx, partitions, replicationFactor, nil, n.topic)
	if err != nil {
		return fmt.Errorf("kafka notifier: create topic: %w", err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("kafka notifier: create topic %s: %w", n.topic, resp.Err)
	}
	n.logger.InfoContext(ctx, "kafka topic ready", "topic", n.topic)
	return nil
}

// NotifyCreated publishes the event and waits for the broker ack.
func (n *KafkaNotifier) NotifyCreated(ctx context.Context, event models.Created) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka notifier: encode event: %w", err)
	}
	record := &kgo.Record{
		Key:   []byte(event.OrganizationID.String()),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(EventCreated)},
			{Key: "urgency", Value: []byte(event.Urgency)},
		},
	}
	if err := n.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("kafka notifier: publish: %w", err)
	}
	return nil
}

// Close flushes buffered records and closes the client.
func (n *KafkaNotifier) Close(ctx context.Context) error {
	err := n.client.Flush(ctx)
	n.client.Close()
	return err
}
