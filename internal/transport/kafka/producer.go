package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/IBM/sarama"

	"service-courier/internal/domain"
	"service-courier/internal/logx"
)

const eventTypeHeader = "event_type"

var newSyncProducer = sarama.NewSyncProducer

// Producer publishes courier change events to a Kafka topic.
// A nil *Producer is valid and drops every event.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   logx.Logger
}

// NewProducer connects a synchronous producer. It returns nil, nil when
// brokers or topic are not configured.
func NewProducer(logger logx.Logger, brokers []string, topic string) (*Producer, error) {
	// не стартую если у кафки нет настроек
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.ClientID = "service-courier"
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Retry.Max = 3

	sp, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka: new producer: %w", err)
	}
	return newProducer(logger, sp, topic), nil
}

func newProducer(logger logx.Logger, sp sarama.SyncProducer, topic string) *Producer {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Producer{
		producer: sp,
		topic:    topic,
		logger:   logger.With(logx.String("component", "kafka_producer"), logx.String("topic", topic)),
	}
}

// Publish sends e keyed by courier id, so events of one courier stay ordered.
func (p *Producer) Publish(ctx context.Context, e domain.CourierEvent) error {
	if p == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(FromDomain(e))
	if err != nil {
		return fmt.Errorf("kafka: marshal %s: %w", e.Type, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(e.CourierID, 10)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte(eventTypeHeader), Value: []byte(e.Type)},
		},
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("kafka: send %s: %w", e.Type, err)
	}

	p.logger.Debug("courier event published",
		logx.String("type", string(e.Type)),
		logx.Int64("courier_id", e.CourierID),
		logx.Any("partition", partition),
		logx.Int64("offset", offset),
	)
	return nil
}

// Close flushes and closes the underlying producer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
