package repository

import (
	"context"
	"fmt"
	"time"

	"StratScan/internal/domain/models"
	domrepo "StratScan/internal/domain/repository"
	"StratScan/pkg/kafka"
)

// BatchPublisher is the part of kafka.Producer the sink needs.
type BatchPublisher interface {
	PublishBatch(ctx context.Context, topic string, messages []kafka.Message) error
	Close() error
}

// SignalEvent is the Kafka record for one scored signal of a scan cycle.
type SignalEvent struct {
	ScanID    string        `json:"scanId"`
	Timestamp time.Time     `json:"timestamp"`
	Bucket    string        `json:"bucket"`
	Signal    models.Signal `json:"signal"`
}

// KafkaSignalSink publishes every signal and near miss of a scan, keyed by symbol.
type KafkaSignalSink struct {
	producer BatchPublisher
	topic    string
}

var _ domrepo.SignalSink = (*KafkaSignalSink)(nil)

func NewKafkaSignalSink(p BatchPublisher, topic string) *KafkaSignalSink {
	return &KafkaSignalSink{producer: p, topic: topic}
}

func (s *KafkaSignalSink) Name() string { return "kafka" }

func (s *KafkaSignalSink) Publish(ctx context.Context, res *models.ScanResult) error {
	msgs := make([]kafka.Message, 0, len(res.Response.Signals)+len(res.Response.NearMisses))
	add := func(bucket string, list []models.Signal) {
		for _, sig := range list {
			msgs = append(msgs, kafka.Message{
				Key:   []byte(sig.Symbol),
				Value: SignalEvent{ScanID: res.ID, Timestamp: res.Timestamp, Bucket: bucket, Signal: sig},
			})
		}
	}
	add("signal", res.Response.Signals)
	add("near_miss", res.Response.NearMisses)
	if len(msgs) == 0 {
		return nil
	}
	if err := s.producer.PublishBatch(ctx, s.topic, msgs); err != nil {
		return fmt.Errorf("publish scan %s: %w", res.ID, err)
	}
	return nil
}

func (s *KafkaSignalSink) Close() error { return s.producer.Close() }
