package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/alexanderjulianmartinez/schemawatch/pkg/types"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes one drift event per failure row.
type KafkaSink struct {
	w     messageWriter
	topic string
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 10 * time.Second,
		},
		topic: topic,
	}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Write(ctx context.Context, rows []types.DiffRow) error {
	var msgs []kafka.Message
	for _, row := range rows {
		if row.Status != types.StatusFailure {
			continue
		}
		value, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encode drift event: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(row.Database + "." + row.Table),
			Value: value,
		})
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := s.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d drift events to %s: %w", len(msgs), s.topic, err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.w.Close()
}
