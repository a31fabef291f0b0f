package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Notification 送往notification sink的payload
// 下游worker負責落地與(可選)寄信，這裡只管投遞
type Notification struct {
	UserID    uint           `json:"user_id"`
	Message   string         `json:"message"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	SendEmail bool           `json:"send_email"`
	Timestamp time.Time      `json:"timestamp"`
}

type Notifier interface {
	// Notify fire-and-forget，caller不應讓投遞失敗影響交易
	Notify(ctx context.Context, n Notification) error
}

type KafkaNotifier struct {
	writer *kafka.Writer
	logger *zerolog.Logger
}

func NewKafkaNotifier(brokers []string, topic string, logger *zerolog.Logger) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		MaxAttempts:  3,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error().Msgf("kafka notifier error: "+msg, args...)
		}),
		Compression: kafka.Snappy,
	}
	return &KafkaNotifier{writer: writer, logger: logger}
}

func (k *KafkaNotifier) Notify(ctx context.Context, n Notification) error {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}

	value, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	// 同一個user的通知要進同一個partition保序
	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(n.UserID), 10)),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("produce notification: %w", err)
	}
	return nil
}

func (k *KafkaNotifier) Close() error {
	return k.writer.Close()
}

var _ Notifier = (*KafkaNotifier)(nil)
