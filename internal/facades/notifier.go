package facades

import (
	"context"
	"encoding/json"

	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/segmentio/kafka-go"
)

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaNotifier hands notifications to a Kafka topic for delivery by another
// service. Failures are logged and dropped.
type KafkaNotifier struct {
	writer KafkaWriter
}

// NewKafkaNotifier creates a KafkaNotifier.
func NewKafkaNotifier(writer KafkaWriter) *KafkaNotifier {
	return &KafkaNotifier{writer: writer}
}

// Notify publishes msg keyed by its idempotency key so consumers can drop duplicates.
func (n *KafkaNotifier) Notify(ctx context.Context, msg models.Notification) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Errorw("failed to marshal notification", "user_id", msg.UserID, "error", err)
		return
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.IdempotencyKey),
		Value: data,
	})
	if err != nil {
		logger.Log.Errorw("failed to publish notification", "user_id", msg.UserID, "key", msg.IdempotencyKey, "error", err)
		return
	}
	logger.Log.Debugw("notification published", "user_id", msg.UserID, "key", msg.IdempotencyKey)
}
