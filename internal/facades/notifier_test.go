package facades

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fake Kafka writer ---
type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

// --- Tests ---
func TestKafkaNotifier_Notify(t *testing.T) {
	writer := &fakeWriter{}
	notifier := NewKafkaNotifier(writer)

	notifier.Notify(context.Background(), models.Notification{
		UserID:         "u1",
		Title:          "Payment received",
		Message:        "Payment for your completed job is now in your wallet.",
		IdempotencyKey: "release_b1",
	})

	require.Len(t, writer.messages, 1)
	assert.Equal(t, "release_b1", string(writer.messages[0].Key))

	var got models.Notification
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &got))
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "Payment received", got.Title)
}

func TestKafkaNotifier_NotifySwallowsErrors(t *testing.T) {
	notifier := NewKafkaNotifier(&fakeWriter{err: errors.New("broker down")})

	assert.NotPanics(t, func() {
		notifier.Notify(context.Background(), models.Notification{UserID: "u1", IdempotencyKey: "k"})
	})
}
