package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// BookingConfirmed is emitted after a booking commits. Consumers are
// analytics/notification pipelines; delivery is best-effort.
type BookingConfirmed struct {
	BookingID   string    `json:"bookingId"`
	TripID      string    `json:"tripId"`
	PassengerID string    `json:"passengerId"`
	BookedAt    time.Time `json:"bookedAt"`
}

type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &Publisher{writer: w, logger: logger}
}

// PublishBookingConfirmed writes the event with a short timeout. Failures are
// logged and swallowed; the booking itself already committed.
func (p *Publisher) PublishBookingConfirmed(ev BookingConfirmed) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	b, err := json.Marshal(ev)
	if err != nil {
		p.logger.Warn("booking event marshal failed", "error", err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(ev.TripID), Value: b}); err != nil {
		p.logger.Warn("booking event publish failed", "booking_id", ev.BookingID, "error", err)
	}
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
