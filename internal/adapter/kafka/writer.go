package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/couchcryptid/levee-files/internal/domain"
	"github.com/couchcryptid/levee-files/internal/output"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer the loader needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes each finalized artifact as one Kafka message keyed by its
// file name. It implements pipeline.Loader.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the artifact topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Load publishes doc. Keying by name keeps every version of an artifact on
// one partition.
func (w *Writer) Load(ctx context.Context, doc output.Document) error {
	if err := w.writer.WriteMessages(ctx, documentMessage(doc)); err != nil {
		return fmt.Errorf("publish %s: %w: %w", doc.Name(), domain.ErrEmitterWrite, err)
	}
	w.logger.Debug("artifact published", "name", doc.Name(), "bytes", len(doc.Bytes()))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// documentMessage wraps an artifact in a Kafka message.
func documentMessage(doc output.Document) kafkago.Message {
	data := doc.Bytes()
	return kafkago.Message{
		Key:   []byte(doc.Name()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "content_type", Value: []byte(doc.ContentType())},
			{Key: "size", Value: []byte(strconv.Itoa(len(data)))},
		},
	}
}
