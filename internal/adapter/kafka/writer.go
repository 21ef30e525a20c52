// Package kafka publishes dataset releases to a Kafka topic.
package kafka

import (
	"context"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/uom-dataset-etl/internal/config"
	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
	"github.com/couchcryptid/uom-dataset-etl/internal/jsonl"
)

// Writer produces unit records to the release topic, one message per record.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured release topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishDataset serializes and publishes a full dataset in a single
// WriteMessages call so consumers see a release atomically or not at all.
func (w *Writer) PublishDataset(ctx context.Context, dataset string, records []domain.UnitRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(dataset, records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}
	w.logger.Info("published dataset", "dataset", dataset, "records", len(records))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a UnitRecord into a Kafka message. The key is
// the record's (unit, property) identity so log compaction keeps the latest
// release of every unit.
func serializeToMessage(dataset string, record domain.UnitRecord) (kafkago.Message, error) {
	data, err := jsonl.Marshal(record)
	if err != nil {
		return kafkago.Message{}, err
	}
	return kafkago.Message{
		Key:   []byte(record.Unit + "|" + record.Property),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "dataset", Value: []byte(dataset)},
			{Key: "property", Value: []byte(record.Property)},
			{Key: "system", Value: []byte(record.System)},
		},
	}, nil
}
