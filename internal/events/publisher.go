package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const topic = "import-events"

// Event types emitted over the sync lifecycle.
const (
	TypeImportCompleted = "import.completed"
	TypeJobCompleted    = "job.completed"
	TypeJobFailed       = "job.failed"
)

type Event struct {
	Type       string         `json:"type"`
	ShopDomain string         `json:"shop_domain"`
	JobID      string         `json:"job_id,omitempty"`
	ImportID   string         `json:"import_id,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// Emitter is the publishing interface the worker and the API handlers
// depend on. Satisfied by *Publisher; tests substitute a recorder.
type Emitter interface {
	Publish(ctx context.Context, event Event)
}

// Publisher emits sync lifecycle events to Kafka. A nil Publisher is valid
// and drops everything, so callers never need to branch on configuration.
type Publisher struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// New returns nil when no brokers are configured.
func New(brokers string, logger zerolog.Logger) *Publisher {
	if brokers == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: time.Second,
	}
	return &Publisher{writer: writer, logger: logger}
}

// Publish sends one event, keyed by shop domain so per-shop ordering holds.
// Failures are logged, never propagated; the ledger is the source of truth
// and the stream is advisory.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	if p == nil {
		return
	}
	event.Timestamp = time.Now().UTC()

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Str("type", event.Type).Msg("failed to marshal event")
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ShopDomain),
		Value: value,
	})
	if err != nil {
		p.logger.Error().Err(err).Str("type", event.Type).Msg("failed to publish event")
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
