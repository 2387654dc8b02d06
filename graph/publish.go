// Package graph publishes evaluation outcomes to a catalog ingest subject
// tree over NATS. Publishing is optional: a nil publisher is a no-op, so
// the pipeline runs unchanged without a broker.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/opendata-br/dcatbr/evaluate"
)

// SubjectPrefix roots the per-dataset ingest subjects.
const SubjectPrefix = "catalog.ingest.dataset."

// Publisher sends per-dataset ingest messages.
type Publisher struct {
	nc     *nats.Conn
	logger *slog.Logger
}

// Connect dials the NATS server and returns a Publisher. An empty URL
// returns a nil Publisher, which disables publishing.
func Connect(url string, logger *slog.Logger) (*Publisher, error) {
	if strings.TrimSpace(url) == "" {
		return nil, nil
	}
	nc, err := nats.Connect(url,
		nats.Name("dcatbr"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return NewPublisher(nc, logger), nil
}

// NewPublisher wraps an existing connection. logger may be nil.
func NewPublisher(nc *nats.Conn, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{nc: nc, logger: logger}
}

// Close drains the underlying connection.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.logger.Warn("draining NATS connection failed", "error", err)
	}
}

// ingestMessage is the wire format consumed by the catalog ingester.
type ingestMessage struct {
	DatasetID     string    `json:"dataset_id"`
	Status        string    `json:"status"`
	Valid         bool      `json:"valid"`
	ErrorsCount   int       `json:"errors_count"`
	WarningsCount int       `json:"warnings_count"`
	Error         string    `json:"error,omitempty"`
	ProcessedAt   string    `json:"processed_at"`
	PublishedAt   time.Time `json:"published_at"`
}

// PublishResult sends one evaluation outcome to
// catalog.ingest.dataset.<id>. A nil Publisher is a no-op.
func (p *Publisher) PublishResult(ctx context.Context, result evaluate.Result) error {
	if p == nil || p.nc == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := ingestMessage{
		DatasetID:   result.DatasetID,
		Status:      result.Status,
		Error:       result.Error,
		ProcessedAt: result.ProcessedAt,
		PublishedAt: time.Now().UTC(),
	}
	if v := result.Validation; v != nil {
		msg.Valid = v.Valid
		msg.ErrorsCount = v.ErrorsCount
		msg.WarningsCount = v.WarningsCount
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding ingest message: %w", err)
	}
	subject := SubjectPrefix + subjectToken(result.DatasetID)
	if err := p.nc.Publish(subject, payload); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}

// subjectToken makes a dataset ID safe as a single NATS subject token.
func subjectToken(id string) string {
	if id == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', ' ', '*', '>', '\t', '\n':
			return '-'
		}
		return r
	}, id)
}
