// Package publish emits run summaries and validation reports over NATS
// so downstream consumers can react to a completed normalization run.
package publish

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"fare_normalizer/internal/pipeline"
	"fare_normalizer/internal/validate"
)

// Subjects used by the publisher.
const (
	SubjectRunSummary = "normalizer.run.summary"
	SubjectRunReport  = "normalizer.run.report"
)

// RunSummary is the message published after a normalize run.
type RunSummary struct {
	CompletedAt time.Time      `json:"completed_at"`
	Stats       pipeline.Stats `json:"stats"`
}

// Publisher publishes run results to a NATS server.
type Publisher struct {
	nc *nats.Conn
}

// Connect dials the NATS server at url.
func Connect(url string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("fare-normalizer"),
		nats.Timeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{nc: nc}, nil
}

// Close flushes and closes the connection.
func (p *Publisher) Close() {
	_ = p.nc.Flush()
	p.nc.Close()
}

// PublishSummary publishes the pipeline stats for a completed run.
func (p *Publisher) PublishSummary(stats pipeline.Stats) error {
	payload, err := json.Marshal(RunSummary{CompletedAt: time.Now().UTC(), Stats: stats})
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := p.nc.Publish(SubjectRunSummary, payload); err != nil {
		return fmt.Errorf("publish summary: %w", err)
	}
	return nil
}

// PublishReport publishes a validation report.
func (p *Publisher) PublishReport(rep validate.Report) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := p.nc.Publish(SubjectRunReport, payload); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	return nil
}
