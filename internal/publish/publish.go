// Package publish pushes snapshots to a NATS subject as JSON so headless
// consumers can observe them the same way the in-process presentation layer
// does. Publishing is optional and fire-and-forget.
package publish

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/memtray/memtray/internal/models"
)

// Publisher sends each published snapshot to a NATS subject.
type Publisher struct {
	nc      *nats.Conn
	subject string
	logger  *zap.Logger
}

// New connects to the NATS server at url.
func New(url, subject string, logger *zap.Logger) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("memtray"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &Publisher{nc: nc, subject: subject, logger: logger}, nil
}

// Publish marshals the snapshot and sends it. Failures are logged, never
// surfaced: the monitor keeps sampling regardless of consumer availability.
func (p *Publisher) Publish(snap models.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		p.logger.Warn("snapshot marshal failed", zap.Error(err))
		return
	}
	if err := p.nc.Publish(p.subject, data); err != nil {
		p.logger.Warn("snapshot publish failed",
			zap.String("subject", p.subject),
			zap.Error(err))
	}
}

// Close drains the connection.
func (p *Publisher) Close() {
	if err := p.nc.Drain(); err != nil {
		p.logger.Warn("NATS drain failed", zap.Error(err))
	}
}
