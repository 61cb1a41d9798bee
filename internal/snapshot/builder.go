// Package snapshot assembles per-cycle memory snapshots and publishes the
// current one as a single atomically-replaced immutable value.
package snapshot

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/memtray/memtray/internal/appid"
	"github.com/memtray/memtray/internal/apps"
	"github.com/memtray/memtray/internal/hoststats"
	"github.com/memtray/memtray/internal/models"
	"github.com/memtray/memtray/internal/proctable"
)

// AggregateMB sums the resident footprint of a process set in megabytes.
// The empty set yields 0 and the result does not depend on iteration order;
// each underlying read already fails soft to 0.
func AggregateMB(ctx context.Context, r proctable.Reader, pids []models.Pid) float64 {
	var total float64
	for _, pid := range pids {
		total += r.ResidentMB(ctx, pid)
	}
	return total
}

// Builder runs one full sampling pass: enumerate visible applications,
// resolve each to its process set, aggregate footprints, and sample host
// statistics once for the whole cycle.
type Builder struct {
	apps     apps.Lister
	reader   proctable.Reader
	resolver *appid.Resolver
	host     *hoststats.Provider
	logger   *zap.Logger
}

// NewBuilder wires a Builder from its collaborators.
func NewBuilder(lister apps.Lister, reader proctable.Reader, resolver *appid.Resolver, host *hoststats.Provider, logger *zap.Logger) *Builder {
	return &Builder{
		apps:     lister,
		reader:   reader,
		resolver: resolver,
		host:     host,
		logger:   logger,
	}
}

// Build produces one snapshot. Enumeration failures degrade to an empty
// application list rather than an error; MemoryMB always carries exactly
// one entry per listed application, zero-filled when resolution failed.
func (b *Builder) Build(ctx context.Context) models.Snapshot {
	host := b.host.Sample(ctx)

	list, err := b.apps.Applications(ctx)
	if err != nil {
		b.logger.Warn("application enumeration failed", zap.Error(err))
		list = nil
	}

	// One process listing per cycle, shared across applications.
	pids, err := b.reader.ListPids(ctx)
	if err != nil {
		b.logger.Warn("process listing failed", zap.Error(err))
		pids = nil
	}

	memory := make(map[models.Pid]float64, len(list))
	for _, app := range list {
		strategy := appid.AncestryWalk(app.Pid)
		if app.BundleID != "" {
			strategy = appid.BundlePrefix(app.BundleID)
		}
		owned := b.resolver.Resolve(ctx, strategy, pids)
		memory[app.Pid] = AggregateMB(ctx, b.reader, owned)
	}

	return models.Snapshot{
		Applications: list,
		MemoryMB:     memory,
		Host:         host,
		Timestamp:    time.Now().UTC(),
	}
}
