// Package hoststats samples host-wide memory counters and the kernel
// memory-pressure indicator. Sampling never fails observably: any kernel
// read failure degrades to a zeroed result, since this is a best-effort
// indicator rather than an accounting source.
package hoststats

import (
	"context"

	"go.uber.org/zap"

	"github.com/memtray/memtray/internal/models"
)

// Counters holds raw kernel virtual-memory page counts plus the host page
// size in bytes. Fields a platform cannot report stay zero; the usage
// formula tolerates that.
type Counters struct {
	Free        uint64
	Inactive    uint64
	Speculative uint64
	Active      uint64
	Wired       uint64
	Compressed  uint64
	PageSize    uint64
}

// UsagePercent computes the host memory usage percentage:
//
//	used      = active + wired + compressed
//	available = free + inactive + speculative
//	usage     = used / (used + available) * 100
//
// A zero total yields 0, never a division fault. Page size cancels out of
// the ratio, so the computation stays in pages.
func (c Counters) UsagePercent() float64 {
	used := c.Active + c.Wired + c.Compressed
	available := c.Free + c.Inactive + c.Speculative
	total := used + available
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}

// Thresholds maps the raw kernel pressure value onto the ordinal scale.
// This is the single place the boundary policy lives; the darwin kernel
// reports 1 (normal), 2 (warning), 4 (critical).
type Thresholds struct {
	Warning  uint32
	Critical uint32
}

// DefaultThresholds matches the darwin memorystatus scale.
func DefaultThresholds() Thresholds {
	return Thresholds{Warning: 2, Critical: 4}
}

// Classify maps a raw pressure reading to a PressureLevel.
func (t Thresholds) Classify(raw uint32) models.PressureLevel {
	switch {
	case t.Critical > 0 && raw >= t.Critical:
		return models.PressureCritical
	case t.Warning > 0 && raw >= t.Warning:
		return models.PressureWarning
	default:
		return models.PressureNormal
	}
}

// Source reads the raw kernel values. Both reads report availability
// explicitly so failures stay visible at the boundary; the Provider
// collapses them to defaults.
type Source interface {
	Counters(ctx context.Context) (Counters, bool)
	PressureRaw(ctx context.Context) (uint32, bool)
}

// Provider samples host memory statistics.
type Provider struct {
	src        Source
	thresholds Thresholds
	logger     *zap.Logger
}

// NewProvider creates a Provider over the given source.
func NewProvider(src Source, thresholds Thresholds, logger *zap.Logger) *Provider {
	return &Provider{src: src, thresholds: thresholds, logger: logger}
}

// Sample reads the counters and pressure indicator once. The two reads are
// independent: pressure is not derived from the counters. Failures degrade
// to 0% / normal and are logged at debug level only.
func (p *Provider) Sample(ctx context.Context) models.HostStats {
	var stats models.HostStats

	counters, ok := p.src.Counters(ctx)
	if ok {
		stats.UsagePercent = counters.UsagePercent()
	} else {
		p.logger.Debug("host memory counters unavailable")
	}

	raw, ok := p.src.PressureRaw(ctx)
	if ok {
		stats.Pressure = p.thresholds.Classify(raw)
	} else {
		p.logger.Debug("memory pressure indicator unavailable")
	}

	return stats
}
