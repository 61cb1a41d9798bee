// Package models defines the snapshot data structures shared between the
// sampling core and the presentation layer. Snapshots are immutable values:
// the core builds a fresh one each cycle and consumers never mutate it.
package models

import "time"

// Pid identifies a live OS process. Pids are recycled by the OS over time,
// so a Pid is only meaningful within the snapshot cycle that produced it.
type Pid = int32

// PressureLevel is the OS memory-pressure signal mapped to a small ordinal
// scale. It is independent of the usage percentage.
type PressureLevel int

const (
	PressureNormal PressureLevel = iota
	PressureWarning
	PressureCritical
)

// String returns the lowercase display name of the pressure level.
func (p PressureLevel) String() string {
	switch p {
	case PressureWarning:
		return "warning"
	case PressureCritical:
		return "critical"
	default:
		return "normal"
	}
}

// HostStats holds the host-wide memory view sampled once per cycle.
type HostStats struct {
	UsagePercent float64       `json:"usage_percent"`
	Pressure     PressureLevel `json:"pressure"`
}

// Application represents one user-visible running application. An application
// may own several OS processes; Pid is its representative (root) process.
//
// Icon and Activation are opaque handles owned by the presentation layer.
// The core carries them through untouched and never serializes them.
type Application struct {
	Pid        Pid    `json:"pid"`
	Name       string `json:"name"`
	BundleID   string `json:"bundle_id,omitempty"`
	Icon       any    `json:"-"`
	Activation any    `json:"-"`
}

// Snapshot is one point-in-time view of per-application memory usage plus
// host-wide statistics. MemoryMB has exactly one entry per application in
// Applications, keyed by the application's representative pid; entries are
// zero when resolution failed for that cycle.
type Snapshot struct {
	Applications []Application   `json:"applications"`
	MemoryMB     map[Pid]float64 `json:"memory_mb"`
	Host         HostStats       `json:"host"`
	Timestamp    time.Time       `json:"timestamp"`
}
