// Package proctable reads the OS process table. All per-process queries fail
// soft: a process exiting between enumeration and query, or the OS denying
// access, is an expected race in this domain and resolves to an explicit
// "unknown" result rather than an error.
package proctable

import (
	"context"

	"github.com/memtray/memtray/internal/models"
)

// Reader answers questions about currently-alive processes. The returned
// listing is a snapshot and may be stale microseconds after return; callers
// must tolerate queried pids having already exited.
type Reader interface {
	// ListPids returns the pids of all currently-alive processes.
	ListPids(ctx context.Context) ([]models.Pid, error)

	// ParentOf returns the parent pid of pid. ok is false when the process
	// is gone or inaccessible; callers treat that as "cannot continue the
	// ancestry walk".
	ParentOf(ctx context.Context, pid models.Pid) (parent models.Pid, ok bool)

	// ExecutablePath returns the executable path of pid, or ok=false when
	// unavailable.
	ExecutablePath(ctx context.Context, pid models.Pid) (path string, ok bool)

	// ResidentMB returns the physical memory currently backing pid in
	// megabytes, or 0 when the process is gone or inaccessible.
	ResidentMB(ctx context.Context, pid models.Pid) float64
}
