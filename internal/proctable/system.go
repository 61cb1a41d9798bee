// gopsutil-backed process table reader.
package proctable

import (
	"context"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/memtray/memtray/internal/models"
)

const bytesPerMB = 1 << 20

// SystemReader implements Reader on top of the live OS process table.
type SystemReader struct{}

// NewSystemReader returns a Reader backed by the OS process table.
func NewSystemReader() SystemReader { return SystemReader{} }

// ListPids returns all currently-alive pids.
func (SystemReader) ListPids(ctx context.Context) ([]models.Pid, error) {
	return process.PidsWithContext(ctx)
}

// ParentOf looks up the parent pid. Any failure maps to ok=false.
func (SystemReader) ParentOf(ctx context.Context, pid models.Pid) (models.Pid, bool) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return 0, false
	}
	ppid, err := p.PpidWithContext(ctx)
	if err != nil {
		return 0, false
	}
	return ppid, true
}

// ExecutablePath looks up the executable path. Any failure maps to ok=false.
func (SystemReader) ExecutablePath(ctx context.Context, pid models.Pid) (string, bool) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return "", false
	}
	exe, err := p.ExeWithContext(ctx)
	if err != nil || exe == "" {
		return "", false
	}
	return exe, true
}

// ResidentMB returns the RSS of pid in megabytes, 0 on any failure.
func (SystemReader) ResidentMB(ctx context.Context, pid models.Pid) float64 {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return 0
	}
	mi, err := p.MemoryInfoWithContext(ctx)
	if err != nil || mi == nil {
		return 0
	}
	return float64(mi.RSS) / bytesPerMB
}

// Terminate asks the OS to end the process (SIGTERM on unix). Fire and
// forget: the caller schedules a delayed refresh instead of waiting for
// teardown to complete.
func (SystemReader) Terminate(ctx context.Context, pid models.Pid) error {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return err
	}
	return p.TerminateWithContext(ctx)
}
