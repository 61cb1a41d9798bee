// gopsutil-backed counter source. The pressure read is platform-specific
// (pressure_darwin.go / pressure_other.go).
package hoststats

import (
	"context"
	"os"

	"github.com/shirou/gopsutil/v3/mem"
)

// SystemSource reads live kernel counters.
type SystemSource struct{}

// NewSystemSource returns a Source backed by the host kernel.
func NewSystemSource() SystemSource { return SystemSource{} }

// Counters reads the virtual-memory counters and converts them to pages.
// gopsutil folds speculative and compressor pages into the adjacent
// categories on platforms where it does not expose them separately; those
// fields stay zero and the usage ratio remains well-defined.
func (SystemSource) Counters(ctx context.Context) (Counters, bool) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil || v == nil {
		return Counters{}, false
	}
	ps := uint64(os.Getpagesize())
	if ps == 0 {
		return Counters{}, false
	}
	return Counters{
		Free:     v.Free / ps,
		Inactive: v.Inactive / ps,
		Active:   v.Active / ps,
		Wired:    v.Wired / ps,
		PageSize: ps,
	}, true
}
