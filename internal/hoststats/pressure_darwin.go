//go:build darwin

package hoststats

import (
	"context"

	"golang.org/x/sys/unix"
)

// PressureRaw reads the kernel memorystatus pressure level. The sysctl
// reports 1, 2 or 4 for normal, warning and critical.
func (SystemSource) PressureRaw(_ context.Context) (uint32, bool) {
	v, err := unix.SysctlUint32("kern.memorystatus_vm_pressure_level")
	if err != nil {
		return 0, false
	}
	return v, true
}
