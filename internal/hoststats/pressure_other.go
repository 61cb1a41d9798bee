//go:build !darwin

package hoststats

import "context"

// PressureRaw is unavailable off darwin; the provider falls back to the
// normal baseline.
func (SystemSource) PressureRaw(_ context.Context) (uint32, bool) {
	return 0, false
}
