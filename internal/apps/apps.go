// Package apps enumerates user-visible running applications. The presentation
// layer normally supplies a native lister (backed by the OS workspace API,
// carrying icons and activation handles); BundleScan is the headless default
// that derives the application list from the process table alone.
package apps

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/memtray/memtray/internal/appid"
	"github.com/memtray/memtray/internal/models"
	"github.com/memtray/memtray/internal/proctable"
)

// Lister enumerates the visible applications for one cycle, excluding the
// monitor's own application, sorted by display name ascending (stable for
// equal names).
type Lister interface {
	Applications(ctx context.Context) ([]models.Application, error)
}

// BundleScan lists applications by grouping live processes under their
// owning bundle identifier. The representative pid of each application is
// its lowest (earliest-started) pid.
type BundleScan struct {
	reader   proctable.Reader
	resolver *appid.Resolver
	selfPid  models.Pid
}

// NewBundleScan creates a process-table-backed Lister.
func NewBundleScan(reader proctable.Reader, resolver *appid.Resolver) *BundleScan {
	return &BundleScan{
		reader:   reader,
		resolver: resolver,
		selfPid:  models.Pid(os.Getpid()),
	}
}

// Applications scans the process table once and returns one record per
// distinct bundle identifier. Processes outside any bundle are skipped;
// they surface through the ancestry strategy only when a native lister
// reports their root process.
func (b *BundleScan) Applications(ctx context.Context) ([]models.Application, error) {
	pids, err := b.reader.ListPids(ctx)
	if err != nil {
		return nil, err
	}

	type group struct {
		pid  models.Pid
		name string
	}
	groups := make(map[string]group)
	var selfBundle string

	for _, pid := range pids {
		bundlePath, bundleID, ok := b.resolver.Owner(ctx, pid)
		if !ok {
			continue
		}
		if pid == b.selfPid {
			selfBundle = bundleID
			continue
		}
		g, seen := groups[bundleID]
		if !seen || pid < g.pid {
			groups[bundleID] = group{pid: pid, name: displayName(bundlePath)}
		}
	}

	out := make([]models.Application, 0, len(groups))
	for id, g := range groups {
		if selfBundle != "" && id == selfBundle {
			continue
		}
		out = append(out, models.Application{
			Pid:      g.pid,
			Name:     g.name,
			BundleID: id,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Pid < out[j].Pid
	})
	return out, nil
}

// displayName derives a human-readable name from the bundle directory.
func displayName(bundlePath string) string {
	return strings.TrimSuffix(filepath.Base(bundlePath), ".app")
}
