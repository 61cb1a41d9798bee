package appid

import (
	"context"

	"go.uber.org/zap"

	"github.com/memtray/memtray/internal/models"
	"github.com/memtray/memtray/internal/proctable"
)

// osRootPid ends every ancestry walk: reaching it means the candidate is
// not a descendant of the application's root process.
const osRootPid models.Pid = 1

// DefaultMaxAncestryDepth caps the parent-pid walk. The process tree is far
// shallower in practice; the cap only guards against self-referential or
// cyclic parent pointers in a churning table.
const DefaultMaxAncestryDepth = 64

// Resolver maps an application identity to its owned process set.
type Resolver struct {
	reader   proctable.Reader
	bundles  BundleResolver
	policy   MatchPolicy
	maxDepth int
	logger   *zap.Logger
}

// NewResolver creates a Resolver. maxDepth <= 0 selects the default cap.
func NewResolver(reader proctable.Reader, bundles BundleResolver, policy MatchPolicy, maxDepth int, logger *zap.Logger) *Resolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxAncestryDepth
	}
	return &Resolver{
		reader:   reader,
		bundles:  bundles,
		policy:   policy,
		maxDepth: maxDepth,
		logger:   logger,
	}
}

// Resolve returns the pids from pids that belong to the application
// identified by s. pids is the current cycle's process listing; the caller
// lists once per cycle and shares it across applications.
func (r *Resolver) Resolve(ctx context.Context, s Strategy, pids []models.Pid) []models.Pid {
	if s.bundleID != "" {
		return r.resolveBundle(ctx, s.bundleID, pids)
	}
	return r.resolveAncestry(ctx, s.rootPid, pids)
}

// Owner derives the bundle path and identifier owning pid's executable.
// ok is false when the process is gone, lives outside any bundle, or its
// bundle declares no identifier.
func (r *Resolver) Owner(ctx context.Context, pid models.Pid) (bundlePath, bundleID string, ok bool) {
	exe, ok := r.reader.ExecutablePath(ctx, pid)
	if !ok {
		return "", "", false
	}
	bundlePath, ok = BundlePath(exe)
	if !ok {
		return "", "", false
	}
	bundleID, ok = r.bundles.Identifier(bundlePath)
	if !ok {
		return "", "", false
	}
	return bundlePath, bundleID, true
}

// resolveBundle scans the process list and keeps every process whose derived
// bundle identifier falls in owner's namespace. Processes that resolve to no
// bundle are excluded.
func (r *Resolver) resolveBundle(ctx context.Context, owner string, pids []models.Pid) []models.Pid {
	var out []models.Pid
	for _, pid := range pids {
		_, id, ok := r.Owner(ctx, pid)
		if !ok {
			continue
		}
		if r.policy.Matches(owner, id) {
			out = append(out, pid)
		}
	}
	return out
}

// resolveAncestry scans the process list and keeps every process whose
// parent chain reaches root before hitting pid 1, an unknown parent, or the
// depth cap.
func (r *Resolver) resolveAncestry(ctx context.Context, root models.Pid, pids []models.Pid) []models.Pid {
	var out []models.Pid
	for _, pid := range pids {
		if r.descendsFrom(ctx, pid, root) {
			out = append(out, pid)
		}
	}
	return out
}

// descendsFrom walks pid's ancestry upward toward root. An unknown parent
// means the walk cannot continue and the candidate is treated as not a
// descendant; hitting the depth cap resolves the same way.
func (r *Resolver) descendsFrom(ctx context.Context, pid, root models.Pid) bool {
	cur := pid
	for depth := 0; depth <= r.maxDepth; depth++ {
		if cur == root {
			return true
		}
		if cur <= osRootPid {
			return false
		}
		parent, ok := r.reader.ParentOf(ctx, cur)
		if !ok || parent == cur {
			return false
		}
		cur = parent
	}
	r.logger.Debug("ancestry walk exceeded depth cap",
		zap.Int32("pid", pid),
		zap.Int32("root", root))
	return false
}
