// Package appid resolves an application's identity to the set of OS
// processes that belong to it. Two strategies exist: bundle-prefix matching
// for applications with a declared bundle identifier, and an ancestry walk
// over parent pids for bare processes without one.
package appid

import (
	"strings"

	"github.com/memtray/memtray/internal/models"
)

// Strategy is the tagged variant selecting how to resolve one application,
// chosen once per application per cycle from the identity data available.
type Strategy struct {
	bundleID string
	rootPid  models.Pid
}

// BundlePrefix selects bundle-identifier matching for id.
func BundlePrefix(id string) Strategy { return Strategy{bundleID: id} }

// AncestryWalk selects the parent-pid walk rooted at root.
func AncestryWalk(root models.Pid) Strategy { return Strategy{rootPid: root} }

// MatchPolicy decides whether a process's derived bundle identifier belongs
// to an application's identifier namespace.
type MatchPolicy int

const (
	// PolicyDottedChild matches an identical identifier or a dot-delimited
	// child namespace ("com.acme.app.helper" under "com.acme.app").
	PolicyDottedChild MatchPolicy = iota

	// PolicyAnyPrefix matches any shared string prefix. Looser: it also
	// captures siblings like "com.acme.app2" under "com.acme.app".
	PolicyAnyPrefix
)

// ParsePolicy maps a config string to a MatchPolicy, defaulting to
// dotted-child for unrecognized values.
func ParsePolicy(s string) MatchPolicy {
	if strings.EqualFold(strings.TrimSpace(s), "any-prefix") {
		return PolicyAnyPrefix
	}
	return PolicyDottedChild
}

// String returns the config spelling of the policy.
func (p MatchPolicy) String() string {
	if p == PolicyAnyPrefix {
		return "any-prefix"
	}
	return "dotted-child"
}

// Matches reports whether candidate falls inside owner's namespace.
func (p MatchPolicy) Matches(owner, candidate string) bool {
	if owner == "" || candidate == "" {
		return false
	}
	if candidate == owner {
		return true
	}
	if p == PolicyAnyPrefix {
		return strings.HasPrefix(candidate, owner)
	}
	return strings.HasPrefix(candidate, owner+".")
}
