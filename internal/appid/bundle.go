package appid

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"howett.net/plist"
)

// bundleExt marks a directory as an application package boundary.
const bundleExt = ".app"

// BundlePath walks execPath upward to the nearest enclosing application
// bundle directory. Helper bundles nested inside a parent bundle resolve to
// the helper, whose identifier then carries the parent's namespace prefix.
func BundlePath(execPath string) (string, bool) {
	dir := filepath.Clean(execPath)
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
		if strings.HasSuffix(dir, bundleExt) {
			return dir, true
		}
	}
}

// BundleResolver resolves a bundle directory to its declared identifier.
type BundleResolver interface {
	Identifier(bundlePath string) (string, bool)
}

// PlistResolver reads CFBundleIdentifier from a bundle's Info.plist,
// handling both XML and binary plists. Results are cached: an installed
// bundle's identifier does not change while it is running.
type PlistResolver struct {
	mu    sync.Mutex
	cache map[string]string
}

// NewPlistResolver returns a BundleResolver backed by Info.plist files.
func NewPlistResolver() *PlistResolver {
	return &PlistResolver{cache: make(map[string]string)}
}

// Identifier returns the bundle's CFBundleIdentifier, ok=false when the
// plist is missing, unreadable, or declares no identifier.
func (r *PlistResolver) Identifier(bundlePath string) (string, bool) {
	r.mu.Lock()
	cached, hit := r.cache[bundlePath]
	r.mu.Unlock()
	if hit {
		return cached, cached != ""
	}

	id := readBundleIdentifier(bundlePath)

	r.mu.Lock()
	r.cache[bundlePath] = id
	r.mu.Unlock()
	return id, id != ""
}

func readBundleIdentifier(bundlePath string) string {
	f, err := os.Open(filepath.Join(bundlePath, "Contents", "Info.plist"))
	if err != nil {
		return ""
	}
	defer f.Close()

	var info struct {
		CFBundleIdentifier string `plist:"CFBundleIdentifier"`
	}
	if err := plist.NewDecoder(f).Decode(&info); err != nil {
		return ""
	}
	return info.CFBundleIdentifier
}
