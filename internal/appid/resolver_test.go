package appid

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/memtray/memtray/internal/models"
)

// fakeReader scripts a process table for resolver tests.
type fakeReader struct {
	pids    []models.Pid
	parents map[models.Pid]models.Pid
	exes    map[models.Pid]string
	rss     map[models.Pid]float64
}

func (f *fakeReader) ListPids(context.Context) ([]models.Pid, error) {
	return f.pids, nil
}

func (f *fakeReader) ParentOf(_ context.Context, pid models.Pid) (models.Pid, bool) {
	p, ok := f.parents[pid]
	return p, ok
}

func (f *fakeReader) ExecutablePath(_ context.Context, pid models.Pid) (string, bool) {
	e, ok := f.exes[pid]
	return e, ok
}

func (f *fakeReader) ResidentMB(_ context.Context, pid models.Pid) float64 {
	return f.rss[pid]
}

// fakeBundles resolves bundle paths to identifiers from a script.
type fakeBundles struct {
	ids map[string]string
}

func (f *fakeBundles) Identifier(bundlePath string) (string, bool) {
	id, ok := f.ids[bundlePath]
	return id, ok
}

func pidSet(pids []models.Pid) map[models.Pid]bool {
	set := make(map[models.Pid]bool, len(pids))
	for _, p := range pids {
		set[p] = true
	}
	return set
}

func acmeTable() (*fakeReader, *fakeBundles) {
	reader := &fakeReader{
		pids: []models.Pid{100, 200, 300, 400},
		parents: map[models.Pid]models.Pid{
			100: 1,
			200: 100,
			300: 1,
		},
		exes: map[models.Pid]string{
			100: "/Applications/Acme.app/Contents/MacOS/Acme",
			200: "/Applications/Acme.app/Contents/Frameworks/Helper.app/Contents/MacOS/Helper",
			300: "/Applications/Other.app/Contents/MacOS/Other",
			400: "/usr/local/bin/tool",
		},
		rss: map[models.Pid]float64{100: 50, 200: 30, 300: 10, 400: 5},
	}
	bundles := &fakeBundles{ids: map[string]string{
		"/Applications/Acme.app":                                "com.acme.app",
		"/Applications/Acme.app/Contents/Frameworks/Helper.app": "com.acme.app.helper",
		"/Applications/Other.app":                               "com.other.app",
	}}
	return reader, bundles
}

func TestResolve_BundlePrefix(t *testing.T) {
	reader, bundles := acmeTable()
	r := NewResolver(reader, bundles, PolicyDottedChild, 0, zap.NewNop())

	got := pidSet(r.Resolve(context.Background(), BundlePrefix("com.acme.app"), reader.pids))

	if !got[100] || !got[200] {
		t.Errorf("resolve(com.acme.app) = %v, want app 100 and helper 200 included", got)
	}
	if got[300] {
		t.Error("resolve(com.acme.app) includes unrelated com.other.app process")
	}
	if got[400] {
		t.Error("resolve(com.acme.app) includes process outside any bundle")
	}
}

func TestResolve_BundlePrefix_OtherApp(t *testing.T) {
	reader, bundles := acmeTable()
	r := NewResolver(reader, bundles, PolicyDottedChild, 0, zap.NewNop())

	got := pidSet(r.Resolve(context.Background(), BundlePrefix("com.other.app"), reader.pids))

	if !got[300] || len(got) != 1 {
		t.Errorf("resolve(com.other.app) = %v, want exactly {300}", got)
	}
}

func TestResolve_AncestryWalk(t *testing.T) {
	reader := &fakeReader{
		pids: []models.Pid{100, 200, 250, 300, 400},
		parents: map[models.Pid]models.Pid{
			100: 1,
			200: 100,
			250: 200, // grandchild of the root
			300: 1,
			// 400 has no known parent: the walk cannot continue.
		},
	}
	r := NewResolver(reader, &fakeBundles{}, PolicyDottedChild, 0, zap.NewNop())

	got := pidSet(r.Resolve(context.Background(), AncestryWalk(100), reader.pids))

	for _, want := range []models.Pid{100, 200, 250} {
		if !got[want] {
			t.Errorf("ancestry resolve missing descendant %d (got %v)", want, got)
		}
	}
	if got[300] {
		t.Error("ancestry resolve includes process rooted at pid 1")
	}
	if got[400] {
		t.Error("ancestry resolve includes process with unknown parent")
	}
}

func TestDescendsFrom_SelfReferentialParent(t *testing.T) {
	reader := &fakeReader{
		pids:    []models.Pid{500},
		parents: map[models.Pid]models.Pid{500: 500},
	}
	r := NewResolver(reader, &fakeBundles{}, PolicyDottedChild, 0, zap.NewNop())

	if got := r.Resolve(context.Background(), AncestryWalk(100), reader.pids); len(got) != 0 {
		t.Errorf("self-referential parent resolved to %v, want excluded", got)
	}
}

func TestDescendsFrom_CyclicParentsTerminate(t *testing.T) {
	reader := &fakeReader{
		pids: []models.Pid{500, 501},
		parents: map[models.Pid]models.Pid{
			500: 501,
			501: 500,
		},
	}
	r := NewResolver(reader, &fakeBundles{}, PolicyDottedChild, 8, zap.NewNop())

	// Must terminate at the depth cap and exclude both.
	if got := r.Resolve(context.Background(), AncestryWalk(100), reader.pids); len(got) != 0 {
		t.Errorf("cyclic parents resolved to %v, want excluded", got)
	}
}

func TestDescendsFrom_DepthCap(t *testing.T) {
	// Chain 10 -> 11 -> ... -> 20 -> root 100, deeper than the cap of 3.
	parents := map[models.Pid]models.Pid{20: 100, 100: 1}
	for pid := models.Pid(10); pid < 20; pid++ {
		parents[pid] = pid + 1
	}
	reader := &fakeReader{pids: []models.Pid{10}, parents: parents}
	r := NewResolver(reader, &fakeBundles{}, PolicyDottedChild, 3, zap.NewNop())

	if got := r.Resolve(context.Background(), AncestryWalk(100), reader.pids); len(got) != 0 {
		t.Errorf("deep chain resolved to %v, want excluded at depth cap", got)
	}
}

func TestOwner(t *testing.T) {
	reader, bundles := acmeTable()
	r := NewResolver(reader, bundles, PolicyDottedChild, 0, zap.NewNop())
	ctx := context.Background()

	if _, id, ok := r.Owner(ctx, 200); !ok || id != "com.acme.app.helper" {
		t.Errorf("Owner(200) = %q, %v; want helper identifier", id, ok)
	}
	if _, _, ok := r.Owner(ctx, 400); ok {
		t.Error("Owner(400) ok for process outside any bundle")
	}
	if _, _, ok := r.Owner(ctx, 999); ok {
		t.Error("Owner(999) ok for exited process")
	}
}
