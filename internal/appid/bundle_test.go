package appid

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBundlePath(t *testing.T) {
	tests := []struct {
		name string
		exe  string
		want string
		ok   bool
	}{
		{
			name: "regular bundle",
			exe:  "/Applications/Acme.app/Contents/MacOS/Acme",
			want: "/Applications/Acme.app",
			ok:   true,
		},
		{
			name: "nested helper resolves to nearest bundle",
			exe:  "/Applications/Acme.app/Contents/Frameworks/Helper.app/Contents/MacOS/Helper",
			want: "/Applications/Acme.app/Contents/Frameworks/Helper.app",
			ok:   true,
		},
		{
			name: "bare binary outside any bundle",
			exe:  "/usr/local/bin/tool",
			ok:   false,
		},
		{
			name: "root",
			exe:  "/",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BundlePath(tt.exe)
			if ok != tt.ok {
				t.Fatalf("BundlePath(%q) ok = %v, want %v", tt.exe, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("BundlePath(%q) = %q, want %q", tt.exe, got, tt.want)
			}
		})
	}
}

func writeInfoPlist(t *testing.T, bundlePath, identifier string) {
	t.Helper()
	contents := filepath.Join(bundlePath, "Contents")
	if err := os.MkdirAll(contents, 0755); err != nil {
		t.Fatal(err)
	}
	plist := `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleIdentifier</key>
	<string>` + identifier + `</string>
</dict>
</plist>
`
	if err := os.WriteFile(filepath.Join(contents, "Info.plist"), []byte(plist), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestPlistResolver(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "Acme.app")
	writeInfoPlist(t, bundle, "com.acme.app")

	r := NewPlistResolver()

	id, ok := r.Identifier(bundle)
	if !ok || id != "com.acme.app" {
		t.Fatalf("Identifier = %q, %v; want com.acme.app, true", id, ok)
	}
}

func TestPlistResolver_MissingPlist(t *testing.T) {
	r := NewPlistResolver()

	if id, ok := r.Identifier(filepath.Join(t.TempDir(), "Ghost.app")); ok {
		t.Errorf("Identifier = %q, want ok=false for missing plist", id)
	}
}

func TestPlistResolver_CachesResult(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "Acme.app")
	writeInfoPlist(t, bundle, "com.acme.app")

	r := NewPlistResolver()
	if _, ok := r.Identifier(bundle); !ok {
		t.Fatal("first lookup failed")
	}

	// Remove the plist; the cached identifier must still resolve.
	if err := os.RemoveAll(bundle); err != nil {
		t.Fatal(err)
	}
	id, ok := r.Identifier(bundle)
	if !ok || id != "com.acme.app" {
		t.Errorf("cached Identifier = %q, %v; want com.acme.app, true", id, ok)
	}
}
