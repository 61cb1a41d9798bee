//go:build linux

package autostart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const desktopName = "memtray"

// desktopTemplate is the XDG autostart entry written during installation.
const desktopTemplate = `[Desktop Entry]
Type=Application
Name=Memtray
Comment=Per-application memory monitor
Exec={execPath}
X-GNOME-Autostart-enabled=true
`

type linuxManager struct {
	desktopPath string
}

// New returns a Manager that installs an XDG autostart entry for the
// current user.
func New() Manager {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return &linuxManager{
		desktopPath: filepath.Join(dir, "autostart", desktopName+".desktop"),
	}
}

func (l *linuxManager) ServiceName() string { return desktopName }

func (l *linuxManager) IsInstalled() (bool, error) {
	_, err := os.Stat(l.desktopPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking desktop entry: %w", err)
	}
	return true, nil
}

func (l *linuxManager) Install(execPath string) error {
	if err := os.MkdirAll(filepath.Dir(l.desktopPath), 0755); err != nil {
		return fmt.Errorf("creating autostart directory: %w", err)
	}
	entry := strings.ReplaceAll(desktopTemplate, "{execPath}", execPath)
	if err := os.WriteFile(l.desktopPath, []byte(entry), 0644); err != nil {
		return fmt.Errorf("creating desktop entry: %w", err)
	}
	return nil
}

func (l *linuxManager) Uninstall() error {
	if err := os.Remove(l.desktopPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing desktop entry: %w", err)
	}
	return nil
}
