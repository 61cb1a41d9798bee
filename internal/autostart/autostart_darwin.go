//go:build darwin

package autostart

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const launchdLabel = "com.memtray.memtray"

// agentPlistTemplate runs the monitor at login in the user session. No
// KeepAlive: a menu-bar monitor the user quits should stay quit.
const agentPlistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>com.memtray.memtray</string>
    <key>ProgramArguments</key>
    <array>
        <string>{execPath}</string>
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>ProcessType</key>
    <string>Interactive</string>
</dict>
</plist>
`

type darwinManager struct {
	plistPath string
}

// New returns a Manager that installs a per-user LaunchAgent.
func New() Manager {
	home, _ := os.UserHomeDir()
	return &darwinManager{
		plistPath: filepath.Join(home, "Library", "LaunchAgents", launchdLabel+".plist"),
	}
}

func (d *darwinManager) ServiceName() string { return launchdLabel }

func (d *darwinManager) IsInstalled() (bool, error) {
	_, err := os.Stat(d.plistPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking plist file: %w", err)
	}
	return true, nil
}

func (d *darwinManager) Install(execPath string) error {
	if err := os.MkdirAll(filepath.Dir(d.plistPath), 0755); err != nil {
		return fmt.Errorf("creating LaunchAgents directory: %w", err)
	}
	plist := strings.ReplaceAll(agentPlistTemplate, "{execPath}", execPath)
	if err := os.WriteFile(d.plistPath, []byte(plist), 0644); err != nil {
		return fmt.Errorf("creating plist: %w", err)
	}
	if err := exec.Command("launchctl", "load", "-w", d.plistPath).Run(); err != nil {
		return fmt.Errorf("loading plist: %w", err)
	}
	return nil
}

func (d *darwinManager) Uninstall() error {
	_ = exec.Command("launchctl", "unload", d.plistPath).Run()
	if err := os.Remove(d.plistPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing plist: %w", err)
	}
	return nil
}
