// Package autostart registers the monitor for automatic launch at user
// login. Registration is best-effort: failures are logged for diagnostics
// and never block startup or degrade sampling.
package autostart

import (
	"os"

	"go.uber.org/zap"
)

// Manager provides platform-specific login-item installation.
type Manager interface {
	IsInstalled() (bool, error)
	Install(execPath string) error
	Uninstall() error
	ServiceName() string
}

// Register installs the current executable as a login item if it is not
// already installed. Idempotent and best-effort.
func Register(logger *zap.Logger) {
	m := New()

	installed, err := m.IsInstalled()
	if err != nil {
		logger.Warn("login item check failed", zap.Error(err))
		return
	}
	if installed {
		return
	}

	execPath, err := os.Executable()
	if err != nil {
		logger.Warn("cannot determine executable path for login item", zap.Error(err))
		return
	}
	if err := m.Install(execPath); err != nil {
		logger.Warn("login item registration failed",
			zap.String("service", m.ServiceName()),
			zap.Error(err))
		return
	}
	logger.Info("registered login item", zap.String("service", m.ServiceName()))
}
