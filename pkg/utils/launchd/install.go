package launchd

import (
	_ "embed"
	"fmt"
	"html"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// Label is the launchd job label.
	Label = "io.batterybar.agent"

	exePlaceholder = "/path/to/batterybar"
)

//go:embed io.batterybar.agent.plist
var plistTemplate string

// launchctl runs /bin/launchctl. Replaced in tests.
var launchctl = func(args ...string) error {
	out, err := exec.Command("/bin/launchctl", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("launchctl %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// AgentsDir is the per-user LaunchAgents directory.
func AgentsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, "Library", "LaunchAgents"), nil
}

// RenderPlist returns the agent plist that starts exePath in daemon mode.
func RenderPlist(exePath string) string {
	return strings.ReplaceAll(plistTemplate, exePlaceholder, html.EscapeString(exePath))
}

// Install writes the LaunchAgent for the current executable and loads it,
// so batterybar starts at login.
func Install() error {
	// Get the path to the current executable
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get the path to the current executable: %w", err)
	}
	exePath, err = filepath.Abs(exePath)
	if err != nil {
		return fmt.Errorf("failed to get the absolute path to the current executable: %w", err)
	}

	dir, err := AgentsDir()
	if err != nil {
		return err
	}

	return install(dir, exePath)
}

func install(dir, exePath string) error {
	logrus.Infof("current executable path: %s", exePath)

	// mkdir -p
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	plistPath := filepath.Join(dir, Label+".plist")

	// warn if the file already exists
	_, err = os.Stat(plistPath)
	if err == nil {
		logrus.Errorf("%s already exists", plistPath)
		return fmt.Errorf("%s already exists. Did you forget to uninstall batterybar before installing it again? Please run 'batterybar uninstall' first", plistPath)
	}

	logrus.Infof("writing launch agent to %s", plistPath)

	err = os.WriteFile(plistPath, []byte(RenderPlist(exePath)), 0644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", plistPath, err)
	}

	logrus.Infof("starting batterybar")

	err = launchctl("load", "-w", plistPath)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", plistPath, err)
	}

	return nil
}

// Uninstall unloads and removes the LaunchAgent.
func Uninstall() error {
	dir, err := AgentsDir()
	if err != nil {
		return err
	}
	return uninstall(dir)
}

func uninstall(dir string) error {
	plistPath := filepath.Join(dir, Label+".plist")

	// if the file doesn't exist, there is nothing to unload
	_, err := os.Stat(plistPath)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Infof("%s does not exist, nothing to uninstall", plistPath)
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", plistPath, err)
	}

	logrus.Infof("stopping batterybar")

	err = launchctl("unload", plistPath)
	if err != nil {
		// The agent may already be stopped. Removing the file is what matters.
		logrus.WithError(err).Warn("failed to unload launch agent")
	}

	logrus.Infof("removing launch agent")

	err = os.Remove(plistPath)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", plistPath, err)
	}

	return nil
}
