// Package exec runs external programs with a timeout, e.g. the desktop
// viewer for a freshly rendered chart.
package exec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

var ErrNoViewer = errors.New("no viewer found")

// Run executes name with args and returns the combined output.
func Run(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("%s is not installed or not in PATH: %w", name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return output, fmt.Errorf("%s timed out after %v", name, timeout)
	}
	return output, err
}

// viewer returns the command that opens a file with the default
// application.
func viewer() (string, []string, error) {
	switch runtime.GOOS {
	case "darwin":
		return "open", nil, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}, nil
	}
	for _, name := range []string{"xdg-open", "gio"} {
		if _, err := exec.LookPath(name); err == nil {
			if name == "gio" {
				return name, []string{"open"}, nil
			}
			return name, nil, nil
		}
	}
	return "", nil, ErrNoViewer
}

// Open shows path in the default viewer.
func Open(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("cannot open %s: %w", absPath, err)
	}

	name, args, err := viewer()
	if err != nil {
		return err
	}
	if out, err := Run(ctx, 10*time.Second, name, append(args, absPath)...); err != nil {
		return fmt.Errorf("failed to open %s: %w (%s)", absPath, err, out)
	}
	return nil
}
