package fs

import (
	"context"
	"fmt"
	"os"
	"time"
)

// WaitForFile blocks until path exists and is non-empty, polling with a
// doubling delay capped at 500ms. It gives up after maxWait or when ctx ends.
func WaitForFile(ctx context.Context, path string, maxWait time.Duration) error {
	deadline := time.Now().Add(maxWait)
	delay := 50 * time.Millisecond

	for {
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("timeout waiting for file %s after %v", path, maxWait)
		}

		t := time.NewTimer(min(delay, time.Until(deadline)))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay = min(delay*2, 500*time.Millisecond)
	}
}
