package headers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockFile guards header installation for one workspace. It lives in the
// workspace state directory, never in the header manager's source tree.
const LockFile = ".headers.lock"

// lockRetry is how often a waiting install polls for the lock.
const lockRetry = 200 * time.Millisecond

// acquireLock takes the exclusive header lock in dir, waiting until another
// yarn run in the same workspace releases it or ctx is done. dir is created
// when missing.
func acquireLock(ctx context.Context, dir string) (release func(), err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	path := filepath.Join(dir, LockFile)
	fl := flock.New(path)

	locked, err := fl.TryLockContext(ctx, lockRetry)
	if err != nil {
		return nil, fmt.Errorf("wait for %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("wait for %s: lock not acquired", path)
	}

	slog.Debug("header lock acquired", slog.String("path", path))
	return func() {
		if err := fl.Unlock(); err != nil {
			slog.Warn("failed to release header lock",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}, nil
}
