package canonical

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/menusync/core"
)

// Sweeper deletes canonical documents belonging to the completed prior
// week. It runs on a weekly cadence, independently of the daily sync, and
// bounds storage growth.
type Sweeper struct {
	store  *Store
	logger *slog.Logger
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithSweeperLogger sets a custom logger. Default is slog.Default().
func WithSweeperLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSweeper creates a sweeper over the given document store.
func NewSweeper(store *Store, opts ...SweeperOption) (*Sweeper, error) {
	if store == nil {
		return nil, ErrDocStoreRequired
	}

	s := &Sweeper{
		store:  store,
		logger: slog.Default().With("component", "sweeper"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SweepPreviousWeek deletes every document dated inside the most recently
// completed Sunday-through-Saturday window strictly before the week
// containing now, across arbitrarily nested subfolders. Per-file delete
// failures are logged and do not stop the sweep. Returns the deleted count.
func (s *Sweeper) SweepPreviousWeek(now time.Time) (int, error) {
	week := core.PreviousWeek(now)

	suffixes := make([]string, len(week))
	for i, day := range week {
		suffixes[i] = "_" + core.DateString(day) + ".jsonld"
	}

	deleted := 0
	err := filepath.WalkDir(s.store.Root(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, suffix := range suffixes {
			if strings.HasSuffix(d.Name(), suffix) {
				if err := os.Remove(path); err != nil {
					s.logger.Error("error deleting document", "path", path, "err", err)
				} else {
					deleted++
					s.logger.Debug("deleted document", "path", path)
				}
				break
			}
		}
		return nil
	})
	if err != nil {
		return deleted, err
	}

	s.logger.Info("sweep complete",
		"from", core.DateString(week[0]), "to", core.DateString(week[6]), "deleted", deleted)
	return deleted, nil
}
