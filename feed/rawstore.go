package feed

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/menusync/core"
)

// RawFile identifies one persisted raw payload: the weekly menu of a single
// (hall, meal) pair.
type RawFile struct {
	Path      string
	Hall      string
	Meal      string
	WeekStart string // ISO date
}

// RawStore persists raw feed payloads under a week-partitioned directory
// tree: <root>/<weekStart>/<hall>_<meal>_<weekStart>.json. Payloads are
// immutable once written; the next week's fetch supersedes them.
type RawStore struct {
	root string
}

// NewRawStore creates a raw payload store rooted at the given directory.
func NewRawStore(root string) (*RawStore, error) {
	if root == "" {
		return nil, ErrStoreRequired
	}
	return &RawStore{root: root}, nil
}

// Save writes a raw weekly payload for a (hall, meal) pair, creating the
// week directory as needed. It returns the written path.
func (s *RawStore) Save(hall, meal string, weekStart time.Time, body []byte) (string, error) {
	week := core.DateString(weekStart)
	dir := filepath.Join(s.root, week)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s_%s.json", hall, meal, week))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// List returns every raw payload whose filename encodes the given week
// start, searching the tree recursively. Files whose names do not follow
// the <hall>_<meal>_<weekStart>.json pattern are ignored.
func (s *RawStore) List(weekStart time.Time) ([]RawFile, error) {
	week := core.DateString(weekStart)
	suffix := "_" + week + ".json"

	var files []RawFile
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}

		stem := strings.TrimSuffix(d.Name(), ".json")
		parts := strings.Split(stem, "_")
		if len(parts) < 3 {
			return nil
		}

		files = append(files, RawFile{
			Path:      path,
			Hall:      parts[0],
			Meal:      parts[1],
			WeekStart: week,
		})
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return files, nil
}

// Read parses the raw payload behind a RawFile.
func (s *RawStore) Read(rf RawFile) (*WeekFeed, error) {
	body, err := os.ReadFile(rf.Path)
	if err != nil {
		return nil, err
	}

	var week WeekFeed
	if err := json.Unmarshal(body, &week); err != nil {
		return nil, fmt.Errorf("parsing raw payload %s: %w", rf.Path, err)
	}
	return &week, nil
}
