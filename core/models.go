package core

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for vector points and other derived entities.
// It is generated deterministically from content so identical inputs always
// produce identical IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// MenuKey is the structured identity of one canonical menu document:
// one hall, one meal, one named section, one calendar date.
// The key is the source of truth; storage filenames are derived from it,
// never the other way around.
type MenuKey struct {
	Hall    string
	Meal    string
	Section string
	Date    string // ISO date, YYYY-MM-DD
}

// Filename returns the deterministic storage filename for this key.
// Format: <hall>_<meal>_<section-lowercased-underscored>_<date>.jsonld
func (k MenuKey) Filename() string {
	section := strings.ToLower(strings.ReplaceAll(k.Section, " ", "_"))
	return fmt.Sprintf("%s_%s_%s_%s.jsonld", k.Hall, k.Meal, section, k.Date)
}

// DocID returns the stable document identifier for this key, used to detect
// whether the document has already been embedded for a given date.
// It equals the filename stem.
func (k MenuKey) DocID() string {
	return strings.TrimSuffix(k.Filename(), ".jsonld")
}

// SiteTag returns the date-scoped partition tag grouping the vector points
// that belong to one day's data.
func SiteTag(date string) string {
	return "menus_" + date
}

// RunStatus classifies the outcome of one load run.
type RunStatus string

const (
	// StatusSuccess indicates every file loaded.
	StatusSuccess RunStatus = "success"
	// StatusPartial indicates some files loaded and some failed.
	StatusPartial RunStatus = "partial"
	// StatusFailed indicates no file loaded.
	StatusFailed RunStatus = "failed"
)

// LoadState is the resumable progress record for one day's load run.
// It is persisted after every file boundary so an interrupted or crashed run
// can resume without re-processing successes.
type LoadState struct {
	RunID     string
	Date      string // ISO date this state describes
	SiteTag   string
	Loaded    []string // filenames successfully loaded
	Failed    []string // filenames that exhausted their retries
	Total     int      // total expected file count
	UpdatedAt time.Time
}

// IsLoaded reports whether the named file is already recorded as successful.
func (s *LoadState) IsLoaded(name string) bool {
	for _, f := range s.Loaded {
		if f == name {
			return true
		}
	}
	return false
}

// MarkLoaded records a successful file, ignoring duplicates.
func (s *LoadState) MarkLoaded(name string) {
	if !s.IsLoaded(name) {
		s.Loaded = append(s.Loaded, name)
	}
}

// MarkFailed records a terminally failed file, ignoring duplicates.
func (s *LoadState) MarkFailed(name string) {
	for _, f := range s.Failed {
		if f == name {
			return
		}
	}
	s.Failed = append(s.Failed, name)
}

// Status classifies the run described by this state.
func (s *LoadState) Status() RunStatus {
	switch {
	case len(s.Failed) == 0:
		return StatusSuccess
	case len(s.Loaded) > 0:
		return StatusPartial
	default:
		return StatusFailed
	}
}
