package canonical

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store is the canonical document file store: a directory tree of JSON-LD
// files whose names derive from each document's key. Writes are idempotent
// overwrites; listing and deletion search the tree recursively so documents
// may be organized in subfolders.
type Store struct {
	root string
}

// NewStore creates a document store rooted at the given directory.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, ErrRootRequired
	}
	return &Store{root: root}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// Write serializes a menu document to its deterministic path, creating the
// root as needed. Writing the same document twice produces identical bytes.
func (s *Store) Write(menu *Menu) (string, error) {
	if err := menu.Key.Validate(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(menu, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.root, menu.Key.Filename())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// List returns the paths of every document dated with the given ISO date,
// searching subfolders recursively, in sorted order.
func (s *Store) List(date string) ([]string, error) {
	suffix := "_" + date + ".jsonld"

	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), suffix) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
