package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileError records a scenario file that failed to load.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Loader handles loading scenarios from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new scenario loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// Scan recursively loads every scenario file under Root. Files that fail to
// parse are returned as failures instead of aborting the walk.
// Scenarios are sorted by ID for deterministic ordering.
func (l *Loader) Scan() ([]Scenario, []FileError, error) {
	var (
		scenarios []Scenario
		failures  []FileError
	)

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isSupportedExtension(strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		sc, err := l.LoadFile(path)
		if err != nil {
			failures = append(failures, FileError{Path: path, Err: err})
			return nil
		}

		scenarios = append(scenarios, sc)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].ID < scenarios[j].ID
	})
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].Path < failures[j].Path
	})

	return scenarios, failures, nil
}

// LoadAll loads all valid scenario files, skipping invalid ones.
func (l *Loader) LoadAll() ([]Scenario, error) {
	scenarios, _, err := l.Scan()
	return scenarios, err
}

// LoadFile loads a single scenario file. A scenario without an id takes the
// file name without its extension.
func (l *Loader) LoadFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("reading file %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	sc, err := parseByExtension(data, ext)
	if err != nil {
		return Scenario{}, fmt.Errorf("parsing file %s: %w", path, err)
	}

	if sc.ID == "" {
		sc.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	sc.FilePath = path
	return sc, nil
}

// LoadByID loads a specific scenario by ID.
func (l *Loader) LoadByID(id string) (Scenario, error) {
	scenarios, err := l.LoadAll()
	if err != nil {
		return Scenario{}, err
	}

	for _, sc := range scenarios {
		if sc.ID == id {
			return sc, nil
		}
	}

	return Scenario{}, fmt.Errorf("scenario not found: %s", id)
}

// ListIDs returns all scenario IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	scenarios, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(scenarios))
	for i, sc := range scenarios {
		ids[i] = sc.ID
	}
	return ids, nil
}

// FormatExtensions returns the file extensions the loader picks up.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}

func isSupportedExtension(ext string) bool {
	for _, supported := range FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

func parseByExtension(data []byte, ext string) (Scenario, error) {
	switch ext {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Scenario{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
