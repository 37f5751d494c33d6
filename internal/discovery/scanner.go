package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wct/internal/domain"
)

// FixtureExt is the extension of source program fixtures
const FixtureExt = ".wacc"

// Scanner scans category roots for fixture files
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Scan finds all fixture files under root and returns their ids relative to root, in lexical order
func (s *Scanner) Scan(root string) ([]domain.FixtureID, error) {
	var fixtures []domain.FixtureID

	// Clean and validate the root path
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("fixture root does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fixture root is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories (starting with .)
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}

			if s.skipDirs[name] {
				return filepath.SkipDir
			}

			return nil
		}

		if !strings.HasSuffix(d.Name(), FixtureExt) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		fixtures = append(fixtures, domain.FixtureID(filepath.ToSlash(rel)))
		return nil
	})

	return fixtures, err
}

// Unregistered returns fixture files present under the category root but missing from its list
func (s *Scanner) Unregistered(projectPath string, cat domain.Category) ([]domain.FixtureID, error) {
	found, err := s.Scan(filepath.Join(projectPath, cat.Root))
	if err != nil {
		return nil, err
	}

	registered := make(map[domain.FixtureID]bool, len(cat.Fixtures))
	for _, f := range cat.Fixtures {
		registered[f.ID] = true
	}

	var extra []domain.FixtureID
	for _, id := range found {
		if !registered[id] {
			extra = append(extra, id)
		}
	}
	return extra, nil
}

// Missing returns registered fixtures whose file does not exist on disk
func (s *Scanner) Missing(projectPath string, cat domain.Category) []domain.FixtureID {
	var missing []domain.FixtureID
	for _, f := range cat.Fixtures {
		if _, err := os.Stat(cat.FixturePath(projectPath, f.ID)); err != nil {
			missing = append(missing, f.ID)
		}
	}
	return missing
}
