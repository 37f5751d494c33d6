package registry

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"wct/internal/domain"
)

//go:embed fixtures.yaml
var defaultTable []byte

var (
	// ErrUnknownCategory is returned when a category name is not in the registry
	ErrUnknownCategory = errors.New("unknown category")
	// ErrDuplicateFixture is returned when a category lists the same fixture twice
	ErrDuplicateFixture = errors.New("duplicate fixture")
	// ErrInvalidTable is returned for any other malformed registry table
	ErrInvalidTable = errors.New("invalid registry table")
)

// Registry maps categories to their ordered fixture lists.
// It is read-only after Load and safe for concurrent use.
type Registry struct {
	categories []domain.Category
}

type table struct {
	Categories []categoryEntry `yaml:"categories"`
}

type categoryEntry struct {
	Name     string         `yaml:"name"`
	Title    string         `yaml:"title"`
	Root     string         `yaml:"root"`
	Expect   *int           `yaml:"expect"`
	Flags    []string       `yaml:"flags"`
	Runnable bool           `yaml:"runnable"`
	Fixtures []fixtureEntry `yaml:"fixtures"`
}

// fixtureEntry accepts either a bare path or {path, exit}
type fixtureEntry struct {
	Path string `yaml:"path"`
	Exit *int   `yaml:"exit"`
}

func (f *fixtureEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&f.Path)
	}
	type plain fixtureEntry
	return node.Decode((*plain)(f))
}

// Default returns the registry embedded in the binary
func Default() (*Registry, error) {
	return Load(bytes.NewReader(defaultTable))
}

// LoadFile reads a registry table from path
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer f.Close()

	reg, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Load parses and validates a registry table
func Load(r io.Reader) (*Registry, error) {
	var t table
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if len(t.Categories) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrInvalidTable)
	}

	reg := &Registry{}
	seenCategories := make(map[domain.CategoryName]bool)
	for _, entry := range t.Categories {
		name := domain.CategoryName(entry.Name)
		if !name.IsKnown() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, entry.Name)
		}
		if seenCategories[name] {
			return nil, fmt.Errorf("%w: category %q listed twice", ErrInvalidTable, name)
		}
		seenCategories[name] = true
		if entry.Expect == nil {
			return nil, fmt.Errorf("%w: category %q has no expected exit code", ErrInvalidTable, name)
		}

		cat := domain.Category{
			Name:             name,
			Title:            entry.Title,
			Root:             entry.Root,
			ExpectedExitCode: *entry.Expect,
			Flags:            entry.Flags,
			Runnable:         entry.Runnable,
			Fixtures:         make([]domain.Fixture, 0, len(entry.Fixtures)),
		}
		if cat.Title == "" {
			cat.Title = string(name)
		}

		seenFixtures := make(map[domain.FixtureID]bool, len(entry.Fixtures))
		for _, fe := range entry.Fixtures {
			id := domain.FixtureID(fe.Path)
			if id == "" {
				return nil, fmt.Errorf("%w: empty fixture in category %q", ErrInvalidTable, name)
			}
			if seenFixtures[id] {
				return nil, fmt.Errorf("%w: %q in category %q", ErrDuplicateFixture, id, name)
			}
			seenFixtures[id] = true
			cat.Fixtures = append(cat.Fixtures, domain.Fixture{ID: id, RunExitCode: fe.Exit})
		}
		reg.categories = append(reg.categories, cat)
	}
	return reg, nil
}

// Categories returns every category in table order
func (r *Registry) Categories() []domain.Category {
	out := make([]domain.Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Category returns the definition of name
func (r *Registry) Category(name domain.CategoryName) (domain.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return domain.Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// FixturesFor returns the ordered fixtures of a category
func (r *Registry) FixturesFor(name domain.CategoryName) ([]domain.Fixture, error) {
	c, err := r.Category(name)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Fixture, len(c.Fixtures))
	copy(out, c.Fixtures)
	return out, nil
}

// Select returns a registry restricted to names, keeping table order.
// An empty names list selects every category.
func (r *Registry) Select(names []domain.CategoryName) (*Registry, error) {
	if len(names) == 0 {
		return r, nil
	}
	want := make(map[domain.CategoryName]bool, len(names))
	for _, n := range names {
		if _, err := r.Category(n); err != nil {
			return nil, err
		}
		want[n] = true
	}
	sel := &Registry{}
	for _, c := range r.categories {
		if want[c.Name] {
			sel.categories = append(sel.categories, c)
		}
	}
	return sel, nil
}

// Narrow returns a registry whose categories keep only the fixtures keep accepts
func (r *Registry) Narrow(keep func(domain.Category, domain.Fixture) bool) *Registry {
	out := &Registry{categories: make([]domain.Category, 0, len(r.categories))}
	for _, c := range r.categories {
		narrowed := c
		narrowed.Fixtures = nil
		for _, f := range c.Fixtures {
			if keep(c, f) {
				narrowed.Fixtures = append(narrowed.Fixtures, f)
			}
		}
		out.categories = append(out.categories, narrowed)
	}
	return out
}

// Size returns the total number of fixtures across categories
func (r *Registry) Size() int {
	n := 0
	for _, c := range r.categories {
		n += len(c.Fixtures)
	}
	return n
}
