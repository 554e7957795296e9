package linecolor

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

//go:embed linecolors.yaml
var defaultTable []byte

// Kind is the coarse transport mode a category code belongs to
type Kind string

const (
	Tram  Kind = "tram"
	Train Kind = "train"
	Bus   Kind = "bus"
	Other Kind = "other"
)

// Color is a badge color pair in #RRGGBB form
type Color struct {
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
}

// Style renders text as a line badge
func (c Color) Style() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.Background)).
		Foreground(lipgloss.Color(c.Foreground)).
		Bold(true).
		Padding(0, 1)
}

type kindEntry struct {
	Categories []string `yaml:"categories"`
	Color      `yaml:",inline"`
}

type file struct {
	Kinds map[Kind]kindEntry        `yaml:"kinds"`
	Lines map[Kind]map[string]Color `yaml:"lines"`
}

// Table maps (category, line number) to a badge color
type Table struct {
	kinds      map[Kind]Color
	categories map[string]Kind
	lines      map[Kind]map[string]Color
}

// Default returns the built-in table. It panics only if the embedded file is broken.
func Default() *Table {
	t, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("embedded line colors: %v", err))
	}
	return t
}

// Parse reads a table from YAML
func Parse(data []byte) (*Table, error) {
	t := &Table{
		kinds:      make(map[Kind]Color),
		categories: make(map[string]Kind),
		lines:      make(map[Kind]map[string]Color),
	}
	if err := t.merge(data); err != nil {
		return nil, err
	}
	return t, nil
}

// Load returns the built-in table with the YAML file at path layered on top.
// An empty path returns the built-in table unchanged.
func Load(path string) (*Table, error) {
	t := Default()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read line colors %s: %w", path, err)
	}
	if err := t.merge(data); err != nil {
		return nil, fmt.Errorf("failed to parse line colors %s: %w", path, err)
	}
	return t, nil
}

func (t *Table) merge(data []byte) error {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}

	for kind, entry := range f.Kinds {
		if entry.Background != "" {
			t.kinds[kind] = entry.Color
		}
		for _, cat := range entry.Categories {
			t.categories[strings.ToUpper(strings.TrimSpace(cat))] = kind
		}
	}
	for kind, lines := range f.Lines {
		if t.lines[kind] == nil {
			t.lines[kind] = make(map[string]Color)
		}
		for number, c := range lines {
			t.lines[kind][strings.TrimSpace(number)] = c
		}
	}
	return nil
}

// Classify maps an API category code to its kind. Known codes are matched exactly;
// unknown ones fall back to looking for the mode's name inside the category.
func (t *Table) Classify(category string) Kind {
	code := strings.ToUpper(strings.TrimSpace(category))
	if kind, ok := t.categories[code]; ok {
		return kind
	}

	lower := strings.ToLower(code)
	switch {
	case strings.Contains(lower, "tram"):
		return Tram
	case strings.Contains(lower, "train"):
		return Train
	case strings.Contains(lower, "bus"):
		return Bus
	}
	return Other
}

// Lookup returns the badge color for a line. A line-specific entry wins over the kind's color.
func (t *Table) Lookup(category, number string) Color {
	kind := t.Classify(category)
	if c, ok := t.lines[kind][strings.TrimSpace(number)]; ok {
		return c
	}
	if c, ok := t.kinds[kind]; ok {
		return c
	}
	return t.kinds[Other]
}
