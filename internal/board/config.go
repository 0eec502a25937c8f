package board

import (
	"os"
	"path/filepath"

	"github.com/steveyegge/mdboard/internal/frontmatter"
)

// ConfigFileName is the board configuration file inside the board root.
const ConfigFileName = "config.yaml"

// Column describes one board column: the on-disk directory name, its display
// label, and its display color.
type Column struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Settings holds board-wide options from the settings section of config.yaml.
type Settings struct {
	AutoIncrementID bool   `json:"auto_increment_id"`
	DefaultColumn   string `json:"default_column"`
}

// Config is the parsed board configuration. Columns are in authoritative
// display and workflow order. Raw keeps the full parsed mapping so extra keys
// (like scopes) survive to the config API response.
type Config struct {
	Columns  []Column
	Settings Settings
	Raw      *frontmatter.Mapping
}

// DefaultConfig returns the built-in five-column board used when config.yaml
// is absent.
func DefaultConfig() *Config {
	cfg := &Config{
		Columns: []Column{
			{Name: "backlog", Label: "Backlog", Color: "#6b7280"},
			{Name: "todo", Label: "To Do", Color: "#3b82f6"},
			{Name: "in-progress", Label: "In Progress", Color: "#f59e0b"},
			{Name: "review", Label: "Review", Color: "#8b5cf6"},
			{Name: "done", Label: "Done", Color: "#10b981"},
		},
		Settings: Settings{AutoIncrementID: true, DefaultColumn: "backlog"},
	}
	cfg.Raw = cfg.toMapping()
	return cfg
}

// LoadConfig reads and parses config.yaml from root, falling back to the
// built-in default when the file does not exist. Parse problems never fail:
// unrecognized shapes simply leave fields at their zero values.
func LoadConfig(root string) *Config {
	data, err := os.ReadFile(filepath.Join(root, ConfigFileName))
	if err != nil {
		return DefaultConfig()
	}
	return parseConfig(string(data))
}

func parseConfig(text string) *Config {
	m := frontmatter.ParseMapping(text)
	cfg := &Config{Raw: m}

	if cols, ok := m.Get("columns"); ok && cols.Kind == frontmatter.KindList {
		for _, item := range cols.Items {
			if item.Kind != frontmatter.KindMapping {
				continue
			}
			name := item.Mapping.GetString("name")
			if name == "" {
				continue
			}
			cfg.Columns = append(cfg.Columns, Column{
				Name:  name,
				Label: item.Mapping.GetString("label"),
				Color: item.Mapping.GetString("color"),
			})
		}
	}

	if settings, ok := m.Get("settings"); ok && settings.Kind == frontmatter.KindMapping {
		cfg.Settings.AutoIncrementID = settings.Mapping.GetBool("auto_increment_id", true)
		cfg.Settings.DefaultColumn = settings.Mapping.GetString("default_column")
	}

	return cfg
}

// ColumnNames returns the directory names of all configured columns in order.
func (c *Config) ColumnNames() []string {
	names := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		names[i] = col.Name
	}
	return names
}

// HasColumn reports whether name is a configured column.
func (c *Config) HasColumn(name string) bool {
	for _, col := range c.Columns {
		if col.Name == name {
			return true
		}
	}
	return false
}

// toMapping renders the config as the dialect mapping served by the config
// API, mirroring what parsing config.yaml would produce.
func (c *Config) toMapping() *frontmatter.Mapping {
	m := frontmatter.NewMapping()
	items := make([]frontmatter.Value, 0, len(c.Columns))
	for _, col := range c.Columns {
		cm := frontmatter.NewMapping()
		cm.Set("name", frontmatter.String(col.Name))
		cm.Set("label", frontmatter.String(col.Label))
		cm.Set("color", frontmatter.String(col.Color))
		items = append(items, frontmatter.Map(cm))
	}
	m.Set("columns", frontmatter.ListOf(items...))

	settings := frontmatter.NewMapping()
	settings.Set("auto_increment_id", frontmatter.Bool(c.Settings.AutoIncrementID))
	settings.Set("default_column", frontmatter.String(c.Settings.DefaultColumn))
	m.Set("settings", frontmatter.Map(settings))
	return m
}
