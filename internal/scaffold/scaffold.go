// Package scaffold initializes the .mdboard/ data directory in a project:
// column directories, resource directories, the default tasks/config.yaml,
// and the agent skill file. It also migrates the legacy top-level layout
// (tasks/, prompts/, documents/ at the project root) into .mdboard/.
package scaffold

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/steveyegge/mdboard/internal/board"
)

// DataDirName is the directory under the project root holding all board data.
const DataDirName = ".mdboard"

//go:embed skill.md
var skillFile []byte

// Result summarizes what an init run did.
type Result struct {
	Created  []string
	Skipped  []string
	Migrated []string
}

// yamlConfig mirrors the board config shape for YAML emission. Parsing stays
// with the frontmatter dialect; this is write-only.
type yamlConfig struct {
	Columns  []yamlColumn `yaml:"columns"`
	Settings yamlSettings `yaml:"settings"`
	Scopes   []string     `yaml:"scopes,flow"`
}

type yamlColumn struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	Color string `yaml:"color"`
}

type yamlSettings struct {
	AutoIncrementID bool   `yaml:"auto_increment_id"`
	DefaultColumn   string `yaml:"default_column"`
}

// Run scaffolds .mdboard/ under root. It is idempotent: existing pieces are
// reported as skipped, never overwritten. The skill file is the one
// exception: it is rewritten whenever its content is out of date.
func Run(root string) (*Result, error) {
	res := &Result{}

	if err := migrateLegacyDirs(root, res); err != nil {
		return nil, err
	}

	tasksDir := filepath.Join(root, DataDirName, "tasks")
	for _, col := range board.DefaultConfig().ColumnNames() {
		if err := ensureDir(filepath.Join(tasksDir, col), DataDirName+"/tasks/"+col+"/", res); err != nil {
			return nil, err
		}
	}
	for _, kind := range []string{"prompts", "documents"} {
		if err := ensureDir(filepath.Join(root, DataDirName, kind), DataDirName+"/"+kind+"/", res); err != nil {
			return nil, err
		}
	}

	if err := writeDefaultConfig(tasksDir, res); err != nil {
		return nil, err
	}
	if err := writeSkillFile(root, res); err != nil {
		return nil, err
	}
	return res, nil
}

// migrateLegacyDirs moves top-level tasks/, prompts/, documents/ into
// .mdboard/. A name present in both places is left alone and reported as
// skipped rather than merged.
func migrateLegacyDirs(root string, res *Result) error {
	dataDir := filepath.Join(root, DataDirName)
	for _, name := range []string{"tasks", "prompts", "documents"} {
		legacy := filepath.Join(root, name)
		info, err := os.Stat(legacy)
		if err != nil || !info.IsDir() {
			continue
		}
		target := filepath.Join(dataDir, name)
		if _, err := os.Stat(target); err == nil {
			res.Skipped = append(res.Skipped, name+"/ (both "+name+"/ and "+DataDirName+"/"+name+"/ exist)")
			continue
		}
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dataDir, err)
		}
		if err := os.Rename(legacy, target); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", legacy, err)
		}
		res.Migrated = append(res.Migrated, name)
	}
	return nil
}

func ensureDir(path, label string, res *Result) error {
	if _, err := os.Stat(path); err == nil {
		res.Skipped = append(res.Skipped, label)
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	res.Created = append(res.Created, label)
	return nil
}

func writeDefaultConfig(tasksDir string, res *Result) error {
	label := DataDirName + "/tasks/" + board.ConfigFileName
	path := filepath.Join(tasksDir, board.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		res.Skipped = append(res.Skipped, label)
		return nil
	}

	cfg := board.DefaultConfig()
	doc := yamlConfig{
		Settings: yamlSettings{
			AutoIncrementID: cfg.Settings.AutoIncrementID,
			DefaultColumn:   cfg.Settings.DefaultColumn,
		},
		Scopes: []string{"global"},
	}
	for _, col := range cfg.Columns {
		doc.Columns = append(doc.Columns, yamlColumn{Name: col.Name, Label: col.Label, Color: col.Color})
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to render default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	res.Created = append(res.Created, label)
	return nil
}

// writeSkillFile installs .claude/skills/mdboard/SKILL.md, updating it in
// place when an older version is present.
func writeSkillFile(root string, res *Result) error {
	label := ".claude/skills/mdboard/SKILL.md"
	path := filepath.Join(root, ".claude", "skills", "mdboard", "SKILL.md")

	existing, err := os.ReadFile(path)
	if err == nil && string(existing) == string(skillFile) {
		res.Skipped = append(res.Skipped, label)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := os.WriteFile(path, skillFile, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if len(existing) > 0 {
		label = "~ " + label
	}
	res.Created = append(res.Created, label)
	return nil
}
