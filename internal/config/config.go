package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Database  DatabaseConfig   `toml:"database"`
	Logging   LoggingConfig    `toml:"logging"`
	Board     BoardConfig      `toml:"board"`
	Columns   []ColumnConfig   `toml:"columns"`
	Swimlanes []SwimlaneConfig `toml:"swimlanes"`
	Server    ServerConfig     `toml:"server"`
	Keys      KeyConfig        `toml:"keys"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type BoardConfig struct {
	EnableDragDrop       bool `toml:"enable_drag_drop"`
	EnableColumnDrag     bool `toml:"enable_column_drag"`
	EnableCardReordering bool `toml:"enable_card_reordering"`
	EnableSwimlanes      bool `toml:"enable_swimlanes"`
	ShowWIPWarnings      bool `toml:"show_wip_warnings"`
}

// ColumnConfig seeds one board column on first run.
type ColumnConfig struct {
	ID           string `toml:"id"`
	Name         string `toml:"name"`
	WIPLimit     int    `toml:"wip_limit"`
	Position     int    `toml:"position"`
	AcceptsCards bool   `toml:"accepts_cards"`
}

// SwimlaneConfig seeds one explicit swimlane on first run.
type SwimlaneConfig struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	Position int    `toml:"position"`
}

type ServerConfig struct {
	Bind        string `toml:"bind"`
	APIEndpoint string `toml:"api_endpoint"`
	MCPEndpoint string `toml:"mcp_endpoint"`
}

type KeyConfig struct {
	Grab   string `toml:"grab"`
	Drop   string `toml:"drop"`
	Cancel string `toml:"cancel"`
}

func defaultColumns() []ColumnConfig {
	return []ColumnConfig{
		{ID: "todo", Name: "To Do", WIPLimit: 0, Position: 0, AcceptsCards: true},
		{ID: "progress", Name: "In Progress", WIPLimit: 3, Position: 1, AcceptsCards: true},
		{ID: "done", Name: "Done", WIPLimit: 0, Position: 2, AcceptsCards: true},
	}
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Board: BoardConfig{
			EnableDragDrop:       true,
			EnableColumnDrag:     true,
			EnableCardReordering: true,
			EnableSwimlanes:      true,
			ShowWIPWarnings:      true,
		},
		Columns: defaultColumns(),
		Server: ServerConfig{
			Bind:        "127.0.0.1:8080",
			APIEndpoint: "/api/v1",
			MCPEndpoint: "/mcp",
		},
		Keys: KeyConfig{
			Grab:   " ",
			Drop:   "enter",
			Cancel: "esc",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	c.Database.Path = strings.TrimSpace(c.Database.Path)
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	if len(c.Columns) == 0 {
		return errors.New("columns must include at least one column")
	}
	seenColumnID := map[string]struct{}{}
	for idx := range c.Columns {
		column := c.Columns[idx]
		column.ID = strings.TrimSpace(strings.ToLower(column.ID))
		column.Name = strings.TrimSpace(column.Name)
		if column.ID == "" {
			return fmt.Errorf("columns[%d].id is required", idx)
		}
		if column.Name == "" {
			return fmt.Errorf("columns[%d].name is required", idx)
		}
		if column.WIPLimit < 0 {
			return fmt.Errorf("columns[%d].wip_limit must be >= 0", idx)
		}
		if column.Position < 0 {
			return fmt.Errorf("columns[%d].position must be >= 0", idx)
		}
		if _, ok := seenColumnID[column.ID]; ok {
			return fmt.Errorf("columns[%d].id is duplicated: %s", idx, column.ID)
		}
		seenColumnID[column.ID] = struct{}{}
		c.Columns[idx] = column
	}

	seenLaneID := map[string]struct{}{}
	for idx := range c.Swimlanes {
		lane := c.Swimlanes[idx]
		lane.ID = strings.TrimSpace(strings.ToLower(lane.ID))
		if lane.ID == "" {
			return fmt.Errorf("swimlanes[%d].id is required", idx)
		}
		if lane.Position < 0 {
			return fmt.Errorf("swimlanes[%d].position must be >= 0", idx)
		}
		if _, ok := seenLaneID[lane.ID]; ok {
			return fmt.Errorf("swimlanes[%d].id is duplicated: %s", idx, lane.ID)
		}
		seenLaneID[lane.ID] = struct{}{}
		c.Swimlanes[idx] = lane
	}

	if strings.TrimSpace(c.Server.Bind) == "" {
		return errors.New("server.bind is required")
	}

	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
