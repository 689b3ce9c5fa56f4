package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	charmLog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/hylla/flytta/internal/adapters/server"
	"github.com/hylla/flytta/internal/adapters/server/common"
	"github.com/hylla/flytta/internal/adapters/storage/sqlite"
	"github.com/hylla/flytta/internal/app"
	"github.com/hylla/flytta/internal/board"
	"github.com/hylla/flytta/internal/config"
	"github.com/hylla/flytta/internal/domain"
	"github.com/hylla/flytta/internal/platform"
	"github.com/hylla/flytta/internal/tui"
)

var version = "dev"

// program abstracts the interactive program loop so tests can script it.
type program interface {
	Run() (tea.Model, error)
}

var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	fs := flag.NewFlagSet("flytta", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		configPath string
		dbPath     string
		appName    string
		devMode    bool
		showVer    bool
	)
	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("FLYTTA_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("FLYTTA_APP_NAME")); envApp != "" {
		appName = envApp
	} else {
		appName = "flytta"
	}
	fs.StringVar(&configPath, "config", "", "path to config TOML")
	fs.StringVar(&dbPath, "db", "", "path to sqlite database")
	fs.StringVar(&appName, "app", appName, "application name for config/data path resolution")
	fs.BoolVar(&devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")
	fs.BoolVar(&showVer, "version", false, "show version")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showVer {
		_, _ = fmt.Fprintf(stdout, "flytta %s\n", version)
		return nil
	}

	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: appName,
		DevMode: devMode,
	})
	if err != nil {
		return err
	}

	command := firstArg(fs.Args())
	switch command {
	case "paths":
		_, _ = fmt.Fprintf(stdout, "app: %s\n", appName)
		_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", devMode)
		_, _ = fmt.Fprintf(stdout, "config: %s\n", paths.ConfigPath)
		_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", paths.DataDir)
		_, _ = fmt.Fprintf(stdout, "db: %s\n", paths.DBPath)
		return nil
	case "", "serve", "export", "import":
		// Continue.
	default:
		return fmt.Errorf("unknown command: %s", command)
	}

	dbOverridden := strings.TrimSpace(dbPath) != ""
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("FLYTTA_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	if !dbOverridden {
		if envPath := strings.TrimSpace(os.Getenv("FLYTTA_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		} else {
			dbPath = paths.DBPath
		}
	}

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}

	logSink := stderr
	if command == "" {
		// Keep the board rendering clean while the program is interactive.
		logSink = io.Discard
	}
	logger, err := newLogger(logSink, appName, cfg.Logging)
	if err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	logger.Info("startup configuration resolved", "app", appName, "dev_mode", devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", cfg.Database.Path)

	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		return fmt.Errorf("open sqlite repository: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			logger.Warn("sqlite close failed", "db_path", cfg.Database.Path, "err", closeErr)
		}
	}()
	logger.Info("sqlite repository ready", "db_path", cfg.Database.Path)

	if err := seedBoardIfEmpty(ctx, repo, cfg, logger, time.Now); err != nil {
		return fmt.Errorf("seed board: %w", err)
	}

	snap, err := repo.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load board snapshot: %w", err)
	}
	store := board.NewStore(snap)

	notifier := board.NewNotifier()
	notifier.OnBoardChange(func(e domain.BoardChangeEvent) {
		replacement := board.Snapshot{Columns: e.Columns, Cards: e.Cards, Swimlanes: e.Swimlanes}
		if err := repo.SaveSnapshot(ctx, replacement); err != nil {
			logger.Error("persist board change failed", "err", err)
		}
	})
	notifier.OnMove(func(e domain.MoveEvent) {
		logger.Info("move committed", "kind", e.Kind, "subject", e.SubjectID, "from", e.From, "from_index", e.FromIndex, "to", e.To, "to_index", e.ToIndex)
	})

	gates := board.Options{
		EnableDragDrop:       cfg.Board.EnableDragDrop,
		EnableColumnDrag:     cfg.Board.EnableColumnDrag,
		EnableCardReordering: cfg.Board.EnableCardReordering,
		EnableSwimlanes:      cfg.Board.EnableSwimlanes,
	}
	controller := board.NewController(store, notifier, time.Now, logger, gates)
	svc := app.NewService(store, repo, notifier, time.Now, logger)

	switch command {
	case "serve":
		logger.Info("command flow start", "command", "serve", "bind", cfg.Server.Bind)
		err := server.Run(ctx, server.Config{
			HTTPBind:      cfg.Server.Bind,
			APIEndpoint:   cfg.Server.APIEndpoint,
			MCPEndpoint:   cfg.Server.MCPEndpoint,
			ServerName:    appName,
			ServerVersion: version,
		}, server.Dependencies{Board: common.NewAppServiceAdapter(svc)})
		if err != nil {
			logger.Error("command flow failed", "command", "serve", "err", err)
			return fmt.Errorf("run server: %w", err)
		}
		logger.Info("command flow complete", "command", "serve")
		return nil
	case "export":
		if err := runExport(ctx, svc, fs.Args()[1:], stdout); err != nil {
			return fmt.Errorf("run export command: %w", err)
		}
		return nil
	case "import":
		if err := runImport(ctx, repo, fs.Args()[1:], time.Now); err != nil {
			return fmt.Errorf("run import command: %w", err)
		}
		return nil
	}

	m := tui.NewModel(
		store,
		controller,
		tui.WithGates(gates),
		tui.WithShowWIPWarnings(cfg.Board.ShowWIPWarnings),
		tui.WithKeyOverrides(cfg.Keys.Grab, cfg.Keys.Drop, cfg.Keys.Cancel),
	)
	logger.Info("starting board program loop")
	if _, err := programFactory(m).Run(); err != nil {
		return fmt.Errorf("run board program: %w", err)
	}
	return nil
}

// seedBoardIfEmpty installs the configured columns and lanes on first run,
// plus one welcome card so the board is not blank.
func seedBoardIfEmpty(ctx context.Context, repo *sqlite.Repository, cfg config.Config, logger *charmLog.Logger, now func() time.Time) error {
	empty, err := repo.Empty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	seedTime := now()
	snap := board.Snapshot{}
	for _, c := range cfg.Columns {
		column, err := domain.NewColumn(c.ID, c.Name, c.Position, c.WIPLimit, seedTime)
		if err != nil {
			return fmt.Errorf("seed column %q: %w", c.ID, err)
		}
		if !c.AcceptsCards {
			column.SetAcceptsCards(false, seedTime)
		}
		snap.Columns = append(snap.Columns, column)
	}
	for _, l := range cfg.Swimlanes {
		lane, err := domain.NewSwimlane(l.ID, l.Name, l.Position, seedTime)
		if err != nil {
			return fmt.Errorf("seed swimlane %q: %w", l.ID, err)
		}
		snap.Swimlanes = append(snap.Swimlanes, lane)
	}
	if len(snap.Columns) > 0 {
		welcome, err := domain.NewCard(domain.CardInput{
			ID:          uuid.NewString(),
			ColumnID:    snap.Columns[0].ID,
			Order:       0,
			Title:       "Welcome to flytta",
			Description: "Grab this card with **space**, steer with `h`/`j`/`k`/`l`, drop with **enter**.",
			Labels:      []string{"getting-started"},
		}, seedTime)
		if err != nil {
			return fmt.Errorf("seed welcome card: %w", err)
		}
		snap.Cards = append(snap.Cards, welcome)
	}

	if err := repo.SaveSnapshot(ctx, snap.Normalized()); err != nil {
		return err
	}
	logger.Info("seeded initial board", "columns", len(snap.Columns), "swimlanes", len(snap.Swimlanes))
	return nil
}

// boardExport is the JSON document written by export and read by import.
type boardExport struct {
	Columns   []exportColumn   `json:"columns"`
	Swimlanes []exportSwimlane `json:"swimlanes,omitempty"`
	Cards     []exportCard     `json:"cards"`
}

type exportColumn struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Position     int    `json:"position"`
	WIPLimit     int    `json:"wip_limit,omitempty"`
	AcceptsCards bool   `json:"accepts_cards"`
}

type exportSwimlane struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type exportCard struct {
	ID          string   `json:"id"`
	ColumnID    string   `json:"column_id"`
	SwimlaneID  string   `json:"swimlane_id,omitempty"`
	Position    int      `json:"position"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Locked      bool     `json:"locked,omitempty"`
}

// runExport writes the current board as indented JSON.
func runExport(ctx context.Context, svc *app.Service, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("flytta export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var outPath string
	fs.StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse export flags: %w", err)
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected export arguments: %v", fs.Args())
	}

	snap := svc.Board(ctx)
	doc := boardExport{}
	for _, column := range snap.SortedColumns() {
		doc.Columns = append(doc.Columns, exportColumn{
			ID:           column.ID,
			Name:         column.Name,
			Position:     column.Order,
			WIPLimit:     column.WIPLimit,
			AcceptsCards: column.AcceptsCards,
		})
	}
	for _, lane := range snap.EffectiveSwimlanes() {
		doc.Swimlanes = append(doc.Swimlanes, exportSwimlane{ID: lane.ID, Name: lane.Name, Position: lane.Order})
	}
	for _, column := range snap.SortedColumns() {
		for _, card := range snap.CardsInColumn(column.ID) {
			doc.Cards = append(doc.Cards, exportCard{
				ID:          card.ID,
				ColumnID:    card.ColumnID,
				SwimlaneID:  card.SwimlaneID,
				Position:    card.Order,
				Title:       card.Title,
				Description: card.Description,
				Labels:      append([]string(nil), card.Labels...),
				Locked:      card.Locked,
			})
		}
	}

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode board json: %w", err)
	}
	encoded = append(encoded, '\n')

	if outPath == "-" {
		if _, err := stdout.Write(encoded); err != nil {
			return fmt.Errorf("write board to stdout: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create export output dir: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// runImport replaces the stored board with a JSON document written by export.
func runImport(ctx context.Context, repo *sqlite.Repository, args []string, now func() time.Time) error {
	fs := flag.NewFlagSet("flytta import", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var inPath string
	fs.StringVar(&inPath, "in", "", "input board JSON file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse import flags: %w", err)
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected import arguments: %v", fs.Args())
	}
	if inPath == "" {
		return fmt.Errorf("--in is required")
	}

	content, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	var doc boardExport
	if err := json.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("decode board json: %w", err)
	}

	importTime := now()
	snap := board.Snapshot{}
	for _, c := range doc.Columns {
		column, err := domain.NewColumn(c.ID, c.Name, c.Position, c.WIPLimit, importTime)
		if err != nil {
			return fmt.Errorf("import column %q: %w", c.ID, err)
		}
		if !c.AcceptsCards {
			column.SetAcceptsCards(false, importTime)
		}
		snap.Columns = append(snap.Columns, column)
	}
	for _, l := range doc.Swimlanes {
		lane, err := domain.NewSwimlane(l.ID, l.Name, l.Position, importTime)
		if err != nil {
			return fmt.Errorf("import swimlane %q: %w", l.ID, err)
		}
		snap.Swimlanes = append(snap.Swimlanes, lane)
	}
	for _, c := range doc.Cards {
		card, err := domain.NewCard(domain.CardInput{
			ID:          c.ID,
			ColumnID:    c.ColumnID,
			SwimlaneID:  c.SwimlaneID,
			Order:       c.Position,
			Title:       c.Title,
			Description: c.Description,
			Labels:      c.Labels,
			Locked:      c.Locked,
		}, importTime)
		if err != nil {
			return fmt.Errorf("import card %q: %w", c.ID, err)
		}
		snap.Cards = append(snap.Cards, card)
	}

	if err := repo.SaveSnapshot(ctx, snap.Normalized()); err != nil {
		return fmt.Errorf("store imported board: %w", err)
	}
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// newLogger builds the runtime logger from config.
func newLogger(sink io.Writer, appName string, cfg config.LoggingConfig) (*charmLog.Logger, error) {
	level, err := charmLog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}
	return charmLog.NewWithOptions(sink, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	}), nil
}

// parseBoolEnv parses a boolean environment variable, reporting presence.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
