package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

// TestMain sets deterministic environment defaults for CLI tests.
func TestMain(m *testing.M) {
	_ = os.Setenv("FLYTTA_DEV_MODE", "false")
	os.Exit(m.Run())
}

type fakeProgram struct {
	runErr error
}

func (f fakeProgram) Run() (tea.Model, error) {
	return nil, f.runErr
}

// scriptedProgram exercises model flows inside run() tests.
type scriptedProgram struct {
	model tea.Model
	runFn func(tea.Model) (tea.Model, error)
}

func (p scriptedProgram) Run() (tea.Model, error) {
	if p.runFn == nil {
		return p.model, nil
	}
	return p.runFn(p.model)
}

// applyModelMsg applies one message and any resulting command chain.
func applyModelMsg(t *testing.T, model tea.Model, msg tea.Msg) tea.Model {
	t.Helper()
	updated, cmd := model.Update(msg)
	return applyModelCmd(t, updated, cmd)
}

// applyModelCmd executes one command chain to completion (bounded for safety).
func applyModelCmd(t *testing.T, model tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	out := model
	currentCmd := cmd
	for i := 0; i < 8 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		out = updated
		currentCmd = nextCmd
	}
	return out
}

func stubProgramFactory(t *testing.T) {
	t.Helper()
	origFactory := programFactory
	t.Cleanup(func() { programFactory = origFactory })
	programFactory = func(_ tea.Model) program { return fakeProgram{} }
}

func testPaths(t *testing.T) (dbPath, cfgPath string) {
	t.Helper()
	tmp := t.TempDir()
	return filepath.Join(tmp, "flytta.db"), filepath.Join(tmp, "config.toml")
}

// exportBoard runs the export command against one database and decodes it.
func exportBoard(t *testing.T, dbPath, cfgPath string) boardExport {
	t.Helper()
	var out strings.Builder
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath, "export"}, &out, io.Discard); err != nil {
		t.Fatalf("run(export) error = %v", err)
	}
	var doc boardExport
	if err := json.Unmarshal([]byte(out.String()), &doc); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	return doc
}

func TestRunVersion(t *testing.T) {
	var out strings.Builder
	err := run(context.Background(), []string{"--version"}, &out, io.Discard)
	if err != nil {
		t.Fatalf("run(version) error = %v", err)
	}
	if !strings.Contains(out.String(), "flytta") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"frobnicate"}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestRunPathsCommand(t *testing.T) {
	var out strings.Builder
	if err := run(context.Background(), []string{"paths"}, &out, io.Discard); err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	for _, want := range []string{"app: flytta", "config:", "db:"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in paths output, got\n%s", want, out.String())
		}
	}
}

func TestRunStartsProgram(t *testing.T) {
	stubProgramFactory(t)
	dbPath, cfgPath := testPaths(t)
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
}

func TestRunSeedsConfiguredBoard(t *testing.T) {
	stubProgramFactory(t)
	dbPath, cfgPath := testPaths(t)
	content := `
[[columns]]
id = "inbox"
name = "Inbox"
position = 0
accepts_cards = true

[[columns]]
id = "active"
name = "Active"
position = 1
wip_limit = 2
accepts_cards = true

[[swimlanes]]
id = "team-a"
name = "Team A"
position = 0
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	doc := exportBoard(t, dbPath, cfgPath)
	if len(doc.Columns) != 2 || doc.Columns[0].ID != "inbox" || doc.Columns[1].WIPLimit != 2 {
		t.Fatalf("unexpected seeded columns %+v", doc.Columns)
	}
	if len(doc.Swimlanes) != 1 || doc.Swimlanes[0].ID != "team-a" {
		t.Fatalf("unexpected seeded swimlanes %+v", doc.Swimlanes)
	}
	if len(doc.Cards) != 1 || doc.Cards[0].ColumnID != "inbox" {
		t.Fatalf("expected one welcome card in inbox, got %+v", doc.Cards)
	}
}

func TestRunImportReplacesBoard(t *testing.T) {
	stubProgramFactory(t)
	dbPath, cfgPath := testPaths(t)
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	inPath := filepath.Join(t.TempDir(), "board.json")
	doc := boardExport{
		Columns: []exportColumn{
			{ID: "a", Name: "Alpha", Position: 0, AcceptsCards: true},
			{ID: "b", Name: "Beta", Position: 1, AcceptsCards: true},
		},
		Cards: []exportCard{
			{ID: "x1", ColumnID: "a", Position: 4, Title: "Imported", Locked: true},
		},
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if err := os.WriteFile(inPath, encoded, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath, "import", "--in", inPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run(import) error = %v", err)
	}

	got := exportBoard(t, dbPath, cfgPath)
	if len(got.Columns) != 2 || got.Columns[0].ID != "a" {
		t.Fatalf("unexpected columns after import %+v", got.Columns)
	}
	if len(got.Cards) != 1 || got.Cards[0].ID != "x1" || !got.Cards[0].Locked {
		t.Fatalf("unexpected cards after import %+v", got.Cards)
	}
	// Sparse positions are repaired on import.
	if got.Cards[0].Position != 0 {
		t.Fatalf("expected normalized position 0, got %d", got.Cards[0].Position)
	}
}

func TestRunExportToFile(t *testing.T) {
	stubProgramFactory(t)
	dbPath, cfgPath := testPaths(t)
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "out", "board.json")
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath, "export", "--out", outPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run(export) error = %v", err)
	}
	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var doc boardExport
	if err := json.Unmarshal(content, &doc); err != nil {
		t.Fatalf("decode export file: %v", err)
	}
	if len(doc.Columns) != 3 {
		t.Fatalf("expected default three columns, got %d", len(doc.Columns))
	}
}

func TestRunScriptedDragPersists(t *testing.T) {
	origFactory := programFactory
	t.Cleanup(func() { programFactory = origFactory })
	programFactory = func(model tea.Model) program {
		return scriptedProgram{
			model: model,
			runFn: func(current tea.Model) (tea.Model, error) {
				current = applyModelCmd(t, current, current.Init())
				current = applyModelMsg(t, current, tea.WindowSizeMsg{Width: 120, Height: 40})
				if rendered := fmt.Sprint(current.View().Content); !strings.Contains(rendered, "Welcome to flytta") {
					t.Fatalf("expected seeded welcome card, got\n%s", rendered)
				}
				current = applyModelMsg(t, current, tea.KeyPressMsg{Code: ' ', Text: " "})
				current = applyModelMsg(t, current, tea.KeyPressMsg{Code: 'l', Text: "l"})
				current = applyModelMsg(t, current, tea.KeyPressMsg{Code: tea.KeyEnter})
				return current, nil
			},
		}
	}

	dbPath, cfgPath := testPaths(t)
	if err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	// The committed drop must have been written through to the database.
	doc := exportBoard(t, dbPath, cfgPath)
	if len(doc.Cards) != 1 || doc.Cards[0].ColumnID != "progress" {
		t.Fatalf("expected welcome card persisted in progress, got %+v", doc.Cards)
	}
}

func TestRunImportRequiresInput(t *testing.T) {
	stubProgramFactory(t)
	dbPath, cfgPath := testPaths(t)
	err := run(context.Background(), []string{"--db", dbPath, "--config", cfgPath, "import"}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "--in is required") {
		t.Fatalf("expected missing input error, got %v", err)
	}
}
