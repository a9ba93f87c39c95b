package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/temirov/ctxcopy/internal/services/clipboard"
	"github.com/temirov/ctxcopy/internal/session"
	"github.com/temirov/ctxcopy/internal/source"
	"github.com/temirov/ctxcopy/internal/status"
	"github.com/temirov/ctxcopy/internal/types"
)

type capturingSink struct {
	mutex sync.Mutex
	texts []string
}

func (sink *capturingSink) WriteText(ctx context.Context, text string) error {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	sink.texts = append(sink.texts, text)
	return nil
}

func newLoadedModel(t *testing.T, sink clipboard.Sink) (Model, *session.Controller) {
	t.Helper()
	controller := session.New(session.Options{
		Sink:      sink,
		Publisher: status.NewPublisher(time.Hour),
		Ignore:    session.StaticIgnore{"node_modules"},
	})
	t.Cleanup(controller.Close)
	fileSystem := fstest.MapFS{
		"a/b.txt":        {Data: []byte("hi")},
		"a/c.bin":        {Data: []byte{0x00, 0x01}},
		"README.md":      {Data: []byte("# readme")},
		"node_modules/x": {Data: []byte("ignored")},
	}
	root := source.NewFSDirectory(fileSystem, "project")
	load := func(ctx context.Context) (session.LoadReport, error) {
		return controller.Load(ctx, root)
	}
	model := NewModel(context.Background(), controller, load)
	msg := model.Init()()
	updated, _ := model.Update(msg)
	return updated.(Model), controller
}

func press(t *testing.T, model Model, keys ...string) Model {
	t.Helper()
	for _, value := range keys {
		var msg tea.KeyMsg
		switch value {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(value)}
		}
		updated, _ := model.Update(msg)
		model = updated.(Model)
	}
	return model
}

func rowPaths(model Model) []string {
	paths := make([]string, 0, len(model.rows))
	for _, current := range model.rows {
		paths = append(paths, current.path)
	}
	return paths
}

func TestModelBuildsTreeRows(t *testing.T) {
	model, _ := newLoadedModel(t, nil)
	expected := []string{"a", "a/b.txt", "a/c.bin", "README.md"}
	if strings.Join(rowPaths(model), ",") != strings.Join(expected, ",") {
		t.Fatalf("expected rows %v, got %v", expected, rowPaths(model))
	}
	if model.rows[0].kind != rowDirectory || model.rows[1].depth != 1 {
		t.Fatalf("unexpected row shapes: %+v", model.rows)
	}
}

func TestModelToggleDirectoryAndFile(t *testing.T) {
	model, controller := newLoadedModel(t, nil)
	model = press(t, model, " ")
	if selected := controller.Selected(); len(selected) != 1 || selected[0] != "a/b.txt" {
		t.Fatalf("expected directory toggle to select a/b.txt, got %v", selected)
	}
	if controller.DirectoryState("a") != types.TriStateAll {
		t.Fatalf("expected directory to be fully selected")
	}
	model = press(t, model, "down", " ")
	if controller.SelectedCount() != 0 {
		t.Fatalf("expected file toggle to deselect a/b.txt, got %v", controller.Selected())
	}
	model = press(t, model, "a")
	if controller.SelectedCount() != 2 {
		t.Fatalf("expected select all to pick every selectable file, got %v", controller.Selected())
	}
	press(t, model, "c")
	if controller.SelectedCount() != 0 {
		t.Fatalf("expected clear to deselect everything")
	}
}

func TestModelSearchFiltersRows(t *testing.T) {
	model, _ := newLoadedModel(t, nil)
	model = press(t, model, "/", "r", "d", "m")
	if !model.filtering {
		t.Fatalf("expected filtering mode")
	}
	if paths := rowPaths(model); len(paths) != 1 || paths[0] != "README.md" {
		t.Fatalf("expected README.md only, got %v", paths)
	}
	model = press(t, model, "enter")
	if model.filtering || model.filter.Value() != "rdm" {
		t.Fatalf("expected enter to keep the query and leave filtering mode")
	}
	model = press(t, model, " ")
	model = press(t, model, "esc")
	if model.filter.Value() != "" || len(model.rows) != 4 {
		t.Fatalf("expected esc to clear the search, got %q with %d rows", model.filter.Value(), len(model.rows))
	}
}

func TestModelCopyRunsThroughController(t *testing.T) {
	sink := &capturingSink{}
	model, controller := newLoadedModel(t, sink)
	model = press(t, model, "a")
	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	model = updated.(Model)
	if cmd == nil || !model.copying {
		t.Fatalf("expected a copy command")
	}
	updated, _ = model.Update(cmd())
	model = updated.(Model)
	if model.copying {
		t.Fatalf("expected copying to finish")
	}
	if len(sink.texts) != 1 || !strings.Contains(sink.texts[0], "=== START README.md ===") {
		t.Fatalf("unexpected clipboard content: %v", sink.texts)
	}
	if controller.Status().Severity != types.SeveritySuccess {
		t.Fatalf("expected success status, got %+v", controller.Status())
	}
	if !strings.Contains(model.View(), "Copied 2 files to clipboard") {
		t.Fatalf("expected the status line in the view")
	}
}

func TestModelPresetSelectsMatchingFiles(t *testing.T) {
	model, controller := newLoadedModel(t, nil)
	press(t, model, "p")
	if controller.SelectedCount() != 0 {
		t.Fatalf("expected the nextjs preset to match nothing, got %v", controller.Selected())
	}
	if controller.Status().IsEmpty() {
		t.Fatalf("expected the preset to report its result")
	}
}

func TestModelViewShowsCheckboxes(t *testing.T) {
	model, _ := newLoadedModel(t, nil)
	model = press(t, model, " ")
	view := model.View()
	for _, fragment := range []string{"project: 1 of 3 files selected", "b.txt", "README.md"} {
		if !strings.Contains(view, fragment) {
			t.Fatalf("expected %q in view:\n%s", fragment, view)
		}
	}
}

func TestModelQuit(t *testing.T) {
	model, _ := newLoadedModel(t, nil)
	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if updated.(Model).View() != "" {
		t.Fatalf("expected empty view after quitting")
	}
}

func TestModelWelcomeHintDisappearsOnKeyPress(t *testing.T) {
	model, _ := newLoadedModel(t, nil)
	model = model.WithWelcome()
	if !strings.Contains(model.View(), "Welcome to ctxcopy") {
		t.Fatalf("expected the welcome hint")
	}
	model = press(t, model, "down")
	if strings.Contains(model.View(), "Welcome to ctxcopy") {
		t.Fatalf("expected the welcome hint to disappear")
	}
}

func TestModelSearchShowsMatchSelectionState(t *testing.T) {
	model, _ := newLoadedModel(t, nil)
	model = press(t, model, "/", "t", "x", "t", "enter")
	if paths := rowPaths(model); len(paths) != 1 || paths[0] != "a/b.txt" {
		t.Fatalf("expected a/b.txt only, got %v", paths)
	}
	if state := model.matchState(); state != types.TriStateNone {
		t.Fatalf("expected no match selected, got %v", state)
	}
	if !strings.Contains(model.View(), "1 match") {
		t.Fatalf("expected the match count in view:\n%s", model.View())
	}
	model = press(t, model, " ")
	if state := model.matchState(); state != types.TriStateAll {
		t.Fatalf("expected every match selected, got %v", state)
	}
}
