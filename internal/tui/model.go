// Package tui implements the interactive file browser on top of a session.Controller.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/temirov/ctxcopy/internal/selection"
	"github.com/temirov/ctxcopy/internal/session"
	"github.com/temirov/ctxcopy/internal/types"
)

const (
	defaultVisibleRows = 20
	chromeHeight       = 7
	minimumVisibleRows = 3
	filterPrompt       = "Search: "
)

// LoadFunc starts a load for the browser.
type LoadFunc func(ctx context.Context) (session.LoadReport, error)

type rowKind int

const (
	rowDirectory rowKind = iota
	rowFile
)

type row struct {
	kind   rowKind
	path   string
	label  string
	depth  int
	record types.FileRecord
}

type sessionUpdateMsg struct {
	update session.Update
}

type loadFinishedMsg struct {
	report session.LoadReport
	err    error
}

type copyFinishedMsg struct {
	report session.CopyReport
	err    error
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx         context.Context
	controller  *session.Controller
	load        LoadFunc
	keys        keyMap
	filter      textinput.Model
	filtering   bool
	rows        []row
	cursor      int
	offset      int
	visibleRows int
	presetIndex int
	copying     bool
	quitting    bool
	welcome     bool
}

// NewModel builds a browser model. load may be nil when the controller was
// already loaded by the caller.
func NewModel(ctx context.Context, controller *session.Controller, load LoadFunc) Model {
	filter := textinput.New()
	filter.Prompt = filterPrompt
	filter.Placeholder = "fuzzy path search"
	model := Model{
		ctx:         ctx,
		controller:  controller,
		load:        load,
		keys:        defaultKeyMap(),
		filter:      filter,
		visibleRows: defaultVisibleRows,
	}
	model.refreshRows()
	return model
}

// WithWelcome returns a copy of model that shows the first-run hint until a key is pressed.
func (model Model) WithWelcome() Model {
	model.welcome = true
	return model
}

// Init starts the initial load.
func (model Model) Init() tea.Cmd {
	return model.loadCmd()
}

func (model Model) loadCmd() tea.Cmd {
	if model.load == nil {
		return nil
	}
	load := model.load
	ctx := model.ctx
	return func() tea.Msg {
		report, err := load(ctx)
		return loadFinishedMsg{report: report, err: err}
	}
}

func (model Model) copyCmd() tea.Cmd {
	controller := model.controller
	ctx := model.ctx
	return func() tea.Msg {
		report, err := controller.CopySelected(ctx)
		return copyFinishedMsg{report: report, err: err}
	}
}

// Update handles one message.
func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		model.visibleRows = typed.Height - chromeHeight
		if model.visibleRows < minimumVisibleRows {
			model.visibleRows = minimumVisibleRows
		}
		model.clampCursor()
		return model, nil
	case sessionUpdateMsg:
		if typed.update.Kind == session.UpdateRecord || typed.update.Kind == session.UpdateLoadFinished || typed.update.Kind == session.UpdateLoadStarted {
			model.refreshRows()
		}
		return model, nil
	case loadFinishedMsg:
		// Failures are already reported through the controller status.
		model.refreshRows()
		return model, nil
	case copyFinishedMsg:
		model.copying = false
		return model, nil
	case tea.KeyMsg:
		model.welcome = false
		if model.filtering {
			return model.updateFiltering(typed)
		}
		return model.updateBrowsing(typed)
	}
	return model, nil
}

func (model Model) updateFiltering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		model.quitting = true
		return model, tea.Quit
	case tea.KeyEsc:
		model.filtering = false
		model.filter.Blur()
		model.filter.SetValue("")
		model.cursor = 0
		model.refreshRows()
		return model, nil
	case tea.KeyEnter:
		model.filtering = false
		model.filter.Blur()
		return model, nil
	case tea.KeyUp, tea.KeyDown:
		model.moveCursor(msg.Type == tea.KeyDown)
		return model, nil
	}
	var cmd tea.Cmd
	model.filter, cmd = model.filter.Update(msg)
	model.cursor = 0
	model.offset = 0
	model.refreshRows()
	return model, cmd
}

func (model Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Quit):
		model.quitting = true
		return model, tea.Quit
	case key.Matches(msg, model.keys.Up):
		model.moveCursor(false)
	case key.Matches(msg, model.keys.Down):
		model.moveCursor(true)
	case key.Matches(msg, model.keys.ClearFilter):
		if model.filter.Value() != "" {
			model.filter.SetValue("")
			model.cursor = 0
			model.refreshRows()
		}
	case key.Matches(msg, model.keys.Toggle):
		if focused, ok := model.focusedRow(); ok {
			if focused.kind == rowDirectory {
				model.controller.ToggleDirectory(focused.path)
			} else {
				model.controller.ToggleFile(focused.path)
			}
		}
	case key.Matches(msg, model.keys.ToggleExtension):
		if focused, ok := model.focusedRow(); ok && focused.kind == rowFile {
			model.controller.ToggleExtension(focused.record.Extension)
		}
	case key.Matches(msg, model.keys.SelectAll):
		model.controller.SelectAll()
	case key.Matches(msg, model.keys.DeselectAll):
		model.controller.DeselectAll()
	case key.Matches(msg, model.keys.NextPreset):
		preset := selection.QuickSelectPresets[model.presetIndex%len(selection.QuickSelectPresets)]
		model.presetIndex++
		_, _ = model.controller.ApplyPreset(preset.Name)
	case key.Matches(msg, model.keys.StartFilter):
		model.filtering = true
		focusCmd := model.filter.Focus()
		return model, focusCmd
	case key.Matches(msg, model.keys.Copy):
		if model.copying || model.controller.Loading() {
			return model, nil
		}
		model.copying = true
		return model, model.copyCmd()
	case key.Matches(msg, model.keys.Reload):
		if model.controller.Loading() || model.load == nil {
			return model, nil
		}
		return model, model.loadCmd()
	}
	return model, nil
}

func (model *Model) moveCursor(forward bool) {
	if forward {
		model.cursor++
	} else {
		model.cursor--
	}
	model.clampCursor()
}

func (model *Model) clampCursor() {
	if model.cursor >= len(model.rows) {
		model.cursor = len(model.rows) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
	if model.cursor < model.offset {
		model.offset = model.cursor
	}
	if model.cursor >= model.offset+model.visibleRows {
		model.offset = model.cursor - model.visibleRows + 1
	}
	if model.offset < 0 {
		model.offset = 0
	}
}

func (model Model) focusedRow() (row, bool) {
	if model.cursor < 0 || model.cursor >= len(model.rows) {
		return row{}, false
	}
	return model.rows[model.cursor], true
}

func (model *Model) refreshRows() {
	query := model.filter.Value()
	if query != "" {
		matches := model.controller.Search(query)
		rows := make([]row, 0, len(matches))
		for _, record := range matches {
			rows = append(rows, row{kind: rowFile, path: record.Path, label: record.Path, record: record})
		}
		model.rows = rows
	} else {
		model.rows = flattenTree(model.controller.DirectoryTree(), 0, nil)
	}
	model.clampCursor()
}

// matchState returns the aggregate selection of the search results.
func (model Model) matchState() types.TriState {
	paths := make([]string, 0, len(model.rows))
	for _, current := range model.rows {
		if current.kind == rowFile {
			paths = append(paths, current.path)
		}
	}
	return model.controller.StateOf(paths)
}

func flattenTree(node *types.DirectoryNode, depth int, rows []row) []row {
	for _, child := range node.SortedChildren() {
		rows = append(rows, row{kind: rowDirectory, path: child.Path, label: child.Name + types.PathSeparator, depth: depth})
		rows = flattenTree(child, depth+1, rows)
	}
	for _, record := range node.Files {
		rows = append(rows, row{kind: rowFile, path: record.Path, label: record.Name, depth: depth, record: record})
	}
	return rows
}
