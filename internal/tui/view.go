package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/ctxcopy/internal/types"
	"github.com/temirov/ctxcopy/internal/utils"
)

var (
	docStyle        = lipgloss.NewStyle().Margin(1, 2)
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	focusedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	checkedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	disabledStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	infoStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	successStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	directoryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	indentationUnit = "  "
)

const (
	checkboxAll        = "[x] "
	checkboxSome       = "[-] "
	checkboxNone       = "[ ] "
	checkboxDisabled   = "    "
	emptyListMessage   = "No files loaded."
	loadingLineFormat  = "Loading %d/%d entries (%d%%)"
	titleFormat        = "%s: %d of %d files selected"
	untitledRootName   = "ctxcopy"
	helpSeparator      = " • "
	inFlightLineFormat = " reading %s"
	matchesLineFormat  = "%d %s"
	welcomeMessage     = "Welcome to ctxcopy. Toggle files with space, search with /, and press y to copy the selection."
)

// View renders the browser.
func (model Model) View() string {
	if model.quitting {
		return ""
	}
	var builder strings.Builder

	rootName := model.controller.RootName()
	if rootName == "" {
		rootName = untitledRootName
	}
	files := model.controller.Files()
	builder.WriteString(titleStyle.Render(fmt.Sprintf(titleFormat, rootName, model.controller.SelectedCount(), len(files))))
	builder.WriteString("\n\n")

	if len(model.rows) == 0 {
		builder.WriteString(helpStyle.Render(emptyListMessage))
		builder.WriteString("\n")
	}
	end := model.offset + model.visibleRows
	if end > len(model.rows) {
		end = len(model.rows)
	}
	for index := model.offset; index < end; index++ {
		builder.WriteString(model.renderRow(model.rows[index], index == model.cursor))
		builder.WriteString("\n")
	}

	builder.WriteString("\n")
	if model.controller.Loading() {
		builder.WriteString(helpStyle.Render(renderProgress(model.controller.Progress())))
		builder.WriteString("\n")
	}
	if model.filtering || model.filter.Value() != "" {
		builder.WriteString(model.filter.View())
		builder.WriteString("\n")
	}
	if model.filter.Value() != "" {
		builder.WriteString(renderTriState(model.matchState()))
		builder.WriteString(helpStyle.Render(fmt.Sprintf(matchesLineFormat, len(model.rows), pluralizeMatches(len(model.rows)))))
		builder.WriteString("\n")
	}
	if model.welcome {
		builder.WriteString(infoStyle.Render(welcomeMessage))
		builder.WriteString("\n")
	}
	builder.WriteString(renderStatus(model.controller.Status()))
	builder.WriteString("\n")
	builder.WriteString(helpStyle.Render(model.renderHelp()))

	return docStyle.Render(builder.String())
}

func (model Model) renderRow(current row, focused bool) string {
	indentation := strings.Repeat(indentationUnit, current.depth)
	var checkbox, label string
	switch current.kind {
	case rowDirectory:
		checkbox = renderTriState(model.controller.DirectoryState(current.path))
		label = directoryStyle.Render(current.label)
	default:
		switch {
		case !current.record.IsSelectable:
			checkbox = checkboxDisabled
		case model.controller.IsSelected(current.path):
			checkbox = checkedStyle.Render(checkboxAll)
		default:
			checkbox = checkboxNone
		}
		label = current.label
		if current.record.Size != nil {
			label += helpStyle.Render(" " + utils.FormatFileSize(*current.record.Size))
		}
		if !current.record.IsSelectable {
			label = disabledStyle.Render(current.label)
		}
	}
	line := indentation + checkbox + label
	if focused {
		return focusedStyle.Render("> ") + line
	}
	return "  " + line
}

func pluralizeMatches(count int) string {
	if count == 1 {
		return "match"
	}
	return "matches"
}

func renderTriState(state types.TriState) string {
	switch state {
	case types.TriStateAll:
		return checkedStyle.Render(checkboxAll)
	case types.TriStateSome:
		return checkedStyle.Render(checkboxSome)
	default:
		return checkboxNone
	}
}

func renderProgress(progress types.LoadProgress) string {
	line := fmt.Sprintf(loadingLineFormat, progress.ProcessedEntries, progress.TotalEntries, progress.Percent())
	if inFlight := progress.InFlightPaths(); len(inFlight) > 0 {
		line += fmt.Sprintf(inFlightLineFormat, inFlight[0])
	}
	return line
}

func renderStatus(status types.Status) string {
	if status.IsEmpty() {
		return ""
	}
	switch status.Severity {
	case types.SeveritySuccess:
		return successStyle.Render(status.Message)
	case types.SeverityWarning:
		return warningStyle.Render(status.Message)
	case types.SeverityError:
		return errorStyle.Render(status.Message)
	default:
		return infoStyle.Render(status.Message)
	}
}

func (model Model) renderHelp() string {
	bindings := model.keys.helpBindings()
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, helpSeparator)
}
