package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ganot/atelier/internal/domain/project"
	"github.com/ganot/atelier/internal/domain/selection"
)

const (
	modalMaxWidth = 72
	emptyListText = "no projects match the current filter"
)

// View implements tea.Model.
func (model Model) View() string {
	if model.carousel.Selected() {
		modal := model.renderDetail(model.carousel.State())
		if model.width > 0 && model.height > 0 {
			return lipgloss.Place(model.width, model.height, lipgloss.Center, lipgloss.Center, modal)
		}
		return modal
	}

	sections := []string{
		model.styles.header.Render("Projects"),
		model.renderChips(),
		model.search.View(),
		"",
		model.renderList(),
		"",
	}
	if model.status != "" {
		sections = append(sections, model.styles.errorText.Render(model.status))
	}
	sections = append(sections, model.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (model Model) renderChips() string {
	chips := make([]string, 0, len(model.tags))
	for i, tag := range model.tags {
		style := model.styles.chip
		if i == model.tagIdx {
			style = model.styles.activeChip
		}
		chips = append(chips, style.Render(tag))
	}
	return strings.Join(chips, " ")
}

func (model Model) renderList() string {
	if len(model.visible) == 0 {
		return model.styles.faint.Render(emptyListText)
	}
	rows := make([]string, 0, len(model.visible))
	for i, p := range model.visible {
		line := fmt.Sprintf("%s  %d  %s", p.Title, p.Year, p.Type)
		if i == model.cursor {
			rows = append(rows, model.styles.selected.Render("› "+line))
			continue
		}
		rows = append(rows, model.styles.row.Render("  "+line)+"  "+model.styles.faint.Render(strings.Join(p.Tags, " · ")))
	}
	return strings.Join(rows, "\n")
}

func (model Model) renderDetail(state selection.State) string {
	p := state.Project
	width := modalMaxWidth
	if model.width > 0 && model.width-4 < width {
		width = model.width - 4
	}

	lines := []string{
		model.styles.header.Render(p.Title),
		model.styles.faint.Render(fmt.Sprintf("%d · %s", p.Year, p.Type)),
		"",
		fmt.Sprintf("[%d/%d] %s", state.Index+1, len(p.Images), state.Image()),
		model.renderDots(state.Index, len(p.Images)),
		"",
		p.Description,
		"",
		fmt.Sprintf("Area  %s", p.Area),
		fmt.Sprintf("Role  %s", p.Role),
		model.renderReport(*p),
	}
	if model.status != "" {
		lines = append(lines, "", model.styles.errorText.Render(model.status))
	}
	lines = append(lines, "", model.renderHelp())

	return model.styles.modal.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (model Model) renderDots(index, count int) string {
	dots := make([]string, count)
	for i := range dots {
		if i == index {
			dots[i] = model.styles.dotActive.Render("●")
		} else {
			dots[i] = model.styles.dotIdle.Render("○")
		}
	}
	return strings.Join(dots, " ")
}

// renderReport shows the report link, or a disabled affordance when the
// project has none.
func (model Model) renderReport(p project.Project) string {
	if !p.HasReport() {
		return model.styles.disabled.Render("Report unavailable")
	}
	return "Report " + *p.Report
}

func (model Model) renderHelp() string {
	switch model.focusRegion {
	case FocusSearch:
		return model.help.ShortHelpView(model.keys.searchHelp())
	case FocusDetail:
		return model.help.ShortHelpView(model.keys.detailHelp())
	default:
		return model.help.ShortHelpView(model.keys.listHelp())
	}
}
