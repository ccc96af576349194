package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mamadbah2/clinicstock/internal/domain/models"
	"github.com/mamadbah2/clinicstock/internal/service/inventory"
)

const modalTitle = "Edit Medicine Quantity"

// View implements tea.Model.
func (model Model) View() string {
	sections := []string{
		model.renderToolbar(),
		model.renderTable(),
		model.renderStatus(),
	}
	if model.focus == focusEdit {
		sections = append(sections, model.renderModal())
	}
	sections = append(sections, model.renderHelp())
	screen := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if model.width > 0 {
		screen = lipgloss.NewStyle().MaxWidth(model.width).Render(screen)
	}
	return screen
}

func (model Model) renderToolbar() string {
	if model.focus == focusFilter {
		return model.filterInput.View()
	}
	filter := model.snapshot.Filter
	if filter == "" {
		filter = model.theme.Help.Render("all medicines")
	}
	return "Search: " + filter
}

func (model Model) renderTable() string {
	columns := visibleColumns()

	widths := make([]int, len(columns))
	for i, column := range columns {
		widths[i] = lipgloss.Width(model.headerText(i, column))
	}
	for _, row := range model.rows {
		for i := range columns {
			widths[i] = max(widths[i], lipgloss.Width(row.Cells[i]))
		}
	}

	lines := make([]string, 0, len(model.rows)+2)
	header := make([]string, len(columns))
	for i, column := range columns {
		header[i] = model.theme.Header.Width(widths[i]).Render(model.headerText(i, column))
	}
	lines = append(lines, strings.Join(header, "  "))

	if len(model.rows) == 0 {
		empty := "No data"
		if model.snapshot.Loading {
			empty = "Loading..."
		}
		lines = append(lines, model.theme.Help.Render(empty))
	}

	for index, row := range model.rows {
		cells := make([]string, len(columns))
		for i, column := range columns {
			style := model.theme.Cell
			if column.Key == inventory.ColumnQuantity && row.LowStock {
				style = model.theme.LowStock
			}
			if index == model.cursor && model.focus == focusTable {
				style = style.Inherit(model.theme.Cursor)
			}
			cells[i] = style.Width(widths[i]).Render(row.Cells[i])
		}
		lines = append(lines, strings.Join(cells, "  "))
	}
	return strings.Join(lines, "\n")
}

func (model Model) headerText(index int, column inventory.Column) string {
	text := fmt.Sprintf("%d %s", index+1, column.Title)
	if model.sort.Column != column.Key {
		return text
	}
	switch model.sort.Order {
	case inventory.SortAscend:
		return text + " ▲"
	case inventory.SortDescend:
		return text + " ▼"
	}
	return text
}

// visibleColumns drops the operation column; editing is bound to a key.
func visibleColumns() []inventory.Column {
	all := inventory.Columns()
	out := make([]inventory.Column, 0, len(all))
	for _, column := range all {
		if column.Key == inventory.ColumnOperation {
			continue
		}
		out = append(out, column)
	}
	return out
}

func (model Model) renderStatus() string {
	var parts []string
	if model.snapshot.Loading {
		parts = append(parts, model.theme.Loading.Render("Loading inventory..."))
	}
	if model.snapshot.FetchError != "" {
		parts = append(parts, model.theme.FetchError.Render("Could not load inventory: "+model.snapshot.FetchError))
	}
	if model.notices != nil {
		for _, n := range model.notices.Active() {
			style := model.theme.Success
			if n.Kind == models.NotificationError {
				style = model.theme.Error
			}
			parts = append(parts, style.Render(n.Title())+" "+n.Message)
		}
	}
	return strings.Join(parts, "\n")
}

func (model Model) renderModal() string {
	session := model.snapshot.Session

	updated := ""
	if session.NewQuantity != 0 {
		updated = strconv.Itoa(session.NewQuantity)
	}

	lines := []string{
		model.theme.ModalTitle.Render(modalTitle),
		"",
		model.theme.FieldLabel.Render("Current Quantity") + model.theme.FieldDisabled.Render(strconv.Itoa(session.CurrentQuantity)),
		model.theme.FieldLabel.Render("Stocked Quantity") + model.stockInput.View(),
		model.theme.FieldLabel.Render("Updated Quantity") + model.theme.FieldDisabled.Render(updated),
	}
	if session.ValidationError != "" {
		lines = append(lines, model.theme.FetchError.Render(session.ValidationError))
	}

	ok := "enter OK"
	if !model.snapshot.CanCommit {
		ok = model.theme.FieldDisabled.Render(ok)
	}
	lines = append(lines, "", ok+"  esc Cancel")
	return model.theme.Modal.Render(strings.Join(lines, "\n"))
}

func (model Model) renderHelp() string {
	if model.focus != focusTable {
		return ""
	}
	bindings := []struct{ keys, desc string }{
		{model.keys.Up.Help().Key, model.keys.Up.Help().Desc},
		{model.keys.Down.Help().Key, model.keys.Down.Help().Desc},
		{model.keys.Edit.Help().Key, model.keys.Edit.Help().Desc},
		{model.keys.Filter.Help().Key, model.keys.Filter.Help().Desc},
		{model.keys.Sort.Help().Key, model.keys.Sort.Help().Desc},
		{model.keys.Refresh.Help().Key, model.keys.Refresh.Help().Desc},
		{model.keys.Quit.Help().Key, model.keys.Quit.Help().Desc},
	}
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = b.keys + " " + b.desc
	}
	return model.theme.Help.Render(strings.Join(parts, " • "))
}
