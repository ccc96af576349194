// Package tui renders the inventory screen in a terminal.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mamadbah2/clinicstock/internal/domain/models"
	"github.com/mamadbah2/clinicstock/internal/service/inventory"
)

// Controller is the screen state the terminal drives.
type Controller interface {
	Refresh()
	ApplyFilter(name string)
	OpenEdit(id models.RecordID) error
	InputStock(raw string) error
	CommitEdit() (models.UpdateQuantityRequest, error)
	CancelEdit()
	ToggleSort(column string) inventory.SortState
	Sort() inventory.SortState
	Snapshot() inventory.Snapshot
	Rows() []inventory.Row
	Subscribe() (<-chan struct{}, func())
}

// Notices lists the notifications still on screen.
type Notices interface {
	Active() []models.Notification
}

type focusRegion int

const (
	focusTable focusRegion = iota
	focusFilter
	focusEdit
)

// stateChangedMsg is delivered when the controller reports a change.
type stateChangedMsg struct{}

// tickMsg re-renders so expired notifications disappear.
type tickMsg time.Time

const tickInterval = time.Second

// Model implements tea.Model for the inventory table.
type Model struct {
	ctrl    Controller
	notices Notices
	keys    KeyMap
	theme   Theme
	changes <-chan struct{}
	stop    func()

	snapshot inventory.Snapshot
	rows     []inventory.Row
	sort     inventory.SortState
	cursor   int
	focus    focusRegion
	width    int

	filterInput textinput.Model
	stockInput  textinput.Model
}

// New subscribes to ctrl and builds the model. Call Close once the program
// has exited.
func New(ctrl Controller, notices Notices) Model {
	filter := textinput.New()
	filter.Placeholder = "Search Medicine"
	filter.Prompt = "Search: "
	filter.CharLimit = 128
	filter.Width = 32
	filter.ShowSuggestions = true

	stock := textinput.New()
	stock.Placeholder = "Stocked Quantity"
	stock.Prompt = ""
	stock.CharLimit = 12
	stock.Width = 16

	changes, stop := ctrl.Subscribe()
	model := Model{
		ctrl:        ctrl,
		notices:     notices,
		keys:        DefaultKeyMap,
		theme:       DefaultTheme,
		changes:     changes,
		stop:        stop,
		filterInput: filter,
		stockInput:  stock,
	}
	return model.sync()
}

// Close stops listening for controller changes.
func (model Model) Close() {
	if model.stop != nil {
		model.stop()
	}
}

// Init starts the first fetch, the change listener and the expiry tick.
func (model Model) Init() tea.Cmd {
	ctrl := model.ctrl
	return tea.Batch(
		func() tea.Msg {
			ctrl.Refresh()
			return nil
		},
		listenForChanges(model.changes),
		scheduleTick(),
	)
}

// listenForChanges blocks until the controller signals, then delivers a
// stateChangedMsg.
func listenForChanges(channel <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-channel; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model. Keys route by focus region.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		return model, nil

	case stateChangedMsg:
		return model.sync(), listenForChanges(model.changes)

	case tickMsg:
		return model, scheduleTick()

	case tea.KeyMsg:
		if message.Type == tea.KeyCtrlC {
			return model, tea.Quit
		}
		switch model.focus {
		case focusFilter:
			return model.updateFilter(message)
		case focusEdit:
			return model.updateEdit(message)
		default:
			return model.updateTable(message)
		}
	}
	return model, nil
}

func (model Model) updateTable(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}

	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.rows)-1 {
			model.cursor++
		}

	case key.Matches(message, model.keys.Refresh):
		model.ctrl.Refresh()

	case key.Matches(message, model.keys.Filter):
		model.focus = focusFilter
		model.filterInput.SetValue(model.snapshot.Filter)
		model.filterInput.CursorEnd()
		command := model.filterInput.Focus()
		return model.sync(), command

	case key.Matches(message, model.keys.Sort):
		columns := inventory.Columns()
		if index := int(message.String()[0] - '1'); index >= 0 && index < len(columns) {
			model.ctrl.ToggleSort(columns[index].Key)
		}

	case key.Matches(message, model.keys.Edit):
		if len(model.rows) == 0 {
			break
		}
		if err := model.ctrl.OpenEdit(model.rows[model.cursor].Record.ID); err != nil {
			break
		}
		model.focus = focusEdit
		model.stockInput.Reset()
		command := model.stockInput.Focus()
		return model.sync(), command
	}
	return model.sync(), nil
}

func (model Model) updateFilter(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel):
		model.focus = focusTable
		model.filterInput.Blur()
		return model, nil

	case key.Matches(message, model.keys.Confirm):
		model.ctrl.ApplyFilter(model.filterInput.Value())
		model.focus = focusTable
		model.filterInput.Blur()
		model.cursor = 0
		return model.sync(), nil
	}

	var command tea.Cmd
	model.filterInput, command = model.filterInput.Update(message)
	return model, command
}

func (model Model) updateEdit(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel):
		model.ctrl.CancelEdit()
		return model.sync(), nil

	case key.Matches(message, model.keys.Confirm):
		// Rejected while the session has an error or no positive stock.
		_, _ = model.ctrl.CommitEdit()
		return model.sync(), nil
	}

	before := model.stockInput.Value()
	var command tea.Cmd
	model.stockInput, command = model.stockInput.Update(message)
	if value := model.stockInput.Value(); value != before {
		_ = model.ctrl.InputStock(value)
	}
	return model.sync(), command
}

// sync re-reads the controller state.
func (model Model) sync() Model {
	model.snapshot = model.ctrl.Snapshot()
	model.rows = model.ctrl.Rows()
	model.sort = model.ctrl.Sort()
	model.filterInput.SetSuggestions(model.snapshot.Options)

	if model.cursor >= len(model.rows) {
		model.cursor = max(len(model.rows)-1, 0)
	}
	if model.focus == focusEdit && !model.snapshot.Session.IsOpen() {
		model.focus = focusTable
		model.stockInput.Blur()
		model.stockInput.Reset()
	}
	return model
}
