// Package tui is the interactive checklist editor.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/relcheck/internal/model"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	item model.Item
}

func (i listItem) Title() string       { return box(i.item.Status) + " " + i.item.Description }
func (i listItem) Description() string { return i.item.Remark }
func (i listItem) FilterValue() string { return i.item.Description + " " + i.item.Remark }

type inputMode int

const (
	modeList inputMode = iota
	modeAdd
	modeEditDescription
	modeEditRemark
)

type modelTUI struct {
	list    list.Model
	base    *model.Checklist // metadata and surrounding text, items live in list
	changed bool

	mode     inputMode
	ti       textinput.Model // shared text input for add & edit
	inputErr string
	editIdx  int

	// Undo support (single-level)
	canUndo   bool
	undoIndex int
	undoItem  *listItem

	width, height int
}

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	st := statusStyle(it.item.Status)
	text := it.item.Description
	if it.item.Status == model.StatusPassed {
		text = mutedStyle.Render(text)
	}
	line := fmt.Sprintf("%s %s %s", st.Render(box(it.item.Status)), st.Render(fmt.Sprintf("%-6s", it.item.Status)), text)
	if it.item.Remark != "" {
		line += "  " + mutedStyle.Render(it.item.Remark)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedMark.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

var (
	keyCycle  = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "cycle"))
	keyPass   = key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "passed"))
	keyFail   = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "failed"))
	keyTodo   = key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "todo"))
	keyAdd    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	keyEdit   = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	keyRemark = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "remark"))
	keyDelete = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	keyUndo   = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	keyUp     = key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up"))
	keyDown   = key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down"))
	keyQuit   = key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit"))
)

func newModel(c *model.Checklist) modelTUI {
	li := make([]list.Item, 0, len(c.Items))
	for _, it := range c.Items {
		li = append(li, listItem{item: it})
	}

	l := list.New(li, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keyCycle, keyAdd, keyRemark, keyDelete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keyCycle, keyPass, keyFail, keyTodo, keyAdd, keyEdit, keyRemark, keyDelete, keyUndo, keyUp, keyDown}
	}

	m := modelTUI{list: l, base: c, width: 80, height: 24}
	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.CharLimit = 200
	m.refreshTitle()
	return m
}

// Checklist rebuilds the checklist from the list state.
func (m modelTUI) Checklist() *model.Checklist {
	out := m.base.Clone()
	out.Items = make([]model.Item, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if li, ok := it.(listItem); ok {
			out.Items = append(out.Items, li.item)
		}
	}
	return out
}

func (m *modelTUI) refreshTitle() {
	c := m.Checklist()
	s := c.Stats()
	name := "Release checklist"
	if c.Meta.Release != "" {
		name += " " + c.Meta.Release
	}
	v := c.Verdict()
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d  %s",
		titleStyle.Render(name),
		passedStyle.Render(box(model.StatusPassed)), s.Passed,
		failedStyle.Render(box(model.StatusFailed)), s.Failed,
		todoStyle.Render(box(model.StatusTodo)), s.Todo,
		verdictStyle(v).Render(strings.ToUpper(string(v))),
	)
}

// Update and View implement Bubble Tea's Model on modelTUI
func (m modelTUI) Init() tea.Cmd { return nil }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	if m.mode != modeList {
		return m.updateInput(msg)
	}

	// keys go to the filter input while the user is typing a filter
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keyQuit):
			if msg.String() == "esc" && m.list.FilterState() == list.FilterApplied {
				break // let the list clear the filter
			}
			return m, tea.Quit
		case key.Matches(msg, keyCycle):
			return m, m.mutate(func(it *listItem) { it.item.Status = it.item.Status.Next() })
		case key.Matches(msg, keyPass):
			return m, m.mutate(func(it *listItem) { it.item.Status = model.StatusPassed })
		case key.Matches(msg, keyFail):
			return m, m.mutate(func(it *listItem) { it.item.Status = model.StatusFailed })
		case key.Matches(msg, keyTodo):
			return m, m.mutate(func(it *listItem) { it.item.Status = model.StatusTodo })
		case key.Matches(msg, keyDelete):
			m.remove()
			return m, nil
		case key.Matches(msg, keyUndo):
			return m, m.undo()
		case key.Matches(msg, keyUp):
			m.move(-1)
			return m, nil
		case key.Matches(msg, keyDown):
			m.move(1)
			return m, nil
		case key.Matches(msg, keyAdd):
			return m, m.startInput(modeAdd, "", "New check description...")
		case key.Matches(msg, keyEdit):
			if it, ok := m.selected(); ok {
				return m, m.startInput(modeEditDescription, it.item.Description, "Edit description...")
			}
			return m, nil
		case key.Matches(msg, keyRemark):
			if it, ok := m.selected(); ok {
				return m, m.startInput(modeEditRemark, it.item.Remark, "Remark (empty clears)...")
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *modelTUI) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if x, ok := msg.(tea.KeyMsg); ok {
		switch x.String() {
		case "ctrl+c":
			return *m, tea.Quit
		case "enter":
			cmd, err := m.commitInput()
			if err != "" {
				m.inputErr = err
				return *m, nil
			}
			m.stopInput()
			return *m, cmd
		case "esc":
			m.stopInput()
			return *m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return *m, cmd
}

// commitInput applies the text input. It returns the list's refresh command, or a
// validation message on failure.
func (m *modelTUI) commitInput() (tea.Cmd, string) {
	value := strings.TrimSpace(m.ti.Value())
	var cmd tea.Cmd
	switch m.mode {
	case modeAdd:
		if value == "" {
			return nil, "Description cannot be empty"
		}
		m.clearFilter()
		idx := m.editIdx + 1
		if len(m.list.Items()) == 0 {
			idx = 0
		}
		cmd = m.list.InsertItem(idx, listItem{item: model.Item{Description: value}})
		m.list.Select(idx)
	case modeEditDescription:
		if value == "" {
			return nil, "Description cannot be empty"
		}
		if it, ok := m.itemAt(m.editIdx); ok {
			it.item.Description = value
			cmd = m.list.SetItem(m.editIdx, it)
		}
	case modeEditRemark:
		if it, ok := m.itemAt(m.editIdx); ok {
			it.item.Remark = value
			cmd = m.list.SetItem(m.editIdx, it)
		}
	}
	m.changed = true
	m.refreshTitle()
	return cmd, ""
}

func (m *modelTUI) startInput(mode inputMode, value, placeholder string) tea.Cmd {
	m.mode = mode
	m.editIdx = m.list.GlobalIndex()
	m.inputErr = ""
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	m.ti.Placeholder = placeholder
	m.resize()
	return m.ti.Focus()
}

func (m *modelTUI) stopInput() {
	m.mode = modeList
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m *modelTUI) selected() (listItem, bool) {
	return m.itemAt(m.list.GlobalIndex())
}

func (m *modelTUI) itemAt(i int) (listItem, bool) {
	items := m.list.Items()
	if i < 0 || i >= len(items) {
		return listItem{}, false
	}
	it, ok := items[i].(listItem)
	return it, ok
}

// mutate edits the selected item in place. The returned command re-runs an applied filter
// so the visible rows pick up the change.
func (m *modelTUI) mutate(fn func(it *listItem)) tea.Cmd {
	i := m.list.GlobalIndex()
	it, ok := m.itemAt(i)
	if !ok {
		return nil
	}
	fn(&it)
	cmd := m.list.SetItem(i, it)
	m.changed = true
	m.refreshTitle()
	return cmd
}

// clearFilter drops an applied filter, keeping the selection on the same item.
func (m *modelTUI) clearFilter() {
	if m.list.FilterState() == list.Unfiltered {
		return
	}
	i := m.list.GlobalIndex()
	m.list.ResetFilter()
	m.list.Select(i)
}

// remove deletes the selected item. Positions change, so an applied filter is cleared first.
func (m *modelTUI) remove() {
	i := m.list.GlobalIndex()
	it, ok := m.itemAt(i)
	if !ok {
		return
	}
	m.clearFilter()
	m.undoItem = &it
	m.undoIndex = i
	m.canUndo = true
	m.list.RemoveItem(i)
	m.changed = true
	m.refreshTitle()
}

func (m *modelTUI) undo() tea.Cmd {
	if !m.canUndo || m.undoItem == nil {
		return nil
	}
	m.clearFilter()
	idx := min(max(m.undoIndex, 0), len(m.list.Items()))
	cmd := m.list.InsertItem(idx, *m.undoItem)
	m.list.Select(idx)
	m.changed = true
	m.canUndo = false
	m.undoItem = nil
	m.refreshTitle()
	return cmd
}

func (m *modelTUI) move(delta int) {
	if m.list.FilterState() != list.Unfiltered {
		return
	}
	i := m.list.GlobalIndex()
	j := i + delta
	a, okA := m.itemAt(i)
	b, okB := m.itemAt(j)
	if !okA || !okB {
		return
	}
	m.list.SetItem(i, b)
	m.list.SetItem(j, a)
	m.list.Select(j)
	m.changed = true
}

func (m *modelTUI) resize() {
	h := m.height - 4
	if m.mode != modeList {
		h = m.height - 7
	}
	m.list.SetSize(max(m.width-4, 10), max(h, 3))
}

func (m modelTUI) View() string {
	content := m.list.View()
	if m.mode != modeList {
		bar := frameStyle
		title := map[inputMode]string{
			modeAdd:             "Add check",
			modeEditDescription: "Edit description",
			modeEditRemark:      "Edit remark",
		}[m.mode]
		if m.inputErr != "" {
			title += ": " + errorStyle.Render(m.inputErr)
		}
		content += "\n" + bar.Render(accentStyle.Render(title)+"\n"+m.ti.View())
	}
	return frameStyle.Render(content)
}

// Run starts the editor on c. It returns the edited checklist and whether anything changed;
// c itself is never modified.
func Run(c *model.Checklist) (*model.Checklist, bool, error) {
	p := tea.NewProgram(newModel(c), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, false, err
	}
	fm, ok := finalModel.(modelTUI)
	if !ok || !fm.changed {
		return c, false, nil
	}
	return fm.Checklist(), true, nil
}
