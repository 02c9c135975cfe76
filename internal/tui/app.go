package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"solution-cli/internal/model"
	"solution-cli/internal/mutate"
	"solution-cli/internal/publish"
	"solution-cli/internal/solution"
	"solution-cli/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalAdd
	modalRename
	modalConfirmRemove
)

// Our own saves show up on the watcher too; changes this soon after a save are ignored.
const selfWriteWindow = time.Second

var addTypes = []model.ItemType{model.ItemTypeProject, model.ItemTypeTopTask, model.ItemTypeSubTask}

type (
	loadedMsg struct {
		names []string
		tree  *solution.Tree
		err   error
	}
	namesMsg struct {
		names []string
		err   error
	}
	savedMsg struct {
		name        string
		renamedFrom string
		err         error
	}
	changedMsg struct {
		change store.Change
	}
	watchClosedMsg struct{}
)

type appModel struct {
	ctx   context.Context
	store store.Store
	log   *zap.Logger
	keys  keyMap
	help  help.Model

	initial string
	watcher *store.Watcher
	// savedAt records our own writes per solution name.
	savedAt map[string]time.Time

	names  []string
	tree   *solution.Tree
	rows   []solution.Row
	cursor int
	offset int

	width  int
	height int

	modal      modalKind
	input      textinput.Model
	addParent  string
	addType    model.ItemType
	suggestion string
	renamePath string
	confirm    confirmModalFocus

	status    string
	statusErr bool
}

func newAppModel(ctx context.Context, opt Options) appModel {
	log := opt.Log
	if log == nil {
		log = zap.NewNop()
	}
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 200
	return appModel{
		ctx:     ctx,
		store:   opt.Store,
		log:     log,
		keys:    defaultKeyMap(),
		help:    help.New(),
		initial: opt.Initial,
		savedAt: map[string]time.Time{},
		input:   in,
		width:   80,
		height:  24,
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(m.initial), waitForChange(m.watcher))
}

// loadCmd opens name (or the first stored solution). An empty store is seeded.
func (m appModel) loadCmd(name string) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		names, err := st.List(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		if len(names) == 0 {
			t, err := mutate.Seed(mutate.DefaultRootName)
			if err != nil {
				return loadedMsg{err: err}
			}
			if err := st.Save(ctx, t); err != nil {
				return loadedMsg{err: err}
			}
			return loadedMsg{names: []string{t.Name()}, tree: t}
		}
		if !slices.Contains(names, name) {
			name = names[0]
		}
		t, err := st.Open(ctx, name)
		return loadedMsg{names: names, tree: t, err: err}
	}
}

func (m appModel) listCmd() tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		names, err := st.List(ctx)
		return namesMsg{names: names, err: err}
	}
}

func (m *appModel) saveCmd() tea.Cmd {
	if m.tree == nil {
		return nil
	}
	ctx, st, t := m.ctx, m.store, m.tree
	m.savedAt[t.Name()] = time.Now()
	return func() tea.Msg {
		return savedMsg{name: t.Name(), err: st.Save(ctx, t)}
	}
}

func (m *appModel) saveRenamedCmd(oldName string) tea.Cmd {
	ctx, st, t := m.ctx, m.store, m.tree
	now := time.Now()
	m.savedAt[t.Name()] = now
	m.savedAt[oldName] = now
	return func() tea.Msg {
		if err := st.Save(ctx, t); err != nil {
			return savedMsg{name: t.Name(), renamedFrom: oldName, err: err}
		}
		return savedMsg{name: t.Name(), renamedFrom: oldName, err: st.Delete(ctx, oldName)}
	}
}

func waitForChange(w *store.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		ch, ok := <-w.Changes()
		if !ok {
			return watchClosedMsg{}
		}
		return changedMsg{change: ch}
	}
}

func (m *appModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *appModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.clampOffset()
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			// The tree on screen is left as it was.
			m.log.Warn("tui.load.failed", zap.Error(msg.err))
			m.setError(msg.err)
			return m, nil
		}
		m.names = msg.names
		m.tree = msg.tree
		m.cursor, m.offset = 0, 0
		m.refreshRows()
		return m, nil

	case namesMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.names = msg.names
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.log.Error("tui.save.failed", zap.String("root", msg.name), zap.Error(msg.err))
			m.setError(fmt.Errorf("save failed: %w", msg.err))
			return m, nil
		}
		if msg.renamedFrom != "" {
			m.names = slices.DeleteFunc(m.names, func(n string) bool { return n == msg.renamedFrom })
		}
		if !slices.Contains(m.names, msg.name) {
			m.names = append(m.names, msg.name)
			slices.Sort(m.names)
		}
		return m, nil

	case changedMsg:
		return m, tea.Batch(m.handleChange(msg.change), waitForChange(m.watcher))

	case watchClosedMsg:
		m.watcher = nil
		return m, nil

	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		return m.updateTree(msg)
	}
	return m, nil
}

func (m *appModel) handleChange(ch store.Change) tea.Cmd {
	if at, ok := m.savedAt[ch.Name]; ok && time.Since(at) < selfWriteWindow {
		return nil
	}
	if m.tree == nil || ch.Name != m.tree.Name() {
		return m.listCmd()
	}
	if ch.Kind == store.ChangeRemoved {
		m.setStatus(ch.Name + " was removed on disk")
		return m.listCmd()
	}
	m.setStatus("reloaded " + ch.Name)
	return m.loadCmd(ch.Name)
}

func (m appModel) updateTree(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.New):
		return m.newSolution()
	case key.Matches(msg, m.keys.Prev):
		return m, m.cycleSolution(-1)
	case key.Matches(msg, m.keys.Next):
		return m, m.cycleSolution(1)
	}

	row, ok := m.current()
	if !ok {
		return m, nil
	}
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Up):
		m.setCursor(m.cursor - 1)
	case key.Matches(msg, m.keys.Down):
		m.setCursor(m.cursor + 1)
	case key.Matches(msg, m.keys.Expand):
		if row.Item.IsComposite() {
			row.Item.SetExpanded(true)
			m.refreshRows()
		}
	case key.Matches(msg, m.keys.Collapse):
		switch {
		case row.Item.IsComposite() && row.Expanded && row.Depth > 0:
			row.Item.SetExpanded(false)
			m.refreshRows()
		case row.Item.Parent() != nil:
			m.selectItem(row.Item.Parent())
		}
	case key.Matches(msg, m.keys.Toggle):
		if _, err := mutate.ToggleChecked(m.tree, row.Path); err != nil {
			m.setError(err)
			return m, nil
		}
		m.refreshRows()
		return m, m.saveCmd()
	case key.Matches(msg, m.keys.Add):
		m.openAdd(row)
	case key.Matches(msg, m.keys.Rename):
		m.modal = modalRename
		m.renamePath = row.Path
		m.input.SetValue(row.Name)
		m.input.CursorEnd()
		m.input.Focus()
	case key.Matches(msg, m.keys.Delete):
		if row.Depth == 0 {
			m.setError(mutate.ErrRootOperation)
			return m, nil
		}
		m.modal = modalConfirmRemove
		m.confirm = confirmFocusConfirm
	}
	return m, nil
}

func (m *appModel) openAdd(row solution.Row) {
	parent := row.Item
	if !parent.IsComposite() {
		parent = parent.Parent()
	}
	m.modal = modalAdd
	m.addParent = parent.Path()
	m.addType = mutate.DefaultChildType(parent.Type())
	m.suggestion, _ = mutate.SuggestName(m.tree, m.addParent, m.addType)
	m.input.SetValue(m.suggestion)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" || msg.String() == "ctrl+g" {
		m.closeModal()
		return m, nil
	}

	if m.modal == modalConfirmRemove {
		switch msg.String() {
		case "tab", "shift+tab", "left", "right":
			if m.confirm == confirmFocusConfirm {
				m.confirm = confirmFocusCancel
			} else {
				m.confirm = confirmFocusConfirm
			}
		case "y":
			return m.removeCurrent()
		case "n":
			m.closeModal()
		case "enter":
			if m.confirm == confirmFocusConfirm {
				return m.removeCurrent()
			}
			m.closeModal()
		}
		return m, nil
	}

	switch msg.String() {
	case "tab":
		if m.modal == modalAdd {
			m.cycleAddType()
		}
		return m, nil
	case "enter":
		if m.modal == modalAdd {
			return m.commitAdd()
		}
		return m.commitRename()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *appModel) cycleAddType() {
	i := slices.Index(addTypes, m.addType)
	m.addType = addTypes[(i+1)%len(addTypes)]
	// Only replace the name if the user has not typed their own.
	if strings.TrimSpace(m.input.Value()) == m.suggestion {
		m.suggestion, _ = mutate.SuggestName(m.tree, m.addParent, m.addType)
		m.input.SetValue(m.suggestion)
		m.input.CursorEnd()
	}
}

func (m appModel) commitAdd() (tea.Model, tea.Cmd) {
	res, err := mutate.AddItem(m.tree, m.addParent, strings.TrimSpace(m.input.Value()), m.addType)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.closeModal()
	if p := res.Item.Parent(); p != nil {
		p.SetExpanded(true)
	}
	m.selectItem(res.Item)
	m.setStatus("added " + res.Path)
	return m, m.saveCmd()
}

func (m appModel) commitRename() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.input.Value())
	isRoot := m.renamePath == "/"+m.tree.Name()
	oldName := m.tree.Name()
	if isRoot {
		if err := store.ValidateRootName(name); err != nil {
			m.setError(err)
			return m, nil
		}
		if name != oldName && slices.Contains(m.names, name) {
			m.setError(&store.DuplicateRootError{Name: name})
			return m, nil
		}
	}
	res, err := mutate.RenameItem(m.tree, m.renamePath, name)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.closeModal()
	m.refreshRows()
	if !res.Changed {
		return m, nil
	}
	m.setStatus("renamed to " + res.Path)
	if isRoot {
		return m, m.saveRenamedCmd(oldName)
	}
	return m, m.saveCmd()
}

func (m appModel) removeCurrent() (tea.Model, tea.Cmd) {
	m.closeModal()
	row, ok := m.current()
	if !ok {
		return m, nil
	}
	res, err := mutate.RemoveItem(m.tree, row.Path)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	if res.Selected != nil {
		m.selectItem(res.Selected)
	} else {
		m.refreshRows()
	}
	m.setStatus(fmt.Sprintf("removed %s (%d items)", res.Path, res.Removed))
	return m, m.saveCmd()
}

func (m appModel) newSolution() (tea.Model, tea.Cmd) {
	name, err := mutate.NewSolutionName(m.names)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	t, err := mutate.Seed(name)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.tree = t
	m.names = append(m.names, name)
	slices.Sort(m.names)
	m.cursor, m.offset = 0, 0
	m.refreshRows()
	m.setStatus("created " + name)
	return m, m.saveCmd()
}

func (m *appModel) cycleSolution(delta int) tea.Cmd {
	if len(m.names) < 2 || m.tree == nil {
		return nil
	}
	i := slices.Index(m.names, m.tree.Name())
	if i < 0 {
		i = 0
	}
	next := m.names[(i+delta+len(m.names))%len(m.names)]
	return m.loadCmd(next)
}

func (m appModel) current() (solution.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return solution.Row{}, false
	}
	return m.rows[m.cursor], true
}

// refreshRows re-snapshots the tree and puts the cursor on the selected item.
func (m *appModel) refreshRows() {
	if m.tree == nil {
		m.rows = nil
		return
	}
	m.rows = m.tree.Snapshot(true)
	for i, r := range m.rows {
		if r.Selected {
			m.cursor = i
			m.clampOffset()
			return
		}
	}
	m.setCursor(m.cursor)
}

func (m *appModel) setCursor(i int) {
	if len(m.rows) == 0 {
		m.cursor = 0
		return
	}
	i = max(0, min(i, len(m.rows)-1))
	if old, ok := m.current(); ok && old.Item != m.rows[i].Item {
		old.Item.SetSelected(false)
	}
	m.rows[i].Item.SetSelected(true)
	m.cursor = i
	m.clampOffset()
}

func (m *appModel) selectItem(it *solution.Item) {
	for _, r := range m.tree.Snapshot(false) {
		if r.Selected && r.Item != it {
			r.Item.SetSelected(false)
		}
	}
	// Make sure the item is visible.
	for p := it.Parent(); p != nil; p = p.Parent() {
		p.SetExpanded(true)
	}
	it.SetSelected(true)
	m.refreshRows()
}

func (m appModel) listHeight() int {
	return max(1, m.height-4)
}

func (m *appModel) clampOffset() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(0, m.offset)
}

func (m appModel) View() string {
	width := max(20, m.width)
	if m.tree == nil {
		if m.statusErr {
			return styleError().Render(m.status)
		}
		return styleMuted().Render("Loading…")
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(width))
	b.WriteString("\n")
	b.WriteString(styleMuted().Render(strings.Repeat(glyphHRule(), width)))
	b.WriteString("\n")

	h := m.listHeight()
	end := min(len(m.rows), m.offset+h)
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(m.rows[i], i == m.cursor, width))
		b.WriteString("\n")
	}
	for i := end - m.offset; i < h; i++ {
		b.WriteString("\n")
	}

	status := m.status
	if m.statusErr {
		status = styleError().Render(xansi.Truncate(status, width, "…"))
	} else {
		status = styleMuted().Render(xansi.Truncate(status, width, "…"))
	}
	b.WriteString(status)
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	view := b.String()
	if box := m.renderModal(width); box != "" {
		return lipgloss.Place(width, max(m.height, lipgloss.Height(box)), lipgloss.Center, lipgloss.Center, box)
	}
	return view
}

func (m appModel) renderHeader(width int) string {
	pos := ""
	if i := slices.Index(m.names, m.tree.Name()); i >= 0 {
		pos = fmt.Sprintf(" (%d/%d)", i+1, len(m.names))
	}
	sum := publish.Summarize(m.tree)
	right := fmt.Sprintf("%d/%d done", sum.Checked, sum.Tasks)
	left := styleHeader().Render(m.tree.Name()) + styleMuted().Render(pos)
	gap := width - xansi.StringWidth(left) - xansi.StringWidth(right)
	if gap < 1 {
		return xansi.Truncate(left, width, "…")
	}
	return left + strings.Repeat(" ", gap) + styleMuted().Render(right)
}

func (m appModel) renderRow(r solution.Row, selected bool, width int) string {
	twisty := " "
	if r.HasChildren && r.Depth > 0 {
		if r.Expanded {
			twisty = glyphTwistyExpanded()
		} else {
			twisty = glyphTwistyCollapsed()
		}
	}
	name := r.Name
	if r.Item.IsComposite() {
		name = lipgloss.NewStyle().Bold(true).Render(name)
	}
	check := glyphCheck(r.Checked)
	if r.Checked == solution.Checked && !selected {
		check = styleChecked().Render(check)
	}
	line := strings.Repeat("  ", r.Depth) + twisty + " " + check + " " + name
	line = xansi.Truncate(line, width, "…")
	if selected {
		return styleSelected().Width(width).Render(xansi.Strip(line))
	}
	return line
}

func (m appModel) renderModal(width int) string {
	switch m.modal {
	case modalAdd:
		body := "Type: " + m.addType.String() + "\n\n" +
			renderNameField(modalBodyWidth(width), m.input.View(), "tab: type   enter: add   esc: cancel")
		return renderModalBox(width, "Add to "+m.addParent, body)
	case modalRename:
		hint := "enter: rename   esc: cancel"
		if m.renamePath == "/"+m.tree.Name() {
			hint = "renames the solution file too"
		}
		return renderModalBox(width, "Rename "+m.renamePath, renderNameField(modalBodyWidth(width), m.input.View(), hint))
	case modalConfirmRemove:
		row, _ := m.current()
		body := "Remove " + row.Path + "?"
		if row.HasChildren {
			body += " Everything below it is removed too."
		}
		return renderConfirmModal(width, "Remove item", body, "Remove", "Cancel", m.confirm)
	}
	return ""
}
