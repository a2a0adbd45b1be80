package ui

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/gubarz/recapmd/internal/export"
	"github.com/gubarz/recapmd/internal/item"
	"github.com/gubarz/recapmd/internal/output"
	"github.com/gubarz/recapmd/internal/session"
)

// ============================================================================
// String Builder Pool - reduces GC pressure from rendering
// ============================================================================

var builderPool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

func putBuilder(b *strings.Builder) {
	if b.Cap() < 64*1024 { // Don't pool huge builders
		builderPool.Put(b)
	}
}

// ============================================================================
// Debounce
// ============================================================================

// filterMsg triggers filtering after debounce
type filterMsg struct{}

// debounceFilter returns a command that triggers filtering after a delay
func debounceFilter() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return filterMsg{}
	})
}

// ============================================================================
// Main Model
// ============================================================================

// uiPhase represents which phase the TUI is in
type uiPhase int

const (
	phaseList    uiPhase = iota // Browsing items
	phaseFilter                 // Typing a fuzzy filter
	phaseComment                // Typing a new comment
	phaseNewItem                // Filling the new item form
	phasePreview                // Reviewing the export
)

const (
	formTitle = iota
	formDesc
)

// Options wires the editor to the rest of the program
type Options struct {
	Rules        item.Rules
	Layout       export.Layout
	Writer       *output.Writer
	Mode         output.Mode
	GlamourStyle string
	Logger       *zap.Logger
}

// mainModel is the Bubble Tea model for the recap editor. Every phase lives
// in one model so the program stays in a single alt-screen session.
type mainModel struct {
	// Common state
	width    int
	height   int
	quitting bool
	phase    uiPhase
	opts     Options
	log      *zap.Logger

	// Collection state
	sess    *session.Session
	items   []item.Item // snapshot of the session
	visible []int       // indexes into items that pass the filter
	cursor  int
	offset  int

	// Inputs
	filterInput  textinput.Model
	commentInput textinput.Model
	titleInput   textinput.Model
	descInput    textinput.Model
	formFocus    int

	// Export preview
	preview    viewport.Model
	exportText string
	exported   string // printed once the program exits

	// Status line
	status    string
	statusErr bool

	keys        keyMap
	previewKeys previewKeyMap
	help        help.Model
}

// newMainModel creates the editor over sess
func newMainModel(sess *session.Session, opts Options) mainModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Writer == nil {
		opts.Writer = output.NewWriter("")
	}
	// the screen owns stdout until exit
	opts.Writer.WithoutPrintFallback()
	if opts.Mode == "" {
		opts.Mode = output.ModePrint
	}
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "Type to filter titles..."
	filter.CharLimit = 256
	filter.Width = 50

	comment := textinput.New()
	comment.Prompt = "> "
	comment.Placeholder = "New comment"
	comment.CharLimit = 500
	comment.Width = 50

	title := textinput.New()
	title.Prompt = "Title: "
	title.CharLimit = 200
	title.Width = 50

	desc := textinput.New()
	desc.Prompt = "Description: "
	desc.CharLimit = 500
	desc.Width = 50

	m := mainModel{
		phase:        phaseList,
		opts:         opts,
		log:          opts.Logger.With(zap.String("session", sess.ID())),
		sess:         sess,
		filterInput:  filter,
		commentInput: comment,
		titleInput:   title,
		descInput:    desc,
		preview:      viewport.New(80, 20),
		keys:         defaultKeyMap(),
		previewKeys:  defaultPreviewKeyMap(),
		help:         help.New(),
	}
	m.refresh()
	return m
}

// Init implements tea.Model
func (m mainModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsMsg.Width
		m.height = wsMsg.Height
		m.help.Width = wsMsg.Width
		inputWidth := maxInt(wsMsg.Width-20, 10)
		m.filterInput.Width = inputWidth
		m.commentInput.Width = inputWidth
		m.titleInput.Width = inputWidth
		m.descInput.Width = inputWidth
		m.preview.Width = wsMsg.Width
		m.preview.Height = maxInt(wsMsg.Height-4, 3)
		if m.phase == phasePreview {
			m.renderPreviewContent()
		}
		return m, nil
	}

	switch m.phase {
	case phaseFilter:
		return m.updateFilter(msg)
	case phaseComment:
		return m.updateComment(msg)
	case phaseNewItem:
		return m.updateNewItem(msg)
	case phasePreview:
		return m.updatePreview(msg)
	default:
		return m.updateList(msg)
	}
}

// ============================================================================
// List Phase
// ============================================================================

// updateList handles updates while browsing
func (m mainModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleListKey(msg)
	case filterMsg:
		m.applyFilter()
	}
	return m, nil
}

// handleListKey processes keyboard input while browsing
func (m *mainModel) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case msg.String() == "esc":
		if m.filterInput.Value() != "" {
			m.filterInput.SetValue("")
			m.applyFilter()
		}
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-10)
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(10)
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
		m.adjustOffset()
	case key.Matches(msg, m.keys.End):
		m.cursor = max(0, len(m.visible)-1)
		m.adjustOffset()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Filter):
		m.phase = phaseFilter
		return m.filterInput.Focus()
	case key.Matches(msg, m.keys.Comment):
		return m.startComment()
	case key.Matches(msg, m.keys.Revert):
		m.revertCurrent()
	case key.Matches(msg, m.keys.Done):
		m.toggleDone()
	case key.Matches(msg, m.keys.Delete):
		m.deleteCurrent()
	case key.Matches(msg, m.keys.NewItem):
		return m.startNewItem()
	case key.Matches(msg, m.keys.Export):
		m.startPreview()
	}
	return nil
}

// moveCursor moves the cursor by delta, clamping to valid range
func (m *mainModel) moveCursor(delta int) {
	m.cursor += delta
	m.cursor = clamp(m.cursor, 0, max(0, len(m.visible)-1))
	m.adjustOffset()
}

// adjustOffset ensures cursor is visible within viewport
func (m *mainModel) adjustOffset() {
	viewHeight := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+viewHeight {
		m.offset = m.cursor - viewHeight + 1
	}
	maxOffset := max(0, len(m.visible)-viewHeight)
	m.offset = clamp(m.offset, 0, maxOffset)
}

// current returns the item under the cursor
func (m mainModel) current() (item.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return item.Item{}, false
	}
	return m.items[m.visible[m.cursor]], true
}

// refresh reloads the snapshot from the session and keeps the cursor on
// the same item when it still exists
func (m *mainModel) refresh() {
	prev, hadPrev := m.current()
	m.items = m.sess.Items()
	m.applyFilter()
	if hadPrev {
		m.selectID(prev.ID)
	}
}

// selectID moves the cursor onto the item with the given id, if visible
func (m *mainModel) selectID(id string) {
	for i, idx := range m.visible {
		if m.items[idx].ID == id {
			m.cursor = i
			m.adjustOffset()
			return
		}
	}
}

// applyFilter ranks titles against the filter query
func (m *mainModel) applyFilter() {
	query := strings.TrimSpace(m.filterInput.Value())

	if query == "" {
		m.visible = make([]int, len(m.items))
		for i := range m.items {
			m.visible[i] = i
		}
	} else {
		titles := make([]string, len(m.items))
		for i, it := range m.items {
			titles[i] = it.Title
		}
		matches := fuzzy.Find(query, titles)
		m.visible = make([]int, len(matches))
		for i, match := range matches {
			m.visible[i] = match.Index
		}
	}

	m.cursor = clamp(m.cursor, 0, max(0, len(m.visible)-1))
	m.adjustOffset()
}

// ============================================================================
// Item Actions
// ============================================================================

// setStatus shows an informational message
func (m *mainModel) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

// setError shows err in the status line
func (m *mainModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// apply runs fn on the current item through the session
func (m *mainModel) apply(fn func(item.Item) (item.Item, error)) (item.Item, bool) {
	it, ok := m.current()
	if !ok {
		m.setError(errors.New("no item selected"))
		return item.Item{}, false
	}
	updated, err := m.sess.Apply(it.ID, fn)
	if err != nil {
		if !item.IsValidation(err) {
			m.log.Error("apply failed", zap.String("id", it.ID), zap.Error(err))
		}
		m.setError(err)
		return item.Item{}, false
	}
	m.refresh()
	return updated, true
}

// startComment opens the comment input when the item can take one
func (m *mainModel) startComment() tea.Cmd {
	it, ok := m.current()
	if !ok {
		return nil
	}
	if it.IsNew {
		m.setError(errors.New("new items take no comments"))
		return nil
	}
	if it.HasNewComments() {
		m.setError(errors.New("item already has a new comment (x drops it)"))
		return nil
	}
	m.phase = phaseComment
	m.commentInput.SetValue("")
	m.status = ""
	return m.commentInput.Focus()
}

// revertCurrent drops this session's comments and tags from an existing item
func (m *mainModel) revertCurrent() {
	it, ok := m.current()
	if !ok {
		return
	}
	if it.IsNew {
		m.setError(errors.New("new items are deleted with D"))
		return
	}
	if !it.HasNewComments() {
		m.setError(errors.New("no new comments to drop"))
		return
	}
	if _, ok := m.apply(func(it item.Item) (item.Item, error) {
		return m.opts.Rules.RemoveNewComments(it), nil
	}); ok {
		m.setStatus("dropped new comments")
	}
}

// toggleDone flips the done marker. Existing items need a comment from this
// session first.
func (m *mainModel) toggleDone() {
	it, ok := m.current()
	if !ok {
		return
	}
	if !it.IsNew && !it.HasNewComments() {
		m.setError(errors.New("comment before marking done (c)"))
		return
	}
	if updated, ok := m.apply(func(it item.Item) (item.Item, error) {
		return m.opts.Rules.MarkDone(it), nil
	}); ok {
		m.setStatus("%s", item.StateOf(updated))
	}
}

// deleteCurrent removes a new item from the session
func (m *mainModel) deleteCurrent() {
	it, ok := m.current()
	if !ok {
		return
	}
	if !it.IsNew {
		m.setError(errors.New("only new items can be deleted"))
		return
	}
	if m.sess.Remove(it.ID) {
		m.refresh()
		m.setStatus("deleted %q", it.Title)
	}
}

// ============================================================================
// Filter Phase
// ============================================================================

// updateFilter handles typing into the fuzzy filter
func (m mainModel) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			m.applyFilter()
			m.filterInput.Blur()
			m.phase = phaseList
			return m, nil
		case "esc":
			m.filterInput.SetValue("")
			m.filterInput.Blur()
			m.applyFilter()
			m.phase = phaseList
			return m, nil
		case "up":
			m.moveCursor(-1)
			return m, nil
		case "down":
			m.moveCursor(1)
			return m, nil
		}
	case filterMsg:
		m.applyFilter()
		return m, nil
	}

	prevQuery := m.filterInput.Value()
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if m.filterInput.Value() != prevQuery {
		return m, tea.Batch(cmd, debounceFilter())
	}
	return m, cmd
}

// ============================================================================
// Comment Phase
// ============================================================================

// updateComment handles the comment input
func (m mainModel) updateComment(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			m.commentInput.Blur()
			m.phase = phaseList
			m.status = ""
			return m, nil
		case "enter":
			text := m.commentInput.Value()
			if _, ok := m.apply(func(it item.Item) (item.Item, error) {
				return m.opts.Rules.AddComment(it, text)
			}); ok {
				m.commentInput.Blur()
				m.phase = phaseList
				m.setStatus("comment added")
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.commentInput, cmd = m.commentInput.Update(msg)
	return m, cmd
}

// ============================================================================
// New Item Phase
// ============================================================================

// startNewItem opens an empty new item form
func (m *mainModel) startNewItem() tea.Cmd {
	m.phase = phaseNewItem
	m.status = ""
	m.titleInput.SetValue("")
	m.descInput.SetValue("")
	m.formFocus = formTitle
	m.descInput.Blur()
	return m.titleInput.Focus()
}

// focusForm moves focus to the given field
func (m *mainModel) focusForm(field int) tea.Cmd {
	m.formFocus = field
	if field == formDesc {
		m.titleInput.Blur()
		return m.descInput.Focus()
	}
	m.descInput.Blur()
	return m.titleInput.Focus()
}

// updateNewItem handles the two-field new item form
func (m mainModel) updateNewItem(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			m.titleInput.Blur()
			m.descInput.Blur()
			m.phase = phaseList
			m.status = ""
			return m, nil
		case "tab", "shift+tab", "up", "down":
			return m, m.focusForm(1 - m.formFocus)
		case "enter":
			if m.formFocus == formTitle {
				return m, m.focusForm(formDesc)
			}
			return m, m.submitNewItem()
		}
	}

	var cmd tea.Cmd
	if m.formFocus == formDesc {
		m.descInput, cmd = m.descInput.Update(msg)
	} else {
		m.titleInput, cmd = m.titleInput.Update(msg)
	}
	return m, cmd
}

// submitNewItem validates the form and appends the item
func (m *mainModel) submitNewItem() tea.Cmd {
	it, err := m.opts.Rules.NewItem(m.titleInput.Value(), m.descInput.Value())
	if err != nil {
		m.setError(err)
		var verr *item.ValidationError
		if errors.As(err, &verr) && verr.Field == "title" {
			return m.focusForm(formTitle)
		}
		return nil
	}

	stored := m.sess.Append(it)
	m.log.Info("new item", zap.String("id", stored.ID))

	m.titleInput.Blur()
	m.descInput.Blur()
	m.phase = phaseList
	m.refresh()
	m.selectID(stored.ID)
	m.setStatus("added %q", stored.Title)
	return nil
}

// ============================================================================
// Preview Phase
// ============================================================================

// startPreview serializes the session and opens the export preview
func (m *mainModel) startPreview() {
	items := m.sess.Items()
	m.exportText = export.Serialize(items, m.opts.Layout)

	if idx, ok := export.CheckOrder(items); !ok {
		m.log.Warn("export order violated", zap.Int("index", idx))
		m.setError(fmt.Errorf("warning: existing item %q follows a new item", items[idx].Title))
	} else {
		m.status = ""
	}

	m.phase = phasePreview
	m.renderPreviewContent()
	m.preview.GotoTop()
}

// renderPreviewContent renders the export through glamour into the viewport
func (m *mainModel) renderPreviewContent() {
	width := maxInt(m.preview.Width-2, 20)
	rendered, err := renderMarkdown(m.exportText, m.opts.GlamourStyle, width)
	if err != nil {
		m.log.Warn("preview render failed", zap.Error(err))
		rendered = m.exportText
	}
	m.preview.SetContent(rendered)
}

// updatePreview handles the export preview
func (m mainModel) updatePreview(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMsg.String() == "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.previewKeys.Back):
			m.phase = phaseList
			return m, nil
		case key.Matches(keyMsg, m.previewKeys.Copy):
			m.deliver(output.ModeCopy)
			return m, nil
		case key.Matches(keyMsg, m.previewKeys.Write):
			m.deliver(output.ModeFile)
			return m, nil
		case key.Matches(keyMsg, m.previewKeys.Accept):
			if m.opts.Mode == output.ModePrint {
				m.exported = m.exportText
				m.quitting = true
				return m, tea.Quit
			}
			m.deliver(m.opts.Mode)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

// deliver sends the export through the writer and reports the outcome
func (m *mainModel) deliver(mode output.Mode) {
	if err := m.opts.Writer.Write(m.exportText, mode); err != nil {
		if errors.Is(err, output.ErrClipboardUnavailable) {
			m.log.Warn("clipboard unavailable, export deferred to exit")
			m.exported = m.exportText
			m.setError(errors.New("no clipboard available, export prints on exit"))
			return
		}
		m.log.Error("export failed", zap.String("mode", string(mode)), zap.Error(err))
		m.setError(err)
		return
	}
	m.log.Info("export delivered", zap.String("mode", string(mode)))
	switch mode {
	case output.ModeCopy:
		m.setStatus("copied to clipboard")
	case output.ModeFile:
		m.setStatus("written to %s", m.opts.Writer.Path())
	default:
		m.setStatus("exported")
	}
}
