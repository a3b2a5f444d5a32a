// Package tui is the interactive three-column browser: folders, notebooks and
// notes side by side, driven by browser snapshots.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iksnae/smartnotes/internal"
	"github.com/iksnae/smartnotes/internal/browser"
)

// Navigator is the part of *browser.Browser the model drives
type Navigator interface {
	Snapshot() browser.Snapshot
	LoadFolders(ctx context.Context)
	SelectFolder(ctx context.Context, id internal.ID)
	SelectNotebook(ctx context.Context, id internal.ID) error
	Retry(ctx context.Context, level browser.Level) error
}

// SnapshotMsg delivers a browser change to the program
type SnapshotMsg browser.Snapshot

// Styles
var (
	columnStyle   = lipgloss.NewStyle().Padding(0, 1)
	focusedHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("240")).Foreground(lipgloss.Color("229"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the bubbletea model for the browser
type Model struct {
	ctx       context.Context
	nav       Navigator
	extractor *internal.Extractor

	snap    browser.Snapshot
	focus   browser.Level
	cursor  [3]int
	spinner spinner.Model
	viewing *internal.Note
	status  string

	width    int
	height   int
	quitting bool
}

// New returns a model showing nav's current snapshot
func New(ctx context.Context, nav Navigator, ex *internal.Extractor) Model {
	if ex == nil {
		ex = internal.NewExtractor(0, 0)
	}
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("212"))),
	)
	return Model{
		ctx:       ctx,
		nav:       nav,
		extractor: ex,
		snap:      nav.Snapshot(),
		spinner:   sp,
		width:     120,
		height:    30,
	}
}

// Init starts the spinner and the first folder load
func (m Model) Init() tea.Cmd {
	nav, ctx := m.nav, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		nav.LoadFolders(ctx)
		return nil
	})
}

// Focus returns the focused column
func (m Model) Focus() browser.Level {
	return m.focus
}

// Viewing returns the note open in the reading pane, if any
func (m Model) Viewing() *internal.Note {
	return m.viewing
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		snap := browser.Snapshot(msg)
		if snap.Version < m.snap.Version {
			return m, nil
		}
		m.snap = snap
		m.clampCursors()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		if m.viewing != nil {
			m.viewing = nil
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor[m.focus] > 0 {
			m.cursor[m.focus]--
		}

	case "down", "j":
		if m.cursor[m.focus] < m.columnLen(m.focus)-1 {
			m.cursor[m.focus]++
		}

	case "enter", "right", "l":
		m.activate()

	case "left", "h", "backspace":
		switch {
		case m.viewing != nil:
			m.viewing = nil
		case m.focus > browser.LevelFolders:
			m.focus--
		}

	case "r":
		if err := m.nav.Retry(m.ctx, m.focus); err != nil {
			m.status = retryMessage(err)
		}
	}
	return m, nil
}

// activate opens the item under the cursor in the focused column
func (m *Model) activate() {
	i := m.cursor[m.focus]
	switch m.focus {
	case browser.LevelFolders:
		items := m.snap.Folders.Items
		if i >= len(items) {
			return
		}
		m.nav.SelectFolder(m.ctx, items[i].ID)
		m.cursor[browser.LevelNotebooks], m.cursor[browser.LevelNotes] = 0, 0
		m.focus = browser.LevelNotebooks

	case browser.LevelNotebooks:
		items := m.snap.Notebooks.Items
		if i >= len(items) {
			return
		}
		if err := m.nav.SelectNotebook(m.ctx, items[i].ID); err != nil {
			m.status = err.Error()
			return
		}
		m.cursor[browser.LevelNotes] = 0
		m.focus = browser.LevelNotes

	case browser.LevelNotes:
		items := m.snap.Notes.Items
		if i >= len(items) {
			return
		}
		note := items[i]
		m.viewing = &note
	}
}

func retryMessage(err error) string {
	switch {
	case errors.Is(err, internal.ErrNoFolderSelected):
		return "Select a folder first"
	case errors.Is(err, browser.ErrNoNotebookSelected):
		return "Select a notebook first"
	default:
		return err.Error()
	}
}

func (m Model) columnLen(level browser.Level) int {
	switch level {
	case browser.LevelFolders:
		return len(m.snap.Folders.Items)
	case browser.LevelNotebooks:
		return len(m.snap.Notebooks.Items)
	default:
		return len(m.snap.Notes.Items)
	}
}

func (m *Model) clampCursors() {
	for level := browser.LevelFolders; level <= browser.LevelNotes; level++ {
		n := m.columnLen(level)
		if m.cursor[level] >= n {
			m.cursor[level] = max(0, n-1)
		}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	colWidth := max(20, m.width/3-2)
	rows := max(3, m.height-4)

	var right string
	if m.viewing != nil {
		right = m.renderNote(*m.viewing, colWidth, rows)
	} else {
		right = m.renderColumn(browser.LevelNotes, "Notes", m.snap.Notes.State, m.snap.Notes.Err,
			internal.NoteEntries(m.snap.Notes.Items, m.extractor), "Select a notebook", "No notes", colWidth, rows)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderColumn(browser.LevelFolders, "Folders", m.snap.Folders.State, m.snap.Folders.Err,
			internal.FolderEntries(m.snap.Folders.Items), "", "No folders", colWidth, rows),
		m.renderColumn(browser.LevelNotebooks, "Notebooks", m.snap.Notebooks.State, m.snap.Notebooks.Err,
			internal.NotebookEntries(m.snap.Notebooks.Items), "Select a folder", "No notebooks", colWidth, rows),
		right,
	)

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("↑/↓: move • enter: open • ←: back • r: retry • q: quit"))
	return b.String()
}

func (m Model) renderColumn(level browser.Level, title string, state browser.State, err error,
	entries []internal.Entry, noParent, empty string, width, rows int) string {

	header := headerStyle
	if level == m.focus && m.viewing == nil {
		header = focusedHeader
	}
	lines := []string{header.Render(fmt.Sprintf("%s (%d)", title, len(entries))), ""}

	switch state {
	case browser.NoParentSelected:
		if noParent != "" {
			lines = append(lines, dimStyle.Render(noParent))
		}
	case browser.LoadingChildren:
		lines = append(lines, m.spinner.View()+" Loading...")
	case browser.LoadingFailed:
		lines = append(lines, errorStyle.Render(failureMessage(err)), dimStyle.Render("press r to retry"))
	case browser.ChildrenLoaded:
		if len(entries) == 0 {
			lines = append(lines, dimStyle.Render(empty))
		}
		lines = append(lines, m.renderEntries(level, entries, width, rows-2)...)
	}

	return columnStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderEntries(level browser.Level, entries []internal.Entry, width, rows int) []string {
	perEntry := 1
	if level == browser.LevelNotes {
		perEntry = 2
	}
	visible := max(1, rows/perEntry)
	start := 0
	if m.cursor[level] >= visible {
		start = m.cursor[level] - visible + 1
	}

	var lines []string
	for i := start; i < len(entries) && i < start+visible; i++ {
		e := entries[i]
		line := fixedWidth(e.Title, width-2)
		if e.Color != "" {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render("● ") + fixedWidth(e.Title, width-4)
		}
		if i == m.cursor[level] {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
		if level == browser.LevelNotes {
			lines = append(lines, dimStyle.Render(fixedWidth(e.Subtitle, width-2)))
		}
	}
	return lines
}

func (m Model) renderNote(n internal.Note, width, rows int) string {
	title := n.Title
	if title == "" {
		title = m.extractor.Title(n.Content)
	}
	lines := []string{focusedHeader.Render(title)}
	if !n.UpdatedAt.IsZero() {
		lines = append(lines, dimStyle.Render("Updated "+n.UpdatedAt.Format("2006-01-02 15:04")))
	}
	lines = append(lines, "")

	text := internal.ExtractText(n.Content)
	if text == "" {
		lines = append(lines, dimStyle.Render(internal.NoContent))
	}
	for _, l := range wordWrap(text, width-2) {
		if len(lines) >= rows {
			lines = append(lines, dimStyle.Render("…"))
			break
		}
		lines = append(lines, l)
	}
	return columnStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func failureMessage(err error) string {
	switch {
	case err == nil:
		return "Failed to load"
	case errors.Is(err, internal.ErrUnauthorized):
		return "Session expired, log in again"
	case errors.Is(err, internal.ErrNetwork):
		return "Data Provider unreachable"
	default:
		return err.Error()
	}
}

// fixedWidth ensures a string is at most the given width
func fixedWidth(s string, width int) string {
	runes := []rune(s)
	if width > 1 && len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return s
}

func wordWrap(s string, width int) []string {
	var lines []string
	words := strings.Fields(s)
	var line string

	for _, word := range words {
		if line == "" {
			line = word
		} else if len(line)+1+len(word) <= width {
			line += " " + word
		} else {
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Run opens the browser full screen until the user quits. Snapshots reach the
// program through b's change listener.
func Run(ctx context.Context, b *browser.Browser, ex *internal.Extractor) error {
	p := tea.NewProgram(New(ctx, b, ex), tea.WithAltScreen(), tea.WithContext(ctx))
	b.OnChange(func(s browser.Snapshot) {
		p.Send(SnapshotMsg(s))
	})
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
