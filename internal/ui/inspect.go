package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"loupe/internal/analysis"
	"loupe/internal/sem"
)

// pointInfo is the result of the point queries at one cursor position.
type pointInfo struct {
	offset    uint32
	typeLabel string
	refLabel  string
	scope     string
	position  string
	prefix    string
	err       error
}

type infoMsg pointInfo

type inspectModel struct {
	path    string
	session *analysis.Session
	lines   []string

	line, col int
	width     int

	spinner spinner.Model
	waiting bool
	info    pointInfo
}

// NewInspectModel returns a Bubble Tea model that walks a cursor over the
// file and shows the point-query answers at every position.
func NewInspectModel(path string, content []byte, session *analysis.Session) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	return &inspectModel{
		path:    path,
		session: session,
		lines:   strings.Split(strings.TrimRight(string(content), "\n"), "\n"),
		spinner: sp,
		width:   80,
	}
}

func (m *inspectModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.query())
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveLine(-1)
		case "down", "j":
			m.moveLine(1)
		case "left", "h":
			m.moveCol(-1)
		case "right", "l":
			m.moveCol(1)
		case "home", "0":
			m.col = 0
		case "end", "$":
			m.col = m.lineLen()
		default:
			return m, nil
		}
		m.waiting = true
		return m, m.query()
	case infoMsg:
		info := pointInfo(msg)
		// Устаревший ответ после нового перемещения игнорируем.
		if info.offset == m.offset() {
			m.info = info
			m.waiting = false
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	}
	return m, nil
}

func (m *inspectModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	cursorStyle := lipgloss.NewStyle().Reverse(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	header := m.path
	if m.waiting {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	for i, line := range m.lines {
		rendered := truncate(line, m.width-6)
		if i == m.line {
			col := m.col
			if col > len(rendered) {
				col = len(rendered)
			}
			under := " "
			if col < len(rendered) {
				under = rendered[col : col+1]
			}
			tail := ""
			if col+1 <= len(rendered) {
				tail = rendered[min(col+1, len(rendered)):]
			}
			rendered = rendered[:col] + cursorStyle.Render(under) + tail
			b.WriteString(fmt.Sprintf("> %3d %s\n", i+1, rendered))
			continue
		}
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %3d %s", i+1, rendered)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderInfo())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("arrows/hjkl move · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *inspectModel) renderInfo() string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	missStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	if m.info.err != nil {
		return errStyle.Render(fmt.Sprintf("analysis error: %v", m.info.err))
	}

	row := func(label, value string) string {
		if value == "" {
			return fmt.Sprintf("  %s %s", labelStyle.Render(fmt.Sprintf("%9s", label)), missStyle.Render("—"))
		}
		return fmt.Sprintf("  %s %s", labelStyle.Render(fmt.Sprintf("%9s", label)), value)
	}

	return strings.Join([]string{
		row("position", m.info.position),
		row("type", m.info.typeLabel),
		row("reference", m.info.refLabel),
		row("scope", m.info.scope),
		row("prefix", fmt.Sprintf("%q", m.info.prefix)),
	}, "\n")
}

// query runs the point queries off the update loop; the session serializes
// them internally.
func (m *inspectModel) query() tea.Cmd {
	offset := m.offset()
	session := m.session
	return func() tea.Msg {
		ctx := context.Background()
		info := pointInfo{offset: offset}

		if pos, err := session.DescribePosition(ctx, offset); err == nil {
			info.position = pos
		}
		if prefix, err := session.LineBefore(ctx, offset); err == nil {
			info.prefix = prefix
		}

		ty, err := session.TypeAt(ctx, offset)
		switch {
		case err == nil:
			info.typeLabel = string(ty)
		case !analysis.IsNotFound(err):
			info.err = err
			return infoMsg(info)
		}

		ref, err := session.ReferenceAt(ctx, offset)
		switch {
		case err == nil:
			info.refLabel = formatReference(ref)
		case !analysis.IsNotFound(err):
			info.err = err
			return infoMsg(info)
		}

		if scope, err := session.ScopeAt(ctx, offset); err == nil {
			info.scope = fmt.Sprintf("scope #%d", scope)
		} else if !analysis.IsNotFound(err) {
			info.err = err
		}
		return infoMsg(info)
	}
}

func formatReference(ref analysis.Reference) string {
	if ref.Symbol == nil {
		return ""
	}
	out := fmt.Sprintf("%s %s", ref.Symbol.Kind, ref.Symbol.Name)
	if ref.Symbol.Type != sem.NoType {
		out += fmt.Sprintf(": %s", ref.Symbol.Type)
	}
	if ref.Symbol.Path != "" {
		out += fmt.Sprintf(" (%s)", ref.Symbol.Path)
	}
	return out
}

func (m *inspectModel) offset() uint32 {
	off := 0
	for i := 0; i < m.line && i < len(m.lines); i++ {
		off += len(m.lines[i]) + 1
	}
	col := m.col
	if col > m.lineLen() {
		col = m.lineLen()
	}
	return uint32(off + col)
}

func (m *inspectModel) lineLen() int {
	if m.line < 0 || m.line >= len(m.lines) {
		return 0
	}
	return len(m.lines[m.line])
}

func (m *inspectModel) moveLine(delta int) {
	m.line += delta
	if m.line < 0 {
		m.line = 0
	}
	if m.line >= len(m.lines) {
		m.line = len(m.lines) - 1
	}
	if m.col > m.lineLen() {
		m.col = m.lineLen()
	}
}

func (m *inspectModel) moveCol(delta int) {
	m.col += delta
	if m.col < 0 {
		m.col = 0
	}
	if m.col > m.lineLen() {
		m.col = m.lineLen()
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
