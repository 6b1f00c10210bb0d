// Package dashboard provides the Bubble Tea analysis dashboard.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ree-see/lurk/internal/analysis"
	"github.com/ree-see/lurk/internal/model"
	"github.com/ree-see/lurk/internal/store"
)

const (
	tabOverview = iota
	tabFrequency
	tabTiming
)

const refreshInterval = 2 * time.Second

// Selectable time ranges in days; 0 means all recorded events.
var rangeDays = []int{7, 30, 90, 0}

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

type tickMsg time.Time

// Model implements the Bubble Tea analysis dashboard.
type Model struct {
	store *store.Store
	opts  model.AnalyzeOptions

	report      *analysis.Report
	totalStored int64
	errMsg      string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	freqTable table.Model

	rangeIndex int

	width  int
	height int
}

// NewModel constructs a dashboard model over the given event store.
func NewModel(st *store.Store, opts model.AnalyzeOptions) *Model {
	m := &Model{
		store: st,
		opts:  opts,
		tabs:  []string{"Overview", "Frequency", "Timing"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.freqTable = newFrequencyTable()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tickMsg:
		m.refreshReport()
		return m, tick()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "t":
			m.rangeIndex = (m.rangeIndex + 1) % len(rangeDays)
			m.refreshReport()
			return m, nil
		case "r":
			m.refreshReport()
			return m, nil
		case "g", "home":
			if m.activeTab == tabFrequency {
				m.freqTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabFrequency {
				m.freqTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabFrequency {
				var cmd tea.Cmd
				m.freqTable, cmd = m.freqTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.freqTable.SetWidth(m.width)
	m.freqTable.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabFrequency {
		m.freqTable.Focus()
	} else {
		m.freqTable.Blur()
	}
}

func (m *Model) renderHeader() string {
	tabs := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			tabs = append(tabs, activeNavStyle.Render(tab))
		} else {
			tabs = append(tabs, inactiveNavStyle.Render(tab))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	summary := headerStyle.Render(fmt.Sprintf("Range: %s  Stored events: %d", m.rangeLabel(), m.totalStored))
	return padLines(row, m.width) + "\n" + padLines(summary, m.width)
}

func (m *Model) rangeLabel() string {
	days := rangeDays[m.rangeIndex]
	if days == 0 {
		return "all"
	}
	return fmt.Sprintf("%dd", days)
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down  Range: t  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.activeTab == tabFrequency {
		if m.report == nil || m.report.Frequency.TotalPresses == 0 {
			return "No key presses recorded."
		}
		return tableMutedStyle.Render(m.freqTable.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) refreshReport() {
	ctx := context.Background()
	days := rangeDays[m.rangeIndex]

	var events []model.KeyEvent
	var err error
	if days == 0 {
		events, err = m.store.ListEvents(ctx)
	} else {
		events, err = m.store.ListEventsSince(ctx, days)
	}
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	total, err := m.store.TotalCount(ctx, 0)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	report, err := analysis.Analyze(events, m.opts)
	if err != nil {
		m.errMsg = err.Error()
		return
	}

	m.errMsg = ""
	m.totalStored = total
	m.report = report
	m.freqTable.SetRows(frequencyRows(report))
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.report == nil {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabTiming].SetContent(renderTiming(m.report))
}

func renderOverview(report *analysis.Report, width int) string {
	if report.TotalEvents == 0 {
		return "No events recorded."
	}
	interKey := "n/a"
	if report.Timing.InterKey != nil {
		interKey = fmt.Sprintf("%.0fms", report.Timing.InterKey.MeanMs)
	}
	cards := []string{
		metricCard("Events", fmt.Sprintf("%d", report.TotalEvents)),
		metricCard("Segments", fmt.Sprintf("%d", report.SegmentCount)),
		metricCard("Presses", fmt.Sprintf("%d", report.Frequency.TotalPresses)),
		metricCard("Avg Interval", interKey),
	}
	var grid string
	if width < 80 {
		grid = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[2], cards[3])
		grid = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	var b strings.Builder
	b.WriteString(grid)
	b.WriteString("\n\n")
	b.WriteString(cardTitleStyle.Render("Top Bigrams"))
	b.WriteString("\n")
	bigrams := report.Frequency.TopBigrams(5)
	if len(bigrams) == 0 {
		b.WriteString("no data")
	}
	for _, bg := range bigrams {
		b.WriteString(fmt.Sprintf("%-12s %5d  %5.2f%%\n", bg.Display, bg.Count, bg.Percentage))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTiming(report *analysis.Report) string {
	var b strings.Builder
	b.WriteString(cardTitleStyle.Render("Inter-Key Timing"))
	b.WriteString("\n")
	if report.Timing.InterKey == nil {
		b.WriteString("no data\n")
	} else {
		s := report.Timing.InterKey
		b.WriteString(fmt.Sprintf("samples=%d  mean=%.1fms  median=%dms  p90=%dms  p95=%dms  p99=%dms\n",
			s.Count, s.MeanMs, s.MedianMs, s.P90Ms, s.P95Ms, s.P99Ms))
	}

	b.WriteString("\n")
	b.WriteString(cardTitleStyle.Render("Hold Durations"))
	b.WriteString("\n")
	holds := report.Timing.TopHolds(10)
	if len(holds) == 0 {
		b.WriteString("no data\n")
	}
	for _, hold := range holds {
		b.WriteString(fmt.Sprintf("%-15s mean=%.1fms  median=%dms  p95=%dms  (n=%d)\n",
			hold.KeyName, hold.Summary.MeanMs, hold.Summary.MedianMs, hold.Summary.P95Ms, hold.Summary.Count))
	}

	pairs := report.Timing.TopKeyPairs(10)
	if len(pairs) > 0 {
		b.WriteString("\n")
		b.WriteString(cardTitleStyle.Render("Key-Pair Timings"))
		b.WriteString("\n")
		for _, pair := range pairs {
			b.WriteString(fmt.Sprintf("%-12s mean=%.1fms  median=%dms  (n=%d)\n",
				pair.Display, pair.MeanMs, pair.MedianMs, pair.Count))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func newFrequencyTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Key", Width: 16},
		{Title: "Count", Width: 8},
		{Title: "Share", Width: 8},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(nil),
		table.WithHeight(1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	t.SetStyles(styles)
	return t
}

func frequencyRows(report *analysis.Report) []table.Row {
	keys := report.Frequency.Keys
	rows := make([]table.Row, 0, len(keys))
	for i, key := range keys {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d.", i+1),
			key.KeyName,
			fmt.Sprintf("%d", key.Count),
			fmt.Sprintf("%.2f%%", key.Percentage),
		})
	}
	return rows
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
