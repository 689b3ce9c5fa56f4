// Package tui renders the interactive board and translates key and mouse
// input into drag gestures against the board controller.
package tui

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hylla/flytta/internal/board"
	"github.com/hylla/flytta/internal/domain"
)

// cardRow is one rendered card position inside a column, carrying the card's
// true group so gestures can start from it.
type cardRow struct {
	card         domain.Card
	lane         string
	indexInGroup int
}

// Model drives the interactive board view. It reads the store directly and
// routes gestures through the controller; committed moves land in the store
// before the next render.
type Model struct {
	store      *board.Store
	controller *board.Controller

	ready  bool
	width  int
	height int

	status string

	help help.Model
	keys keyMap

	gates           board.Options
	showWIPWarnings bool
	renderer        markdownRenderer
	showCardInfo    bool

	selectedColumn int
	selectedRow    int

	// Active drag target. targetLane indexes the effective lane list, -1
	// meaning the unlaned group.
	targetColumn int
	targetLane   int
	targetIndex  int
}

// NewModel constructs the board view over one store and controller pair.
func NewModel(store *board.Store, controller *board.Controller, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		store:           store,
		controller:      controller,
		status:          "ready",
		help:            h,
		keys:            newKeyMap(),
		gates:           board.DefaultOptions(),
		showWIPWarnings: true,
		targetLane:      -1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if m.showCardInfo {
			return m.handleCardInfoKey(msg)
		}
		if m.controller.Phase() != board.PhaseIdle {
			return m.handleDragKey(msg)
		}
		return m.handleIdleKey(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	default:
		return m, nil
	}
}

// handleCardInfoKey closes the card detail overlay.
func (m Model) handleCardInfoKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.cancel), key.Matches(msg, m.keys.cardInfo):
		m.showCardInfo = false
	}
	return m, nil
}

// handleIdleKey moves the cursor and starts gestures.
func (m Model) handleIdleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	snap := m.store.Snapshot()
	columns := snap.SortedColumns()
	m.clampSelection(snap, columns)

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.cancel):
		m.help.ShowAll = false

	case key.Matches(msg, m.keys.moveLeft):
		if m.selectedColumn > 0 {
			m.selectedColumn--
			m.selectedRow = 0
		}

	case key.Matches(msg, m.keys.moveRight):
		if m.selectedColumn < len(columns)-1 {
			m.selectedColumn++
			m.selectedRow = 0
		}

	case key.Matches(msg, m.keys.moveDown):
		rows := m.columnRows(snap, columns)
		if m.selectedRow < len(rows)-1 {
			m.selectedRow++
		}

	case key.Matches(msg, m.keys.moveUp):
		if m.selectedRow > 0 {
			m.selectedRow--
		}

	case key.Matches(msg, m.keys.cardInfo):
		if _, ok := m.selectedCard(snap, columns); ok {
			m.showCardInfo = true
		}

	case key.Matches(msg, m.keys.grabCard):
		return m.beginCardDrag(snap, columns)

	case key.Matches(msg, m.keys.grabColumn):
		return m.beginColumnDrag(columns)
	}
	return m, nil
}

// beginCardDrag grabs the card under the cursor and hovers its current slot,
// so an immediate drop is a successful no-op.
func (m Model) beginCardDrag(snap board.Snapshot, columns []domain.Column) (tea.Model, tea.Cmd) {
	row, ok := m.selectedCardRow(snap, columns)
	if !ok {
		m.status = "nothing to grab"
		return m, nil
	}
	if !m.controller.BeginDrag(row.card.ID, domain.SubjectCard) {
		m.status = "cannot grab " + row.card.Title
		return m, nil
	}
	m.targetColumn = m.selectedColumn
	m.targetLane = m.laneIndex(snap, row.lane)
	m.targetIndex = row.indexInGroup
	m.hoverCard(snap, columns)
	m.status = "dragging " + row.card.Title
	return m, nil
}

// beginColumnDrag grabs the column under the cursor.
func (m Model) beginColumnDrag(columns []domain.Column) (tea.Model, tea.Cmd) {
	if len(columns) == 0 {
		return m, nil
	}
	column := columns[m.selectedColumn]
	if !m.controller.BeginDrag(column.ID, domain.SubjectColumn) {
		m.status = "cannot grab column " + column.Name
		return m, nil
	}
	m.targetIndex = m.selectedColumn
	m.controller.HoverColumn(m.targetIndex)
	m.status = "dragging column " + column.Name
	return m, nil
}

// handleDragKey steers the active gesture.
func (m Model) handleDragKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	snap := m.store.Snapshot()
	columns := snap.SortedColumns()
	_, kind, _ := m.controller.Subject()

	switch {
	case key.Matches(msg, m.keys.quit):
		m.controller.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.cancel):
		m.controller.Cancel()
		m.status = "drag cancelled"

	case key.Matches(msg, m.keys.drop):
		event, committed := m.controller.Drop()
		if committed {
			m.status = fmt.Sprintf("moved %s to %s[%d]", event.SubjectID, m.describeTarget(event), event.ToIndex)
			m.followMove(event)
		} else {
			m.status = "drop had no effect"
		}

	case key.Matches(msg, m.keys.moveLeft):
		if kind == domain.SubjectColumn {
			m.targetIndex = clamp(m.targetIndex-1, 0, len(columns)-1)
			m.controller.HoverColumn(m.targetIndex)
		} else if m.targetColumn > 0 {
			m.targetColumn--
			m.targetIndex = 0
			m.hoverCard(snap, columns)
		}

	case key.Matches(msg, m.keys.moveRight):
		if kind == domain.SubjectColumn {
			m.targetIndex = clamp(m.targetIndex+1, 0, len(columns)-1)
			m.controller.HoverColumn(m.targetIndex)
		} else if m.targetColumn < len(columns)-1 {
			m.targetColumn++
			m.targetIndex = 0
			m.hoverCard(snap, columns)
		}

	case key.Matches(msg, m.keys.moveDown):
		if kind == domain.SubjectCard {
			m.targetIndex = clamp(m.targetIndex+1, 0, m.targetGroupSize(snap, columns))
			m.hoverCard(snap, columns)
		}

	case key.Matches(msg, m.keys.moveUp):
		if kind == domain.SubjectCard {
			m.targetIndex = clamp(m.targetIndex-1, 0, m.targetGroupSize(snap, columns))
			m.hoverCard(snap, columns)
		}

	case key.Matches(msg, m.keys.laneUp):
		if kind == domain.SubjectCard && m.lanesEnabled(snap) {
			m.targetLane = clamp(m.targetLane-1, -1, len(snap.EffectiveSwimlanes())-1)
			m.targetIndex = 0
			m.hoverCard(snap, columns)
		}

	case key.Matches(msg, m.keys.laneDown):
		if kind == domain.SubjectCard && m.lanesEnabled(snap) {
			m.targetLane = clamp(m.targetLane+1, -1, len(snap.EffectiveSwimlanes())-1)
			m.targetIndex = 0
			m.hoverCard(snap, columns)
		}
	}
	return m, nil
}

// hoverCard reports the current key-driven target to the controller.
func (m *Model) hoverCard(snap board.Snapshot, columns []domain.Column) {
	if len(columns) == 0 {
		return
	}
	m.targetColumn = clamp(m.targetColumn, 0, len(columns)-1)
	group := domain.GroupKey{
		ColumnID:   columns[m.targetColumn].ID,
		SwimlaneID: m.laneID(snap),
	}
	if !m.controller.HoverCard(group, m.targetIndex) {
		m.status = columns[m.targetColumn].Name + " does not accept cards"
	}
}

// followMove keeps the cursor on the moved subject after a commit.
func (m *Model) followMove(event domain.MoveEvent) {
	snap := m.store.Snapshot()
	columns := snap.SortedColumns()
	switch event.Kind {
	case domain.SubjectColumn:
		m.selectedColumn = clamp(event.ToIndex, 0, len(columns)-1)
		m.selectedRow = 0
	case domain.SubjectCard:
		for idx, column := range columns {
			if column.ID != event.To.ColumnID {
				continue
			}
			m.selectedColumn = idx
			rows := m.rowsForColumn(snap, column.ID)
			for rowIdx, row := range rows {
				if row.card.ID == event.SubjectID {
					m.selectedRow = rowIdx
					return
				}
			}
		}
	}
}

// handleMouseWheel scrolls the cursor, or the drop index mid-gesture.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	snap := m.store.Snapshot()
	columns := snap.SortedColumns()

	if _, kind, active := m.controller.Subject(); active && kind == domain.SubjectCard {
		switch msg.Button {
		case tea.MouseWheelUp:
			m.targetIndex = clamp(m.targetIndex-1, 0, m.targetGroupSize(snap, columns))
		case tea.MouseWheelDown:
			m.targetIndex = clamp(m.targetIndex+1, 0, m.targetGroupSize(snap, columns))
		}
		m.hoverCard(snap, columns)
		return m, nil
	}

	rows := m.columnRows(snap, columns)
	switch msg.Button {
	case tea.MouseWheelUp:
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case tea.MouseWheelDown:
		if m.selectedRow < len(rows)-1 {
			m.selectedRow++
		}
	}
	return m, nil
}

// handleMouseClick selects the clicked column, or retargets an active card
// gesture at it.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	snap := m.store.Snapshot()
	columns := snap.SortedColumns()
	if len(columns) == 0 {
		return m, nil
	}

	// Border + padding approximation for mouse hit testing.
	colWidth := m.columnWidthFor(m.width) + 7
	clicked := clamp(msg.X/colWidth, 0, len(columns)-1)

	if _, kind, active := m.controller.Subject(); active && kind == domain.SubjectCard {
		m.targetColumn = clicked
		m.targetIndex = 0
		m.hoverCard(snap, columns)
		return m, nil
	}

	m.selectedColumn = clicked
	rows := m.rowsForColumn(snap, columns[clicked].ID)
	relativeY := msg.Y - boardTop
	if relativeY >= 0 && len(rows) > 0 {
		m.selectedRow = clamp(relativeY/2, 0, len(rows)-1)
	}
	return m, nil
}

// boardTop is the 0-based row where column content begins: header, spacer,
// column border, column padding.
const boardTop = 4

// View implements tea.Model.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.MouseMode = tea.MouseModeCellMotion
		v.AltScreen = true
		return v
	}

	snap := m.store.Snapshot()
	columns := snap.SortedColumns()
	m.clampSelection(snap, columns)

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)
	warningStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))

	header := titleStyle.Render("flytta")
	header += statusStyle.Render("  [" + string(m.controller.Phase()) + "]")
	if subjectID, kind, active := m.controller.Subject(); active {
		header += statusStyle.Render(fmt.Sprintf("  holding %s %s", kind, subjectID))
	}
	if m.controller.Rejecting() {
		header += warningStyle.Render("  invalid target")
	}

	body := m.renderColumns(snap, columns, accent, muted, dim, warningStyle)

	sections := []string{header, "", body}
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	if m.height > 0 {
		helpHeight := lipgloss.Height(helpLine)
		content = fitLines(content, max(0, m.height-helpHeight))
	}
	fullContent := content + "\n" + helpLine

	if m.showCardInfo {
		if card, ok := m.selectedCard(snap, columns); ok {
			overlay := m.renderCardInfo(card, accent, muted)
			overlayHeight := lipgloss.Height(fullContent)
			if m.height > 0 {
				overlayHeight = m.height
			}
			fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
		}
	}

	view := tea.NewView(fullContent)
	view.MouseMode = tea.MouseModeCellMotion
	view.AltScreen = true
	return view
}

// renderColumns renders the board body.
func (m Model) renderColumns(snap board.Snapshot, columns []domain.Column, accent, muted, dim color.Color, warningStyle lipgloss.Style) string {
	if len(columns) == 0 {
		return lipgloss.NewStyle().Foreground(muted).Render("board has no columns")
	}

	colWidth := m.columnWidthFor(m.width)
	baseColStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(1, 2).
		MarginRight(1).
		Width(colWidth)
	selColStyle := baseColStyle.BorderForeground(accent)
	rejectColStyle := baseColStyle.BorderForeground(lipgloss.Color("203"))
	colTitle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	selectedCardStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	draggedCardStyle := lipgloss.NewStyle().Foreground(muted).Italic(true)
	lockedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	laneStyle := lipgloss.NewStyle().Bold(true).Foreground(muted)
	markerStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)

	subjectID, subjectKind, dragging := m.controller.Subject()
	candidateGroup, candidateIndex, hasCandidate := m.controller.Candidate()

	columnViews := make([]string, 0, len(columns))
	for colIdx, column := range columns {
		cardCount := len(snap.CardsInColumn(column.ID))
		colHeader := fmt.Sprintf("%s (%d)", column.Name, cardCount)
		if column.WIPLimit > 0 {
			colHeader = fmt.Sprintf("%s (%d/%d)", column.Name, cardCount, column.WIPLimit)
		}
		lines := []string{colTitle.Render(truncate(colHeader, colWidth))}
		if !column.AcceptsCards {
			lines = append(lines, emptyStyle.Render("closed to cards"))
		}
		if m.showWIPWarnings && snap.IsOverLimit(column.ID) {
			lines = append(lines, warningStyle.Render(fmt.Sprintf("WIP limit exceeded: %d/%d", cardCount, column.WIPLimit)))
		}
		lines = append(lines, "")

		rows := m.rowsForColumn(snap, column.ID)
		showLanes := m.lanesEnabled(snap)
		prevLane := "\x00"
		for rowIdx, row := range rows {
			if showLanes && row.lane != prevLane {
				if rowIdx > 0 {
					lines = append(lines, "")
				}
				lines = append(lines, laneStyle.Render(truncate(m.laneName(snap, row.lane), colWidth)))
				prevLane = row.lane
			}
			targetGroup := domain.GroupKey{ColumnID: column.ID, SwimlaneID: row.lane}
			if dragging && subjectKind == domain.SubjectCard && hasCandidate &&
				candidateGroup == targetGroup && candidateIndex == row.indexInGroup {
				lines = append(lines, markerStyle.Render("▸ drop here"))
			}

			label := truncate(row.card.Title, max(1, colWidth-4))
			switch {
			case dragging && row.card.ID == subjectID:
				lines = append(lines, draggedCardStyle.Render("◇ "+label))
			case row.card.Locked:
				lines = append(lines, lockedStyle.Render("🔒 "+label))
			case !dragging && colIdx == m.selectedColumn && rowIdx == m.selectedRow:
				lines = append(lines, selectedCardStyle.Render("│ "+label))
			default:
				lines = append(lines, "  "+label)
			}
		}
		// The insertion point can sit past the last card of a group.
		if dragging && subjectKind == domain.SubjectCard && hasCandidate &&
			candidateGroup.ColumnID == column.ID {
			groupSize := len(snap.CardsInGroup(candidateGroup))
			if candidateIndex >= groupSize {
				lines = append(lines, markerStyle.Render("▸ drop here"))
			}
		}
		if len(rows) == 0 {
			lines = append(lines, emptyStyle.Render("(empty)"))
		}

		style := baseColStyle
		switch {
		case dragging && subjectKind == domain.SubjectColumn && subjectID == column.ID:
			style = selColStyle
		case dragging && subjectKind == domain.SubjectCard && colIdx == m.targetColumn && m.controller.Rejecting():
			style = rejectColStyle
		case dragging && hasCandidate && candidateGroup.ColumnID == column.ID:
			style = selColStyle
		case dragging && subjectKind == domain.SubjectColumn && hasCandidate && candidateIndex == colIdx:
			style = selColStyle
		case !dragging && colIdx == m.selectedColumn:
			style = selColStyle
		}
		columnViews = append(columnViews, style.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columnViews...)
}

// renderCardInfo renders the card detail overlay.
func (m Model) renderCardInfo(card domain.Card, accent, muted color.Color) string {
	width := clamp(m.width-16, 32, 80)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	metaStyle := lipgloss.NewStyle().Foreground(muted)

	sections := []string{titleStyle.Render(card.Title)}
	meta := card.ColumnID
	if card.SwimlaneID != "" {
		meta += " / " + card.SwimlaneID
	}
	meta += fmt.Sprintf("  position %d", card.Order)
	if card.Locked {
		meta += "  locked"
	}
	sections = append(sections, metaStyle.Render(meta))
	if len(card.Labels) > 0 {
		sections = append(sections, metaStyle.Render("#"+strings.Join(card.Labels, " #")))
	}
	if body := m.renderer.render(card.Description, width-4); body != "" {
		sections = append(sections, "", body)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(width).
		Render(strings.Join(sections, "\n"))
}

// rowsForColumn flattens one column into display rows: the unlaned group
// first, then each effective lane in display order.
func (m Model) rowsForColumn(snap board.Snapshot, columnID string) []cardRow {
	rows := []cardRow{}
	appendGroup := func(lane string) {
		group := domain.GroupKey{ColumnID: columnID, SwimlaneID: lane}
		for idx, card := range snap.CardsInGroup(group) {
			rows = append(rows, cardRow{card: card, lane: lane, indexInGroup: idx})
		}
	}
	appendGroup("")
	for _, lane := range snap.EffectiveSwimlanes() {
		appendGroup(lane.ID)
	}
	return rows
}

// columnRows returns the display rows of the cursor's column.
func (m Model) columnRows(snap board.Snapshot, columns []domain.Column) []cardRow {
	if len(columns) == 0 {
		return nil
	}
	return m.rowsForColumn(snap, columns[clamp(m.selectedColumn, 0, len(columns)-1)].ID)
}

// selectedCardRow returns the row under the cursor.
func (m Model) selectedCardRow(snap board.Snapshot, columns []domain.Column) (cardRow, bool) {
	rows := m.columnRows(snap, columns)
	if len(rows) == 0 {
		return cardRow{}, false
	}
	return rows[clamp(m.selectedRow, 0, len(rows)-1)], true
}

// selectedCard returns the card under the cursor.
func (m Model) selectedCard(snap board.Snapshot, columns []domain.Column) (domain.Card, bool) {
	row, ok := m.selectedCardRow(snap, columns)
	if !ok {
		return domain.Card{}, false
	}
	return row.card, true
}

// clampSelection keeps the cursor inside the current board shape.
func (m *Model) clampSelection(snap board.Snapshot, columns []domain.Column) {
	if len(columns) == 0 {
		m.selectedColumn = 0
		m.selectedRow = 0
		return
	}
	m.selectedColumn = clamp(m.selectedColumn, 0, len(columns)-1)
	rows := m.rowsForColumn(snap, columns[m.selectedColumn].ID)
	m.selectedRow = clamp(m.selectedRow, 0, max(0, len(rows)-1))
}

// lanesEnabled reports whether lane sections are shown and targetable.
func (m Model) lanesEnabled(snap board.Snapshot) bool {
	return m.gates.EnableSwimlanes && len(snap.EffectiveSwimlanes()) > 0
}

// laneID resolves the active target lane id.
func (m Model) laneID(snap board.Snapshot) string {
	if !m.lanesEnabled(snap) || m.targetLane < 0 {
		return ""
	}
	lanes := snap.EffectiveSwimlanes()
	return lanes[clamp(m.targetLane, 0, len(lanes)-1)].ID
}

// laneIndex finds one lane's index in the effective lane list, -1 for the
// unlaned group.
func (m Model) laneIndex(snap board.Snapshot, lane string) int {
	if lane == "" {
		return -1
	}
	for idx, candidate := range snap.EffectiveSwimlanes() {
		if candidate.ID == lane {
			return idx
		}
	}
	return -1
}

// laneName renders one lane section header.
func (m Model) laneName(snap board.Snapshot, lane string) string {
	if lane == "" {
		return "~ general"
	}
	if found, ok := snap.FindSwimlane(lane); ok {
		return "~ " + found.Name
	}
	return "~ " + lane
}

// targetGroupSize returns the insertion bound of the active target group.
func (m Model) targetGroupSize(snap board.Snapshot, columns []domain.Column) int {
	if len(columns) == 0 {
		return 0
	}
	group := domain.GroupKey{
		ColumnID:   columns[clamp(m.targetColumn, 0, len(columns)-1)].ID,
		SwimlaneID: m.laneID(snap),
	}
	return len(snap.CardsInGroup(group))
}

// describeTarget renders a move destination for the status line.
func (m Model) describeTarget(event domain.MoveEvent) string {
	if event.Kind == domain.SubjectColumn {
		return "column order"
	}
	return event.To.String()
}

// columnWidthFor splits the available width across columns.
func (m Model) columnWidthFor(boardWidth int) int {
	snap := m.store.Snapshot()
	count := len(snap.Columns)
	if count == 0 {
		return 24
	}
	w := 28
	if boardWidth > 0 {
		// Per-column overhead: left/right border (2), horizontal padding (4), margin-right (1)
		const colOverhead = 7
		usable := boardWidth - count*colOverhead
		candidate := usable / count
		if candidate > 0 {
			w = candidate
		}
	}
	return clamp(w, 24, 42)
}

func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines pads or trims content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay on top of base using a layered canvas.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(rs[:maxLen])
	}
	return string(rs[:maxLen-1]) + "…"
}
