package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-media-shuttle/internal/batch"
	"github.com/litescript/ls-media-shuttle/internal/prompt"
	"github.com/litescript/ls-media-shuttle/internal/version"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("Media Shuttle") + m.styles.Muted.Render("v"+version.Version))
	b.WriteString("\n")
	b.WriteString(m.styles.Breadcrumb.Render(m.breadcrumb()))
	b.WriteString("\n\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(" " + m.filter.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderRows(m.listHeight()))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(" " + m.help.ShortHelpView(m.helpBindings()))

	base := b.String()
	if m.dialog != nil {
		return m.overlayModal(base, m.renderDialog())
	}
	return base
}

func (m Model) breadcrumb() string {
	switch m.mode {
	case viewRoots:
		return m.category.String()
	case viewFolder:
		return m.dir
	case viewBatch:
		return fmt.Sprintf("Batch List (%d)", len(m.rows))
	default:
		return "Main Menu"
	}
}

func (m Model) listHeight() int {
	// header, breadcrumb, gap, status, help
	h := m.height - 7
	if h < 5 {
		h = 5
	}
	return h
}

func (m Model) renderRows(height int) string {
	rows := m.visibleRows()
	if len(rows) == 0 {
		empty := "(empty)"
		switch m.mode {
		case viewBatch:
			empty = "Batch list is empty"
		case viewRoots:
			empty = "No locations configured"
		}
		return "  " + m.styles.Muted.Render(empty) + "\n"
	}

	// keep the cursor on screen
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := start + height
	if end > len(rows) {
		end = len(rows)
	}

	maxLabel := m.width - 20
	if maxLabel < 20 {
		maxLabel = 60
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		r := rows[i]
		label := truncate(r.label, maxLabel)

		style := m.styles.Item
		if r.isDir && m.mode == viewFolder {
			style = m.styles.Dir
			label += "/"
		}

		line := style.Render(label)
		if r.free != "" {
			line += " " + m.styles.Muted.Render(r.free)
		}
		for _, a := range r.badges {
			line += " " + m.badge(a)
		}

		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("> ") + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) badge(a batch.Action) string {
	if a == batch.ActionDelete {
		return m.styles.DeleteBadge.Render("[delete]")
	}
	return m.styles.MoveBadge.Render("[move]")
}

func (m Model) renderStatus() string {
	if m.busy {
		text := m.busyLabel
		if m.progress.Total > 0 {
			text = fmt.Sprintf("%s %d/%d: %s", text, m.progress.Index, m.progress.Total, m.progress.Name)
		}
		return m.styles.StatusBar.Render(m.spinner.View() + " " + text)
	}
	if m.status == "" {
		return ""
	}

	style := m.styles.Info
	switch m.statusSeverity {
	case prompt.SeverityWarning:
		style = m.styles.Warning
	case prompt.SeverityError:
		style = m.styles.Error
	}
	return m.styles.StatusBar.Render(style.Render(m.status))
}

func (m Model) helpBindings() []key.Binding {
	switch m.mode {
	case viewFolder:
		return m.keys.folderHelp()
	case viewBatch:
		return m.keys.batchHelp()
	case viewRoots:
		return []key.Binding{m.keys.Open, m.keys.Back, m.keys.Quit}
	default:
		return m.keys.menuHelp()
	}
}

func (m Model) renderDialog() string {
	d := m.dialog
	var b strings.Builder
	b.WriteString(m.styles.DialogTitle.Render(d.title))
	b.WriteString("\n\n")

	if d.kind == dialogConfirm {
		b.WriteString(d.message)
		b.WriteString("\n\n")
		b.WriteString(m.styles.HelpKey.Render("y") + m.styles.HelpDesc.Render(" yes  ") +
			m.styles.HelpKey.Render("n") + m.styles.HelpDesc.Render(" no"))
		return m.styles.Dialog.Render(b.String())
	}

	for i, opt := range d.options {
		if i == d.cursor {
			b.WriteString(m.styles.OptionOn.Render("> " + opt))
		} else {
			b.WriteString(m.styles.Option.Render("  " + opt))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.HelpKey.Render("enter") + m.styles.HelpDesc.Render(" choose  ") +
		m.styles.HelpKey.Render("esc") + m.styles.HelpDesc.Render(" cancel"))
	return m.styles.Dialog.Render(b.String())
}

// overlayModal draws modal over base, centred horizontally below the header.
func (m Model) overlayModal(base, modal string) string {
	if m.width == 0 || m.height == 0 {
		return base + "\n\n" + modal
	}

	baseLines := strings.Split(base, "\n")
	modalLines := strings.Split(modal, "\n")

	topOffset := 3
	leftOffset := (m.width - lipgloss.Width(modal)) / 2
	if leftOffset < 0 {
		leftOffset = 0
	}

	padding := strings.Repeat(" ", leftOffset)
	for i, line := range modalLines {
		idx := topOffset + i
		for len(baseLines) <= idx {
			baseLines = append(baseLines, "")
		}
		baseLines[idx] = padding + line
	}
	return strings.Join(baseLines, "\n")
}
