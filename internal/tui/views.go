package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskai/internal/output"
	"taskai/internal/service"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	doneStyle      = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle      = lipgloss.NewStyle().Faint(true)
)

// View renders the active screen.
func (a *App) View() string {
	var b strings.Builder

	switch a.active {
	case screenTasks:
		a.renderTasks(&b)
	case screenChat:
		a.renderChat(&b)
	}

	if a.status != "" {
		b.WriteString("\n" + errorStyle.Render(a.status) + "\n")
	}
	b.WriteString(helpStyle.Render(a.helpLine()))
	return b.String()
}

func (a *App) renderTasks(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Tasks") + "\n\n")

	if len(a.tasks) == 0 {
		b.WriteString(pendingStyle.Render("no tasks - press a to add one") + "\n")
	}

	for i, t := range a.tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, t.Title)
		if t.DueAt != nil {
			line += pendingStyle.Render(" due " + output.FormatDue(*t.DueAt))
		}
		if t.Priority == service.PriorityHigh {
			line += " !"
		}

		switch {
		case i == a.cursor:
			line = selectedStyle.Render("> " + line)
		case t.Completed:
			line = "  " + doneStyle.Render(line)
		default:
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	if a.mode == inputNewTask {
		b.WriteString("\n" + a.input.View() + "\n")
	}
}

func (a *App) renderChat(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Assistant") + "\n\n")

	// Keep the tail of the transcript on screen.
	msgs := a.msgs
	if max := a.height - 8; max > 0 && len(msgs) > max {
		msgs = msgs[len(msgs)-max:]
	}

	for _, m := range msgs {
		label := assistantStyle.Render("assistant")
		if m.Role == service.RoleUser {
			label = userStyle.Render("you")
		}
		content := m.Content
		if service.IsTempID(m.ID) {
			content = pendingStyle.Render(content)
		}
		b.WriteString(label + "  " + content + "\n")
	}

	b.WriteString("\n")
	if a.sending {
		b.WriteString(a.spin.View() + " waiting for reply\n")
	} else {
		b.WriteString(a.chat.View() + "\n")
	}
}

func (a *App) helpLine() string {
	if a.active == screenChat {
		return "\ntab tasks • enter send • ctrl+c quit"
	}
	return "\ntab chat • space toggle • a add • d delete • r refresh • q quit"
}
