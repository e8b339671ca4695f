// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"taskai/internal/service"
)

// FormatTask formats a task line.
// Format: "{N:>4}  {MARK} {TITLE}{SUFFIX}\n" where MARK is "[x]" or "[ ]"
// and SUFFIX carries priority, due date, and tags when present.
func FormatTask(w io.Writer, num int, task service.Task) {
	mark := "[ ]"
	if task.Completed {
		mark = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s%s\n", num, mark, normalizeTitle(task.Title), taskSuffix(task))
}

// FormatMessage formats one transcript entry.
// Format: "{ROLE:>9}  {CONTENT}\n" with multi-line content indented under
// the role column.
func FormatMessage(w io.Writer, msg service.Message) {
	lines := strings.Split(strings.TrimRight(msg.Content, "\n"), "\n")
	fmt.Fprintf(w, "%9s  %s\n", msg.Role, lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintf(w, "%9s  %s\n", "", line)
	}
}

// taskSuffix builds the metadata suffix for a task line.
func taskSuffix(task service.Task) string {
	var parts []string
	if task.Priority != "" && task.Priority != service.PriorityMedium {
		parts = append(parts, "!"+task.Priority)
	}
	if task.DueAt != nil {
		parts = append(parts, "due "+FormatDue(*task.DueAt))
	}
	for _, tag := range task.Tags {
		parts = append(parts, "#"+tag)
	}
	if len(parts) == 0 {
		return ""
	}
	return "  (" + strings.Join(parts, " ") + ")"
}

// FormatDue formats a due date, dropping the time component at midnight.
func FormatDue(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04")
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
