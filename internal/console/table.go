package console

import (
	"fmt"
	"io"
	"strings"

	"call-scheduler/internal/calls"
)

var rule = strings.Repeat("=", 104)

// PrintTable writes calls as a fixed-width table.
func PrintTable(w io.Writer, rows []calls.Call) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-4s %-15s %-16s %-12s %-10s %-8s %-10s %-20s\n",
		"ID", "Contact", "Phone", "Scheduled", "Type", "Priority", "Status", "Info")
	fmt.Fprintln(w, rule)
	for _, c := range rows {
		fmt.Fprintf(w, "%-4d %-15s %-16s %-12s %-10s %-8d %-10s %-20s\n",
			c.ID,
			truncate(c.ContactName, 15),
			truncate(c.PhoneNumber, 16),
			c.ScheduledTime.Local().Format("01/02 15:04"),
			c.Kind.Label(),
			c.Priority,
			statusColor(c.Status),
			truncate(c.Info(), 20))
	}
	fmt.Fprintln(w, rule)
}

func statusColor(s calls.Status) string {
	// Pad before colouring so escape codes do not break alignment.
	padded := fmt.Sprintf("%-10s", s)
	switch s {
	case calls.StatusCompleted:
		return success.Sprint(padded)
	case calls.StatusMissed:
		return failure.Sprint(padded)
	default:
		return warning.Sprint(padded)
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
