package render

import "fmt"

const NoLogsText = "No logs available for this server."

// Logs renders the logs command for the newest requested lines.
func Logs(target string, lines []string, requested int) Message {
	msg := Message{
		Title:    fmt.Sprintf("📜 Logs for Server %s", target),
		Severity: SeverityNeutral,
	}
	if len(lines) == 0 {
		msg.Description = NoLogsText
		return msg
	}
	shown := lastN(lines, requested)
	msg.Description = fencedExcerpt(shown, LogViewBudget)
	msg.Footer = fmt.Sprintf("Showing last %d lines", len(shown))
	return msg
}

// LogsFailed renders a failed log fetch.
func LogsFailed(target string, err error) Message {
	msg := Failure("⚠️ Error Retrieving Logs", err)
	msg.Footer = fmt.Sprintf("Server %s", target)
	return msg
}
