package render

import (
	"strings"

	"craftybot/internal/pkg/text"
)

const (
	// ProgressLogBudget bounds the log excerpt of start/stop updates.
	ProgressLogBudget = 1000
	// LogViewBudget bounds the log excerpt of the logs command.
	LogViewBudget = 4000

	maxFields     = 25
	maxFieldValue = 1024

	fence      = "```"
	fenceRunes = 2 * len(fence)
)

// Severity classifies a message for display styling.
type Severity int

const (
	SeverityNeutral Severity = iota
	SeverityPositive
	SeverityNegative
)

func (s Severity) String() string {
	switch s {
	case SeverityPositive:
		return "positive"
	case SeverityNegative:
		return "negative"
	default:
		return "neutral"
	}
}

// Field is one titled block of a message.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Message is a platform independent chat message. A message with only Content
// is sent as plain text; anything with a Title is sent as a card.
type Message struct {
	Content     string
	Title       string
	Description string
	Severity    Severity
	Fields      []Field
	Footer      string
}

// IsPlain reports whether the message carries nothing but Content.
func (m Message) IsPlain() bool {
	return m.Title == "" && m.Description == "" && len(m.Fields) == 0 && m.Footer == ""
}

// Text flattens the message, used for logs and plain fallbacks.
func (m Message) Text() string {
	var b strings.Builder
	for _, part := range []string{m.Content, m.Title, m.Description} {
		if part = strings.TrimSpace(part); part != "" {
			b.WriteString(part)
			b.WriteString("\n")
		}
	}
	for _, f := range m.Fields {
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString("\n")
	}
	if footer := strings.TrimSpace(m.Footer); footer != "" {
		b.WriteString(footer)
	}
	return strings.TrimSpace(b.String())
}

func (m *Message) add(name, value string, inline bool) {
	if len(m.Fields) >= maxFields {
		return
	}
	m.Fields = append(m.Fields, Field{
		Name:   valueOr(name, "\u200b"),
		Value:  text.Truncate(valueOr(value, "-"), maxFieldValue-3),
		Inline: inline,
	})
}

// Error is the generic failure card; the error text is shown verbatim.
func Error(err error) Message {
	return Failure("⚠️ Error", err)
}

// Failure is a negative card titled title carrying err verbatim.
func Failure(title string, err error) Message {
	msg := Message{Title: title, Severity: SeverityNegative}
	if err != nil {
		msg.Description = "Error: " + err.Error()
	}
	return msg
}

// LogExcerpt joins lines and keeps the newest text within budget runes.
func LogExcerpt(lines []string, budget int) string {
	joined := strings.Join(lines, "\n")
	return text.TruncateTail(joined, budget)
}

// codeBlock fences s, neutralising fences inside the log text.
func codeBlock(s string) string {
	return fence + strings.ReplaceAll(s, fence, "'''") + fence
}

// fencedExcerpt is a code block of the newest log text whose total length,
// fences included, stays within budget runes.
func fencedExcerpt(lines []string, budget int) string {
	return codeBlock(LogExcerpt(lines, budget-fenceRunes))
}

func lastN(lines []string, n int) []string {
	if n > 0 && len(lines) > n {
		return lines[len(lines)-n:]
	}
	return lines
}

func valueOr(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
