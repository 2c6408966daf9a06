package render

import (
	"fmt"
	"strings"
	"time"
)

// CommandInfo describes one registered slash command.
type CommandInfo struct {
	Name        string
	Description string
}

func SyncProgress() Message {
	return Message{
		Title:       "⏳ Syncing Commands",
		Description: "Syncing slash commands with Discord. This may take a moment...",
		Severity:    SeverityNeutral,
	}
}

// SyncSucceeded lists the registered commands. at is the sync time; it is
// passed in so the output only depends on the arguments.
func SyncSucceeded(commands []CommandInfo, at time.Time) Message {
	msg := Message{
		Title:       "✅ Commands Synced Successfully",
		Description: fmt.Sprintf("Successfully synced %d commands!", len(commands)),
		Severity:    SeverityPositive,
		Footer:      fmt.Sprintf("Synced at %s UTC", at.UTC().Format("2006-01-02 15:04:05")),
	}
	if len(commands) == 0 {
		msg.add("Note", "No commands were synced. This might happen if there were no changes since the last sync.", false)
		return msg
	}
	lines := make([]string, 0, len(commands))
	for _, cmd := range commands {
		lines = append(lines, fmt.Sprintf("• `/%s` - %s", cmd.Name, cmd.Description))
	}
	msg.add("Synced Commands", strings.Join(lines, "\n"), false)
	return msg
}

func SyncFailed(err error) Message {
	msg := Message{
		Title:    "❌ Sync Failed",
		Severity: SeverityNegative,
	}
	if err != nil {
		msg.Description = fmt.Sprintf("An error occurred while syncing commands: %s", codeBlock(err.Error()))
	}
	msg.add("Troubleshooting", strings.Join([]string{
		"• Check if the bot has the necessary permissions",
		"• Ensure the bot is properly connected to Discord",
		"• Verify the guild id in the configuration, if one is set",
		"• Try restarting the bot before syncing again",
	}, "\n"), false)
	return msg
}

func PermissionDenied() Message {
	return Message{
		Title:       "❌ Permission Denied",
		Description: "You need administrator permissions to use this command.",
		Severity:    SeverityNegative,
	}
}
