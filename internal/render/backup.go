package render

import (
	"errors"
	"fmt"
	"strings"

	"craftybot/internal/gateway/crafty"
)

const backupWarningText = "**IMPORTANT:** The backup feature has shown reliability issues in testing. " +
	"While the API call will be made, backups may not appear in the web UI or backup directory."

// BackupName is the display name used by the backup pages. It falls back to
// "Server <id>" when the panel could not be asked.
func BackupName(target string, detail *crafty.ServerDetail) string {
	if detail != nil {
		if name := strings.TrimSpace(detail.Name.String()); name != "" {
			return name
		}
	}
	return "Server " + target
}

// BackupWarning asks for confirmation before a backup is requested.
func BackupWarning(name string) Message {
	msg := Message{
		Title:       "⚠️ Warning: Backup Feature",
		Description: backupWarningText,
		Severity:    SeverityNeutral,
	}
	msg.add("Alternative Options", strings.Join([]string{
		"1. Use the Crafty Controller web interface to create backups",
		"2. Use server-specific backup plugins/mods",
		"3. Set up a scheduled backup task directly on the server",
	}, "\n"), false)
	msg.add("Confirmation Required", fmt.Sprintf("Do you want to proceed with the backup request for %s?", name), false)
	return msg
}

func BackupAttempt(name string) Message {
	return Message{
		Title:       "💾 Backup Attempt",
		Description: fmt.Sprintf("Sending backup request for %s...", name),
		Severity:    SeverityNeutral,
	}
}

func BackupCancelled(name string) Message {
	return Message{
		Title:       "❌ Backup Cancelled",
		Description: fmt.Sprintf("Backup request for %s has been cancelled.", name),
		Severity:    SeverityNegative,
	}
}

func BackupTimedOut() Message {
	return Message{
		Title:       "⏱️ Timed Out",
		Description: "Backup confirmation timed out. Please try again.",
		Severity:    SeverityNegative,
	}
}

// BackupFailed renders a rejected backup request with the panel's message.
func BackupFailed(name string, err error) Message {
	reason := "Unknown error"
	var remote *crafty.RemoteError
	switch {
	case errors.As(err, &remote) && strings.TrimSpace(remote.Message) != "":
		reason = remote.Message
	case err != nil:
		reason = err.Error()
	}
	return Message{
		Title:       "❌ Error Requesting Backup",
		Description: fmt.Sprintf("Failed to request backup for %s. Error: %s", name, reason),
		Severity:    SeverityNegative,
	}
}

// BackupSent confirms the request was accepted. Progress is not tracked.
func BackupSent(name string) Message {
	msg := Message{
		Title:       "✅ Backup Request Sent",
		Description: fmt.Sprintf("Backup request for %s has been sent to the Crafty Controller API.", name),
		Severity:    SeverityPositive,
		Footer:      "The bot will not track backup progress due to API limitations",
	}
	msg.add("Next Steps", strings.Join([]string{
		"1. Check the Crafty Controller web interface to verify if the backup appears",
		"2. Verify directly in the backup directory on your server",
		"3. Check server logs for backup completion messages",
	}, "\n"), false)
	msg.add("⚠️ Important Note",
		"If the backup doesn't appear, please use the Crafty Controller web interface directly to perform backups.", false)
	return msg
}
