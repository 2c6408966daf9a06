package render

import (
	"fmt"

	"craftybot/internal/gateway/crafty"
	"craftybot/internal/poller"
)

const (
	LogsFailedText   = "Failed to retrieve logs."
	StatusFailedText = "Failed to retrieve server status."
	NoLogsYetText    = "No logs available yet."
	statusUnknown    = "⚠️ Unknown"
	statusOnline     = "🟢 Online"
	statusOffline    = "🔴 Offline"
	statusStarting   = "🔄 Starting..."
	statusStopping   = "🔄 Stopping..."
)

// verbs holds the wording of one session kind.
type verbs struct {
	icon, gerund, past, ongoing string
}

func verbsFor(action crafty.Action) verbs {
	if action == crafty.ActionStop {
		return verbs{icon: "🛑", gerund: "Stopping", past: "Stopped", ongoing: "shutting down"}
	}
	return verbs{icon: "🚀", gerund: "Starting", past: "Started", ongoing: "starting up"}
}

// Placeholder is the first message of a start or stop command, replaced by
// the session updates.
func Placeholder(action crafty.Action, target string) Message {
	v := verbsFor(action)
	return Message{
		Title:       fmt.Sprintf("%s Server %s", v.icon, v.gerund),
		Description: fmt.Sprintf("%s server **%s**, please wait...", v.gerund, target),
		Severity:    SeverityNeutral,
	}
}

// ActionFailed renders a rejected start or stop request. The session never
// polled.
func ActionFailed(action crafty.Action, target string, err error) Message {
	verb := "start"
	title := "❌ Error Starting Server"
	if action == crafty.ActionStop {
		verb = "stop"
		title = "❌ Error Stopping Server"
	}
	msg := Failure(title, err)
	msg.Description = fmt.Sprintf("Failed to %s server **%s**.\n%s", verb, target, msg.Description)
	return msg
}

// SessionUpdate renders one update of a poll session. markerEnabled selects the
// "ready" wording of a successful start.
func SessionUpdate(u poller.Update, markerEnabled bool) Message {
	switch u.Phase {
	case poller.PhaseAlreadyInState:
		return alreadyInState(u)
	case poller.PhaseDone:
		return sessionDone(u, markerEnabled)
	case poller.PhaseTimedOut:
		return sessionTimedOut(u)
	default:
		return sessionProgress(u)
	}
}

func sessionProgress(u poller.Update) Message {
	v := verbsFor(u.Action)
	msg := Message{
		Title:       fmt.Sprintf("%s Server %s %s - Update %d/%d", v.icon, u.Target, v.gerund, u.Tick, u.Budget),
		Description: fmt.Sprintf("Server is %s. Here are the latest logs:", v.ongoing),
		Severity:    SeverityNeutral,
		Footer:      fmt.Sprintf("Updates remaining: %d", remaining(u)),
	}
	if u.HasSnapshot {
		addLogField(&msg, u.Snapshot, u.ShowLines)
	} else {
		msg.add("📜 Logs", StatusFailedText, false)
	}
	msg.add("Status", progressStatus(u), true)
	return msg
}

func sessionDone(u poller.Update, markerEnabled bool) Message {
	v := verbsFor(u.Action)
	title := fmt.Sprintf("✅ Server %s %s", u.Target, v.past)
	desc := fmt.Sprintf("Server **%s** has %s.", u.Target, lowerPast(u.Action))
	if u.Action == crafty.ActionStart && markerEnabled {
		title += " and Ready!"
		desc = fmt.Sprintf("Server **%s** finished loading and is ready for players.", u.Target)
	}
	msg := Message{
		Title:       title,
		Description: desc,
		Severity:    SeverityPositive,
		Footer:      fmt.Sprintf("Completed after %d of %d updates", u.Tick, u.Budget),
	}
	addLogField(&msg, u.Snapshot, u.ShowLines)
	if u.Action == crafty.ActionStop {
		msg.add("Status", statusOffline, true)
	} else {
		msg.add("Status", statusOnline, true)
	}
	return msg
}

func alreadyInState(u poller.Update) Message {
	if u.Action == crafty.ActionStop {
		return Message{
			Title:       fmt.Sprintf("ℹ️ Server %s Already Stopped", u.Target),
			Description: fmt.Sprintf("Server **%s** is not running. No action was taken.", u.Target),
			Severity:    SeverityNegative,
		}
	}
	msg := Message{
		Title:       fmt.Sprintf("ℹ️ Server %s Already Running", u.Target),
		Description: fmt.Sprintf("Server **%s** is already running. No action was taken.", u.Target),
		Severity:    SeverityPositive,
	}
	if p := u.Snapshot.Players; p != nil {
		msg.add("👥 Players", fmt.Sprintf("%d/%d", p.Current, p.Max), true)
	}
	return msg
}

func sessionTimedOut(u poller.Update) Message {
	v := verbsFor(u.Action)
	desc := fmt.Sprintf("Server **%s** is still in progress after %d updates. "+
		"Please check manually with /serverinfo or the Crafty Controller web interface.", u.Target, u.Budget)
	msg := Message{
		Title:       fmt.Sprintf("⏱️ Server %s Still %s", u.Target, v.gerund),
		Description: desc,
		Severity:    SeverityNeutral,
		Footer:      "Updates remaining: 0",
	}
	if u.HasSnapshot {
		addLogField(&msg, u.Snapshot, u.ShowLines)
	}
	msg.add("Status", progressStatus(u), true)
	return msg
}

func addLogField(msg *Message, snap crafty.StatusSnapshot, show int) {
	switch {
	case !snap.LogsRead:
		msg.add("📜 Logs", LogsFailedText, false)
	case len(snap.LogTail) == 0:
		msg.add("📜 Logs", NoLogsYetText, false)
	default:
		msg.add("📜 Latest Logs", fencedExcerpt(lastN(snap.LogTail, show), ProgressLogBudget), false)
	}
}

func progressStatus(u poller.Update) string {
	if !u.HasSnapshot {
		return statusUnknown
	}
	running := u.Snapshot.Running
	if u.Action == crafty.ActionStop {
		if running {
			return statusStopping
		}
		return statusOffline
	}
	if running {
		return statusOnline
	}
	return statusStarting
}

func remaining(u poller.Update) int {
	if r := u.Budget - u.Tick; r > 0 {
		return r
	}
	return 0
}

func lowerPast(action crafty.Action) string {
	if action == crafty.ActionStop {
		return "stopped"
	}
	return "started"
}
