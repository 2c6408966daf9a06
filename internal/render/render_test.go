package render

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"craftybot/internal/gateway/crafty"
	"craftybot/internal/pkg/text"
	"craftybot/internal/poller"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldByName(t *testing.T, msg Message, name string) Field {
	t.Helper()
	for _, f := range msg.Fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %q not found in %+v", name, msg.Fields)
	return Field{}
}

func unfence(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
}

func TestServerList(t *testing.T) {
	t.Run("empty list is a literal message", func(t *testing.T) {
		msg := ServerList(nil)
		assert.Equal(t, "No servers found.", msg.Content)
		assert.Empty(t, msg.Fields)
		assert.True(t, msg.IsPlain())
	})

	t.Run("one field per server", func(t *testing.T) {
		msg := ServerList([]ServerEntry{
			{Summary: crafty.ServerSummary{ID: "1", Name: "Survival", Type: "minecraft-java"}, State: StateOnline},
			{Summary: crafty.ServerSummary{ID: "2", Name: "Creative"}, State: StateUnavailable},
		})
		require.Len(t, msg.Fields, 2)
		assert.Equal(t, "Name: Survival | ID: *1*", msg.Fields[0].Name)
		assert.Contains(t, msg.Fields[0].Value, "🟢 Online")
		assert.Contains(t, msg.Fields[1].Value, "Status Unavailable, is the Server unloaded?")
		assert.Contains(t, msg.Fields[1].Value, "**Type:** Unknown")
	})

	t.Run("field count is capped", func(t *testing.T) {
		entries := make([]ServerEntry, 30)
		for i := range entries {
			entries[i] = ServerEntry{Summary: crafty.ServerSummary{ID: crafty.Text(fmt.Sprint(i))}}
		}
		msg := ServerList(entries)
		assert.Len(t, msg.Fields, maxFields)
		assert.True(t, strings.HasPrefix(msg.Footer, "Showing 25 of 30 servers."))
	})
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StateUnavailable, StateOf(nil, errors.New("boom")))
	assert.Equal(t, StateUnknown, StateOf(nil, nil))
	assert.Equal(t, StateOnline, StateOf(&crafty.ServerStats{Running: true}, nil))
	assert.Equal(t, StateOffline, StateOf(&crafty.ServerStats{}, nil))
}

func TestServerInfo(t *testing.T) {
	detail := crafty.ServerDetail{ID: "7", Name: "Survival", Type: "minecraft-java", IP: "127.0.0.1", Port: 25565}

	t.Run("loopback address is shown as internal", func(t *testing.T) {
		msg := ServerInfo(detail, &crafty.ServerStats{}, nil)
		assert.Equal(t, SeverityNegative, msg.Severity)
		assert.Equal(t, "127.0.0.1", fieldByName(t, msg, "🌐 Internal IP Address").Value)
		assert.Equal(t, "Failed to retrieve public IP address", fieldByName(t, msg, "🌐 Public IP Address").Value)
		assert.Equal(t, "25565", fieldByName(t, msg, "🔢 Port").Value)
	})

	t.Run("running server shows load", func(t *testing.T) {
		public := detail
		public.IP = "203.0.113.10"
		stats := &crafty.ServerStats{Running: true, Online: 3, Max: 20, CPU: 12.345, MemPercent: 40.25, Mem: "1.2GB"}
		msg := ServerInfo(public, stats, nil)
		assert.Equal(t, SeverityPositive, msg.Severity)
		assert.Equal(t, "203.0.113.10", fieldByName(t, msg, "🌐 Public IP Address").Value)
		assert.Equal(t, "3/20", fieldByName(t, msg, "👥 Players").Value)
		assert.Equal(t, "12.3%", fieldByName(t, msg, "🧠 CPU").Value)
		assert.Equal(t, "40.3% (1.2GB)", fieldByName(t, msg, "💾 Memory").Value)
	})

	t.Run("stats failure is neutral", func(t *testing.T) {
		msg := ServerInfo(detail, nil, errors.New("timeout"))
		assert.Equal(t, SeverityNeutral, msg.Severity)
		assert.Equal(t, "⚠️ Status Unavailable", fieldByName(t, msg, "🔌 Status").Value)
	})

	t.Run("not found", func(t *testing.T) {
		msg := ServerInfoFailed("x", &crafty.RemoteError{StatusCode: 404, Code: "NOT_FOUND"})
		assert.Equal(t, SeverityNegative, msg.Severity)
		assert.Contains(t, msg.Title, "was not found")
	})
}

func TestLogs(t *testing.T) {
	t.Run("footer counts shown lines", func(t *testing.T) {
		msg := Logs("7", []string{"a", "b", "c"}, 15)
		assert.Equal(t, "Showing last 3 lines", msg.Footer)
		assert.Equal(t, "```a\nb\nc```", msg.Description)
	})

	t.Run("requested lines are the newest", func(t *testing.T) {
		msg := Logs("7", []string{"a", "b", "c"}, 2)
		assert.Equal(t, "```b\nc```", msg.Description)
		assert.Equal(t, "Showing last 2 lines", msg.Footer)
	})

	t.Run("empty log", func(t *testing.T) {
		msg := Logs("7", nil, 15)
		assert.Equal(t, "No logs available for this server.", msg.Description)
		assert.Equal(t, SeverityNeutral, msg.Severity)
	})

	t.Run("long log stays within budget including fences", func(t *testing.T) {
		long := []string{strings.Repeat("x", 5000), "tail"}
		desc := Logs("7", long, 15).Description
		assert.Equal(t, LogViewBudget, utf8.RuneCountInString(desc))
		assert.True(t, strings.HasPrefix(desc, "```"+text.TruncationMarker))
		assert.True(t, strings.HasSuffix(desc, "tail```"))
	})

	t.Run("fences in log text are neutralised", func(t *testing.T) {
		msg := Logs("7", []string{"```boom```"}, 15)
		assert.Equal(t, "```'''boom'''```", msg.Description)
	})
}

func progressUpdate(tick int, running bool, tail []string) poller.Update {
	snap := crafty.StatusSnapshot{Target: "abc123", Running: running}
	if tail != nil {
		snap = snap.WithLogTail(tail)
	}
	return poller.Update{
		Phase:       poller.PhaseProgress,
		Action:      crafty.ActionStart,
		Target:      "abc123",
		Tick:        tick,
		Budget:      12,
		Snapshot:    snap,
		ShowLines:   10,
		HasSnapshot: true,
	}
}

func TestSessionUpdate(t *testing.T) {
	t.Run("progress", func(t *testing.T) {
		msg := SessionUpdate(progressUpdate(2, false, []string{"Loading"}), true)
		assert.Equal(t, "🚀 Server abc123 Starting - Update 2/12", msg.Title)
		assert.Equal(t, "Updates remaining: 10", msg.Footer)
		assert.Equal(t, SeverityNeutral, msg.Severity)
		assert.Equal(t, "🔄 Starting...", fieldByName(t, msg, "Status").Value)
		assert.Equal(t, "```Loading```", fieldByName(t, msg, "📜 Latest Logs").Value)
	})

	t.Run("progress without logs", func(t *testing.T) {
		msg := SessionUpdate(progressUpdate(1, false, nil), true)
		assert.Equal(t, LogsFailedText, fieldByName(t, msg, "📜 Logs").Value)

		msg = SessionUpdate(progressUpdate(1, true, []string{}), true)
		assert.Equal(t, NoLogsYetText, fieldByName(t, msg, "📜 Logs").Value)
		assert.Equal(t, "🟢 Online", fieldByName(t, msg, "Status").Value)
	})

	t.Run("progress log is truncated to budget", func(t *testing.T) {
		tail := []string{strings.Repeat("é", 3000)}
		msg := SessionUpdate(progressUpdate(1, false, tail), true)
		value := fieldByName(t, msg, "📜 Latest Logs").Value
		assert.Equal(t, ProgressLogBudget, utf8.RuneCountInString(value))
		assert.True(t, strings.HasPrefix(unfence(value), text.TruncationMarker))
	})

	t.Run("progress without a snapshot", func(t *testing.T) {
		u := poller.Update{
			Phase:  poller.PhaseProgress,
			Action: crafty.ActionStop,
			Target: "abc123",
			Tick:   3,
			Budget: 8,
		}
		msg := SessionUpdate(u, true)
		assert.Equal(t, "🛑 Server abc123 Stopping - Update 3/8", msg.Title)
		assert.Equal(t, "⚠️ Unknown", fieldByName(t, msg, "Status").Value)
		assert.Equal(t, StatusFailedText, fieldByName(t, msg, "📜 Logs").Value)
		assert.Equal(t, SeverityNeutral, msg.Severity)
	})

	t.Run("done with marker", func(t *testing.T) {
		u := progressUpdate(3, true, []string{`Done (12.3s)! For help, type "help"`})
		u.Phase = poller.PhaseDone
		msg := SessionUpdate(u, true)
		assert.Equal(t, "✅ Server abc123 Started and Ready!", msg.Title)
		assert.Equal(t, SeverityPositive, msg.Severity)

		assert.Equal(t, "✅ Server abc123 Started", SessionUpdate(u, false).Title)
	})

	t.Run("stop done", func(t *testing.T) {
		u := progressUpdate(4, false, []string{"Stopping server"})
		u.Action = crafty.ActionStop
		u.Phase = poller.PhaseDone
		msg := SessionUpdate(u, true)
		assert.Equal(t, "✅ Server abc123 Stopped", msg.Title)
		assert.Equal(t, "🔴 Offline", fieldByName(t, msg, "Status").Value)
	})

	t.Run("already in state", func(t *testing.T) {
		u := poller.Update{Phase: poller.PhaseAlreadyInState, Action: crafty.ActionStart, Target: "abc123", HasSnapshot: true,
			Snapshot: crafty.StatusSnapshot{Running: true, Players: &crafty.Players{Current: 1, Max: 10}}}
		msg := SessionUpdate(u, true)
		assert.Equal(t, "ℹ️ Server abc123 Already Running", msg.Title)
		assert.Equal(t, "1/10", fieldByName(t, msg, "👥 Players").Value)

		u.Action = crafty.ActionStop
		u.Snapshot = crafty.StatusSnapshot{}
		msg = SessionUpdate(u, true)
		assert.Equal(t, "ℹ️ Server abc123 Already Stopped", msg.Title)
		assert.Equal(t, SeverityNegative, msg.Severity)
	})

	t.Run("timed out", func(t *testing.T) {
		u := poller.Update{Phase: poller.PhaseTimedOut, Action: crafty.ActionStop, Target: "abc123", Tick: 8, Budget: 8}
		msg := SessionUpdate(u, true)
		assert.Equal(t, "⏱️ Server abc123 Still Stopping", msg.Title)
		assert.Contains(t, msg.Description, "check manually")
		assert.Equal(t, "⚠️ Unknown", fieldByName(t, msg, "Status").Value)
		assert.Equal(t, SeverityNeutral, msg.Severity)
	})

	t.Run("identical input renders identical output", func(t *testing.T) {
		u := progressUpdate(5, false, []string{"a", "b", strings.Repeat("z", 2000)})
		assert.Equal(t, SessionUpdate(u, true), SessionUpdate(u, true))
	})
}

func TestActionFailed(t *testing.T) {
	err := &crafty.RemoteError{Op: "POST /servers/7/action/start_server", StatusCode: 200, Code: "ACTION_FAILED"}
	msg := ActionFailed(crafty.ActionStart, "7", err)
	assert.Equal(t, "❌ Error Starting Server", msg.Title)
	assert.Equal(t, SeverityNegative, msg.Severity)
	assert.Contains(t, msg.Description, "Failed to start server **7**.")
	assert.Contains(t, msg.Description, err.Error())
}

func TestError(t *testing.T) {
	msg := Error(errors.New("dial tcp: connection refused"))
	assert.Equal(t, "⚠️ Error", msg.Title)
	assert.Equal(t, "Error: dial tcp: connection refused", msg.Description)
	assert.Equal(t, SeverityNegative, msg.Severity)
}

func TestBackupPages(t *testing.T) {
	assert.Equal(t, "Server 7", BackupName("7", nil))
	assert.Equal(t, "Survival", BackupName("7", &crafty.ServerDetail{Name: "Survival"}))

	warning := BackupWarning("Survival")
	assert.Contains(t, fieldByName(t, warning, "Confirmation Required").Value, "Survival")

	failed := BackupFailed("Survival", &crafty.RemoteError{Message: "backup already running"})
	assert.Equal(t, "Failed to request backup for Survival. Error: backup already running", failed.Description)

	sent := BackupSent("Survival")
	assert.Equal(t, SeverityPositive, sent.Severity)
	assert.Len(t, sent.Fields, 2)

	assert.Equal(t, SeverityNegative, BackupCancelled("Survival").Severity)
	assert.Equal(t, "⏱️ Timed Out", BackupTimedOut().Title)
}

func TestSyncPages(t *testing.T) {
	at := time.Date(2026, 10, 17, 8, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	msg := SyncSucceeded([]CommandInfo{{Name: "servers", Description: "List servers"}}, at)
	assert.Equal(t, "Synced at 2026-10-17 06:30:00 UTC", msg.Footer)
	assert.Equal(t, "• `/servers` - List servers", fieldByName(t, msg, "Synced Commands").Value)

	empty := SyncSucceeded(nil, at)
	assert.Equal(t, "Note", empty.Fields[0].Name)

	failed := SyncFailed(errors.New("missing access"))
	assert.Contains(t, failed.Description, "missing access")
	assert.Equal(t, "Troubleshooting", failed.Fields[0].Name)
}

func TestHelp(t *testing.T) {
	for _, nav := range HelpNav {
		msg := Help(nav.Page)
		assert.NotEmpty(t, msg.Title, nav.Page)
		assert.NotEmpty(t, msg.Fields, nav.Page)
	}
	assert.Equal(t, Help(HelpMain), Help("unknown"))
	assert.Equal(t, "⏱️ Help Session Expired", HelpExpired().Title)
}

func TestMessageText(t *testing.T) {
	msg := Message{Title: "T", Description: "D", Fields: []Field{{Name: "N", Value: "V"}}, Footer: "F"}
	assert.Equal(t, "T\nD\nN: V\nF", msg.Text())
}
