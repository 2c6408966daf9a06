package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"craftybot/internal/config"
	"craftybot/internal/gateway/crafty"
	"craftybot/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPanel struct {
	mock.Mock
}

func (m *MockPanel) ListServers(ctx context.Context) ([]crafty.ServerSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crafty.ServerSummary), args.Error(1)
}

func (m *MockPanel) GetServer(ctx context.Context, target string) (*crafty.ServerDetail, error) {
	args := m.Called(ctx, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crafty.ServerDetail), args.Error(1)
}

func (m *MockPanel) GetStats(ctx context.Context, target string) (*crafty.ServerStats, error) {
	args := m.Called(ctx, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crafty.ServerStats), args.Error(1)
}

func (m *MockPanel) GetStatus(ctx context.Context, target string) (crafty.StatusSnapshot, error) {
	args := m.Called(ctx, target)
	return args.Get(0).(crafty.StatusSnapshot), args.Error(1)
}

func (m *MockPanel) GetLogs(ctx context.Context, target string, tail int) ([]string, error) {
	args := m.Called(ctx, target, tail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPanel) PerformAction(ctx context.Context, target string, action crafty.Action) error {
	args := m.Called(ctx, target, action)
	return args.Error(0)
}

type recorded struct {
	op  string
	msg render.Message
}

type choice struct {
	id  string
	err error
}

// recordingReply keeps every published message and answers prompts from a
// script. An exhausted script times out.
type recordingReply struct {
	ops     []recorded
	choices []choice
	prompts []render.Message
	timeout []time.Duration
}

func (r *recordingReply) Defer(context.Context) error {
	r.ops = append(r.ops, recorded{op: "defer"})
	return nil
}

func (r *recordingReply) Send(_ context.Context, msg render.Message) error {
	r.ops = append(r.ops, recorded{op: "send", msg: msg})
	return nil
}

func (r *recordingReply) Edit(_ context.Context, msg render.Message) error {
	r.ops = append(r.ops, recorded{op: "edit", msg: msg})
	return nil
}

func (r *recordingReply) Choose(_ context.Context, msg render.Message, _ []Option, timeout time.Duration) (string, error) {
	r.ops = append(r.ops, recorded{op: "choose", msg: msg})
	r.prompts = append(r.prompts, msg)
	r.timeout = append(r.timeout, timeout)
	if len(r.choices) == 0 {
		return "", ErrPromptTimeout
	}
	next := r.choices[0]
	r.choices = r.choices[1:]
	return next.id, next.err
}

func (r *recordingReply) messages() []render.Message {
	var out []render.Message
	for _, op := range r.ops {
		if op.op == "send" || op.op == "edit" {
			out = append(out, op.msg)
		}
	}
	return out
}

func (r *recordingReply) last() render.Message {
	msgs := r.messages()
	if len(msgs) == 0 {
		return render.Message{}
	}
	return msgs[len(msgs)-1]
}

func (r *recordingReply) count(sev render.Severity) int {
	n := 0
	for _, msg := range r.messages() {
		if msg.Severity == sev && !msg.IsPlain() {
			n++
		}
	}
	return n
}

type instantClock struct{ sleeps int }

func (c *instantClock) Sleep(ctx context.Context, _ time.Duration) error {
	c.sleeps++
	return ctx.Err()
}

func newTestOrchestrator(t *testing.T, panel *MockPanel) (*Orchestrator, *instantClock) {
	t.Helper()
	clock := &instantClock{}
	o, err := NewOrchestrator(config.Defaults(), panel, clock)
	require.NoError(t, err)
	o.now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }
	return o, clock
}

func TestOrchestrator_StartActionErrorNeverPolls(t *testing.T) {
	panel := new(MockPanel)
	panel.On("GetStatus", mock.Anything, "abc").Return(crafty.StatusSnapshot{Target: "abc"}, nil)
	panel.On("PerformAction", mock.Anything, "abc", crafty.ActionStart).
		Return(&crafty.RemoteError{Op: "POST /servers/abc/action/start_server", StatusCode: 200, Code: "SERVER_LOCKED"})
	o, clock := newTestOrchestrator(t, panel)

	reply := &recordingReply{}
	require.NoError(t, o.Start(context.Background(), reply, "abc"))

	assert.Equal(t, 0, clock.sleeps)
	panel.AssertNotCalled(t, "GetLogs", mock.Anything, mock.Anything, mock.Anything)
	panel.AssertNumberOfCalls(t, "GetStatus", 1)
	assert.Equal(t, 1, reply.count(render.SeverityNegative))
	assert.Equal(t, "❌ Error Starting Server", reply.last().Title)
	assert.Contains(t, reply.last().Description, "SERVER_LOCKED")
}

func TestOrchestrator_StartUntilReady(t *testing.T) {
	panel := new(MockPanel)
	panel.On("GetStatus", mock.Anything, "abc123").Return(crafty.StatusSnapshot{Target: "abc123"}, nil)
	panel.On("PerformAction", mock.Anything, "abc123", crafty.ActionStart).Return(nil)
	booting := []string{"[Server thread/INFO]: Preparing level"}
	panel.On("GetLogs", mock.Anything, "abc123", mock.Anything).Return(booting, nil).Twice()
	panel.On("GetLogs", mock.Anything, "abc123", mock.Anything).
		Return(append(booting, `[Server thread/INFO]: Done (12.3s)! For help, type "help"`), nil).Once()
	o, clock := newTestOrchestrator(t, panel)

	reply := &recordingReply{}
	require.NoError(t, o.Start(context.Background(), reply, "abc123"))

	msgs := reply.messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "send", reply.ops[0].op)
	assert.Equal(t, "🚀 Server Starting", msgs[0].Title)
	assert.Equal(t, "🚀 Server abc123 Starting - Update 1/12", msgs[1].Title)
	assert.Equal(t, "🚀 Server abc123 Starting - Update 2/12", msgs[2].Title)
	assert.Equal(t, "✅ Server abc123 Started and Ready!", msgs[3].Title)
	for _, op := range reply.ops[1:] {
		assert.Equal(t, "edit", op.op)
	}
	assert.Equal(t, 3, clock.sleeps)
	panel.AssertNumberOfCalls(t, "PerformAction", 1)
}

func TestOrchestrator_StopAlreadyStopped(t *testing.T) {
	panel := new(MockPanel)
	panel.On("GetStatus", mock.Anything, "abc").Return(crafty.StatusSnapshot{Target: "abc", Running: false}, nil)
	o, _ := newTestOrchestrator(t, panel)

	reply := &recordingReply{}
	require.NoError(t, o.Stop(context.Background(), reply, "abc"))

	msgs := reply.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "ℹ️ Server abc Already Stopped", msgs[1].Title)
	panel.AssertNotCalled(t, "PerformAction", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_Servers(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		panel := new(MockPanel)
		panel.On("ListServers", mock.Anything).Return([]crafty.ServerSummary{}, nil)
		o, _ := newTestOrchestrator(t, panel)

		reply := &recordingReply{}
		require.NoError(t, o.Servers(context.Background(), reply))
		assert.Equal(t, "No servers found.", reply.last().Content)
		assert.Empty(t, reply.last().Fields)
	})

	t.Run("stats failure marks one row", func(t *testing.T) {
		panel := new(MockPanel)
		panel.On("ListServers", mock.Anything).Return([]crafty.ServerSummary{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}}, nil)
		panel.On("GetStats", mock.Anything, "1").Return(&crafty.ServerStats{Running: true}, nil)
		panel.On("GetStats", mock.Anything, "2").Return(nil, errors.New("unloaded"))
		o, _ := newTestOrchestrator(t, panel)

		reply := &recordingReply{}
		require.NoError(t, o.Servers(context.Background(), reply))
		require.Len(t, reply.last().Fields, 2)
		assert.Contains(t, reply.last().Fields[0].Value, "Online")
		assert.Contains(t, reply.last().Fields[1].Value, "Status Unavailable")
	})

	t.Run("list failure", func(t *testing.T) {
		panel := new(MockPanel)
		panel.On("ListServers", mock.Anything).Return(nil, &crafty.TransportError{Op: "GET /servers", Err: errors.New("connection refused")})
		o, _ := newTestOrchestrator(t, panel)

		reply := &recordingReply{}
		require.NoError(t, o.Servers(context.Background(), reply))
		assert.Equal(t, render.SeverityNegative, reply.last().Severity)
		assert.Contains(t, reply.last().Description, "connection refused")
	})
}

func TestOrchestrator_ServerInfo(t *testing.T) {
	panel := new(MockPanel)
	panel.On("GetServer", mock.Anything, "7").Return(&crafty.ServerDetail{ID: "7", Name: "Survival", IP: "docker_internal", Port: 25565}, nil)
	panel.On("GetStats", mock.Anything, "7").Return(&crafty.ServerStats{Running: true, Online: 2, Max: 10}, nil)
	o, _ := newTestOrchestrator(t, panel)

	reply := &recordingReply{}
	require.NoError(t, o.ServerInfo(context.Background(), reply, " 7 "))
	assert.Equal(t, "defer", reply.ops[0].op)
	assert.Equal(t, "Server Information: Survival", reply.last().Title)
	assert.Equal(t, render.SeverityPositive, reply.last().Severity)
}

func TestOrchestrator_LogsClampsLines(t *testing.T) {
	panel := new(MockPanel)
	panel.On("GetLogs", mock.Anything, "7", 100).Return([]string{"a", "b"}, nil)
	panel.On("GetLogs", mock.Anything, "7", 1).Return([]string{"b"}, nil)
	o, _ := newTestOrchestrator(t, panel)

	reply := &recordingReply{}
	require.NoError(t, o.Logs(context.Background(), reply, "7", 500))
	assert.Equal(t, "Showing last 2 lines", reply.last().Footer)

	require.NoError(t, o.Logs(context.Background(), reply, "7", -3))
	assert.Equal(t, "Showing last 1 lines", reply.last().Footer)
	panel.AssertExpectations(t)
}

func TestOrchestrator_EmptyTarget(t *testing.T) {
	panel := new(MockPanel)
	o, _ := newTestOrchestrator(t, panel)

	reply := &recordingReply{}
	require.NoError(t, o.Start(context.Background(), reply, "   "))
	assert.Equal(t, "⚠️ Error", reply.last().Title)
	panel.AssertNotCalled(t, "PerformAction", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_Backup(t *testing.T) {
	detail := &crafty.ServerDetail{ID: "7", Name: "Survival"}

	t.Run("declined", func(t *testing.T) {
		panel := new(MockPanel)
		panel.On("GetServer", mock.Anything, "7").Return(detail, nil)
		o, _ := newTestOrchestrator(t, panel)

		reply := &recordingReply{choices: []choice{{id: optionCancel}}}
		require.NoError(t, o.Backup(context.Background(), reply, "7"))
		assert.Equal(t, "❌ Backup Cancelled", reply.last().Title)
		assert.Equal(t, 60*time.Second, reply.timeout[0])
		panel.AssertNotCalled(t, "PerformAction", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("timed out", func(t *testing.T) {
		panel := new(MockPanel)
		panel.On("GetServer", mock.Anything, "7").Return(nil, errors.New("offline"))
		o, _ := newTestOrchestrator(t, panel)

		reply := &recordingReply{}
		require.NoError(t, o.Backup(context.Background(), reply, "7"))
		assert.Contains(t, reply.prompts[0].Fields[1].Value, "Server 7")
		assert.Equal(t, "⏱️ Timed Out", reply.last().Title)
		panel.AssertNotCalled(t, "PerformAction", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirmed", func(t *testing.T) {
		panel := new(MockPanel)
		panel.On("GetServer", mock.Anything, "7").Return(detail, nil)
		panel.On("PerformAction", mock.Anything, "7", crafty.ActionBackup).Return(nil).Once()
		o, _ := newTestOrchestrator(t, panel)

		reply := &recordingReply{choices: []choice{{id: optionConfirm}}}
		require.NoError(t, o.Backup(context.Background(), reply, "7"))
		msgs := reply.messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, "💾 Backup Attempt", msgs[0].Title)
		assert.Equal(t, "✅ Backup Request Sent", msgs[1].Title)
		panel.AssertExpectations(t)
	})

	t.Run("rejected by the panel", func(t *testing.T) {
		panel := new(MockPanel)
		panel.On("GetServer", mock.Anything, "7").Return(detail, nil)
		panel.On("PerformAction", mock.Anything, "7", crafty.ActionBackup).
			Return(&crafty.RemoteError{Message: "backups disabled"})
		o, _ := newTestOrchestrator(t, panel)

		reply := &recordingReply{choices: []choice{{id: optionConfirm}}}
		require.NoError(t, o.Backup(context.Background(), reply, "7"))
		assert.Equal(t, "❌ Error Requesting Backup", reply.last().Title)
		assert.Contains(t, reply.last().Description, "backups disabled")
	})
}

type stubSyncer struct {
	commands []render.CommandInfo
	err      error
}

func (s stubSyncer) Sync(context.Context) ([]render.CommandInfo, error) {
	return s.commands, s.err
}

func TestOrchestrator_Sync(t *testing.T) {
	o, _ := newTestOrchestrator(t, new(MockPanel))

	t.Run("non admin", func(t *testing.T) {
		reply := &recordingReply{}
		require.NoError(t, o.Sync(context.Background(), reply, stubSyncer{}, false))
		assert.Equal(t, "❌ Permission Denied", reply.last().Title)
	})

	t.Run("admin", func(t *testing.T) {
		reply := &recordingReply{}
		syncer := stubSyncer{commands: []render.CommandInfo{{Name: "servers", Description: "List"}}}
		require.NoError(t, o.Sync(context.Background(), reply, syncer, true))
		msgs := reply.messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, "⏳ Syncing Commands", msgs[0].Title)
		assert.Equal(t, "Synced at 2026-10-17 12:00:00 UTC", msgs[1].Footer)
	})

	t.Run("failure", func(t *testing.T) {
		reply := &recordingReply{}
		require.NoError(t, o.Sync(context.Background(), reply, stubSyncer{err: errors.New("missing access")}, true))
		assert.Equal(t, "❌ Sync Failed", reply.last().Title)
	})
}

func TestOrchestrator_Help(t *testing.T) {
	o, _ := newTestOrchestrator(t, new(MockPanel))

	reply := &recordingReply{choices: []choice{{id: string(render.HelpCommands)}, {id: string(render.HelpAbout)}}}
	require.NoError(t, o.Help(context.Background(), reply))

	require.Len(t, reply.prompts, 3)
	assert.Equal(t, render.Help(render.HelpMain), reply.prompts[0])
	assert.Equal(t, render.Help(render.HelpCommands), reply.prompts[1])
	assert.Equal(t, render.Help(render.HelpAbout), reply.prompts[2])
	assert.Equal(t, 180*time.Second, reply.timeout[0])
	assert.Equal(t, render.HelpExpired(), reply.last())
}

func TestClampLogLines(t *testing.T) {
	assert.Equal(t, 1, ClampLogLines(0))
	assert.Equal(t, 15, ClampLogLines(15))
	assert.Equal(t, 100, ClampLogLines(101))
}

func TestCatalog(t *testing.T) {
	names := map[string]bool{}
	for _, def := range Catalog() {
		names[def.Name] = true
	}
	for _, name := range []string{CmdServers, CmdServerInfo, CmdStart, CmdStop, CmdLogs, CmdBackup, CmdSync, CmdHelp} {
		assert.True(t, names[name], name)
	}
}
