package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"craftybot/internal/config"
	"craftybot/internal/gateway/crafty"
	"craftybot/internal/logger"
	"craftybot/internal/poller"
	"craftybot/internal/render"

	"github.com/google/uuid"
)

// Panel is the control-panel API the commands use.
type Panel interface {
	ListServers(ctx context.Context) ([]crafty.ServerSummary, error)
	GetServer(ctx context.Context, target string) (*crafty.ServerDetail, error)
	GetStats(ctx context.Context, target string) (*crafty.ServerStats, error)
	GetStatus(ctx context.Context, target string) (crafty.StatusSnapshot, error)
	GetLogs(ctx context.Context, target string, tail int) ([]string, error)
	PerformAction(ctx context.Context, target string, action crafty.Action) error
}

// Orchestrator runs one command invocation end to end: it calls the panel,
// renders the result and publishes it through the invocation's Reply.
type Orchestrator struct {
	panel          Panel
	planner        *poller.Planner
	confirmTimeout time.Duration
	helpTimeout    time.Duration
	now            func() time.Time
}

func NewOrchestrator(cfg *config.Config, panel Panel, clock poller.Clock) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.New("bot: config is required")
	}
	if panel == nil {
		return nil, errors.New("bot: panel is required")
	}
	planner, err := poller.NewPlanner(cfg.Poll, panel, clock)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		panel:          panel,
		planner:        planner,
		confirmTimeout: cfg.Discord.ConfirmTimeout(),
		helpTimeout:    cfg.Discord.HelpTimeout(),
		now:            time.Now,
	}, nil
}

// trace opens the structured log scope of one invocation.
func trace(command, target string) *slog.Logger {
	args := []any{"trace_id", uuid.NewString(), "command", command}
	if target != "" {
		args = append(args, "target", target)
	}
	return logger.With(args...)
}

func normalizeTarget(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", crafty.ErrEmptyTarget
	}
	return target, nil
}

// Servers lists every server with its live state. One stats call is made per
// server; a failed call only marks that row.
func (o *Orchestrator) Servers(ctx context.Context, reply Reply) error {
	log := trace(CmdServers, "")
	if err := reply.Defer(ctx); err != nil {
		log.Warn("defer failed", "error", err)
	}
	servers, err := o.panel.ListServers(ctx)
	if err != nil {
		log.Error("list servers failed", "error", err)
		return reply.Send(ctx, render.ServerListFailed(err))
	}
	entries := make([]render.ServerEntry, 0, len(servers))
	for _, srv := range servers {
		stats, statsErr := o.panel.GetStats(ctx, srv.ID.String())
		if statsErr != nil {
			log.Warn("server stats failed", "server_id", srv.ID.String(), "error", statsErr)
		}
		entries = append(entries, render.ServerEntry{Summary: srv, State: render.StateOf(stats, statsErr)})
	}
	log.Info("servers listed", "count", len(entries))
	return reply.Send(ctx, render.ServerList(entries))
}

// ServerInfo shows the configuration and live state of one server.
func (o *Orchestrator) ServerInfo(ctx context.Context, reply Reply, target string) error {
	log := trace(CmdServerInfo, target)
	target, err := normalizeTarget(target)
	if err != nil {
		return reply.Send(ctx, render.Error(err))
	}
	if err := reply.Defer(ctx); err != nil {
		log.Warn("defer failed", "error", err)
	}
	detail, err := o.panel.GetServer(ctx, target)
	if err != nil {
		log.Error("get server failed", "error", err)
		return reply.Send(ctx, render.ServerInfoFailed(target, err))
	}
	stats, statsErr := o.panel.GetStats(ctx, target)
	if statsErr != nil {
		log.Warn("server stats failed", "error", statsErr)
	}
	return reply.Send(ctx, render.ServerInfo(*detail, stats, statsErr))
}

// Logs shows the newest lines of the server log, lines clamped to 1..100.
func (o *Orchestrator) Logs(ctx context.Context, reply Reply, target string, lines int) error {
	log := trace(CmdLogs, target)
	target, err := normalizeTarget(target)
	if err != nil {
		return reply.Send(ctx, render.Error(err))
	}
	lines = ClampLogLines(lines)
	if err := reply.Defer(ctx); err != nil {
		log.Warn("defer failed", "error", err)
	}
	tail, err := o.panel.GetLogs(ctx, target, lines)
	if err != nil {
		log.Error("get logs failed", "error", err)
		return reply.Send(ctx, render.LogsFailed(target, err))
	}
	return reply.Send(ctx, render.Logs(target, tail, lines))
}
