package bot

import (
	"context"
	"errors"

	"craftybot/internal/poller"
	"craftybot/internal/render"
)

// Start sends start_server and follows the server until it is ready.
func (o *Orchestrator) Start(ctx context.Context, reply Reply, target string) error {
	return o.runSession(ctx, reply, CmdStart, target, o.planner.Start)
}

// Stop sends stop_server and follows the server until it is down.
func (o *Orchestrator) Stop(ctx context.Context, reply Reply, target string) error {
	return o.runSession(ctx, reply, CmdStop, target, o.planner.Stop)
}

func (o *Orchestrator) runSession(ctx context.Context, reply Reply, command, target string, plan func(string) *poller.Session) error {
	log := trace(command, target)
	target, err := normalizeTarget(target)
	if err != nil {
		return reply.Send(ctx, render.Error(err))
	}
	session := plan(target)
	if err := reply.Send(ctx, render.Placeholder(session.Action, target)); err != nil {
		return err
	}

	marker := o.planner.MarkerEnabled()
	outcome, err := session.Run(ctx, func(ctx context.Context, u poller.Update) error {
		return reply.Edit(ctx, render.SessionUpdate(u, marker))
	})
	switch {
	case err == nil:
		log.Info("session finished", "outcome", outcome.String(), "budget", session.Budget)
		return nil
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		log.Warn("session interrupted", "error", err)
		return nil
	default:
		log.Error("action failed", "action", string(session.Action), "error", err)
		return reply.Edit(ctx, render.ActionFailed(session.Action, target, err))
	}
}

var _ poller.Fetcher = Panel(nil)
