package bot

import (
	"context"
	"errors"

	"craftybot/internal/gateway/crafty"
	"craftybot/internal/render"
)

const (
	optionConfirm = "confirm"
	optionCancel  = "cancel"
)

var backupOptions = []Option{
	{ID: optionConfirm, Label: "Yes, Continue", Style: StyleSuccess},
	{ID: optionCancel, Label: "No, Cancel", Style: StyleDanger},
}

// Backup asks for confirmation and then sends backup_server once. A decline
// or an unanswered prompt never reaches the panel.
func (o *Orchestrator) Backup(ctx context.Context, reply Reply, target string) error {
	log := trace(CmdBackup, target)
	target, err := normalizeTarget(target)
	if err != nil {
		return reply.Send(ctx, render.Error(err))
	}
	if err := reply.Defer(ctx); err != nil {
		log.Warn("defer failed", "error", err)
	}

	detail, err := o.panel.GetServer(ctx, target)
	if err != nil {
		log.Warn("get server failed, using id as name", "error", err)
	}
	name := render.BackupName(target, detail)

	choice, err := reply.Choose(ctx, render.BackupWarning(name), backupOptions, o.confirmTimeout)
	switch {
	case errors.Is(err, ErrPromptTimeout):
		log.Info("backup confirmation timed out")
		return reply.Edit(ctx, render.BackupTimedOut())
	case err != nil:
		return err
	case choice != optionConfirm:
		log.Info("backup cancelled")
		return reply.Edit(ctx, render.BackupCancelled(name))
	}

	if err := reply.Edit(ctx, render.BackupAttempt(name)); err != nil {
		log.Warn("edit failed", "error", err)
	}
	if err := o.panel.PerformAction(ctx, target, crafty.ActionBackup); err != nil {
		log.Error("backup request failed", "error", err)
		return reply.Edit(ctx, render.BackupFailed(name, err))
	}
	log.Info("backup requested")
	return reply.Edit(ctx, render.BackupSent(name))
}

// Sync re-registers the slash commands. isAdmin is decided by the transport
// from the caller's permissions.
func (o *Orchestrator) Sync(ctx context.Context, reply Reply, syncer CommandSyncer, isAdmin bool) error {
	log := trace(CmdSync, "")
	if !isAdmin {
		log.Warn("sync denied")
		return reply.Send(ctx, render.PermissionDenied())
	}
	if syncer == nil {
		return reply.Send(ctx, render.SyncFailed(errors.New("command sync is not available")))
	}
	if err := reply.Defer(ctx); err != nil {
		log.Warn("defer failed", "error", err)
	}
	if err := reply.Send(ctx, render.SyncProgress()); err != nil {
		return err
	}
	commands, err := syncer.Sync(ctx)
	if err != nil {
		log.Error("sync failed", "error", err)
		return reply.Edit(ctx, render.SyncFailed(err))
	}
	log.Info("commands synced", "count", len(commands))
	return reply.Edit(ctx, render.SyncSucceeded(commands, o.now()))
}

func helpOptions() []Option {
	opts := make([]Option, 0, len(render.HelpNav))
	for _, nav := range render.HelpNav {
		style := StylePrimary
		if nav.Page == render.HelpMain {
			style = StyleSuccess
		}
		opts = append(opts, Option{ID: string(nav.Page), Label: nav.Label, Style: style})
	}
	return opts
}

// Help shows the paged help. Every pick renders the chosen page; the session
// expires after the help timeout without a pick.
func (o *Orchestrator) Help(ctx context.Context, reply Reply) error {
	log := trace(CmdHelp, "")
	opts := helpOptions()
	page := render.HelpMain
	for {
		choice, err := reply.Choose(ctx, render.Help(page), opts, o.helpTimeout)
		switch {
		case errors.Is(err, ErrPromptTimeout):
			log.Debug("help session expired", "page", string(page))
			return reply.Edit(ctx, render.HelpExpired())
		case err != nil:
			return err
		}
		page = render.HelpPage(choice)
	}
}
