// Package discord connects the bot orchestrator to the Discord gateway:
// slash command registration, interaction dispatch and button prompts.
package discord

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"craftybot/internal/bot"
	"craftybot/internal/config"
	"craftybot/internal/logger"
	"craftybot/internal/render"

	"github.com/bwmarrin/discordgo"
)

// Gateway owns the Discord session.
type Gateway struct {
	session *discordgo.Session
	orch    *bot.Orchestrator
	guildID string
	rate    float64
	prompts *prompts

	mu    sync.RWMutex
	appID string
	base  context.Context
}

func New(cfg *config.Config, orch *bot.Orchestrator) (*Gateway, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if orch == nil {
		return nil, errors.New("orchestrator is required")
	}
	if cfg.DiscordToken == "" {
		return nil, errors.New("discord token is empty")
	}
	s, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	g := &Gateway{
		session: s,
		orch:    orch,
		guildID: cfg.Discord.GuildID,
		rate:    cfg.Discord.EditsPerSecond,
		prompts: newPrompts(),
		base:    context.Background(),
	}
	s.AddHandler(g.onReady)
	s.AddHandler(g.onInteraction)
	return g, nil
}

// Run opens the gateway connection and blocks until ctx is done.
func (g *Gateway) Run(ctx context.Context) error {
	g.mu.Lock()
	g.base = ctx
	g.mu.Unlock()
	if err := g.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	logger.Infof("discord: connected")
	<-ctx.Done()
	if err := g.session.Close(); err != nil {
		logger.Warnf("discord: close session: %v", err)
	}
	logger.Infof("discord: disconnected")
	return nil
}

// Sync overwrites the registered slash commands with the bot catalog.
func (g *Gateway) Sync(ctx context.Context) ([]render.CommandInfo, error) {
	appID := g.applicationID()
	if appID == "" {
		return nil, errors.New("application id unknown, gateway not ready")
	}
	cmds, err := g.session.ApplicationCommandBulkOverwrite(appID, g.guildID, toApplicationCommands(bot.Catalog()), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("register commands: %w", err)
	}
	return toCommandInfo(cmds), nil
}

func (g *Gateway) applicationID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.appID
}

func (g *Gateway) baseContext() context.Context {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.base
}

func (g *Gateway) onReady(s *discordgo.Session, r *discordgo.Ready) {
	appID := ""
	if r.Application != nil {
		appID = r.Application.ID
	}
	if appID == "" && r.User != nil {
		appID = r.User.ID
	}
	g.mu.Lock()
	g.appID = appID
	g.mu.Unlock()
	if r.User != nil {
		logger.Infof("discord: logged in as %s", r.User.Username)
	}
	cmds, err := g.Sync(g.baseContext())
	if err != nil {
		logger.Errorf("discord: %v", err)
		return
	}
	logger.Infof("discord: registered %d commands", len(cmds))
}

func (g *Gateway) onInteraction(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	if ic == nil || ic.Interaction == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("discord: interaction panic: %v\n%s", r, debug.Stack())
		}
	}()
	switch ic.Type {
	case discordgo.InteractionApplicationCommand:
		rep := newReply(s, ic.Interaction, g.prompts, g.rate)
		if err := g.dispatch(g.baseContext(), rep, ic.Interaction); err != nil {
			logger.Warnf("discord: command %s: %v", ic.ApplicationCommandData().Name, err)
		}
	case discordgo.InteractionMessageComponent:
		g.onComponent(s, ic.Interaction)
	}
}

func (g *Gateway) dispatch(ctx context.Context, rep bot.Reply, i *discordgo.Interaction) error {
	data := i.ApplicationCommandData()
	strs, ints := commandArgs(data)
	target := strs[bot.ArgServerID]
	switch data.Name {
	case bot.CmdServers:
		return g.orch.Servers(ctx, rep)
	case bot.CmdServerInfo:
		return g.orch.ServerInfo(ctx, rep, target)
	case bot.CmdStart:
		return g.orch.Start(ctx, rep, target)
	case bot.CmdStop:
		return g.orch.Stop(ctx, rep, target)
	case bot.CmdLogs:
		lines, ok := ints[bot.ArgLines]
		if !ok {
			lines = bot.DefaultLogLines
		}
		return g.orch.Logs(ctx, rep, target, lines)
	case bot.CmdBackup:
		return g.orch.Backup(ctx, rep, target)
	case bot.CmdSync:
		return g.orch.Sync(ctx, rep, g, isAdmin(i))
	case bot.CmdHelp:
		return g.orch.Help(ctx, rep)
	default:
		err := fmt.Errorf("unknown command %q", data.Name)
		if sendErr := rep.Send(ctx, render.Error(err)); sendErr != nil {
			return fmt.Errorf("%w (reply failed: %v)", err, sendErr)
		}
		return err
	}
}

// onComponent acknowledges a button click and hands it to the waiting prompt.
func (g *Gateway) onComponent(s *discordgo.Session, i *discordgo.Interaction) {
	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		logger.Warnf("discord: ack component: %v", err)
	}
	promptID, optionID, ok := splitCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}
	if !g.prompts.answer(promptID, optionID) {
		logger.Debugf("discord: click on expired prompt %s", promptID)
	}
}

var _ bot.CommandSyncer = (*Gateway)(nil)
