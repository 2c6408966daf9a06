package app

import (
	"context"
	"fmt"
	"strings"

	"craftybot/internal/bot"
	"craftybot/internal/config"
	"craftybot/internal/gateway/crafty"
	"craftybot/internal/gateway/discord"
	"craftybot/internal/logger"
	"craftybot/internal/poller"
	opshttp "craftybot/internal/transport/http/ops"
)

// opsDisabled turns the ops HTTP server off when used as app.http_addr.
const opsDisabled = "off"

type AppBuilder struct {
	cfg *config.Config

	panelFn   func(*config.Config) (*crafty.Client, error)
	gatewayFn func(*config.Config, *bot.Orchestrator) (runner, error)
	opsHTTPFn func(config.AppConfig, *crafty.Client) (*opshttp.Server, error)
	clock     poller.Clock
}

type AppBuilderOption func(*AppBuilder)

// WithGateway replaces the Discord gateway, used by tests and dry runs.
func WithGateway(fn func(*config.Config, *bot.Orchestrator) (runner, error)) AppBuilderOption {
	return func(b *AppBuilder) { b.gatewayFn = fn }
}

func WithClock(c poller.Clock) AppBuilderOption {
	return func(b *AppBuilder) { b.clock = c }
}

func NewAppBuilder(cfg *config.Config, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		cfg:       cfg,
		panelFn:   crafty.NewClient,
		gatewayFn: buildDiscordGateway,
		opsHTTPFn: buildOpsHTTPServer,
		clock:     poller.RealClock{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if b.cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	panel, err := b.panelFn(b.cfg)
	if err != nil {
		return nil, fmt.Errorf("crafty client: %w", err)
	}
	orch, err := bot.NewOrchestrator(b.cfg, panel, b.clock)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	gw, err := b.gatewayFn(b.cfg, orch)
	if err != nil {
		return nil, fmt.Errorf("discord gateway: %w", err)
	}
	ops, err := b.opsHTTPFn(b.cfg.App, panel)
	if err != nil {
		return nil, fmt.Errorf("ops http server: %w", err)
	}
	logger.Debugf("app built (ops http %s)", valueOr(ops.Addr(), "disabled"))
	return &App{
		cfg:     b.cfg,
		gateway: gw,
		opsHTTP: ops,
		Summary: NewStartupSummary(b.cfg),
	}, nil
}

func buildDiscordGateway(cfg *config.Config, orch *bot.Orchestrator) (runner, error) {
	return discord.New(cfg, orch)
}

func buildOpsHTTPServer(cfg config.AppConfig, panel *crafty.Client) (*opshttp.Server, error) {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if strings.EqualFold(addr, opsDisabled) {
		return nil, nil
	}
	return opshttp.NewServer(opshttp.ServerConfig{Addr: addr, Panel: panel, Health: panel.Health})
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
