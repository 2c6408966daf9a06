package bot

import (
	"context"
	"errors"
	"time"

	"craftybot/internal/render"
)

// ErrPromptTimeout is returned by Reply.Choose when nobody picked an option in
// time.
var ErrPromptTimeout = errors.New("bot: prompt timed out")

// OptionStyle hints how a choice is drawn.
type OptionStyle int

const (
	StylePrimary OptionStyle = iota
	StyleSuccess
	StyleDanger
	StyleSecondary
)

// Option is one answer of a single-choice prompt.
type Option struct {
	ID    string
	Label string
	Style OptionStyle
}

// Reply is the chat surface of one command invocation. Send publishes the
// first message; Edit replaces it in place. Only the owning invocation uses a
// Reply, so implementations need not be safe for concurrent use.
type Reply interface {
	// Defer acknowledges the command before a slow first message.
	Defer(ctx context.Context) error
	Send(ctx context.Context, msg render.Message) error
	Edit(ctx context.Context, msg render.Message) error
	// Choose shows msg with options and blocks until one is picked, ctx is
	// done or timeout elapses (ErrPromptTimeout). It returns the option ID.
	Choose(ctx context.Context, msg render.Message, options []Option, timeout time.Duration) (string, error)
}

// CommandSyncer re-registers the slash commands with the chat platform.
type CommandSyncer interface {
	Sync(ctx context.Context) ([]render.CommandInfo, error)
}
