package discord

import (
	"context"
	"fmt"
	"time"

	"craftybot/internal/bot"
	"craftybot/internal/render"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// interactionAPI is the part of *discordgo.Session a reply needs.
type interactionAPI interface {
	InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(i *discordgo.Interaction, edit *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// reply is the bot.Reply of one slash command interaction. It answers the
// interaction once and afterwards only edits the original response.
type reply struct {
	api         interactionAPI
	interaction *discordgo.Interaction
	prompts     *prompts
	limiter     *rate.Limiter

	responded bool
}

func newReply(api interactionAPI, i *discordgo.Interaction, p *prompts, editsPerSecond float64) *reply {
	limit := rate.Inf
	if editsPerSecond > 0 {
		limit = rate.Limit(editsPerSecond)
	}
	return &reply{api: api, interaction: i, prompts: p, limiter: rate.NewLimiter(limit, 1)}
}

func (r *reply) Defer(ctx context.Context) error {
	if r.responded {
		return nil
	}
	err := r.api.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("defer interaction: %w", err)
	}
	r.responded = true
	return nil
}

func (r *reply) Send(ctx context.Context, msg render.Message) error {
	return r.publish(ctx, msg, []discordgo.MessageComponent{})
}

func (r *reply) Edit(ctx context.Context, msg render.Message) error {
	return r.publish(ctx, msg, []discordgo.MessageComponent{})
}

func (r *reply) Choose(ctx context.Context, msg render.Message, options []bot.Option, timeout time.Duration) (string, error) {
	id, answers := r.prompts.open()
	defer r.prompts.close(id)

	if err := r.publish(ctx, msg, toComponents(id, options)); err != nil {
		return "", err
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case choice := <-answers:
		return choice, nil
	case <-expired:
		return "", bot.ErrPromptTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// publish writes msg as the original response: the first call answers the
// interaction, later calls are paced edits.
func (r *reply) publish(ctx context.Context, msg render.Message, components []discordgo.MessageComponent) error {
	content, embeds := toEmbeds(msg)
	if !r.responded {
		err := r.api.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:    content,
				Embeds:     embeds,
				Components: components,
			},
		}, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("respond interaction: %w", err)
		}
		r.responded = true
		return nil
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := r.api.InteractionResponseEdit(r.interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("edit interaction response: %w", err)
	}
	return nil
}

var _ bot.Reply = (*reply)(nil)
