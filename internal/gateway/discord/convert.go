package discord

import (
	"strings"

	"craftybot/internal/bot"
	"craftybot/internal/render"

	"github.com/bwmarrin/discordgo"
)

const (
	colorPositive = 0x2ecc71
	colorNegative = 0xe74c3c
	colorNeutral  = 0x3498db

	// customIDSep joins a prompt id and an option id in a button custom id.
	customIDSep = ":"
)

func severityColor(s render.Severity) int {
	switch s {
	case render.SeverityPositive:
		return colorPositive
	case render.SeverityNegative:
		return colorNegative
	default:
		return colorNeutral
	}
}

// toEmbeds converts a message into its Discord form. Plain messages have no
// embed.
func toEmbeds(msg render.Message) (string, []*discordgo.MessageEmbed) {
	if msg.IsPlain() {
		return msg.Content, []*discordgo.MessageEmbed{}
	}
	embed := &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Description,
		Color:       severityColor(msg.Severity),
	}
	for _, f := range msg.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	if msg.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: msg.Footer}
	}
	return msg.Content, []*discordgo.MessageEmbed{embed}
}

func buttonStyle(s bot.OptionStyle) discordgo.ButtonStyle {
	switch s {
	case bot.StyleSuccess:
		return discordgo.SuccessButton
	case bot.StyleDanger:
		return discordgo.DangerButton
	case bot.StyleSecondary:
		return discordgo.SecondaryButton
	default:
		return discordgo.PrimaryButton
	}
}

// toComponents lays options out as buttons, five per row.
func toComponents(promptID string, options []bot.Option) []discordgo.MessageComponent {
	const perRow = 5
	rows := []discordgo.MessageComponent{}
	for start := 0; start < len(options); start += perRow {
		end := start + perRow
		if end > len(options) {
			end = len(options)
		}
		row := discordgo.ActionsRow{}
		for _, opt := range options[start:end] {
			row.Components = append(row.Components, discordgo.Button{
				Label:    opt.Label,
				Style:    buttonStyle(opt.Style),
				CustomID: promptID + customIDSep + opt.ID,
			})
		}
		rows = append(rows, row)
	}
	return rows
}

func splitCustomID(customID string) (promptID, optionID string, ok bool) {
	promptID, optionID, ok = strings.Cut(customID, customIDSep)
	if !ok || promptID == "" || optionID == "" {
		return "", "", false
	}
	return promptID, optionID, true
}

// toApplicationCommands maps the bot catalog to slash command definitions.
func toApplicationCommands(defs []bot.CommandDef) []*discordgo.ApplicationCommand {
	out := make([]*discordgo.ApplicationCommand, 0, len(defs))
	for _, def := range defs {
		cmd := &discordgo.ApplicationCommand{
			Name:        def.Name,
			Description: def.Description,
		}
		if def.AdminOnly {
			perm := int64(discordgo.PermissionAdministrator)
			cmd.DefaultMemberPermissions = &perm
		}
		for _, arg := range def.Args {
			opt := &discordgo.ApplicationCommandOption{
				Name:        arg.Name,
				Description: arg.Description,
				Required:    arg.Required,
				Type:        discordgo.ApplicationCommandOptionString,
			}
			if arg.Kind == bot.ArgInteger {
				opt.Type = discordgo.ApplicationCommandOptionInteger
				if arg.Max > 0 {
					lo := float64(arg.Min)
					opt.MinValue = &lo
					opt.MaxValue = float64(arg.Max)
				}
			}
			cmd.Options = append(cmd.Options, opt)
		}
		out = append(out, cmd)
	}
	return out
}

func toCommandInfo(cmds []*discordgo.ApplicationCommand) []render.CommandInfo {
	out := make([]render.CommandInfo, 0, len(cmds))
	for _, c := range cmds {
		if c == nil {
			continue
		}
		out = append(out, render.CommandInfo{Name: c.Name, Description: c.Description})
	}
	return out
}

// commandArgs reads the string and integer options of a slash command.
func commandArgs(data discordgo.ApplicationCommandInteractionData) (strs map[string]string, ints map[string]int) {
	strs = map[string]string{}
	ints = map[string]int{}
	for _, opt := range data.Options {
		if opt == nil {
			continue
		}
		switch opt.Type {
		case discordgo.ApplicationCommandOptionInteger:
			ints[opt.Name] = int(opt.IntValue())
		case discordgo.ApplicationCommandOptionString:
			strs[opt.Name] = opt.StringValue()
		}
	}
	return strs, ints
}

func isAdmin(i *discordgo.Interaction) bool {
	if i == nil || i.Member == nil {
		return false
	}
	return i.Member.Permissions&discordgo.PermissionAdministrator != 0
}
