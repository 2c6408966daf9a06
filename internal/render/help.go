package render

import "strings"

// HelpPage names one page of the paged help.
type HelpPage string

const (
	HelpMain            HelpPage = "main"
	HelpCommands        HelpPage = "commands"
	HelpSetup           HelpPage = "setup"
	HelpTroubleshooting HelpPage = "troubleshooting"
	HelpAbout           HelpPage = "about"
)

const helpNavFooter = "Use the buttons below to navigate through different help sections"

// HelpNav is the ordered navigation shown under every help page.
var HelpNav = []struct {
	Page  HelpPage
	Label string
}{
	{HelpCommands, "📚 Commands"},
	{HelpSetup, "🔧 Setup Guide"},
	{HelpTroubleshooting, "⚠️ Troubleshooting"},
	{HelpAbout, "🔄 About"},
	{HelpMain, "🏠 Main Menu"},
}

// Help renders one help page. Unknown pages render the main page.
func Help(page HelpPage) Message {
	switch page {
	case HelpCommands:
		return helpCommands()
	case HelpSetup:
		return helpSetup()
	case HelpTroubleshooting:
		return helpTroubleshooting()
	case HelpAbout:
		return helpAbout()
	default:
		return helpMain()
	}
}

func HelpExpired() Message {
	return Message{
		Title:       "⏱️ Help Session Expired",
		Description: "This help session has expired. Please use the `/help` command again if needed.",
		Severity:    SeverityNeutral,
	}
}

func helpMain() Message {
	msg := Message{
		Title:       "🔰 Crafty Bot Help",
		Description: "Welcome to the Crafty Bot help system! Use the buttons below to navigate through different help sections.",
		Severity:    SeverityNeutral,
		Footer:      helpNavFooter,
	}
	msg.add("📚 Commands", "View all available commands and their usage", true)
	msg.add("🔧 Setup Guide", "Learn how to set up and configure the bot", true)
	msg.add("⚠️ Troubleshooting", "Common issues and their solutions", true)
	msg.add("🔄 About", "Information about the bot and its features", true)
	return msg
}

func helpCommands() Message {
	msg := Message{
		Title:       "📚 Available Commands",
		Description: "Here's a list of all available commands:",
		Severity:    SeverityNeutral,
		Footer:      helpNavFooter,
	}
	msg.add("🔍 Server Information", lines(
		"`/servers` - List all available Minecraft servers",
		"`/serverinfo <server_id>` - Get detailed info about a server",
		"`/logs <server_id> [lines]` - Display the last few lines of logs (1-100, default 15)",
	), false)
	msg.add("🎮 Server Control", lines(
		"`/start <server_id>` - Start a server and follow it until it is ready",
		"`/stop <server_id>` - Stop a server and follow it until it is down",
		"`/backup <server_id>` - Request a server backup (Note: Currently limited by Crafty API)",
	), false)
	msg.add("❓ Help & Utility", lines(
		"`/help` - Show this help message",
		"`/sync` - Re-register slash commands (administrators only)",
	), false)
	return msg
}

func helpSetup() Message {
	msg := Message{
		Title:       "🔧 Bot Setup Guide",
		Description: "Follow these steps to set up the bot:",
		Severity:    SeverityPositive,
		Footer:      helpNavFooter,
	}
	msg.add("Step 1: Build", lines(
		"1. Install Go 1.24 or newer",
		"2. Build the binary: `go build -o craftybot ./cmd/craftybot`",
	), false)
	msg.add("Step 2: Configuration", lines(
		"1. Create `config.json` next to the binary (or point `CRAFTYBOT_CONFIG` at another file)",
		"2. Set the following values:",
		"   - `discord_token`: Your Discord bot token",
		"   - `crafty_api_token`: Your Crafty Controller API token",
		"   - `crafty_api_url`: URL to your Crafty Controller API (e.g., `https://crafty.example.com/api/v2`)",
		"3. Secrets can also come from `CRAFTYBOT_DISCORD_TOKEN` and `CRAFTYBOT_CRAFTY_API_TOKEN`",
	), false)
	msg.add("Step 3: Start the Bot", lines(
		"1. Run the bot: `./craftybot`",
		"2. The bot connects to Discord and registers its slash commands",
		"3. The startup summary in the console shows the effective configuration",
	), false)
	msg.add("Discord Bot Creation", lines(
		"If you need to create a Discord bot token:",
		"1. Go to [Discord Developer Portal](https://discord.com/developers/applications)",
		"2. Create a New Application",
		"3. Navigate to the Bot section and add a bot",
		"4. Invite it with the `bot` and `applications.commands` scopes",
		"5. Copy the token for use in your config.json",
	), false)
	return msg
}

func helpTroubleshooting() Message {
	msg := Message{
		Title:       "⚠️ Troubleshooting",
		Description: "Common issues and their solutions:",
		Severity:    SeverityNeutral,
		Footer:      helpNavFooter,
	}
	msg.add("🔌 Connection Issues", lines(
		"**Bot doesn't connect to Discord:**",
		"• Verify your Discord token is correct",
		"• Check your internet connection",
		"",
		"**Bot can't connect to Crafty Controller:**",
		"• Verify the Crafty API URL is correct",
		"• Check if the Crafty API token is valid",
		"• Ensure Crafty Controller is running",
		"• Check if there are any SSL/certificate issues",
	), false)
	msg.add("⌨️ Command Issues", lines(
		"**Slash commands not showing up:**",
		"• Reinvite the bot with the applications.commands scope",
		"• Ask an administrator to run `/sync`",
		"• Restart the bot",
		"",
		"**Commands return errors:**",
		"• Check the bot's console for specific error messages",
		"• Verify the server ID is correct",
	), false)
	msg.add("🖥️ Server Operation Issues", lines(
		"**Start/Stop commands not working:**",
		"• Verify your Crafty API permissions",
		"• Check if the server exists and is accessible",
		"• Look for error messages in Crafty Controller logs",
		"",
		"**Backup command issues:**",
		"• Known issue with Crafty Controller API",
		"• Configure backups in Crafty web interface first",
		"• Consider server-specific backup plugins",
	), false)
	return msg
}

func helpAbout() Message {
	msg := Message{
		Title:       "ℹ️ About Crafty Bot",
		Description: "A Discord bot for managing Minecraft servers through Crafty Controller",
		Severity:    SeverityNeutral,
		Footer:      "Thanks for using Crafty Bot!",
	}
	msg.add("✨ Features", lines(
		"• Manage Minecraft servers directly from Discord",
		"• View server information and statistics",
		"• Start, stop, and monitor servers with live updates",
		"• View logs and request backups",
	), false)
	msg.add("📋 Requirements", lines(
		"• A running Crafty Controller instance (API v2)",
		"• Discord bot token",
		"• Crafty Controller API token",
	), false)
	return msg
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n")
}
