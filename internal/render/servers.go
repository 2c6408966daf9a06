package render

import (
	"fmt"
	"strings"

	"craftybot/internal/gateway/crafty"

	"github.com/shopspring/decimal"
)

const (
	NoServersText         = "No servers found."
	ServersFailedText     = "Failed to retrieve servers."
	publicIPUnavailable   = "Failed to retrieve public IP address"
	internalIPUnavailable = "Cannot get Internal IP!"
)

// ServerState is the coarse live state shown next to a server.
type ServerState int

const (
	StateUnknown ServerState = iota
	StateOnline
	StateOffline
	// StateUnavailable means the stats call itself failed.
	StateUnavailable
)

// StateOf maps a stats read to a ServerState.
func StateOf(stats *crafty.ServerStats, err error) ServerState {
	switch {
	case err != nil:
		return StateUnavailable
	case stats == nil:
		return StateUnknown
	case bool(stats.Running):
		return StateOnline
	default:
		return StateOffline
	}
}

func (s ServerState) label() string {
	switch s {
	case StateOnline:
		return "🟢 Online"
	case StateOffline:
		return "🔴 Offline"
	case StateUnavailable:
		return "⚠️ Status Unavailable"
	default:
		return "❓ Unknown"
	}
}

func (s ServerState) severity() Severity {
	switch s {
	case StateOnline:
		return SeverityPositive
	case StateOffline:
		return SeverityNegative
	default:
		return SeverityNeutral
	}
}

// ServerEntry is one row of the servers list.
type ServerEntry struct {
	Summary crafty.ServerSummary
	State   ServerState
}

// ServerList renders the servers command. An empty list is the literal
// NoServersText with no card.
func ServerList(entries []ServerEntry) Message {
	if len(entries) == 0 {
		return Message{Content: NoServersText}
	}
	msg := Message{
		Title:       "Available Minecraft Servers",
		Description: "Here are all available servers from Crafty Controller:",
		Severity:    SeverityNeutral,
		Footer:      "Use /serverinfo <id> for more details",
	}
	for _, e := range entries {
		status := e.State.label()
		if e.State == StateUnavailable {
			status += ", is the Server unloaded?"
		}
		msg.add(
			fmt.Sprintf("Name: %s | ID: *%s*", valueOr(e.Summary.Name.String(), "Unnamed"), e.Summary.ID),
			fmt.Sprintf("**Type:** %s\n**Status:** %s", valueOr(e.Summary.Type.String(), "Unknown"), status),
			false,
		)
	}
	if len(entries) > maxFields {
		msg.Footer = fmt.Sprintf("Showing %d of %d servers. %s", maxFields, len(entries), msg.Footer)
	}
	return msg
}

// ServerListFailed renders a failed GET /servers.
func ServerListFailed(err error) Message {
	return Failure(ServersFailedText, err)
}

// ServerInfo renders the serverinfo command. stats may be nil when statsErr
// is set; the card then shows the status as unavailable.
func ServerInfo(detail crafty.ServerDetail, stats *crafty.ServerStats, statsErr error) Message {
	state := StateOf(stats, statsErr)
	msg := Message{
		Title:       "Server Information: " + valueOr(detail.Name.String(), "Server "+detail.ID.String()),
		Description: "Detailed information about this Minecraft server:",
		Severity:    state.severity(),
		Footer:      "Use /start or /stop to control this server",
	}
	msg.add("🆔 Server ID", detail.ID.String(), true)
	msg.add("🏷️ Server Type", valueOr(detail.Type.String(), "Unknown"), true)
	msg.add("🔌 Status", state.label(), true)

	ip := strings.TrimSpace(detail.IP.String())
	if isInternalAddress(ip) {
		msg.add("🌐 Internal IP Address", ip, true)
		msg.add("🌐 Public IP Address", publicIPUnavailable, true)
	} else {
		msg.add("🌐 Public IP Address", valueOr(ip, publicIPUnavailable), true)
		msg.add("🌐 Internal IP Address", internalIPUnavailable, true)
	}
	msg.add("🔢 Port", fmt.Sprintf("%d", int(detail.Port)), true)

	if state == StateOnline && stats != nil {
		msg.add("👥 Players", fmt.Sprintf("%d/%d", int(stats.Online), int(stats.Max)), true)
		msg.add("🧠 CPU", percent(float64(stats.CPU)), true)
		memory := percent(float64(stats.MemPercent))
		if mem := strings.TrimSpace(stats.Mem.String()); mem != "" {
			memory = fmt.Sprintf("%s (%s)", memory, mem)
		}
		msg.add("💾 Memory", memory, true)
		if version := strings.TrimSpace(stats.Version.String()); version != "" {
			msg.add("📦 Version", version, true)
		}
	}
	return msg
}

// ServerInfoFailed renders a failed GET /servers/{id}.
func ServerInfoFailed(target string, err error) Message {
	title := fmt.Sprintf("Failed to retrieve information for server ID `%s`.", target)
	if crafty.IsNotFound(err) {
		title = fmt.Sprintf("Server `%s` was not found.", target)
	}
	return Failure(title, err)
}

func isInternalAddress(ip string) bool {
	switch strings.ToLower(ip) {
	case "127.0.0.1", "localhost", "docker_internal", "::1":
		return true
	}
	return false
}

func percent(v float64) string {
	return decimal.NewFromFloat(v).Round(1).String() + "%"
}
