package bot

const (
	CmdServers    = "servers"
	CmdServerInfo = "serverinfo"
	CmdStart      = "start"
	CmdStop       = "stop"
	CmdLogs       = "logs"
	CmdBackup     = "backup"
	CmdSync       = "sync"
	CmdHelp       = "help"

	ArgServerID = "server_id"
	ArgLines    = "lines"

	DefaultLogLines = 15
	MinLogLines     = 1
	MaxLogLines     = 100
)

// ArgKind is the value type of a command argument.
type ArgKind int

const (
	ArgString ArgKind = iota
	ArgInteger
)

type ArgDef struct {
	Name        string
	Description string
	Kind        ArgKind
	Required    bool
	Min, Max    int
}

// CommandDef describes a slash command independent of the chat platform.
type CommandDef struct {
	Name        string
	Description string
	Args        []ArgDef
	AdminOnly   bool
}

var serverIDArg = ArgDef{Name: ArgServerID, Description: "The Crafty Controller server id", Kind: ArgString, Required: true}

// Catalog lists every command the bot answers, in registration order.
func Catalog() []CommandDef {
	return []CommandDef{
		{Name: CmdServers, Description: "List all available Minecraft servers"},
		{Name: CmdServerInfo, Description: "Get details of a server. Provide the server ID.", Args: []ArgDef{serverIDArg}},
		{Name: CmdStart, Description: "Start a server by providing its server ID.", Args: []ArgDef{serverIDArg}},
		{Name: CmdStop, Description: "Stop a server by providing its server ID.", Args: []ArgDef{serverIDArg}},
		{
			Name:        CmdLogs,
			Description: "Display the last few lines of a server's logs by providing its server ID.",
			Args: []ArgDef{
				serverIDArg,
				{Name: ArgLines, Description: "Number of lines (default 15)", Kind: ArgInteger, Min: MinLogLines, Max: MaxLogLines},
			},
		},
		{Name: CmdBackup, Description: "Backup a server by providing its server ID.", Args: []ArgDef{serverIDArg}},
		{Name: CmdSync, Description: "Sync all slash commands with Discord (Admin only)", AdminOnly: true},
		{Name: CmdHelp, Description: "Show help information about the bot"},
	}
}

// ClampLogLines bounds the lines argument to 1..100.
func ClampLogLines(n int) int {
	switch {
	case n < MinLogLines:
		return MinLogLines
	case n > MaxLogLines:
		return MaxLogLines
	default:
		return n
	}
}
