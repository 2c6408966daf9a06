package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"craftybot/internal/bot"
	"craftybot/internal/config"

	"gopkg.in/yaml.v3"
)

type StartupSummary struct {
	Source   string
	Commands []string
	Marker   string
	Poll     PollSummary
	Config   string
}

type PollSummary struct {
	Interval    string
	StartBudget int
	StopBudget  int
}

func NewStartupSummary(cfg *config.Config) *StartupSummary {
	cmds := make([]string, 0, len(bot.Catalog()))
	for _, def := range bot.Catalog() {
		cmds = append(cmds, "/"+def.Name)
	}
	marker := "disabled (running flag only)"
	if cfg.Poll.MarkerEnabled() {
		marker = cfg.Poll.ReadyPattern
	}
	dump, err := redactedYAML(cfg)
	if err != nil {
		dump = fmt.Sprintf("(unavailable: %v)", err)
	}
	return &StartupSummary{
		Source:   cfg.Source,
		Commands: cmds,
		Marker:   marker,
		Poll: PollSummary{
			Interval:    cfg.Poll.Interval().String(),
			StartBudget: cfg.Poll.StartBudget(),
			StopBudget:  cfg.Poll.StopTicks,
		},
		Config: dump,
	}
}

// redactedYAML renders the effective config with secrets masked. The json
// round trip keeps the key names operators write in config.json.
func redactedYAML(cfg *config.Config) (string, error) {
	raw, err := json.Marshal(cfg.Redacted())
	if err != nil {
		return "", err
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return "", err
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (s *StartupSummary) Print() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("%*s\n", 40+len("STARTUP SUMMARY")/2, "STARTUP SUMMARY")
	fmt.Println(strings.Repeat("=", 80))

	fmt.Println("[CONFIG]")
	fmt.Printf("  Source: %s\n", valueOr(s.Source, "(defaults)"))
	fmt.Println()

	fmt.Println("[COMMANDS]")
	fmt.Printf("  %s\n", formatList(s.Commands))
	fmt.Println()

	fmt.Println("[POLLING]")
	fmt.Printf("  Interval:     %s\n", s.Poll.Interval)
	fmt.Printf("  Start budget: %d updates\n", s.Poll.StartBudget)
	fmt.Printf("  Stop budget:  %d updates\n", s.Poll.StopBudget)
	fmt.Printf("  Ready marker: %s\n", s.Marker)
	fmt.Println()

	fmt.Println("[EFFECTIVE CONFIG]")
	for _, line := range strings.Split(strings.TrimRight(s.Config, "\n"), "\n") {
		fmt.Printf("  %s\n", line)
	}
	fmt.Println(strings.Repeat("=", 80))
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
