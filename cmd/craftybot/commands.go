package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"craftybot/internal/app"
	"craftybot/internal/config"
	"craftybot/internal/gateway/crafty"
	"craftybot/internal/logger"

	"github.com/spf13/cobra"
)

const panelCallTimeout = 10 * time.Second

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "craftybot",
		Short:        "Discord bot for Crafty Controller",
		Long:         "craftybot manages Crafty Controller servers from Discord slash commands.",
		SilenceUsage: true,
		RunE:         runBot,
	}
	cmd.PersistentFlags().StringP("config", "c", envOrDefault("CRAFTYBOT_CONFIG", "config.json"), "config file (json, yaml or toml)")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newServersCmd())
	return cmd
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and serve commands (default)",
		RunE:  runBot,
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			s := app.NewStartupSummary(cfg)
			fmt.Fprintf(cmd.OutOrStdout(), "# source: %s\n", valueOr(cfg.Source, "(defaults)"))
			fmt.Fprint(cmd.OutOrStdout(), s.Config)
			return nil
		},
	}
}

func newServersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "servers",
		Short: "List panel servers, useful to check the API token and URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, err := crafty.NewClient(cfg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), panelCallTimeout)
			defer cancel()
			servers, err := client.ListServers(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(servers) == 0 {
				fmt.Fprintln(out, "No servers found.")
				return nil
			}
			fmt.Fprintf(out, "%-38s %-30s %-20s\n", "ID", "NAME", "TYPE")
			for _, s := range servers {
				fmt.Fprintf(out, "%-38s %-30s %-20s\n", s.ID, s.Name, s.Type)
			}
			return nil
		},
	}
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logFile, err := setupLogOutput(cfg.App.LogPath)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger.SetFormat(cfg.App.LogFormat)
	logger.SetLevel(cfg.App.LogLevel)
	logger.Infof("config loaded (env=%s, source=%s)", cfg.App.Env, valueOr(cfg.Source, "defaults"))

	a, err := app.NewApp(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	if err := a.Run(cmd.Context()); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	logger.Infof("shutdown complete")
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func setupLogOutput(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	dir := filepath.Dir(trimmed)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	mw := io.MultiWriter(os.Stdout, file)
	log.SetOutput(mw)
	logger.SetOutput(mw)
	return file, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
