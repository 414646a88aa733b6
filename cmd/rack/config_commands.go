package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aryan-Kanada/FSMFINAL/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the rackd configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			if _, statErr := os.Stat(path); statErr == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sample configuration written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()

			rows := [][]string{
				{"log_dir", cfg.Paths.LogDir},
				{"api_bind", cfg.Paths.APIBind},
				{"api_token", maskToken(cfg.Paths.APIToken)},
				{"plc.driver", cfg.PLC.Driver},
				{"plc.endpoint", cfg.PLC.Endpoint},
				{"plc.naming_scheme", cfg.PLC.NamingScheme},
				{"rack", fmt.Sprintf("%d positions (%dx%d)", cfg.Rack.Positions, cfg.Rack.Rows, cfg.Rack.Columns)},
				{"scan_interval", cfg.ScanInterval().String()},
				{"button_debounce", cfg.DebounceWindow().String()},
				{"auto_led_sync", fmt.Sprintf("%t", cfg.Operation.AutoLEDSync)},
				{"logging", fmt.Sprintf("%s/%s", cfg.Logging.Level, cfg.Logging.Format)},
			}
			fmt.Fprintln(stdout, renderTable([]string{"Setting", "Value"}, rows,
				[]columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}
}

func maskToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return "(none)"
	}
	if len(token) <= 4 {
		return "****"
	}
	return token[:2] + strings.Repeat("*", len(token)-4) + token[len(token)-2:]
}
