package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Aryan-Kanada/FSMFINAL/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show system and queue status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return err
				}
				status := resp.Status

				for _, line := range renderSectionHeader("System Status", colorize) {
					fmt.Fprintln(stdout, line)
				}
				daemonKind := statusError
				daemonMsg := "stopped"
				if status.Running {
					daemonKind = statusOK
					daemonMsg = fmt.Sprintf("running (pid %d)", status.PID)
				}
				fmt.Fprintln(stdout, renderStatusLine("Daemon", daemonKind, daemonMsg, colorize))
				fmt.Fprintln(stdout, renderStatusLine("System", systemStatusKind(status.System), status.System, colorize))

				queueKind := statusOK
				queueMsg := fmt.Sprintf("accepting, %d pending", status.QueueSize)
				if !status.QueueAccepting {
					queueKind = statusWarn
					queueMsg = fmt.Sprintf("closed, %d pending", status.QueueSize)
				}
				fmt.Fprintln(stdout, renderStatusLine("Queue", queueKind, queueMsg, colorize))

				if status.EmergencyLatched {
					fmt.Fprintln(stdout, renderStatusLine("Emergency", statusError,
						"latched; clear the stop and run `rack resume`", colorize))
				}
				if status.ActiveTask != nil {
					fmt.Fprintln(stdout, renderStatusLine("Active task", statusInfo,
						fmt.Sprintf("%s (%s)", status.ActiveTask.ID, status.ActiveTask.Kind), colorize))
				}
				fmt.Fprintln(stdout)

				for _, line := range renderSectionHeader("Occupancy", colorize) {
					fmt.Fprintln(stdout, line)
				}
				stats := status.Statistics
				rows := [][]string{
					{"Total positions", strconv.Itoa(stats.Total)},
					{"Occupied", strconv.Itoa(stats.Occupied)},
					{"Empty", strconv.Itoa(stats.Empty)},
					{"Occupancy", fmt.Sprintf("%.1f%%", stats.OccupancyPercent)},
					{"Unique products", strconv.Itoa(stats.UniqueProducts)},
				}
				table := renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(stdout, table)
				return nil
			})
		},
	}
}

func systemStatusKind(system string) statusKind {
	switch system {
	case "monitoring":
		return statusOK
	case "emergency", "error":
		return statusError
	case "connecting":
		return statusWarn
	default:
		return statusInfo
	}
}
