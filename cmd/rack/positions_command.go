package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aryan-Kanada/FSMFINAL/internal/api"
	"github.com/Aryan-Kanada/FSMFINAL/internal/ipc"
)

func newPositionsCommand(ctx *commandContext) *cobra.Command {
	var asGrid bool

	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Show the rack contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Positions()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if asGrid {
					printGrid(stdout, resp.Grid)
					return nil
				}

				rows := make([][]string, 0, len(resp.Positions))
				for _, position := range resp.Positions {
					rows = append(rows, positionRow(position))
				}
				table := renderTable(
					[]string{"Position", "Location", "State", "Product", "Stored", "LED"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(stdout, table)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&asGrid, "grid", "g", false, "Render as a physical rack grid (occupied positions bracketed)")
	return cmd
}

func positionRow(position api.PositionView) []string {
	stored := ""
	if !position.StoredAt.IsZero() {
		stored = position.StoredAt.Local().Format("2006-01-02 15:04:05")
	}
	led := "off"
	if position.LEDShadow {
		led = "on"
	}
	return []string{
		position.Name,
		fmt.Sprintf("R%dC%d", position.Row, position.Column),
		position.State,
		position.ProductID,
		stored,
		led,
	}
}

func printGrid(stdout io.Writer, grid [][]string) {
	for _, row := range grid {
		fmt.Fprintln(stdout, strings.Join(row, " "))
	}
}

func newTasksCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Show pending tasks and recent history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Tasks()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)

				rows := make([][]string, 0, 1+len(resp.Pending))
				if resp.Active != nil {
					rows = append(rows, taskRow(*resp.Active))
				}
				for _, task := range resp.Pending {
					rows = append(rows, taskRow(task))
				}

				for _, line := range renderSectionHeader("Queue", colorize) {
					fmt.Fprintln(stdout, line)
				}
				if len(rows) == 0 {
					fmt.Fprintln(stdout, "Queue is empty")
				} else {
					fmt.Fprintln(stdout, renderTaskTable(rows))
				}

				history := make([][]string, 0, limit)
				recent := append(resp.Completed, resp.Failed...)
				for i := len(recent) - 1; i >= 0 && len(history) < limit; i-- {
					history = append(history, taskRow(recent[i]))
				}
				fmt.Fprintln(stdout)
				for _, line := range renderSectionHeader("Recent History", colorize) {
					fmt.Fprintln(stdout, line)
				}
				if len(history) == 0 {
					fmt.Fprintln(stdout, "No finished tasks yet")
				} else {
					fmt.Fprintln(stdout, renderTaskTable(history))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum history entries to show")
	return cmd
}

func renderTaskTable(rows [][]string) string {
	return renderTable(
		[]string{"Task", "Kind", "Position", "Product", "Status", "Result"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
	)
}

func taskRow(task api.TaskView) []string {
	position := ""
	if task.Position > 0 {
		position = strconv.Itoa(task.Position)
	}
	return []string{task.ID, task.Kind, position, task.ProductID, task.Status, task.Result}
}
