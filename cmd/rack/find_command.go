package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aryan-Kanada/FSMFINAL/internal/api"
	"github.com/Aryan-Kanada/FSMFINAL/internal/ipc"
)

func newFindCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "find <product-id>",
		Short: "Show which positions hold a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Find(args[0])
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Positions) == 0 {
					fmt.Fprintf(stdout, "Product %s is not in the rack\n", args[0])
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
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the store/retrieve audit trail",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.History()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				records := resp.Records
				if limit > 0 && len(records) > limit {
					records = records[len(records)-limit:]
				}
				if len(records) == 0 {
					fmt.Fprintln(stdout, "No store or retrieve operations recorded yet")
					return nil
				}

				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, auditRow(record))
				}
				table := renderTable(
					[]string{"When", "Operation", "Position", "Product"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				)
				fmt.Fprintln(stdout, table)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show")
	return cmd
}

func auditRow(record api.AuditView) []string {
	return []string{
		record.At.Local().Format("2006-01-02 15:04:05"),
		record.Kind,
		fmt.Sprintf("%d", record.Position),
		record.ProductID,
	}
}
