package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Aryan-Kanada/FSMFINAL/internal/ipc"
)

func newStoreCommand(ctx *commandContext) *cobra.Command {
	var position int

	cmd := &cobra.Command{
		Use:   "store <product-id>",
		Short: "Queue a store task for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Store(args[0], position)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if resp.Task.Position > 0 {
					fmt.Fprintf(stdout, "Store task %s queued for position %d\n", resp.Task.ID, resp.Task.Position)
				} else {
					fmt.Fprintf(stdout, "Store task %s queued (first empty position)\n", resp.Task.ID)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&position, "position", "p", 0, "Target position (default: first empty)")
	return cmd
}

func newRetrieveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retrieve <position>",
		Short: "Queue a retrieve task for a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Retrieve(position)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Retrieve task %s queued for position %d\n", resp.Task.ID, position)
				return nil
			})
		},
	}
}

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reconcile every LED with the logical occupancy state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Refresh()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Refresh task %s queued\n", resp.Task.ID)
				return nil
			})
		},
	}
}

func newResumeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Clear an emergency stop latch and resume operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Resume()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if resp.Resumed {
					fmt.Fprintln(stdout, "Emergency latch cleared, operations resumed")
				} else {
					fmt.Fprintf(stdout, "Resume refused: %s\n", resp.Message)
				}
				return nil
			})
		},
	}
}
