package main

import (
	"github.com/spf13/cobra"

	"mqreg/internal/ops"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show every registered queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			results, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				if err := writeJSON(cmd, queueRecords(results)); err != nil {
					return err
				}
			} else {
				writeQueues(cmd.OutOrStdout(), results)
			}
			return ctx.partialFailure(countFailed(results))
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "info NAME",
		Short: "Show the attributes of one queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			results := []ops.InfoResult{svc.Info(args[0])}
			if jsonOutput {
				if err := writeJSON(cmd, queueRecords(results)[0]); err != nil {
					return err
				}
			} else {
				writeQueues(cmd.OutOrStdout(), results)
			}
			return ctx.partialFailure(countFailed(results))
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}

func countFailed(results []ops.InfoResult) int {
	n := 0
	for _, result := range results {
		if result.Err != nil {
			n++
		}
	}
	return n
}
