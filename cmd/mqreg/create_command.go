package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mqreg/internal/batch"
	"mqreg/internal/mqueue"
	"mqreg/internal/ops"
)

func newCreateCommand(ctx *commandContext) *cobra.Command {
	var size int
	var maxMessages int
	var batchPath string

	cmd := &cobra.Command{
		Use:   "create [NAME]",
		Short: "Create a queue, or every queue in a batch file",
		Long: "Create a queue called NAME and record it in the registry.\n\n" +
			"Without NAME, every entry of the batch file (--config, or queues.batch_file\n" +
			"from the configuration) is created with its own size and maxmsgs.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureRegistryDir(); err != nil {
				return err
			}
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				limits := svc.ResolveLimits(mqueue.Limits{MessageSize: size, MaxMessages: maxMessages})
				result := svc.Create(cmd.Context(), args[0], limits)
				printCreateResult(out, cmd.ErrOrStderr(), result)
				if !result.OK() {
					return ctx.partialFailure(1)
				}
				return nil
			}

			path := strings.TrimSpace(batchPath)
			if path == "" {
				path = cfg.Queues.BatchFile
			}
			doc, err := batch.Load(path)
			if err != nil {
				return err
			}
			result, err := svc.CreateBatch(cmd.Context(), doc)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			for _, skipped := range result.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: skipped %s\n", path, skipped)
			}
			for _, created := range result.Created {
				printCreateResult(out, cmd.ErrOrStderr(), created)
			}
			return ctx.partialFailure(result.Failed())
		},
	}

	cmd.Flags().IntVarP(&size, "size", "s", 0, "Maximum message size in bytes (0 uses the system default)")
	cmd.Flags().IntVar(&maxMessages, "max", 0, "Maximum number of messages (0 uses queues.default_max_messages)")
	cmd.Flags().StringVar(&batchPath, "config", "", "Batch file listing queues to create")
	return cmd
}

func printCreateResult(out, errOut io.Writer, result ops.CreateResult) {
	fmt.Fprintf(out, "try to create mq: %-10s ---> ", result.Name)
	switch {
	case result.Err != nil:
		fmt.Fprintln(out, describeError(result.Err))
	case result.AttrErr != nil:
		fmt.Fprintln(out, "created")
		fmt.Fprintln(out, plainQueueLine(ops.InfoResult{Name: result.Name, Err: result.AttrErr}))
	default:
		fmt.Fprintln(out, "created")
		fmt.Fprintln(out, plainQueueLine(ops.InfoResult{Name: result.Name, Attributes: result.Attributes}))
	}
	if result.RecordErr != nil {
		fmt.Fprintf(errOut, "warning: %s not recorded in registry: %v\n", result.Name, result.RecordErr)
	}
}
