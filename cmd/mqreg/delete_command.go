package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mqreg/internal/ops"
	"mqreg/internal/registry"
)

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var all bool
	var pattern string
	var ignoreCase bool
	var forget bool

	cmd := &cobra.Command{
		Use:   "delete [NAME]",
		Short: "Delete registered queues",
		Long: "Unlink the queue called NAME, every queue whose registry entry matches\n" +
			"--pattern, or every registered queue with --all. Entries whose unlink\n" +
			"fails stay in the registry. --forget drops entries without unlinking.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern = strings.TrimSpace(pattern)
			var name string
			if len(args) == 1 {
				name = strings.TrimSpace(args[0])
			}
			selectors := 0
			for _, set := range []bool{name != "", all, pattern != ""} {
				if set {
					selectors++
				}
			}
			switch {
			case selectors == 0:
				return errors.New("specify the name of the queue to delete, --pattern, or --all to delete every registered queue")
			case selectors > 1:
				return errors.New("NAME, --pattern, and --all are mutually exclusive")
			}
			if ignoreCase && pattern == "" {
				return errors.New("--ignore-case requires --pattern")
			}

			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}

			var selected registry.Pattern
			switch {
			case all:
				selected = registry.MatchAll()
			case pattern != "":
				var flags registry.MatchFlags
				if ignoreCase {
					flags |= registry.MatchIgnoreCase
				}
				selected = registry.Regex(pattern, flags)
			default:
				selected = registry.Exact(name)
			}

			var result ops.RemoveResult
			switch {
			case forget:
				result, err = svc.Forget(cmd.Context(), selected)
			case all:
				result, err = svc.DeleteAll(cmd.Context())
			case pattern != "":
				result, err = svc.DeleteMatching(cmd.Context(), selected)
			default:
				result, err = svc.Delete(cmd.Context(), name)
			}
			if errors.Is(err, ops.ErrNoRegistry) {
				fmt.Fprintln(cmd.OutOrStdout(), err)
				return nil
			}
			if err != nil {
				return err
			}

			verb := "deleted"
			if forget {
				verb = "forgotten"
			}
			printRemoveResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result, verb)
			if name != "" && len(result.Removed) == 0 && len(result.Retained) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "mq: %s is not registered\n", name)
				return ctx.partialFailure(1)
			}
			return ctx.partialFailure(len(result.Retained))
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Delete every registered queue")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Delete queues whose registry entry matches this regular expression")
	cmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "Match --pattern case-insensitively")
	cmd.Flags().BoolVar(&forget, "forget", false, "Drop registry entries without unlinking queues")
	return cmd
}

func newPruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop registry entries whose queue no longer exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			result, err := svc.Prune(cmd.Context())
			if errors.Is(err, ops.ErrNoRegistry) {
				fmt.Fprintln(cmd.OutOrStdout(), err)
				return nil
			}
			if err != nil {
				return err
			}
			printRemoveResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result, "pruned")
			if len(result.Removed) == 0 && len(result.Retained) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "registry is up to date")
			}
			return ctx.partialFailure(len(result.Retained))
		},
	}
}

func printRemoveResult(out, errOut io.Writer, result ops.RemoveResult, verb string) {
	for _, name := range result.Removed {
		fmt.Fprintf(out, "mq: %s %s\n", name, verb)
	}
	for _, failure := range result.Retained {
		fmt.Fprintf(errOut, "mq: %s kept: %s\n", failure.Line, describeError(failure.Err))
	}
}
