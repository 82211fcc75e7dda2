package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/resolve-cli/internal/resolve"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <primary-id> <secondary-id>...",
	Short: "Merge duplicate companies into a primary record",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initResolver(ctx, "resolve")
		if err != nil {
			return err
		}
		defer env.Close()

		primary, err := env.Merger.Merge(ctx, args[0], args[1:])
		if err != nil {
			if resolve.IsMergeConflict(err) {
				zap.L().Error("merge rejected", zap.Error(err))
			}
			return err
		}
		return printJSON(primary)
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
