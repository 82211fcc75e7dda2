package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/resolve-cli/internal/resolve"
)

var (
	duplicatesThreshold float64
	duplicatesMax       int
)

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates <name>",
	Short: "List possible duplicates of a company name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initResolver(ctx, "resolve")
		if err != nil {
			return err
		}
		defer env.Close()

		var opts []resolve.Option
		if duplicatesThreshold > 0 {
			opts = append(opts, resolve.WithDuplicateThreshold(duplicatesThreshold))
		}
		if duplicatesMax > 0 {
			opts = append(opts, resolve.WithMaxResults(duplicatesMax))
		}

		duplicates, err := env.Matcher.FindPossibleDuplicates(ctx, args[0], opts...)
		if err != nil {
			return err
		}
		return printJSON(duplicates)
	},
}

func init() {
	duplicatesCmd.Flags().Float64Var(&duplicatesThreshold, "threshold", 0, "similarity threshold (default from config)")
	duplicatesCmd.Flags().IntVar(&duplicatesMax, "max", 0, "max suggestions (default from config)")
	rootCmd.AddCommand(duplicatesCmd)
}
