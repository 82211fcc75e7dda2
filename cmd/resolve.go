package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/resolve-cli/internal/resolve"
)

var resolveRefresh bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <name>...",
	Short: "Resolve company names against the registry",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initResolver(ctx, "resolve")
		if err != nil {
			return err
		}
		defer env.Close()

		var opts []resolve.Option
		if resolveRefresh {
			opts = append(opts, resolve.WithRefresh())
		}

		if len(args) == 1 {
			result, err := env.Matcher.Resolve(ctx, args[0], opts...)
			if err != nil {
				return err
			}
			return printJSON(result)
		}

		results, err := env.Matcher.BatchResolve(ctx, args, opts...)
		if err != nil {
			return err
		}
		return printJSON(results)
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveRefresh, "refresh", false, "bypass the match cache")
	rootCmd.AddCommand(resolveCmd)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode output")
	}
	return nil
}
