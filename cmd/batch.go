package main

import (
	"bufio"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var batchFile string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Resolve a file of company names in one pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initResolver(ctx, "batch")
		if err != nil {
			return err
		}
		defer env.Close()

		names, err := readNames(batchFile)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			zap.L().Info("no names to resolve")
			return nil
		}

		results, err := env.Matcher.BatchResolve(ctx, names)
		if err != nil {
			return err
		}

		var matched int
		for _, r := range results {
			if r.Matched {
				matched++
			}
		}
		zap.L().Info("batch resolved",
			zap.Int("names", len(names)),
			zap.Int("matched", matched),
			zap.Int("unmatched", len(names)-matched),
		)

		return printJSON(results)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "path to a file with one name per line (required)")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}

// readNames loads non-empty lines from a text file.
func readNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open names file")
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "read names file")
	}
	return names, nil
}
