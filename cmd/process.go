package main

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/resolve-cli/internal/docai"
)

var (
	processFile      string
	processCreatedBy string
)

// partiesFile is the process input shape: a list of extracted documents.
type partiesFile struct {
	Documents []docai.TransactionParties `yaml:"documents"`
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Resolve the parties of extracted documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initResolver(ctx, "batch")
		if err != nil {
			return err
		}
		defer env.Close()

		data, err := os.ReadFile(processFile)
		if err != nil {
			return eris.Wrap(err, "read documents file")
		}
		var doc partiesFile
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return eris.Wrap(err, "parse documents file")
		}
		if len(doc.Documents) == 0 {
			zap.L().Info("no documents to process")
			return nil
		}

		zap.L().Info("processing documents",
			zap.Int("documents", len(doc.Documents)),
			zap.Int("concurrency", cfg.Batch.MaxConcurrent),
		)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Batch.MaxConcurrent)

		var mu sync.Mutex
		output := make(map[string][]docai.ResolvedParty, len(doc.Documents))
		var failedRoles atomic.Int64

		for _, parties := range doc.Documents {
			g.Go(func() error {
				resolved := env.Parties.ResolveParties(gctx, parties, processCreatedBy)
				for _, p := range resolved {
					if p.Err != nil {
						failedRoles.Add(1)
					}
				}
				mu.Lock()
				output[parties.DocumentID] = resolved
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "process documents")
		}

		zap.L().Info("documents processed",
			zap.Int("documents", len(doc.Documents)),
			zap.Int64("failed_roles", failedRoles.Load()),
		)
		return printJSON(output)
	},
}

func init() {
	processCmd.Flags().StringVar(&processFile, "file", "", "path to a YAML file of extracted documents (required)")
	processCmd.Flags().StringVar(&processCreatedBy, "created-by", "pipeline", "creator identity recorded on new companies")
	_ = processCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(processCmd)
}
