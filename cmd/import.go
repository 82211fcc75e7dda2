package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/resolve-cli/internal/company"
	"github.com/sells-group/resolve-cli/internal/importer"
	"github.com/sells-group/resolve-cli/internal/resolve"
)

var importFilePath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk-import companies from a spreadsheet or YAML file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initResolver(ctx, "import")
		if err != nil {
			return err
		}
		defer env.Close()

		records, err := importer.ReadFile(importFilePath, importer.Options{
			SheetName:  cfg.Import.SheetName,
			NameColumn: cfg.Import.NameColumn,
		})
		if err != nil {
			return err
		}

		var created, skipped int
		for _, rec := range records {
			result, err := env.Matcher.Resolve(ctx, rec.Name)
			if err != nil {
				return err
			}
			if result.Matched && result.MatchType != resolve.MatchFuzzy {
				skipped++
				zap.L().Debug("import: name already registered",
					zap.String("name", rec.Name),
					zap.String("company_id", result.CompanyID),
				)
				continue
			}

			c := &company.Company{
				Name:         rec.Name,
				NameVariants: rec.Aliases,
				Status:       company.StatusActive,
				Source:       company.SourceImport,
				Code:         rec.Code,
				ContactEmail: rec.ContactEmail,
				CreatedByID:  "import",
			}
			if err := env.Store.CreateCompany(ctx, c); err != nil {
				return err
			}
			env.Cache.Clear()
			created++
		}

		zap.L().Info("import complete",
			zap.Int("created", created),
			zap.Int("skipped", skipped),
			zap.String("file", importFilePath),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFilePath, "file", "", "path to .xlsx or .yaml file (required)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
