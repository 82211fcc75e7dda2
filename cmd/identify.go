package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/resolve-cli/internal/resolve"
)

var (
	identifyCode      string
	identifyEmail     string
	identifyCreatedBy string
	identifyDocument  string
	identifySuggest   bool
)

var identifyCmd = &cobra.Command{
	Use:   "identify <name>",
	Short: "Resolve a name or create a pending company for it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initResolver(ctx, "resolve")
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Creator.IdentifyOrCreate(ctx,
			resolve.CreateInfo{
				Name:         args[0],
				Code:         identifyCode,
				ContactEmail: identifyEmail,
			},
			resolve.CreateContext{
				CreatedByID:         identifyCreatedBy,
				FirstSeenDocumentID: identifyDocument,
				SuggestDuplicates:   identifySuggest,
			},
		)
		if err != nil {
			return err
		}

		if result.IsNewCompany {
			zap.L().Info("created pending company",
				zap.String("company_id", result.CompanyID),
				zap.String("name", result.CompanyName),
			)
		}
		return printJSON(result)
	},
}

func init() {
	identifyCmd.Flags().StringVar(&identifyCode, "code", "", "internal company code")
	identifyCmd.Flags().StringVar(&identifyEmail, "email", "", "contact email")
	identifyCmd.Flags().StringVar(&identifyCreatedBy, "created-by", "cli", "creator identity recorded on new companies")
	identifyCmd.Flags().StringVar(&identifyDocument, "document", "", "document ID the name was first seen on")
	identifyCmd.Flags().BoolVar(&identifySuggest, "suggest", false, "scan for possible duplicates after creation")
	rootCmd.AddCommand(identifyCmd)
}
