// Package batch handles batch import of statement directories
package batch

import (
	"fmt"

	"fjacquet/statement-import/cmd/common"
	"fjacquet/statement-import/cmd/root"
	internalbatch "fjacquet/statement-import/internal/batch"
	"fjacquet/statement-import/internal/models"

	"github.com/spf13/cobra"
)

var (
	inputDir  string
	userID    string
	accountID string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Import every statement in a directory",
	Long: `Import all CSV and PDF statements found under a directory into one account.

Files are processed in path order. A file that cannot be read or imported is
reported and the batch continues; overlapping statements only add new rows.

Example:
  statement-import batch -i statements/ -u alice -a 3f0c...`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory containing statements")
	Cmd.Flags().StringVarP(&userID, "user", "u", "", "Owner of the account")
	Cmd.Flags().StringVarP(&accountID, "account", "a", "", "Account receiving the transactions")
	_ = Cmd.MarkFlagRequired("input")
	_ = Cmd.MarkFlagRequired("user")
	_ = Cmd.MarkFlagRequired("account")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	imp, err := c.GetImporter()
	if err != nil {
		return err
	}

	read := func(path string) (models.FileType, string, error) {
		return common.ReadStatement(path, "", c.GetExtractor())
	}
	summary, err := internalbatch.NewRunner(imp, read, root.Log).Run(cmd.Context(), inputDir, userID, accountID)
	if err != nil {
		return err
	}
	if err := common.PrintJSON(cmd.OutOrStdout(), summary); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", summary.Failed, len(summary.Files))
	}
	return nil
}
