// Package importcmd imports a statement into the ledger
package importcmd

import (
	"fmt"

	"fjacquet/statement-import/cmd/common"
	"fjacquet/statement-import/cmd/root"
	"fjacquet/statement-import/internal/importer"

	"github.com/spf13/cobra"
)

var (
	input     string
	fileType  string
	userID    string
	accountID string
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import a statement into an account",
	Long: `Import a CSV or PDF statement into the given account. Transactions already
stored for the user (same date, amount and description) are skipped.`,
	RunE: importFunc,
}

func init() {
	Cmd.Flags().StringVarP(&input, "input", "i", "", "Statement file (.csv or .pdf)")
	Cmd.Flags().StringVarP(&fileType, "type", "t", "", "Statement type, overrides the file extension (csv or pdf)")
	Cmd.Flags().StringVarP(&userID, "user", "u", "", "Owner of the account")
	Cmd.Flags().StringVarP(&accountID, "account", "a", "", "Account receiving the transactions")
	_ = Cmd.MarkFlagRequired("input")
	_ = Cmd.MarkFlagRequired("user")
	_ = Cmd.MarkFlagRequired("account")
}

func importFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	kind, content, err := common.ReadStatement(input, fileType, c.GetExtractor())
	if err != nil {
		return err
	}

	imp, err := c.GetImporter()
	if err != nil {
		return err
	}
	result, err := imp.Import(cmd.Context(), importer.Request{
		UserID:    userID,
		AccountID: accountID,
		FileType:  kind,
		Content:   content,
	})
	if result != nil {
		if printErr := common.PrintJSON(cmd.OutOrStdout(), result); printErr != nil {
			return printErr
		}
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return nil
}
