// Package detect identifies the bank behind a statement file
package detect

import (
	"fjacquet/statement-import/cmd/common"
	"fjacquet/statement-import/cmd/root"
	"fjacquet/statement-import/internal/container"
	"fjacquet/statement-import/internal/importer"

	"github.com/spf13/cobra"
)

var (
	input    string
	fileType string
	userID   string
)

// Cmd represents the detect command
var Cmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect the bank that produced a statement",
	Long: `Detect the issuing bank of a CSV or PDF statement. For PDF requisites the
account number is extracted and, with --user, matched against that user's accounts.`,
	RunE: detectFunc,
}

func init() {
	Cmd.Flags().StringVarP(&input, "input", "i", "", "Statement file (.csv or .pdf)")
	Cmd.Flags().StringVarP(&fileType, "type", "t", "", "Statement type, overrides the file extension (csv or pdf)")
	Cmd.Flags().StringVarP(&userID, "user", "u", "", "User whose accounts are matched against the requisites")
	_ = Cmd.MarkFlagRequired("input")
}

func detectFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	kind, content, err := common.ReadStatement(input, fileType, c.GetExtractor())
	if err != nil {
		return err
	}

	imp, err := detector(c)
	if err != nil {
		return err
	}
	result, err := imp.Detect(cmd.Context(), userID, kind, content)
	if err != nil {
		return err
	}
	return common.PrintJSON(cmd.OutOrStdout(), result)
}

// detector opens the database only when accounts have to be matched.
func detector(c *container.Container) (*importer.Importer, error) {
	if userID != "" {
		return c.GetImporter()
	}
	return importer.New(c.GetRegistry(), c.GetCategorizer(), nil, root.Log), nil
}
