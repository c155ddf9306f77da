// Package requisites prints the account identity found in a requisites PDF
package requisites

import (
	"fmt"

	"fjacquet/statement-import/cmd/common"
	"fjacquet/statement-import/cmd/root"
	"fjacquet/statement-import/internal/models"

	"github.com/spf13/cobra"
)

var input string

// Cmd represents the requisites command
var Cmd = &cobra.Command{
	Use:   "requisites",
	Short: "Print the requisites of a bank PDF",
	Long: `Extract the owner, account number, card last four digits and currency from
a Sberbank or T-Bank requisites PDF.`,
	RunE: requisitesFunc,
}

func init() {
	Cmd.Flags().StringVarP(&input, "input", "i", "", "Requisites PDF file")
	_ = Cmd.MarkFlagRequired("input")
}

func requisitesFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	_, content, err := common.ReadStatement(input, string(models.FileTypePDF), c.GetExtractor())
	if err != nil {
		return err
	}

	rp := c.GetRegistry().DetectRequisites(content)
	if rp == nil {
		return fmt.Errorf("%s is not a supported requisites document", input)
	}
	req := rp.Parse(content)
	if req == nil {
		return fmt.Errorf("no card number found in %s requisites", rp.Bank().DisplayName())
	}
	return common.PrintJSON(cmd.OutOrStdout(), req)
}
