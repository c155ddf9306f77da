// Package parse converts a statement into the normalized CSV export
package parse

import (
	"fmt"

	"fjacquet/statement-import/cmd/common"
	"fjacquet/statement-import/cmd/root"
	internalcommon "fjacquet/statement-import/internal/common"
	"fjacquet/statement-import/internal/logging"

	"github.com/spf13/cobra"
)

var (
	input     string
	output    string
	fileType  string
	delimiter string
	noAI      bool
)

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a statement and write normalized CSV",
	Long: `Parse a CSV or PDF statement from any supported bank and write its
transactions, with their categories, as normalized CSV. Nothing is stored.`,
	RunE: parseFunc,
}

func init() {
	Cmd.Flags().StringVarP(&input, "input", "i", "", "Statement file (.csv or .pdf)")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV file (default stdout)")
	Cmd.Flags().StringVarP(&fileType, "type", "t", "", "Statement type, overrides the file extension (csv or pdf)")
	Cmd.Flags().StringVar(&delimiter, "delimiter", ",", "Output CSV delimiter")
	Cmd.Flags().BoolVar(&noAI, "no-ai", false, "Categorize with keyword rules only")
	_ = Cmd.MarkFlagRequired("input")
}

func parseFunc(cmd *cobra.Command, args []string) error {
	delim := []rune(delimiter)
	if len(delim) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}

	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	kind, content, err := common.ReadStatement(input, fileType, c.GetExtractor())
	if err != nil {
		return err
	}

	p, err := c.GetRegistry().Detect(kind, content)
	if err != nil {
		return err
	}
	txs, err := p.Parse(content)
	if err != nil {
		return err
	}

	cat := c.GetCategorizer()
	if noAI {
		cat = cat.WithoutAI()
	}
	results, _ := cat.CategorizeAll(cmd.Context(), txs)
	categories := make([]string, len(results))
	for i, r := range results {
		categories[i] = r.Category
	}
	rows := internalcommon.ToExportRows(txs, categories)

	root.Log.Info("Parsed statement",
		logging.F(logging.FieldBank, string(p.Bank())),
		logging.F(logging.FieldCount, len(rows)))

	if output == "" {
		return internalcommon.WriteRows(cmd.OutOrStdout(), rows, delim[0])
	}
	return internalcommon.WriteTransactionsToCSV(rows, output, delim[0], root.Log)
}
