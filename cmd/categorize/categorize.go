// Package categorize handles transaction categorization commands
package categorize

import (
	"fmt"
	"strings"

	"fjacquet/statement-import/cmd/common"
	"fjacquet/statement-import/cmd/root"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"github.com/spf13/cobra"
)

var (
	description string
	direction   string
	useAI       bool
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a single transaction description",
	Long: `Categorize a transaction description with the keyword rules. With --ai the
language model is asked when no rule matches confidently.`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Transaction description to categorize")
	Cmd.Flags().StringVar(&direction, "direction", "expense", "Transaction direction (income or expense)")
	Cmd.Flags().BoolVar(&useAI, "ai", false, "Ask the AI provider when keyword rules are inconclusive")
	_ = Cmd.MarkFlagRequired("description")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("description is required")
	}
	dir, err := models.ParseDirection(direction)
	if err != nil {
		return err
	}

	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	result := c.GetCategorizer().CategorizeOne(cmd.Context(), description, dir, useAI)
	root.Log.Debug("Categorized description",
		logging.F("category", result.Category),
		logging.F("source", string(result.Source)))
	return common.PrintJSON(cmd.OutOrStdout(), result)
}
