// Package accounts manages the accounts statements are imported into
package accounts

import (
	"fmt"
	"strings"

	"fjacquet/statement-import/cmd/common"
	"fjacquet/statement-import/cmd/root"
	"fjacquet/statement-import/internal/models"

	"github.com/spf13/cobra"
)

var (
	userID       string
	name         string
	bank         string
	number       string
	cardLastFour string
	currency     string
)

// Cmd represents the accounts command
var Cmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage accounts",
	Long:  `Create and list the accounts statements are imported into.`,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an account",
	RunE:  addFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's accounts",
	RunE:  listFunc,
}

func init() {
	Cmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "Owner of the accounts")
	_ = Cmd.MarkPersistentFlagRequired("user")

	addCmd.Flags().StringVarP(&name, "name", "n", "", "Account name (default: bank display name)")
	addCmd.Flags().StringVarP(&bank, "bank", "b", "", "Bank (sberbank, tinkoff, alfabank, vtb)")
	addCmd.Flags().StringVar(&number, "number", "", "20-digit account number")
	addCmd.Flags().StringVar(&cardLastFour, "card", "", "Last four digits of the card")
	addCmd.Flags().StringVar(&currency, "currency", "RUB", "ISO currency code")
	_ = addCmd.MarkFlagRequired("bank")

	Cmd.AddCommand(addCmd, listCmd)
}

func addFunc(cmd *cobra.Command, args []string) error {
	b, err := models.ParseBank(bank)
	if err != nil {
		return err
	}
	if cardLastFour != "" && len(cardLastFour) != 4 {
		return fmt.Errorf("card must be exactly four digits, got %q", cardLastFour)
	}
	accountName := strings.TrimSpace(name)
	if accountName == "" {
		accountName = b.DisplayName()
	}

	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	repos, err := c.GetRepositories()
	if err != nil {
		return err
	}
	account, err := repos.Accounts.Create(cmd.Context(), models.Account{
		UserID:        userID,
		Name:          accountName,
		Bank:          b,
		AccountNumber: number,
		CardLastFour:  cardLastFour,
		Currency:      strings.ToUpper(currency),
	})
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return common.PrintJSON(cmd.OutOrStdout(), account)
}

func listFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	repos, err := c.GetRepositories()
	if err != nil {
		return err
	}
	accounts, err := repos.ListAccounts(cmd.Context(), userID)
	if err != nil {
		return err
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	return common.PrintJSON(cmd.OutOrStdout(), accounts)
}
