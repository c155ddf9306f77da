// Package repository holds the SQLite-backed data access used by the
// importer: accounts, categories and transactions.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fjacquet/statement-import/internal/models"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// ErrDuplicate is returned when an insert hits a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("record not found")

const dateLayout = "2006-01-02"

// dateKey is the stored form of a transaction date. Deduplication is by
// calendar day.
func dateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// amountKey is the stored form of an amount: absolute value, two decimals.
func amountKey(d decimal.Decimal) string {
	return d.Abs().StringFixed(2)
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// Store bundles the repositories behind the importer's persistence surface.
type Store struct {
	Accounts     *AccountRepo
	Categories   *CategoryRepo
	Transactions *TransactionRepo
}

// NewStore returns repositories sharing db.
func NewStore(db *sql.DB) *Store {
	return &Store{
		Accounts:     NewAccountRepo(db),
		Categories:   NewCategoryRepo(db),
		Transactions: NewTransactionRepo(db),
	}
}

func (s *Store) FindExistingTransaction(ctx context.Context, userID string, date time.Time, amount decimal.Decimal, description string) (*models.Transaction, error) {
	return s.Transactions.FindExisting(ctx, userID, date, amount, description)
}

func (s *Store) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	return s.Categories.ListByUser(ctx, userID)
}

func (s *Store) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	return s.Categories.Create(ctx, c)
}

func (s *Store) CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	return s.Transactions.Create(ctx, t)
}

func (s *Store) ListAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	return s.Accounts.ListByUser(ctx, userID)
}

func (s *Store) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return s.Accounts.Get(ctx, id)
}
