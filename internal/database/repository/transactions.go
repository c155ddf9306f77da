package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fjacquet/statement-import/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

// Create inserts t. A row with the same user, day, absolute amount and
// description already present is reported as ErrDuplicate.
func (r *TransactionRepo) Create(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transactions(id, user_id, account_id, category_id, date, amount, direction, description, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, t.ID, t.UserID, t.AccountID, t.CategoryID, dateKey(t.Date), amountKey(t.Amount), string(t.Direction), t.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Transaction{}, fmt.Errorf("transaction on %s: %w", dateKey(t.Date), ErrDuplicate)
		}
		return models.Transaction{}, err
	}
	return t, nil
}

const transactionColumns = `id, user_id, account_id, category_id, date, amount, direction, description, created_at`

// FindExisting returns the user's transaction with the dedup key, or nil.
// The key is not scoped by account.
func (r *TransactionRepo) FindExisting(ctx context.Context, userID string, date time.Time, amount decimal.Decimal, description string) (*models.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions
	WHERE user_id = ? AND date = ? AND amount = ? AND description = ? LIMIT 1`,
		userID, dateKey(date), amountKey(amount), description)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByAccount returns an account's transactions, newest first.
func (r *TransactionRepo) ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions
	WHERE account_id = ? ORDER BY date DESC, created_at DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TransactionRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

func scanTransaction(s scanner) (models.Transaction, error) {
	var t models.Transaction
	var date, amount, direction string
	if err := s.Scan(&t.ID, &t.UserID, &t.AccountID, &t.CategoryID, &date, &amount, &direction, &t.Description, &t.CreatedAt); err != nil {
		return models.Transaction{}, err
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %s: bad date %q: %w", t.ID, date, err)
	}
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %s: bad amount %q: %w", t.ID, amount, err)
	}
	t.Date, t.Amount, t.Direction = d, a, models.Direction(direction)
	return t, nil
}
