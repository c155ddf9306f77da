package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fjacquet/statement-import/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepo handles accounts.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// Create inserts a, assigning an id when empty.
func (r *AccountRepo) Create(ctx context.Context, a models.Account) (models.Account, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Currency == "" {
		a.Currency = "RUB"
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO accounts(id, user_id, name, bank, account_number, card_last_four, currency, balance, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, a.ID, a.UserID, a.Name, string(a.Bank), a.AccountNumber, a.CardLastFour, a.Currency, a.Balance.String())
	if err != nil {
		if isUniqueViolation(err) {
			return models.Account{}, fmt.Errorf("account %s: %w", a.ID, ErrDuplicate)
		}
		return models.Account{}, err
	}
	return a, nil
}

const accountColumns = `id, user_id, name, bank, account_number, card_last_four, currency, balance, created_at`

func (r *AccountRepo) Get(ctx context.Context, id string) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(s scanner) (models.Account, error) {
	var a models.Account
	var bank, balance string
	if err := s.Scan(&a.ID, &a.UserID, &a.Name, &bank, &a.AccountNumber, &a.CardLastFour, &a.Currency, &balance, &a.CreatedAt); err != nil {
		return models.Account{}, err
	}
	a.Bank = models.BankName(bank)
	b, err := decimal.NewFromString(balance)
	if err != nil {
		return models.Account{}, fmt.Errorf("account %s: bad balance %q: %w", a.ID, balance, err)
	}
	a.Balance = b
	return a, nil
}
