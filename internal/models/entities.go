package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a user's bank account as known to the persistence layer.
type Account struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Name          string          `json:"name"`
	Bank          BankName        `json:"bank"`
	AccountNumber string          `json:"account_number,omitempty"`
	CardLastFour  string          `json:"card_last_four,omitempty"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Category is a user-owned category row.
type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction is a persisted money movement.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	AccountID   string          `json:"account_id"`
	CategoryID  string          `json:"category_id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   Direction       `json:"direction"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}
