package importer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fjacquet/statement-import/internal/database/repository"
	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory Store with the same dedup key as SQLite.
type memStore struct {
	mu           sync.Mutex
	accounts     []models.Account
	categories   []models.Category
	transactions []models.Transaction
	nextID       int

	findCalls   int
	createCalls int
}

func (s *memStore) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func sameKey(t models.Transaction, userID string, date time.Time, amount decimal.Decimal, desc string) bool {
	return t.UserID == userID && t.Date.Format("2006-01-02") == date.Format("2006-01-02") &&
		t.Amount.Abs().Equal(amount.Abs()) && t.Description == desc
}

func (s *memStore) FindExistingTransaction(_ context.Context, userID string, date time.Time, amount decimal.Decimal, description string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls++
	for k := range s.transactions {
		if sameKey(s.transactions[k], userID, date, amount, description) {
			t := s.transactions[k]
			return &t, nil
		}
	}
	return nil, nil
}

func (s *memStore) ListCategories(_ context.Context, userID string) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Category
	for _, c := range s.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) CreateCategory(_ context.Context, c models.Category) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, have := range s.categories {
		if have.UserID == c.UserID && have.Name == c.Name && have.Direction == c.Direction {
			return models.Category{}, repository.ErrDuplicate
		}
	}
	if c.ID == "" {
		c.ID = s.id("cat")
	}
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *memStore) CreateTransaction(_ context.Context, t models.Transaction) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	for _, have := range s.transactions {
		if sameKey(have, t.UserID, t.Date, t.Amount, t.Description) {
			return models.Transaction{}, repository.ErrDuplicate
		}
	}
	t.ID = s.id("tx")
	s.transactions = append(s.transactions, t)
	return t, nil
}

func (s *memStore) ListAccounts(_ context.Context, userID string) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Account
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memStore) GetAccount(_ context.Context, id string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}
