// Package importer runs a statement import end to end: detection, parsing,
// categorization, deduplication, category resolution and persistence.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fjacquet/statement-import/internal/categorizer"
	"fjacquet/statement-import/internal/common"
	"fjacquet/statement-import/internal/database/repository"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parser"
	"fjacquet/statement-import/internal/textutils"

	"github.com/shopspring/decimal"
)

// ErrAccountNotFound is returned when the destination account does not
// exist or belongs to another user.
var ErrAccountNotFound = errors.New("account not found")

// Store is the persistence surface the importer needs.
type Store interface {
	FindExistingTransaction(ctx context.Context, userID string, date time.Time, amount decimal.Decimal, description string) (*models.Transaction, error)
	ListCategories(ctx context.Context, userID string) ([]models.Category, error)
	CreateCategory(ctx context.Context, c models.Category) (models.Category, error)
	CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)
	ListAccounts(ctx context.Context, userID string) ([]models.Account, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
}

// Request describes one import. Content is already-decoded text: the CSV
// body or the text extracted from a PDF.
type Request struct {
	UserID    string
	AccountID string
	FileType  models.FileType
	Content   string
}

// Importer is safe for concurrent use. Imports for the same user are
// serialized.
type Importer struct {
	registry    *parser.Registry
	categorizer *categorizer.Categorizer
	store       Store
	logger      logging.Logger
	maxDescLen  int

	userLocks sync.Map // user id -> *sync.Mutex
}

// Option tunes an Importer.
type Option func(*Importer)

// WithDescriptionLimit bounds stored descriptions, in runes.
func WithDescriptionLimit(n int) Option {
	return func(i *Importer) {
		if n > 0 {
			i.maxDescLen = n
		}
	}
}

// New wires an importer.
func New(registry *parser.Registry, cat *categorizer.Categorizer, store Store, logger logging.Logger, opts ...Option) *Importer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if cat == nil {
		cat = categorizer.NewCategorizer(nil, nil, logger)
	}
	i := &Importer{
		registry:    registry,
		categorizer: cat,
		store:       store,
		logger:      logger,
		maxDescLen:  models.MaxDescriptionLength,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Detect identifies the bank that produced content. For PDFs it also runs
// the requisites parsers and matches the recovered account number against
// the user's accounts. Only a document no detector recognizes is an error.
func (i *Importer) Detect(ctx context.Context, userID string, fileType models.FileType, content string) (*models.DetectResult, error) {
	result := &models.DetectResult{FileType: fileType}

	p, err := i.registry.Detect(fileType, content)
	if err == nil {
		result.Bank = p.Bank()
	}

	if fileType == models.FileTypePDF {
		if rp := i.registry.DetectRequisites(content); rp != nil {
			if result.Bank == "" {
				result.Bank = rp.Bank()
			}
			if req := rp.Parse(content); req != nil {
				result.Requisites = req
				result.AccountNumber = req.AccountNumber
				if err := i.matchAccount(ctx, userID, result); err != nil {
					return nil, err
				}
			}
			err = nil
		}
	}
	if err != nil {
		return nil, err
	}

	i.logger.Info("Detected statement",
		logging.F(logging.FieldBank, string(result.Bank)),
		logging.F(logging.FieldFileType, string(fileType)),
		logging.F("matched_account", result.MatchedAccount != nil))
	return result, nil
}

func (i *Importer) matchAccount(ctx context.Context, userID string, result *models.DetectResult) error {
	if result.AccountNumber == "" || userID == "" || i.store == nil {
		return nil
	}
	accounts, err := i.store.ListAccounts(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	result.MatchedAccount = common.MatchAccount(accounts, result.AccountNumber)
	return nil
}

// Import parses req.Content and persists every transaction that is not
// already stored for the user. Account balances are never touched.
//
// Detection failures abort before anything is written. After that, rows
// persisted before a storage error stay persisted.
func (i *Importer) Import(ctx context.Context, req Request) (*models.ImportResult, error) {
	start := time.Now()
	if strings.TrimSpace(req.UserID) == "" {
		return nil, fmt.Errorf("user id is required")
	}
	account, err := i.store.GetAccount(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", req.AccountID, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account == nil || account.UserID != req.UserID {
		return nil, fmt.Errorf("%s: %w", req.AccountID, ErrAccountNotFound)
	}

	p, err := i.registry.Detect(req.FileType, req.Content)
	if err != nil {
		return nil, err
	}
	logger := i.logger.WithFields(
		logging.F(logging.FieldBank, string(p.Bank())),
		logging.F(logging.FieldUser, req.UserID),
		logging.F(logging.FieldAccount, req.AccountID))
	logger.Info("Starting import", logging.F(logging.FieldFileType, string(p.FileType())))

	txs, err := p.Parse(req.Content)
	if err != nil {
		return &models.ImportResult{Bank: p.Bank()}, err
	}
	for k := range txs {
		txs[k].Description = textutils.Truncate(txs[k].Description, i.maxDescLen)
	}

	results, _ := i.categorizer.CategorizeAll(ctx, txs)

	unlock := i.lockUser(req.UserID)
	defer unlock()

	categories, err := i.store.ListCategories(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	result := &models.ImportResult{Bank: p.Bank(), Breakdown: &models.CategorizationBreakdown{}}
	for k, tx := range txs {
		existing, err := i.store.FindExistingTransaction(ctx, req.UserID, tx.Date, tx.Amount, tx.Description)
		if err != nil {
			return result, fmt.Errorf("failed to check for duplicate: %w", err)
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		categoryID, err := i.resolveCategory(ctx, req.UserID, &categories, results[k].Category, tx)
		if err != nil {
			return result, err
		}

		_, err = i.store.CreateTransaction(ctx, models.Transaction{
			UserID:      req.UserID,
			AccountID:   req.AccountID,
			CategoryID:  categoryID,
			Date:        tx.Date,
			Amount:      tx.Amount,
			Direction:   tx.Direction,
			Description: tx.Description,
		})
		if errors.Is(err, repository.ErrDuplicate) {
			result.Skipped++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to save transaction: %w", err)
		}

		result.Imported++
		switch results[k].Source {
		case categorizer.SourceKeyword:
			result.Breakdown.ByKeyword++
		case categorizer.SourceAI:
			result.Breakdown.ByAI++
		default:
			result.Breakdown.ByDefault++
		}
	}

	result.LogSummary(logger.WithField(logging.FieldDuration, time.Since(start).String()))
	return result, nil
}

// resolveCategory maps a category name to one of the user's category ids:
// exact match, then smart match, then the direction's default, which is
// created when the user has none yet.
func (i *Importer) resolveCategory(ctx context.Context, userID string, categories *[]models.Category, name string, tx models.ParsedTransaction) (string, error) {
	if c := categorizer.FindCategory(*categories, name, tx.Direction); c != nil {
		return c.ID, nil
	}
	if c := categorizer.SmartMatch(*categories, name, tx.Description, tx.Direction); c != nil {
		return c.ID, nil
	}
	if c := findDefault(*categories, tx.Direction); c != nil {
		return c.ID, nil
	}

	created, err := i.store.CreateCategory(ctx, models.Category{
		UserID:    userID,
		Name:      models.DefaultCategory(tx.Direction),
		Direction: tx.Direction,
		IsDefault: true,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// Created by another process since the list was read.
		fresh, lerr := i.store.ListCategories(ctx, userID)
		if lerr != nil {
			return "", fmt.Errorf("failed to list categories: %w", lerr)
		}
		*categories = fresh
		if c := findDefault(fresh, tx.Direction); c != nil {
			return c.ID, nil
		}
	}
	if err != nil {
		return "", fmt.Errorf("failed to create default category: %w", err)
	}
	i.logger.Info("Created default category",
		logging.F(logging.FieldUser, userID),
		logging.F(logging.FieldCategory, created.Name),
		logging.F(logging.FieldDirection, string(created.Direction)))
	*categories = append(*categories, created)
	return created.ID, nil
}

func findDefault(categories []models.Category, direction models.Direction) *models.Category {
	for k := range categories {
		if categories[k].Direction == direction && categories[k].IsDefault {
			return &categories[k]
		}
	}
	return categorizer.FindCategory(categories, models.DefaultCategory(direction), direction)
}

func (i *Importer) lockUser(userID string) func() {
	v, _ := i.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Categorizer exposes the categorization chain for direct callers.
func (i *Importer) Categorizer() *categorizer.Categorizer {
	return i.categorizer
}

// Registry exposes the detector registry.
func (i *Importer) Registry() *parser.Registry {
	return i.registry
}
