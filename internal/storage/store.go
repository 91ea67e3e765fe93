// Package storage persists transactions, user taxonomies, and the
// learned category cache. Two implementations exist: a MySQL store for
// the service and an in-memory store for the CLI and tests.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dvloznov/finbot/internal/category"
)

// ErrNoTransactions is returned by DeleteLast when the user has nothing
// recorded.
var ErrNoTransactions = errors.New("storage: no transactions")

// Store is the persistence surface the rest of the service depends on.
type Store interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	ListRecent(ctx context.Context, userID string, limit int) ([]Transaction, error)
	ListSince(ctx context.Context, userID string, since time.Time) ([]Transaction, error)
	DeleteLast(ctx context.Context, userID string) (*Transaction, error)
	AllowedCategories(ctx context.Context, userID string) ([]Category, error)
	RecentExamples(ctx context.Context, userID string, limit int) ([]category.Example, error)
	Cache() category.Cache
}

// SQL is the MySQL-backed store.
type SQL struct {
	db *gorm.DB
}

var _ Store = (*SQL)(nil)

// Open connects to MySQL, migrates the schema, and seeds the default
// taxonomy on first run.
func Open(dsn string) (*SQL, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: open mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := db.AutoMigrate(&Transaction{}, &Category{}, &CategoryCacheRow{}); err != nil {
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}

	s := &SQL{db: db}
	if err := s.seedDefaultCategories(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQL) seedDefaultCategories() error {
	var count int64
	if err := s.db.Model(&Category{}).Where("user_id = ''").Count(&count).Error; err != nil {
		return fmt.Errorf("storage: count default categories: %w", err)
	}
	if count > 0 {
		return nil
	}
	cats := DefaultCategories()
	return s.db.Create(&cats).Error
}

func (s *SQL) CreateTransaction(ctx context.Context, tx *Transaction) error {
	return s.db.WithContext(ctx).Create(tx).Error
}

func (s *SQL) ListRecent(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	var txs []Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Limit(limit).
		Find(&txs).Error
	return txs, err
}

func (s *SQL) ListSince(ctx context.Context, userID string, since time.Time) ([]Transaction, error) {
	var txs []Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date DESC").
		Find(&txs).Error
	return txs, err
}

// DeleteLast removes the most recently created transaction and returns
// it so the caller can echo what was undone.
func (s *SQL) DeleteLast(ctx context.Context, userID string) (*Transaction, error) {
	var tx Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoTransactions
	}
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

// AllowedCategories returns the user's taxonomy, falling back to the
// built-in defaults when the user has not customized it.
func (s *SQL) AllowedCategories(ctx context.Context, userID string) ([]Category, error) {
	var cats []Category
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&cats).Error
	if err != nil {
		return nil, err
	}
	if len(cats) > 0 {
		return cats, nil
	}
	err = s.db.WithContext(ctx).
		Where("user_id = ''").
		Order("id").
		Find(&cats).Error
	return cats, err
}

// RecentExamples returns the user's latest label-to-category pairs, fed
// to the classifier as guidance. Only that user's own history is
// consulted; other users' labels never reach the prompt.
func (s *SQL) RecentExamples(ctx context.Context, userID string, limit int) ([]category.Example, error) {
	var txs []Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND label <> ''", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	out := make([]category.Example, 0, len(txs))
	for _, tx := range txs {
		out = append(out, category.Example{Label: tx.Label, Category: tx.Category})
	}
	return out, nil
}

func (s *SQL) Cache() category.Cache {
	return &sqlCache{db: s.db}
}
