package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dvloznov/finbot/internal/category"
)

// sqlCache implements category.Cache over the category_cache table.
// Writes go through single INSERT ... ON DUPLICATE KEY UPDATE statements
// keyed on the hash's unique index, so concurrent writers merge into one
// row instead of duplicating or deadlocking on a locked read.
type sqlCache struct {
	db *gorm.DB
}

var _ category.Cache = (*sqlCache)(nil)

func (c *sqlCache) Get(ctx context.Context, hash string) (*category.CacheEntry, error) {
	var row CategoryCacheRow
	err := c.db.WithContext(ctx).
		Where("description_hash = ?", hash).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entryFromRow(row), nil
}

// Upsert inserts the entry or merges it into the existing row for the
// hash. Corrected rows are left untouched; user corrections outrank
// automated resolutions.
func (c *sqlCache) Upsert(ctx context.Context, entry category.CacheEntry) error {
	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "description_hash"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"category_name": gorm.Expr("IF(corrected, category_name, VALUES(category_name))"),
			"confidence":    gorm.Expr("IF(corrected, confidence, VALUES(confidence))"),
			"use_count":     gorm.Expr("IF(corrected, use_count, use_count + VALUES(use_count))"),
			"last_used_at":  gorm.Expr("IF(corrected, last_used_at, VALUES(last_used_at))"),
		}),
	}).Create(rowFromEntry(entry)).Error
}

func (c *sqlCache) Touch(ctx context.Context, hash string) error {
	return c.db.WithContext(ctx).
		Model(&CategoryCacheRow{}).
		Where("description_hash = ?", hash).
		Updates(map[string]interface{}{
			"use_count":    gorm.Expr("use_count + 1"),
			"last_used_at": time.Now(),
		}).Error
}

func (c *sqlCache) Evict(ctx context.Context, hash string) error {
	return c.db.WithContext(ctx).
		Where("description_hash = ?", hash).
		Delete(&CategoryCacheRow{}).Error
}

// Correct pins the hash to a user-chosen category, overwriting whatever
// automated resolution stored. An existing row keeps its use count.
func (c *sqlCache) Correct(ctx context.Context, hash, label, categoryName string) error {
	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "description_hash"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"category_name": categoryName,
			"confidence":    1.0,
			"corrected":     true,
			"last_used_at":  time.Now(),
		}),
	}).Create(&CategoryCacheRow{
		DescriptionHash: hash,
		Description:     label,
		CategoryName:    categoryName,
		Confidence:      1.0,
		UseCount:        1,
		Corrected:       true,
		LastUsedAt:      time.Now(),
	}).Error
}

func entryFromRow(row CategoryCacheRow) *category.CacheEntry {
	return &category.CacheEntry{
		Hash:       row.DescriptionHash,
		Label:      row.Description,
		Category:   row.CategoryName,
		Confidence: row.Confidence,
		UseCount:   row.UseCount,
		Corrected:  row.Corrected,
		LastUsedAt: row.LastUsedAt,
	}
}

func rowFromEntry(entry category.CacheEntry) *CategoryCacheRow {
	return &CategoryCacheRow{
		DescriptionHash: entry.Hash,
		Description:     entry.Label,
		CategoryName:    entry.Category,
		Confidence:      entry.Confidence,
		UseCount:        entry.UseCount,
		Corrected:       entry.Corrected,
		LastUsedAt:      time.Now(),
	}
}
