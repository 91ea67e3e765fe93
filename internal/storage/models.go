package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one recorded income or expense. Amount is always in the
// user's base currency; OriginalAmount keeps the pre-conversion value
// when the message carried an explicit currency code.
type Transaction struct {
	ID             string           `json:"id" gorm:"primaryKey;size:36"`
	UserID         string           `json:"user_id" gorm:"size:64;index;not null"`
	Amount         decimal.Decimal  `json:"amount" gorm:"type:decimal(12,2);not null"`
	OriginalAmount *decimal.Decimal `json:"original_amount,omitempty" gorm:"type:decimal(12,2)"`
	Currency       string           `json:"currency" gorm:"size:3;not null"`
	Label          string           `json:"label" gorm:"size:255"`
	Category       string           `json:"category" gorm:"size:50;index;not null"`
	Confidence     float64          `json:"confidence"`
	Source         string           `json:"source" gorm:"size:16"`
	IsExpense      bool             `json:"is_expense"`
	MentionedUser  string           `json:"mentioned_user,omitempty" gorm:"size:64"`
	Date           time.Time        `json:"date" gorm:"index;not null"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Category is one entry of a user's taxonomy. Rows with an empty UserID
// are the built-in defaults.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"size:64;index"`
	Name      string    `json:"name" gorm:"size:50;not null"`
	Emoji     string    `json:"emoji" gorm:"size:10"`
	IsExpense bool      `json:"is_expense"`
	CreatedAt time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryCacheRow is one learned label → category association.
type CategoryCacheRow struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	DescriptionHash string    `json:"description_hash" gorm:"size:32;uniqueIndex;not null"`
	Description     string    `json:"description" gorm:"size:255"`
	CategoryName    string    `json:"category_name" gorm:"size:50;not null"`
	Confidence      float64   `json:"confidence"`
	UseCount        int       `json:"use_count"`
	Corrected       bool      `json:"corrected"`
	LastUsedAt      time.Time `json:"last_used_at"`
	CreatedAt       time.Time `json:"created_at"`
}

func (CategoryCacheRow) TableName() string {
	return "category_cache"
}

// DefaultEmoji marks categories without a dedicated emoji.
const DefaultEmoji = "💰"

// DefaultCategories is the built-in taxonomy a user starts with.
func DefaultCategories() []Category {
	type def struct {
		name      string
		emoji     string
		isExpense bool
	}
	defs := []def{
		{"продукты", "🛒", true},
		{"кафе", "☕", true},
		{"рестораны", "🍽️", true},
		{"транспорт", "🚗", true},
		{"такси", "🚕", true},
		{"одежда", "👕", true},
		{"обувь", "👟", true},
		{"развлечения", "🎮", true},
		{"здоровье", "💊", true},
		{"связь", "📱", true},
		{"коммуналка", "🏠", true},
		{"образование", "📚", true},
		{"спорт", "🏋️", true},
		{"путешествия", "✈️", true},
		{"подарки", "🎁", true},
		{"техника", "💻", true},
		{"канцтовары", "✏️", true},
		{"бытовая химия", "🧼", true},
		{"зарплата", "💵", false},
		{"доход", "💵", false},
		{"другое", DefaultEmoji, true},
	}

	out := make([]Category, len(defs))
	for i, d := range defs {
		out[i] = Category{Name: d.name, Emoji: d.emoji, IsExpense: d.isExpense}
	}
	return out
}
