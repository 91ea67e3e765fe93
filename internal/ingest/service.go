// Package ingest turns raw message text into persisted transactions:
// parse the grammar, resolve the category, store the result.
package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dvloznov/finbot/internal/category"
	"github.com/dvloznov/finbot/internal/logger"
	"github.com/dvloznov/finbot/internal/message"
	"github.com/dvloznov/finbot/internal/storage"
)

// Parser extracts transaction structure from raw text.
type Parser interface {
	Parse(text string) (*message.ParsedMessage, error)
}

// Resolver maps a label onto the user's taxonomy.
type Resolver interface {
	Resolve(ctx context.Context, label string, allowed []string, examples []category.Example) category.Resolution
}

// Service is the ingestion entry point shared by the HTTP API, the
// worker, and the CLI.
type Service struct {
	parser   Parser
	resolver Resolver
	store    storage.Store
	// maxExamples caps the history passed to the resolver per message.
	maxExamples int
}

func NewService(parser Parser, resolver Resolver, store storage.Store) *Service {
	return &Service{
		parser:      parser,
		resolver:    resolver,
		store:       store,
		maxExamples: 10,
	}
}

// IngestText processes one message for a user. A grammar failure is
// returned as message.ErrNotTransaction; everything past parsing
// degrades instead of failing.
func (s *Service) IngestText(ctx context.Context, userID, text string) (*storage.Transaction, error) {
	log := logger.FromContext(ctx)

	// 1. Parse the message grammar.
	parsed, err := s.parser.Parse(text)
	if err != nil {
		return nil, err
	}

	// 2. Load the taxonomy the resolver is allowed to answer with.
	allowed, err := s.allowedNames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ingest: load categories: %w", err)
	}

	// 3. The user's own recent history guides the classifier.
	examples, err := s.store.RecentExamples(ctx, userID, s.maxExamples)
	if err != nil {
		log.Warn().Err(err).Msg("loading recent examples failed")
		examples = nil
	}

	// 4. Resolve the category.
	res := s.resolver.Resolve(ctx, parsed.Label, allowed, examples)

	// 5. Persist.
	tx := &storage.Transaction{
		ID:             uuid.NewString(),
		UserID:         userID,
		Amount:         parsed.Amount,
		OriginalAmount: parsed.OriginalAmount,
		Currency:       parsed.Currency,
		Label:          parsed.Label,
		Category:       res.Category,
		Confidence:     res.Confidence,
		Source:         string(res.Source),
		IsExpense:      parsed.IsExpense,
		MentionedUser:  parsed.MentionedUser,
		Date:           parsed.Date,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("ingest: store transaction: %w", err)
	}

	log.Info().
		Str("user_id", userID).
		Str("category", res.Category).
		Str("source", string(res.Source)).
		Str("amount", tx.Amount.String()).
		Bool("is_expense", tx.IsExpense).
		Msg("transaction ingested")

	return tx, nil
}

func (s *Service) allowedNames(ctx context.Context, userID string) ([]string, error) {
	cats, err := s.store.AllowedCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	return names, nil
}
