package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dvloznov/finbot/internal/category"
	"github.com/dvloznov/finbot/internal/classifier"
	"github.com/dvloznov/finbot/internal/config"
	"github.com/dvloznov/finbot/internal/currency"
	"github.com/dvloznov/finbot/internal/ingest"
	"github.com/dvloznov/finbot/internal/logger"
	"github.com/dvloznov/finbot/internal/message"
	"github.com/dvloznov/finbot/internal/storage"
)

var (
	configPath string
	userID     string
	useLLM     bool
)

func main() {
	root := &cobra.Command{
		Use:   "finbot",
		Short: "Parse and categorize free-form transaction messages",
		Long: "finbot turns messages like \"500 кафе\" or \"+50000 зарплата\" into " +
			"structured transactions with automatically resolved categories.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("FINBOT_CONFIG"), "path to finbot.yaml")
	root.PersistentFlags().StringVar(&userID, "user", "local", "user the transactions belong to")

	root.AddCommand(newParseCmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newIngestCmd())
	root.AddCommand(newCategoriesCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Driver == "mysql" {
		return storage.Open(cfg.Storage.DSN)
	}
	return storage.NewMemory(), nil
}

func buildResolver(ctx context.Context, cfg *config.Config, store storage.Store) *category.Resolver {
	var gateway category.Gateway
	if useLLM && cfg.Classifier.Enabled {
		gw, err := classifier.NewGemini(ctx, cfg.Classifier.Model, cfg.Classifier.Timeout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "classifier unavailable: %v\n", err)
		} else {
			gateway = gw
		}
	}
	return category.NewWithConfig(
		store.Cache(),
		category.NewDictionaryMatcher(category.DefaultKeywords()),
		gateway,
		category.Config{
			DictionaryThreshold: cfg.Resolver.DictionaryThreshold,
			MaxExamples:         cfg.Resolver.MaxExamples,
		},
	)
}

// newParseCmd parses a single message and prints the extracted structure
// without touching storage or the resolver.
func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <message>",
		Short: "Parse one message and print the extracted transaction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			parser := message.NewParser(currency.NewConverter(cfg.Currency.Base, cfg.Currency.Rates))
			parsed, err := parser.Parse(strings.Join(args, " "))
			if errors.Is(err, message.ErrNotTransaction) {
				return fmt.Errorf("not a transaction message")
			}
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(parsed, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

// newResolveCmd runs the category chain for a label.
func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <label>",
		Short: "Resolve the category for a transaction label",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			ctx := logger.WithContext(cmd.Context(), logger.NewWithLevel(cfg.Log.Level))
			resolver := buildResolver(ctx, cfg, store)

			cats, err := store.AllowedCategories(ctx, userID)
			if err != nil {
				return err
			}
			allowed := make([]string, 0, len(cats))
			for _, c := range cats {
				allowed = append(allowed, c.Name)
			}

			res := resolver.Resolve(ctx, strings.Join(args, " "), allowed, nil)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (confidence %.2f, via %s)\n", res.Category, res.Confidence, res.Source)
			return nil
		},
	}
	cmd.Flags().BoolVar(&useLLM, "llm", false, "consult the LLM classifier when the dictionary misses")
	return cmd
}

// newIngestCmd reads one message per line from stdin and ingests each.
func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest messages from stdin, one per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			log := logger.NewWithLevel(cfg.Log.Level)
			ctx := logger.WithContext(cmd.Context(), log)

			resolver := buildResolver(ctx, cfg, store)
			parser := message.NewParser(currency.NewConverter(cfg.Currency.Base, cfg.Currency.Rates))
			svc := ingest.NewService(parser, resolver, store)

			var ok, skipped int
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				tx, err := svc.IngestText(ctx, userID, line)
				if errors.Is(err, message.ErrNotTransaction) {
					fmt.Fprintf(os.Stderr, "skipped (not a transaction): %s\n", line)
					skipped++
					continue
				}
				if err != nil {
					return err
				}

				sign := "-"
				if !tx.IsExpense {
					sign = "+"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s %s  %s  [%s]\n",
					sign, tx.Amount.StringFixed(2), tx.Currency, tx.Label, tx.Category)
				ok++
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\ningested %d, skipped %d\n", ok, skipped)
			return nil
		},
	}
	cmd.Flags().BoolVar(&useLLM, "llm", false, "consult the LLM classifier when the dictionary misses")
	return cmd
}

// newCategoriesCmd prints the taxonomy.
func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the available categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			cats, err := store.AllowedCategories(cmd.Context(), userID)
			if err != nil {
				return err
			}
			for _, c := range cats {
				kind := "расход"
				if !c.IsExpense {
					kind = "доход"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", c.Emoji, c.Name, kind)
			}
			return nil
		},
	}
}
