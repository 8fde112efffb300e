package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"htscompass/internal/catalog"
	"htscompass/internal/config"
	"htscompass/internal/search"
	"htscompass/internal/service"
	"htscompass/internal/storage"
)

// initStorage initializes the catalog store with proper path expansion.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadTable loads the processed catalog into memory. The store is closed
// before returning; the table is self-contained.
func loadTable(ctx context.Context) (*catalog.Table, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	records, err := store.LoadRecords(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("catalog is empty - run `htscompass import` first")
	}
	return catalog.NewTable(records), nil
}

// initSearcher builds the semantic search client from config, or nil when
// no search service is configured (code and prefix queries still work).
func initSearcher() (service.Searcher, error) {
	baseURL := viper.GetString(config.KeySearchURL)
	if baseURL == "" {
		return nil, nil
	}
	return search.NewClient(search.Config{
		BaseURL: baseURL,
		Timeout: viper.GetDuration(config.KeySearchTimeout),
		Retry: service.RetryOptions{
			MaxAttempts: viper.GetInt(config.KeySearchRetries),
		},
	})
}
